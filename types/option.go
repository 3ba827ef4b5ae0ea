package types

// Option is a comparable optional value. The zero value is None.
type Option[T comparable] struct {
	Valid bool `cramberry:"1"`
	Value T    `cramberry:"2"`
}

// Some returns a populated Option.
func Some[T comparable](v T) Option[T] {
	return Option[T]{Valid: true, Value: v}
}

// None returns an empty Option.
func None[T comparable]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	if !o.Valid {
		var zero T
		return zero, false
	}
	return o.Value, true
}
