package sealberry

import (
	"errors"
	"fmt"
)

// Seal failure reasons. A SealError always wraps one of these.
var (
	ErrEmptyRoster       = errors.New("authority roster is empty")
	ErrParentMismatch    = errors.New("parent digest was not signed by the expected authority")
	ErrSearchExhausted   = errors.New("proof-of-work search exhausted")
	ErrSearchCanceled    = errors.New("proof-of-work search canceled")
	ErrMissingSlot       = errors.New("digest slot for the active engine is absent")
	ErrSlotOverflow      = errors.New("slot counter overflow")
	ErrStateRootOverflow = errors.New("state root cannot be made even")
)

// SealError signals that an engine could not produce a header. It
// stands for the absent result of a seal: the header returned beside it
// is the zero value and must not be used.
type SealError struct {
	Engine string
	Height uint64
	Err    error
}

func (e *SealError) Error() string {
	return fmt.Sprintf("%s: seal failed at height %d: %v", e.Engine, e.Height, e.Err)
}

func (e *SealError) Unwrap() error { return e.Err }

// NewSealError creates a new SealError.
func NewSealError(engine string, height uint64, err error) *SealError {
	return &SealError{Engine: engine, Height: height, Err: err}
}

// IsSealFailure checks whether an error is a SealError and returns it.
func IsSealFailure(err error) (*SealError, bool) {
	var s *SealError
	if errors.As(err, &s) {
		return s, true
	}
	return nil, false
}
