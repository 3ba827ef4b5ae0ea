package combinator

import (
	"context"
	"math"

	"github.com/blockberries/sealberry"
	"github.com/blockberries/sealberry/types"
)

// EvenOnly wraps an engine and additionally requires headers to carry
// an even state root.
type EvenOnly[D comparable] struct {
	inner sealberry.Engine[D]
}

// NewEvenOnly wraps inner.
func NewEvenOnly[D comparable](inner sealberry.Engine[D]) *EvenOnly[D] {
	return &EvenOnly[D]{inner: inner}
}

// Inner returns the wrapped engine.
func (e *EvenOnly[D]) Inner() sealberry.Engine[D] { return e.inner }

func (e *EvenOnly[D]) Validate(parent D, header types.Header[D]) bool {
	return header.StateRoot%2 == 0 && e.inner.Validate(parent, header)
}

// Seal bumps an odd state root to the next even value and lets the
// inner engine seal the result. The returned header's state root then
// no longer matches the state the caller computed it from.
func (e *EvenOnly[D]) Seal(parent D, partial types.PartialHeader) (types.Header[D], error) {
	return e.SealContext(context.Background(), parent, partial)
}

// SealContext is Seal with ctx passed to the inner engine.
func (e *EvenOnly[D]) SealContext(ctx context.Context, parent D, partial types.PartialHeader) (types.Header[D], error) {
	if partial.StateRoot%2 == 1 {
		if partial.StateRoot == math.MaxUint64 {
			return types.Header[D]{}, sealberry.NewSealError(e.HumanName(), partial.Height, sealberry.ErrStateRootOverflow)
		}
		partial.StateRoot++
	}
	return sealberry.SealContext(ctx, e.inner, parent, partial)
}

func (e *EvenOnly[D]) VerifySubChain(parent D, headers []types.Header[D]) bool {
	return sealberry.VerifySubChain[D](e, parent, headers)
}

// Default wraps the inner engine's default instance.
func (e *EvenOnly[D]) Default() sealberry.Engine[D] {
	return NewEvenOnly(e.inner.Default())
}

func (e *EvenOnly[D]) HumanName() string {
	return "Even-Only " + e.inner.HumanName()
}

// GenesisDigest forwards to the inner engine.
func (e *EvenOnly[D]) GenesisDigest() D {
	return sealberry.GenesisDigest(e.inner)
}
