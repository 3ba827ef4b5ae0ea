package combinator

import (
	"context"
	"fmt"

	"github.com/blockberries/sealberry"
	"github.com/blockberries/sealberry/types"
)

// DefaultForkHeight is the fork height of default instances.
const DefaultForkHeight = 10

// Forked runs one engine up to and including the fork height and
// another above it. D is the digest the combined chain carries; the
// Conversion projects it onto each engine's native digest.
//
// A header's own digest must survive the round trip through the active
// engine's projection, so a digest of the wrong kind is rejected
// instead of being read as a placeholder. The parent digest is only
// projected: on the first header after the fork the parent was produced
// by the other engine and projects to a placeholder.
type Forked[D, BD, AD comparable] struct {
	forkHeight uint64
	before     sealberry.Engine[BD]
	after      sealberry.Engine[AD]
	convFor    ConversionFor[D, BD, AD]
	conv       Conversion[D, BD, AD]
}

// NewForked creates a forked engine with a fixed conversion. It panics
// if any conversion function is nil.
func NewForked[D, BD, AD comparable](forkHeight uint64, before sealberry.Engine[BD], after sealberry.Engine[AD], conv Conversion[D, BD, AD]) *Forked[D, BD, AD] {
	return NewForkedWith[D, BD, AD](forkHeight, before, after, func(sealberry.Engine[BD], sealberry.Engine[AD]) Conversion[D, BD, AD] {
		return conv
	})
}

// NewForkedWith creates a forked engine whose conversion is derived
// from its engines. It panics if the derived conversion has a nil
// function.
func NewForkedWith[D, BD, AD comparable](forkHeight uint64, before sealberry.Engine[BD], after sealberry.Engine[AD], convFor ConversionFor[D, BD, AD]) *Forked[D, BD, AD] {
	conv := convFor(before, after)
	if err := conv.check(); err != nil {
		panic(fmt.Sprintf("combinator: forked engine: %v", err))
	}
	return &Forked[D, BD, AD]{
		forkHeight: forkHeight,
		before:     before,
		after:      after,
		convFor:    convFor,
		conv:       conv,
	}
}

// ForkHeight returns the last height governed by the before engine.
func (f *Forked[D, BD, AD]) ForkHeight() uint64 { return f.forkHeight }

// Before returns the engine governing heights up to the fork.
func (f *Forked[D, BD, AD]) Before() sealberry.Engine[BD] { return f.before }

// After returns the engine governing heights above the fork.
func (f *Forked[D, BD, AD]) After() sealberry.Engine[AD] { return f.after }

// Conversion returns the digest conversion in use.
func (f *Forked[D, BD, AD]) Conversion() Conversion[D, BD, AD] { return f.conv }

// IsAfterFork reports whether height is governed by the after engine.
func (f *Forked[D, BD, AD]) IsAfterFork(height uint64) bool {
	return height > f.forkHeight
}

func (f *Forked[D, BD, AD]) Validate(parent D, header types.Header[D]) bool {
	d := header.ConsensusDigest
	if f.IsAfterFork(header.Height) {
		native := f.conv.ToAfter(d)
		if f.conv.FromAfter(native) != d {
			return false
		}
		return f.after.Validate(f.conv.ToAfter(parent), types.WithDigest(header.Partial(), native))
	}
	native := f.conv.ToBefore(d)
	if f.conv.FromBefore(native) != d {
		return false
	}
	return f.before.Validate(f.conv.ToBefore(parent), types.WithDigest(header.Partial(), native))
}

func (f *Forked[D, BD, AD]) Seal(parent D, partial types.PartialHeader) (types.Header[D], error) {
	return f.SealContext(context.Background(), parent, partial)
}

// SealContext is Seal with ctx passed to the active engine.
func (f *Forked[D, BD, AD]) SealContext(ctx context.Context, parent D, partial types.PartialHeader) (types.Header[D], error) {
	if f.IsAfterFork(partial.Height) {
		h, err := sealberry.SealContext(ctx, f.after, f.conv.ToAfter(parent), partial)
		if err != nil {
			return types.Header[D]{}, err
		}
		return types.Project(h, f.conv.FromAfter), nil
	}
	h, err := sealberry.SealContext(ctx, f.before, f.conv.ToBefore(parent), partial)
	if err != nil {
		return types.Header[D]{}, err
	}
	return types.Project(h, f.conv.FromBefore), nil
}

// VerifySubChain validates a run of headers, each under the engine its
// own height selects, so a run may straddle the fork.
func (f *Forked[D, BD, AD]) VerifySubChain(parent D, headers []types.Header[D]) bool {
	return sealberry.VerifySubChain[D](f, parent, headers)
}

// Default forks the default instances of both engines at
// DefaultForkHeight, deriving the conversion afresh.
func (f *Forked[D, BD, AD]) Default() sealberry.Engine[D] {
	return NewForkedWith(DefaultForkHeight, f.before.Default(), f.after.Default(), f.convFor)
}

func (f *Forked[D, BD, AD]) HumanName() string {
	return fmt.Sprintf("Forked(%s until height %d, then %s)", f.before.HumanName(), f.forkHeight, f.after.HumanName())
}

// GenesisDigest is the before engine's genesis digest.
func (f *Forked[D, BD, AD]) GenesisDigest() D {
	return f.conv.FromBefore(sealberry.GenesisDigest(f.before))
}
