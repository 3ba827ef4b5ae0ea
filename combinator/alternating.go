package combinator

import (
	"context"
	"fmt"

	"github.com/blockberries/sealberry"
	"github.com/blockberries/sealberry/types"
)

// AlternatingDigest carries one slot per interleaved engine. A slot
// holds the digest of the engine's most recent turn; the slot of the
// engine that did not seal a header is inherited from its parent.
type AlternatingDigest[PD, QD comparable] struct {
	P types.Option[PD] `cramberry:"1"`
	Q types.Option[QD] `cramberry:"2"`
}

func (d AlternatingDigest[PD, QD]) String() string {
	return fmt.Sprintf("{P: %s, Q: %s}", optionString(d.P), optionString(d.Q))
}

func optionString[T comparable](o types.Option[T]) string {
	if v, ok := o.Get(); ok {
		return fmt.Sprint(v)
	}
	return "none"
}

// Alternating interleaves two engines: P seals odd heights, Q seals
// even heights. Each engine sees a chain made only of its own turns,
// with the other engine's headers invisible to it. Inner engines that
// schedule by header height, such as authority.RoundRobinByHeight, do
// not fit here: heights keep counting the other engine's turns.
//
// Validate and Seal fail closed when the active engine's slot is
// missing from the parent or the header.
type Alternating[PD, QD comparable] struct {
	p sealberry.Engine[PD]
	q sealberry.Engine[QD]
}

// NewAlternating interleaves p and q.
func NewAlternating[PD, QD comparable](p sealberry.Engine[PD], q sealberry.Engine[QD]) *Alternating[PD, QD] {
	return &Alternating[PD, QD]{p: p, q: q}
}

// P returns the engine sealing odd heights.
func (a *Alternating[PD, QD]) P() sealberry.Engine[PD] { return a.p }

// Q returns the engine sealing even heights.
func (a *Alternating[PD, QD]) Q() sealberry.Engine[QD] { return a.q }

func pTurn(height uint64) bool { return height%2 == 1 }

func (a *Alternating[PD, QD]) Validate(parent AlternatingDigest[PD, QD], header types.Header[AlternatingDigest[PD, QD]]) bool {
	d := header.ConsensusDigest
	if pTurn(header.Height) {
		pp, ok := parent.P.Get()
		if !ok {
			return false
		}
		hp, ok := d.P.Get()
		if !ok || d.Q != parent.Q {
			return false
		}
		return a.p.Validate(pp, types.WithDigest(header.Partial(), hp))
	}
	pq, ok := parent.Q.Get()
	if !ok {
		return false
	}
	hq, ok := d.Q.Get()
	if !ok || d.P != parent.P {
		return false
	}
	return a.q.Validate(pq, types.WithDigest(header.Partial(), hq))
}

func (a *Alternating[PD, QD]) Seal(parent AlternatingDigest[PD, QD], partial types.PartialHeader) (types.Header[AlternatingDigest[PD, QD]], error) {
	return a.SealContext(context.Background(), parent, partial)
}

// SealContext is Seal with ctx passed to the active engine.
func (a *Alternating[PD, QD]) SealContext(ctx context.Context, parent AlternatingDigest[PD, QD], partial types.PartialHeader) (types.Header[AlternatingDigest[PD, QD]], error) {
	if pTurn(partial.Height) {
		pp, ok := parent.P.Get()
		if !ok {
			return types.Header[AlternatingDigest[PD, QD]]{}, sealberry.NewSealError(a.HumanName(), partial.Height, sealberry.ErrMissingSlot)
		}
		h, err := sealberry.SealContext(ctx, a.p, pp, partial)
		if err != nil {
			return types.Header[AlternatingDigest[PD, QD]]{}, err
		}
		return types.Project(h, func(d PD) AlternatingDigest[PD, QD] {
			return AlternatingDigest[PD, QD]{P: types.Some(d), Q: parent.Q}
		}), nil
	}
	pq, ok := parent.Q.Get()
	if !ok {
		return types.Header[AlternatingDigest[PD, QD]]{}, sealberry.NewSealError(a.HumanName(), partial.Height, sealberry.ErrMissingSlot)
	}
	h, err := sealberry.SealContext(ctx, a.q, pq, partial)
	if err != nil {
		return types.Header[AlternatingDigest[PD, QD]]{}, err
	}
	return types.Project(h, func(d QD) AlternatingDigest[PD, QD] {
		return AlternatingDigest[PD, QD]{P: parent.P, Q: types.Some(d)}
	}), nil
}

func (a *Alternating[PD, QD]) VerifySubChain(parent AlternatingDigest[PD, QD], headers []types.Header[AlternatingDigest[PD, QD]]) bool {
	return sealberry.VerifySubChain[AlternatingDigest[PD, QD]](a, parent, headers)
}

// Default interleaves the default instances of both engines.
func (a *Alternating[PD, QD]) Default() sealberry.Engine[AlternatingDigest[PD, QD]] {
	return NewAlternating(a.p.Default(), a.q.Default())
}

func (a *Alternating[PD, QD]) HumanName() string {
	return fmt.Sprintf("Alternating(%s, %s)", a.p.HumanName(), a.q.HumanName())
}

// GenesisDigest populates both slots with the engines' genesis digests,
// so each engine's first turn has a parent to build on.
func (a *Alternating[PD, QD]) GenesisDigest() AlternatingDigest[PD, QD] {
	return AlternatingDigest[PD, QD]{
		P: types.Some(sealberry.GenesisDigest(a.p)),
		Q: types.Some(sealberry.GenesisDigest(a.q)),
	}
}
