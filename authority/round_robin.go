package authority

import (
	"math"

	"github.com/blockberries/sealberry"
	"github.com/blockberries/sealberry/types"
)

const (
	RoundRobinByHeightName = "Round-Robin-by-Height Authority"
	RoundRobinBySlotName   = "Round-Robin-by-Slot Authority"
)

var (
	_ sealberry.Engine[types.Authority]           = (*RoundRobinByHeight)(nil)
	_ sealberry.GenesisDigester[types.Authority]  = (*RoundRobinByHeight)(nil)
	_ sealberry.Engine[types.SlotDigest]          = (*RoundRobinBySlot)(nil)
	_ sealberry.GenesisDigester[types.SlotDigest] = (*RoundRobinBySlot)(nil)
)

// RoundRobinByHeight schedules roster[height mod n] to sign at each
// height. The schedule is circular, so the parent of height 0 would
// have been signed by the last member.
type RoundRobinByHeight struct {
	roster Roster
}

// NewRoundRobinByHeight creates an engine over a copy of roster.
func NewRoundRobinByHeight(roster Roster) *RoundRobinByHeight {
	return &RoundRobinByHeight{roster: roster.Clone()}
}

// Roster returns a copy of the engine's roster.
func (e *RoundRobinByHeight) Roster() Roster { return e.roster.Clone() }

// Expected returns the signer scheduled at height.
func (e *RoundRobinByHeight) Expected(height uint64) (types.Authority, bool) {
	return e.roster.At(height)
}

// expectedParent returns the signer scheduled one height below.
func (e *RoundRobinByHeight) expectedParent(height uint64) (types.Authority, bool) {
	n := uint64(e.roster.Len())
	if n == 0 {
		return 0, false
	}
	return e.roster.At((height%n + n - 1) % n)
}

func (e *RoundRobinByHeight) Validate(parent types.Authority, header types.Header[types.Authority]) bool {
	signer, ok := e.Expected(header.Height)
	if !ok || header.ConsensusDigest != signer {
		return false
	}
	want, _ := e.expectedParent(header.Height)
	return parent == want
}

// Seal signs with the scheduled member. It refuses to extend a parent
// that was not signed by the member scheduled before it.
func (e *RoundRobinByHeight) Seal(parent types.Authority, partial types.PartialHeader) (types.Header[types.Authority], error) {
	signer, ok := e.Expected(partial.Height)
	if !ok {
		return types.Header[types.Authority]{}, sealberry.NewSealError(RoundRobinByHeightName, partial.Height, sealberry.ErrEmptyRoster)
	}
	if want, _ := e.expectedParent(partial.Height); parent != want {
		return types.Header[types.Authority]{}, sealberry.NewSealError(RoundRobinByHeightName, partial.Height, sealberry.ErrParentMismatch)
	}
	return types.WithDigest(partial, signer), nil
}

func (e *RoundRobinByHeight) VerifySubChain(parent types.Authority, headers []types.Header[types.Authority]) bool {
	return sealberry.VerifySubChain[types.Authority](e, parent, headers)
}

// Default returns an engine over DefaultRoster.
func (e *RoundRobinByHeight) Default() sealberry.Engine[types.Authority] {
	return NewRoundRobinByHeight(DefaultRoster())
}

func (e *RoundRobinByHeight) HumanName() string { return RoundRobinByHeightName }

// GenesisDigest is the member scheduled at height 0.
func (e *RoundRobinByHeight) GenesisDigest() types.Authority {
	a, _ := e.Expected(0)
	return a
}

// RoundRobinBySlot schedules roster[slot mod n] to sign each slot.
// Heights play no part: slots must strictly increase along the chain
// but may skip, so an absent authority costs a slot, not the chain.
type RoundRobinBySlot struct {
	roster Roster
}

// NewRoundRobinBySlot creates an engine over a copy of roster.
func NewRoundRobinBySlot(roster Roster) *RoundRobinBySlot {
	return &RoundRobinBySlot{roster: roster.Clone()}
}

// Roster returns a copy of the engine's roster.
func (e *RoundRobinBySlot) Roster() Roster { return e.roster.Clone() }

// Expected returns the signer scheduled for slot.
func (e *RoundRobinBySlot) Expected(slot uint64) (types.Authority, bool) {
	return e.roster.At(slot)
}

func (e *RoundRobinBySlot) Validate(parent types.SlotDigest, header types.Header[types.SlotDigest]) bool {
	d := header.ConsensusDigest
	signer, ok := e.Expected(d.Slot)
	if !ok || d.Signature != signer {
		return false
	}
	return parent.Slot < d.Slot
}

// Seal claims the slot right after the parent's. Callers that want to
// skip slots build the digest themselves.
func (e *RoundRobinBySlot) Seal(parent types.SlotDigest, partial types.PartialHeader) (types.Header[types.SlotDigest], error) {
	if e.roster.Len() == 0 {
		return types.Header[types.SlotDigest]{}, sealberry.NewSealError(RoundRobinBySlotName, partial.Height, sealberry.ErrEmptyRoster)
	}
	if parent.Slot == math.MaxUint64 {
		return types.Header[types.SlotDigest]{}, sealberry.NewSealError(RoundRobinBySlotName, partial.Height, sealberry.ErrSlotOverflow)
	}
	slot := parent.Slot + 1
	signer, _ := e.Expected(slot)
	return types.WithDigest(partial, types.SlotDigest{Slot: slot, Signature: signer}), nil
}

func (e *RoundRobinBySlot) VerifySubChain(parent types.SlotDigest, headers []types.Header[types.SlotDigest]) bool {
	return sealberry.VerifySubChain[types.SlotDigest](e, parent, headers)
}

// Default returns an engine over DefaultRoster.
func (e *RoundRobinBySlot) Default() sealberry.Engine[types.SlotDigest] {
	return NewRoundRobinBySlot(DefaultRoster())
}

func (e *RoundRobinBySlot) HumanName() string { return RoundRobinBySlotName }

// GenesisDigest is slot 0, signed by its scheduled member.
func (e *RoundRobinBySlot) GenesisDigest() types.SlotDigest {
	a, _ := e.Expected(0)
	return types.SlotDigest{Slot: 0, Signature: a}
}
