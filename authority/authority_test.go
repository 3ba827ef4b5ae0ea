package authority_test

import (
	"errors"
	"math"
	"testing"

	"github.com/blockberries/sealberry"
	"github.com/blockberries/sealberry/authority"
	sealtest "github.com/blockberries/sealberry/testing"
	"github.com/blockberries/sealberry/types"
)

func authorityHeader(height uint64, signer types.Authority) types.Header[types.Authority] {
	return sealtest.MakeHeader(height, 0, signer)
}

func slotHeader(height, slot uint64, signer types.Authority) types.Header[types.SlotDigest] {
	return sealtest.MakeHeader(height, 0, types.SlotDigest{Slot: slot, Signature: signer})
}

// --- Roster ---

func TestParseRoster(t *testing.T) {
	r, err := authority.ParseRoster([]string{"alice", " Bob", "CHARLIE"})
	if err != nil {
		t.Fatalf("ParseRoster: %v", err)
	}
	if r.String() != "[Alice, Bob, Charlie]" {
		t.Fatalf("roster = %s", r)
	}
	if _, err := authority.ParseRoster([]string{"alice", "mallory"}); err == nil {
		t.Fatal("expected error for unknown authority")
	}
	if _, err := authority.ParseRoster([]string{"bob", "Bob"}); err == nil {
		t.Fatal("expected error for duplicate authority")
	}
}

func TestRosterAt(t *testing.T) {
	r := authority.DefaultRoster()
	for i, want := range []types.Authority{types.Alice, types.Bob, types.Charlie, types.Alice} {
		got, ok := r.At(uint64(i))
		if !ok || got != want {
			t.Fatalf("At(%d) = %s, %v; want %s", i, got, ok, want)
		}
	}
	if _, ok := authority.Roster(nil).At(0); ok {
		t.Fatal("At on empty roster should report false")
	}
}

func TestEngineCopiesRoster(t *testing.T) {
	r := authority.Roster{types.Alice, types.Bob}
	e := authority.NewAnyMember(r)
	r[0] = types.Eve
	if !e.Roster().Contains(types.Alice) || e.Roster().Contains(types.Eve) {
		t.Fatalf("engine roster changed with caller's slice: %s", e.Roster())
	}
}

// --- AnyMember ---

func TestAnyMemberRepeatsAllowed(t *testing.T) {
	anyMember := authority.NewAnyMember(authority.DefaultRoster())
	byHeight := authority.NewRoundRobinByHeight(authority.DefaultRoster())

	header := authorityHeader(1, types.Bob)
	if !anyMember.Validate(types.Alice, header) {
		t.Fatal("any-member: Bob on Alice should be valid")
	}
	if !anyMember.Validate(types.Bob, header) {
		t.Fatal("any-member: Bob on Bob should be valid")
	}
	if byHeight.Validate(types.Bob, header) {
		t.Fatal("round-robin-by-height: Bob on Bob should be invalid")
	}
}

func TestAnyMemberRejectsOutsiders(t *testing.T) {
	e := authority.NewAnyMember(authority.DefaultRoster())
	if e.Validate(types.Alice, authorityHeader(1, types.Eve)) {
		t.Fatal("non-member signer accepted")
	}
	if e.Validate(types.Dave, authorityHeader(1, types.Bob)) {
		t.Fatal("non-member parent accepted")
	}
}

func TestAnyMemberSeal(t *testing.T) {
	e := authority.NewAnyMember(authority.DefaultRoster())
	partial := sealtest.MakePartial(0, 1, 0)

	h, err := e.Seal(types.Alice, partial)
	if err != nil || h.ConsensusDigest != types.Charlie {
		t.Fatalf("Seal on Alice = %s, %v; want Charlie", h.ConsensusDigest, err)
	}
	h, err = e.Seal(types.Charlie, partial)
	if err != nil || h.ConsensusDigest != types.Alice {
		t.Fatalf("Seal on Charlie = %s, %v; want Alice", h.ConsensusDigest, err)
	}
}

func TestAnyMemberSingleMember(t *testing.T) {
	e := authority.NewAnyMember(authority.Roster{types.Dave})
	h := sealtest.NewHarness[types.Authority](t, e)
	chain := h.BuildChain(4)
	for _, header := range chain {
		if header.ConsensusDigest != types.Dave {
			t.Fatalf("height %d signed by %s", header.Height, header.ConsensusDigest)
		}
	}
	h.MustVerify(chain)
}

// --- RoundRobinByHeight ---

func TestRoundRobinByHeightSchedule(t *testing.T) {
	e := authority.NewRoundRobinByHeight(authority.DefaultRoster())
	h := sealtest.NewHarness[types.Authority](t, e)

	h.MustValidate(types.Alice, authorityHeader(1, types.Bob))
	h.MustValidate(types.Bob, authorityHeader(2, types.Charlie))
	h.MustValidate(types.Charlie, authorityHeader(3, types.Alice))
	// Height 0 wraps to the last member as parent.
	h.MustValidate(types.Charlie, authorityHeader(0, types.Alice))

	h.MustReject(types.Alice, authorityHeader(1, types.Charlie))
	h.MustReject(types.Charlie, authorityHeader(1, types.Bob))
}

func TestRoundRobinByHeightSealParentMismatch(t *testing.T) {
	e := authority.NewRoundRobinByHeight(authority.DefaultRoster())
	h := sealtest.NewHarness[types.Authority](t, e)
	h.MustFailSeal(types.Bob, sealtest.MakePartial(0, 1, 0), sealberry.ErrParentMismatch)

	header, err := e.Seal(types.Alice, sealtest.MakePartial(0, 1, 0))
	if err != nil || header.ConsensusDigest != types.Bob {
		t.Fatalf("Seal = %s, %v; want Bob", header.ConsensusDigest, err)
	}
}

func TestRoundRobinByHeightPure(t *testing.T) {
	e := authority.NewRoundRobinByHeight(authority.DefaultRoster())
	header := authorityHeader(4, types.Bob)
	first := e.Validate(types.Alice, header)
	for i := 0; i < 10; i++ {
		if e.Validate(types.Alice, header) != first {
			t.Fatal("Validate is not a pure function of its inputs")
		}
	}
}

func TestRoundRobinByHeightSingleMember(t *testing.T) {
	e := authority.NewRoundRobinByHeight(authority.Roster{types.Eve})
	for height := uint64(0); height < 5; height++ {
		if !e.Validate(types.Eve, authorityHeader(height, types.Eve)) {
			t.Fatalf("height %d: single member rejected", height)
		}
	}
}

// --- RoundRobinBySlot ---

func TestRoundRobinBySlotSkips(t *testing.T) {
	e := authority.NewRoundRobinBySlot(authority.DefaultRoster())
	chain := []types.Header[types.SlotDigest]{
		slotHeader(0, 0, types.Alice),
		slotHeader(1, 1, types.Bob),
		slotHeader(2, 3, types.Alice),
		slotHeader(3, 4, types.Bob),
	}
	for i := 1; i < len(chain); i++ {
		if !e.Validate(chain[i-1].ConsensusDigest, chain[i]) {
			t.Fatalf("slot %d rejected", chain[i].ConsensusDigest.Slot)
		}
	}
	if !e.VerifySubChain(chain[0].ConsensusDigest, chain[1:]) {
		t.Fatal("sub chain with skipped slot rejected")
	}
}

func TestRoundRobinBySlotRejectsRepeat(t *testing.T) {
	e := authority.NewRoundRobinBySlot(authority.DefaultRoster())
	chain := []types.Header[types.SlotDigest]{
		slotHeader(0, 0, types.Alice),
		slotHeader(1, 1, types.Bob),
		slotHeader(2, 1, types.Bob),
	}
	idx, found := sealberry.FirstInvalid[types.SlotDigest](e, chain[0].ConsensusDigest, chain[1:])
	if !found || idx != 1 {
		t.Fatalf("FirstInvalid = %d, %v; want 1, true", idx, found)
	}
	if e.VerifySubChain(chain[0].ConsensusDigest, chain[1:]) {
		t.Fatal("repeated slot accepted")
	}
	if e.Validate(types.SlotDigest{Slot: 5, Signature: types.Charlie}, slotHeader(3, 4, types.Bob)) {
		t.Fatal("decreasing slot accepted")
	}
}

func TestRoundRobinBySlotIgnoresHeight(t *testing.T) {
	e := authority.NewRoundRobinBySlot(authority.DefaultRoster())
	parent := types.SlotDigest{Slot: 6, Signature: types.Alice}
	for _, height := range []uint64{0, 1, 2, 100} {
		if !e.Validate(parent, slotHeader(height, 7, types.Bob)) {
			t.Fatalf("height %d changed the outcome", height)
		}
	}
	if e.Validate(parent, slotHeader(7, 7, types.Charlie)) {
		t.Fatal("wrong signer for slot accepted")
	}
}

func TestRoundRobinBySlotSeal(t *testing.T) {
	e := authority.NewRoundRobinBySlot(authority.DefaultRoster())
	h, err := e.Seal(types.SlotDigest{Slot: 4, Signature: types.Bob}, sealtest.MakePartial(0, 9, 0))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	want := types.SlotDigest{Slot: 5, Signature: types.Charlie}
	if h.ConsensusDigest != want {
		t.Fatalf("digest = %s, want %s", h.ConsensusDigest, want)
	}

	_, err = e.Seal(types.SlotDigest{Slot: math.MaxUint64}, sealtest.MakePartial(0, 1, 0))
	if !errors.Is(err, sealberry.ErrSlotOverflow) {
		t.Fatalf("expected ErrSlotOverflow, got %v", err)
	}
}

// --- Empty roster ---

func TestEmptyRoster(t *testing.T) {
	partial := sealtest.MakePartial(0, 1, 0)

	anyMember := authority.NewAnyMember(nil)
	if anyMember.Validate(types.Alice, authorityHeader(1, types.Alice)) {
		t.Fatal("any-member: empty roster accepted a header")
	}
	sealtest.NewHarness[types.Authority](t, anyMember).MustFailSeal(types.Alice, partial, sealberry.ErrEmptyRoster)

	byHeight := authority.NewRoundRobinByHeight(authority.Roster{})
	if byHeight.Validate(types.Alice, authorityHeader(1, types.Alice)) {
		t.Fatal("round-robin-by-height: empty roster accepted a header")
	}
	sealtest.NewHarness[types.Authority](t, byHeight).MustFailSeal(types.Alice, partial, sealberry.ErrEmptyRoster)

	bySlot := authority.NewRoundRobinBySlot(nil)
	if bySlot.Validate(types.SlotDigest{}, slotHeader(1, 1, types.Alice)) {
		t.Fatal("round-robin-by-slot: empty roster accepted a header")
	}
	sealtest.NewHarness[types.SlotDigest](t, bySlot).MustFailSeal(types.SlotDigest{}, partial, sealberry.ErrEmptyRoster)
}

// --- Compliance ---

func TestAnyMemberCompliance(t *testing.T) {
	sealtest.RunComplianceSuite(t, func() sealberry.Engine[types.Authority] {
		return authority.NewAnyMember(authority.DefaultRoster())
	})
}

func TestRoundRobinByHeightCompliance(t *testing.T) {
	sealtest.RunComplianceSuite(t, func() sealberry.Engine[types.Authority] {
		return authority.NewRoundRobinByHeight(authority.Roster{types.Bob, types.Dave, types.Eve, types.Alice})
	})
}

func TestRoundRobinBySlotCompliance(t *testing.T) {
	sealtest.RunComplianceSuite(t, func() sealberry.Engine[types.SlotDigest] {
		return authority.NewRoundRobinBySlot(authority.DefaultRoster())
	})
}
