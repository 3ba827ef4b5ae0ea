package sealtest

import (
	"testing"

	"github.com/blockberries/sealberry"
	"github.com/blockberries/sealberry/types"
)

func TestMockEngine_Compliance(t *testing.T) {
	RunComplianceSuite(t, func() sealberry.Engine[types.Authority] {
		return &MockEngine[types.Authority]{Name: "mock", Genesis: types.Charlie}
	})
}

func TestMockEngine_Defaults(t *testing.T) {
	m := &MockEngine[uint64]{Genesis: 3}
	h := NewHarness[uint64](t, m)

	chain := h.BuildChain(3)
	for _, header := range chain {
		if header.ConsensusDigest != 3 {
			t.Fatalf("height %d: digest %d, want the copied genesis digest", header.Height, header.ConsensusDigest)
		}
	}
	if m.SealCalls.Load() != 3 {
		t.Fatalf("SealCalls = %d, want 3", m.SealCalls.Load())
	}
	h.MustVerify(chain)
	if m.ValidateCalls.Load() != 3 {
		t.Fatalf("ValidateCalls = %d, want 3", m.ValidateCalls.Load())
	}

	partial, ok := m.LastPartial()
	if !ok || partial.Height != 3 || partial.StateRoot != StateRoot(3) {
		t.Fatalf("LastPartial = %+v, %v", partial, ok)
	}
}

func TestMockEngine_Configured(t *testing.T) {
	m := &MockEngine[uint64]{
		ValidateFn: func(parent uint64, h types.Header[uint64]) bool { return h.ConsensusDigest > parent },
		SealFn: func(parent uint64, p types.PartialHeader) (types.Header[uint64], error) {
			return types.WithDigest(p, parent+1), nil
		},
	}
	h := NewHarness[uint64](t, m)
	chain := h.BuildChain(4)
	if chain[4].ConsensusDigest != 4 {
		t.Fatalf("tip digest = %d, want 4", chain[4].ConsensusDigest)
	}
	h.MustVerify(chain)
	h.MustReject(9, chain[2])

	if parent, ok := m.LastParent(); !ok || parent != 9 {
		t.Fatalf("LastParent = %d, %v; want 9", parent, ok)
	}
}
