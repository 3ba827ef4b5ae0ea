package sealtest

import (
	"errors"
	"testing"

	"github.com/blockberries/sealberry"
	"github.com/blockberries/sealberry/types"
)

// Harness provides a convenient test harness for engine developers:
// it grows chains through Seal and asserts on Validate.
type Harness[D comparable] struct {
	t      *testing.T
	engine sealberry.Engine[D]
}

// NewHarness creates a test harness wrapping the given engine.
func NewHarness[D comparable](t *testing.T, engine sealberry.Engine[D]) *Harness[D] {
	t.Helper()
	return &Harness[D]{t: t, engine: engine}
}

// Engine returns the underlying engine for direct access.
func (h *Harness[D]) Engine() sealberry.Engine[D] {
	return h.engine
}

// Genesis returns a genesis header carrying the engine's genesis
// digest and a zero state root.
func (h *Harness[D]) Genesis() types.Header[D] {
	return types.Genesis(0, sealberry.GenesisDigest(h.engine))
}

// SealChild seals a child of parent with the given state root.
func (h *Harness[D]) SealChild(parent types.Header[D], stateRoot uint64) types.Header[D] {
	h.t.Helper()
	partial := parent.Child(stateRoot, ExtrinsicsRoot(parent.Height+1))
	header, err := h.engine.Seal(parent.ConsensusDigest, partial)
	if err != nil {
		h.t.Fatalf("Seal (height=%d) failed: %v", partial.Height, err)
	}
	return header
}

// BuildChain seals n headers on top of a fresh genesis and returns the
// whole chain, genesis first. State roots follow StateRoot.
func (h *Harness[D]) BuildChain(n int) []types.Header[D] {
	h.t.Helper()
	chain := make([]types.Header[D], 0, n+1)
	chain = append(chain, h.Genesis())
	for i := 1; i <= n; i++ {
		chain = append(chain, h.SealChild(chain[i-1], StateRoot(uint64(i))))
	}
	return chain
}

// MustValidate asserts that header is valid on top of parent.
func (h *Harness[D]) MustValidate(parent D, header types.Header[D]) {
	h.t.Helper()
	if !h.engine.Validate(parent, header) {
		h.t.Fatalf("expected header at height %d to be valid (parent digest %v, digest %v)",
			header.Height, parent, header.ConsensusDigest)
	}
}

// MustReject asserts that header is invalid on top of parent.
func (h *Harness[D]) MustReject(parent D, header types.Header[D]) {
	h.t.Helper()
	if h.engine.Validate(parent, header) {
		h.t.Fatalf("expected header at height %d to be rejected (parent digest %v, digest %v)",
			header.Height, parent, header.ConsensusDigest)
	}
}

// MustFailSeal asserts that sealing fails with reason.
func (h *Harness[D]) MustFailSeal(parent D, partial types.PartialHeader, reason error) *sealberry.SealError {
	h.t.Helper()
	_, err := h.engine.Seal(parent, partial)
	if err == nil {
		h.t.Fatalf("expected seal at height %d to fail", partial.Height)
	}
	sealErr, ok := sealberry.IsSealFailure(err)
	if !ok {
		h.t.Fatalf("expected *SealError, got %T: %v", err, err)
	}
	if reason != nil && !errors.Is(err, reason) {
		h.t.Fatalf("expected seal failure %v, got %v", reason, err)
	}
	return sealErr
}

// MustVerify asserts that the chain, genesis first, verifies as a sub
// chain on top of the genesis digest.
func (h *Harness[D]) MustVerify(chain []types.Header[D]) {
	h.t.Helper()
	if len(chain) < 3 {
		h.t.Fatalf("MustVerify needs genesis plus at least two headers, got %d", len(chain))
	}
	if !h.engine.VerifySubChain(chain[0].ConsensusDigest, chain[1:]) {
		idx, _ := sealberry.FirstInvalid[D](h.engine, chain[0].ConsensusDigest, chain[1:])
		h.t.Fatalf("chain failed verification at height %d", chain[idx+1].Height)
	}
}

// --- Helper Factories ---

// StateRoot is the state root the harness uses at height. Odd heights
// produce odd roots so EvenOnly behavior is exercised.
func StateRoot(height uint64) uint64 {
	return height * 7
}

// ExtrinsicsRoot returns a deterministic extrinsics root for height.
func ExtrinsicsRoot(height uint64) uint64 {
	sum, err := types.HashValue(types.DefaultHasher, []uint64{height + 1, height + 2, height + 3})
	if err != nil {
		panic(err)
	}
	return sum
}

// MakePartial creates a partial header at the given height.
func MakePartial(parent, height, stateRoot uint64) types.PartialHeader {
	return types.PartialHeader{
		Parent:         parent,
		Height:         height,
		StateRoot:      stateRoot,
		ExtrinsicsRoot: ExtrinsicsRoot(height),
	}
}

// MakeHeader creates a complete header at the given height.
func MakeHeader[D any](height, stateRoot uint64, digest D) types.Header[D] {
	return types.WithDigest(MakePartial(0, height, stateRoot), digest)
}
