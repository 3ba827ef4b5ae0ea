package sealtest

import (
	"context"
	"sync"
	"testing"

	"github.com/blockberries/sealberry"
)

// ComplianceChainLength is the number of headers the suite seals on top
// of genesis. It crosses the default fork height.
const ComplianceChainLength = 14

// RunComplianceSuite runs the engine compliance checks against engines
// produced by factory. Each subtest gets a fresh engine.
func RunComplianceSuite[D comparable](t *testing.T, factory func() sealberry.Engine[D]) {
	t.Helper()

	t.Run("HumanName", func(t *testing.T) {
		e := factory()
		if e.HumanName() == "" {
			t.Fatal("HumanName must not be empty")
		}
		if e.Default().HumanName() == "" {
			t.Fatal("default instance HumanName must not be empty")
		}
	})

	t.Run("SealedChainValidates", func(t *testing.T) {
		h := NewHarness(t, factory())
		chain := h.BuildChain(ComplianceChainLength)
		for i := 1; i < len(chain); i++ {
			h.MustValidate(chain[i-1].ConsensusDigest, chain[i])
		}
		h.MustVerify(chain)
	})

	t.Run("SealPreservesHeaderFields", func(t *testing.T) {
		h := NewHarness(t, factory())
		parent := h.Genesis()
		for i := uint64(1); i <= ComplianceChainLength; i++ {
			partial := parent.Child(StateRoot(i), ExtrinsicsRoot(i))
			header, err := h.Engine().Seal(parent.ConsensusDigest, partial)
			if err != nil {
				t.Fatalf("Seal (height=%d): %v", i, err)
			}
			if header.Parent != partial.Parent {
				t.Fatalf("height %d: parent changed from %d to %d", i, partial.Parent, header.Parent)
			}
			if header.Height != partial.Height {
				t.Fatalf("height changed from %d to %d", partial.Height, header.Height)
			}
			if header.ExtrinsicsRoot != partial.ExtrinsicsRoot {
				t.Fatalf("height %d: extrinsics root changed", i)
			}
			parent = header
		}
	})

	t.Run("VerifySubChainEdgeCases", func(t *testing.T) {
		h := NewHarness(t, factory())
		chain := h.BuildChain(2)
		genesis := chain[0].ConsensusDigest
		if !h.Engine().VerifySubChain(genesis, nil) {
			t.Fatal("empty sub chain must verify")
		}
		if h.Engine().VerifySubChain(genesis, chain[1:2]) {
			t.Fatal("single header sub chain must not verify")
		}
		if !h.Engine().VerifySubChain(genesis, chain[1:]) {
			t.Fatal("two header sub chain must verify")
		}
	})

	t.Run("DeterministicSeal", func(t *testing.T) {
		a := NewHarness(t, factory()).BuildChain(ComplianceChainLength)
		b := NewHarness(t, factory()).BuildChain(ComplianceChainLength)
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("height %d: sealing is not deterministic: %+v != %+v", i, a[i], b[i])
			}
		}
	})

	t.Run("DefaultInstanceSeals", func(t *testing.T) {
		h := NewHarness(t, factory().Default())
		h.MustVerify(h.BuildChain(ComplianceChainLength))
	})

	t.Run("ParallelMatchesSequential", func(t *testing.T) {
		h := NewHarness(t, factory())
		chain := h.BuildChain(ComplianceChainLength)
		genesis := chain[0].ConsensusDigest
		seq := h.Engine().VerifySubChain(genesis, chain[1:])
		par := sealberry.VerifySubChainParallel[D](context.Background(), h.Engine(), genesis, chain[1:], 4)
		if seq != par {
			t.Fatalf("parallel verification (%v) disagrees with sequential (%v)", par, seq)
		}
	})

	t.Run("ConcurrentValidate", func(t *testing.T) {
		h := NewHarness(t, factory())
		chain := h.BuildChain(ComplianceChainLength)

		var wg sync.WaitGroup
		errs := make(chan uint64, len(chain))
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 1; i < len(chain); i++ {
					if !h.Engine().Validate(chain[i-1].ConsensusDigest, chain[i]) {
						errs <- chain[i].Height
						return
					}
				}
			}()
		}
		wg.Wait()
		close(errs)
		for height := range errs {
			t.Errorf("concurrent Validate rejected height %d", height)
		}
	})

	t.Run("Linkage", func(t *testing.T) {
		h := NewHarness(t, factory())
		chain := h.BuildChain(ComplianceChainLength)
		for i := 1; i < len(chain); i++ {
			if !chain[i].IsChildOf(chain[i-1]) {
				t.Fatalf("header %d is not a child of header %d", i, i-1)
			}
		}
	})
}
