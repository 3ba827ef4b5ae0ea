package sealberry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/blockberries/sealberry"
	"github.com/blockberries/sealberry/combinator"
	"github.com/blockberries/sealberry/pow"
	sealtest "github.com/blockberries/sealberry/testing"
	"github.com/blockberries/sealberry/types"
)

func TestSealContext_FallsBackToSeal(t *testing.T) {
	mock := &sealtest.MockEngine[uint64]{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h, err := sealberry.SealContext[uint64](ctx, mock, 5, sealtest.MakePartial(0, 1, 0))
	if err != nil {
		t.Fatalf("SealContext: %v", err)
	}
	if h.ConsensusDigest != 5 || mock.SealCalls.Load() != 1 {
		t.Fatalf("mock not sealed directly: digest=%d calls=%d", h.ConsensusDigest, mock.SealCalls.Load())
	}
}

func TestSealContext_ReachesNestedPoW(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := combinator.NewAlternating[uint64, uint64](
		combinator.ChangeDifficulty(10, 1, 1),
		combinator.NewEvenOnly[uint64](pow.New(1)),
	)
	genesis := sealberry.GenesisDigest[combinator.AlternatingDigest[uint64, uint64]](engine)
	for _, height := range []uint64{1, 2} {
		_, err := sealberry.SealContext[combinator.AlternatingDigest[uint64, uint64]](ctx, engine, genesis, sealtest.MakePartial(0, height, 0))
		if !errors.Is(err, sealberry.ErrSearchCanceled) {
			t.Fatalf("height %d: expected ErrSearchCanceled, got %v", height, err)
		}
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("height %d: expected context.Canceled, got %v", height, err)
		}
	}
}

func TestUnnamedEngine(t *testing.T) {
	var e sealberry.Engine[types.Authority] = &sealtest.MockEngine[types.Authority]{}
	if e.HumanName() != sealberry.UnnamedEngine {
		t.Fatalf("HumanName = %q", e.HumanName())
	}
}
