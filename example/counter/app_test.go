package counter

import (
	"context"
	"testing"

	"github.com/blockberries/sealberry/authority"
	"github.com/blockberries/sealberry/chain"
	"github.com/blockberries/sealberry/combinator"
	"github.com/blockberries/sealberry/types"
)

func TestCounter_NextState(t *testing.T) {
	s := Machine{}.NextState(State{}, 5)
	s = Machine{}.NextState(s, 7)
	if s.Count != 12 || s.Applied != 2 {
		t.Fatalf("state = %+v, want count 12 after 2 increments", s)
	}
}

func TestCounter_NextStateIsPure(t *testing.T) {
	start := State{Count: 3}
	_ = Machine{}.NextState(start, 4)
	if start.Count != 3 || start.Applied != 0 {
		t.Fatalf("NextState modified its input: %+v", start)
	}
}

func TestCounter_ForkedChain(t *testing.T) {
	engine := combinator.PowToAuthority(10, ^uint64(0)/20, authority.DefaultRoster())
	c := chain.New[combinator.PowOrAuthorityDigest, State, uint64](engine, Machine{})

	blocks, err := c.Build(context.Background(), State{}, 15, Body)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := c.Verify(State{}, blocks); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	final := State{}
	for _, b := range blocks {
		final = c.Apply(final, b.Body)
	}
	if final.Count != 15*16/2 {
		t.Fatalf("count = %d, want %d", final.Count, 15*16/2)
	}
	if tip := blocks[15].Header.ConsensusDigest; tip.Kind != combinator.KindAuthority {
		t.Fatalf("tip digest = %s, want an authority signature", tip)
	}
}

func TestCounter_StateRootsDiffer(t *testing.T) {
	c := chain.New[types.Authority, State, uint64](authority.NewAnyMember(authority.DefaultRoster()), Machine{})
	a, err := c.StateRoot(State{Count: 1})
	if err != nil {
		t.Fatalf("StateRoot: %v", err)
	}
	b, err := c.StateRoot(State{Count: 1, Applied: 1})
	if err != nil {
		t.Fatalf("StateRoot: %v", err)
	}
	if a == b {
		t.Fatal("distinct states share a state root")
	}
}
