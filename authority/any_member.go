package authority

import (
	"github.com/blockberries/sealberry"
	"github.com/blockberries/sealberry/types"
)

// AnyMemberName is the human name of AnyMember.
const AnyMemberName = "Any-Member Authority"

var (
	_ sealberry.Engine[types.Authority]          = (*AnyMember)(nil)
	_ sealberry.GenesisDigester[types.Authority] = (*AnyMember)(nil)
	_ Rostered                                   = (*AnyMember)(nil)
)

// AnyMember accepts a header signed by any roster member on top of a
// parent signed by any roster member. Repeated signers are allowed.
type AnyMember struct {
	roster Roster
}

// NewAnyMember creates an engine over a copy of roster.
func NewAnyMember(roster Roster) *AnyMember {
	return &AnyMember{roster: roster.Clone()}
}

// Roster returns a copy of the engine's roster.
func (e *AnyMember) Roster() Roster { return e.roster.Clone() }

func (e *AnyMember) Validate(parent types.Authority, header types.Header[types.Authority]) bool {
	return e.roster.Contains(header.ConsensusDigest) && e.roster.Contains(parent)
}

// Seal signs with the last roster member, or with the first when the
// last one signed the parent. Rosters of more than two members
// therefore never see their middle members sign; use
// RoundRobinByHeight for a fair schedule.
func (e *AnyMember) Seal(parent types.Authority, partial types.PartialHeader) (types.Header[types.Authority], error) {
	n := e.roster.Len()
	if n == 0 {
		return types.Header[types.Authority]{}, sealberry.NewSealError(AnyMemberName, partial.Height, sealberry.ErrEmptyRoster)
	}
	signer := e.roster[n-1]
	if signer == parent {
		signer = e.roster[0]
	}
	return types.WithDigest(partial, signer), nil
}

func (e *AnyMember) VerifySubChain(parent types.Authority, headers []types.Header[types.Authority]) bool {
	return sealberry.VerifySubChain[types.Authority](e, parent, headers)
}

// Default returns an engine over DefaultRoster.
func (e *AnyMember) Default() sealberry.Engine[types.Authority] {
	return NewAnyMember(DefaultRoster())
}

func (e *AnyMember) HumanName() string { return AnyMemberName }

// GenesisDigest attributes genesis to the first roster member.
func (e *AnyMember) GenesisDigest() types.Authority {
	a, _ := e.roster.At(0)
	return a
}
