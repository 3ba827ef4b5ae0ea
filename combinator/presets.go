package combinator

import (
	"github.com/blockberries/sealberry"
	"github.com/blockberries/sealberry/authority"
	"github.com/blockberries/sealberry/pow"
	"github.com/blockberries/sealberry/types"
)

// DefaultAlternating interleaves default proof of work on odd heights
// with a default any-member authority set on even heights.
func DefaultAlternating() *Alternating[uint64, types.Authority] {
	return NewAlternating[uint64, types.Authority](pow.Default(), authority.NewAnyMember(authority.DefaultRoster()))
}

// ChangeAuthorities switches from one any-member authority set to
// another above forkHeight. Its conversion is RosterConversion, not the
// identity: on the after side a signer outside final becomes final's
// genesis signer, so disjoint sets can still cross the fork.
func ChangeAuthorities(forkHeight uint64, initial, final authority.Roster) *Forked[types.Authority, types.Authority, types.Authority] {
	return NewForkedWith[types.Authority, types.Authority, types.Authority](forkHeight,
		authority.NewAnyMember(initial),
		authority.NewAnyMember(final),
		RosterConversion)
}

// RosterConversion is the identity conversion, except that a parent
// digest the after engine's roster does not contain is handed to it as
// that engine's genesis signer. The first header of a new authority set
// thereby extends a header signed by the outgoing set. Header digests
// outside the new roster fail the round trip and are rejected. The
// before side is the identity; FromAfter(ToAfter(d)) == d holds only
// for members of the new roster.
func RosterConversion(_ sealberry.Engine[types.Authority], after sealberry.Engine[types.Authority]) Conversion[types.Authority, types.Authority, types.Authority] {
	conv := IdentityConversion[types.Authority]()
	r, ok := after.(authority.Rostered)
	if !ok {
		return conv
	}
	roster := r.Roster()
	handover := sealberry.GenesisDigest(after)
	conv.ToAfter = func(a types.Authority) types.Authority {
		if roster.Contains(a) {
			return a
		}
		return handover
	}
	return conv
}

// ChangeDifficulty switches proof-of-work thresholds above forkHeight.
func ChangeDifficulty(forkHeight, initial, final uint64) *Forked[uint64, uint64, uint64] {
	return NewForked[uint64, uint64, uint64](forkHeight, pow.New(initial), pow.New(final), IdentityConversion[uint64]())
}

// EvenAfterHeight keeps base's rules throughout and adds the
// even-state-root rule above forkHeight.
func EvenAfterHeight[D comparable](forkHeight uint64, base sealberry.Engine[D]) *Forked[D, D, D] {
	return NewForked[D, D, D](forkHeight, base, NewEvenOnly(base), IdentityConversion[D]())
}

// PowToAuthority mines with proof of work up to forkHeight and hands
// the chain to an any-member authority set above it. The authority
// placeholder is the roster's first member, so the first authority
// header accepts its mined parent.
func PowToAuthority(forkHeight, threshold uint64, roster authority.Roster) *Forked[PowOrAuthorityDigest, uint64, types.Authority] {
	return NewForkedWith[PowOrAuthorityDigest, uint64, types.Authority](forkHeight,
		pow.New(threshold),
		authority.NewAnyMember(roster),
		PowToAuthorityConversion)
}

// PowToAuthorityConversion is PowOrAuthorityConversion with the
// authority placeholder taken from the after engine's genesis signer.
func PowToAuthorityConversion(_ sealberry.Engine[uint64], after sealberry.Engine[types.Authority]) Conversion[PowOrAuthorityDigest, uint64, types.Authority] {
	p := DefaultPlaceholders()
	p.Authority = sealberry.GenesisDigest(after)
	return PowOrAuthorityConversion(p)
}
