package combinator

import (
	"fmt"

	"github.com/blockberries/sealberry"
	"github.com/blockberries/sealberry/types"
)

// Conversion translates between a Forked engine's digest D and the
// native digests of the engines before (BD) and after (AD) the fork.
//
// All four functions must be total. For every digest an engine can
// produce, From(To(d)) must return d; a projection that has to invent a
// value for the side it cannot represent returns a fixed, documented
// placeholder.
type Conversion[D, BD, AD comparable] struct {
	ToBefore   func(D) BD
	FromBefore func(BD) D
	ToAfter    func(D) AD
	FromAfter  func(AD) D
}

func (c Conversion[D, BD, AD]) check() error {
	switch {
	case c.ToBefore == nil:
		return fmt.Errorf("conversion: ToBefore is nil")
	case c.FromBefore == nil:
		return fmt.Errorf("conversion: FromBefore is nil")
	case c.ToAfter == nil:
		return fmt.Errorf("conversion: ToAfter is nil")
	case c.FromAfter == nil:
		return fmt.Errorf("conversion: FromAfter is nil")
	}
	return nil
}

// ConversionFor derives a Conversion from the engines it will serve.
// Forked re-derives it whenever its engines change, which keeps
// placeholders drawn from an engine's configuration consistent with
// Default.
type ConversionFor[D, BD, AD comparable] func(before sealberry.Engine[BD], after sealberry.Engine[AD]) Conversion[D, BD, AD]

func identity[D any](d D) D { return d }

// IdentityConversion is the conversion for forks whose engines share
// one digest type.
func IdentityConversion[D comparable]() Conversion[D, D, D] {
	return Conversion[D, D, D]{
		ToBefore:   identity[D],
		FromBefore: identity[D],
		ToAfter:    identity[D],
		FromAfter:  identity[D],
	}
}

// DigestKind tags which engine produced a PowOrAuthorityDigest.
type DigestKind uint8

const (
	KindPoW DigestKind = iota
	KindAuthority
)

func (k DigestKind) String() string {
	switch k {
	case KindPoW:
		return "pow"
	case KindAuthority:
		return "authority"
	default:
		return fmt.Sprintf("DigestKind(%d)", uint8(k))
	}
}

// PowOrAuthorityDigest is the digest of a fork from proof of work to
// authorities. Exactly one of Nonce and Authority is meaningful,
// selected by Kind; the other holds its zero value.
type PowOrAuthorityDigest struct {
	Kind      DigestKind      `cramberry:"1"`
	Nonce     uint64          `cramberry:"2"`
	Authority types.Authority `cramberry:"3"`
}

// PowDigest wraps a nonce.
func PowDigest(nonce uint64) PowOrAuthorityDigest {
	return PowOrAuthorityDigest{Kind: KindPoW, Nonce: nonce}
}

// AuthorityDigest wraps an authority signature.
func AuthorityDigest(a types.Authority) PowOrAuthorityDigest {
	return PowOrAuthorityDigest{Kind: KindAuthority, Authority: a}
}

func (d PowOrAuthorityDigest) String() string {
	if d.Kind == KindPoW {
		return fmt.Sprintf("pow(%d)", d.Nonce)
	}
	return fmt.Sprintf("authority(%s)", d.Authority)
}

// Placeholders are the values a PowOrAuthorityDigest projects to when
// asked for the side it does not hold.
type Placeholders struct {
	// Returned when an authority is requested from a nonce digest. At
	// the fork this stands in for the signer of the last mined header.
	Authority types.Authority
	// Returned when a nonce is requested from an authority digest.
	Nonce uint64
}

// DefaultPlaceholders returns Alice and nonce 10, the first nonce a
// proof-of-work seal tries.
func DefaultPlaceholders() Placeholders {
	return Placeholders{Authority: types.Alice, Nonce: 10}
}

// PowOrAuthorityConversion converts between PowOrAuthorityDigest and
// the native nonce and authority digests.
func PowOrAuthorityConversion(p Placeholders) Conversion[PowOrAuthorityDigest, uint64, types.Authority] {
	return Conversion[PowOrAuthorityDigest, uint64, types.Authority]{
		ToBefore: func(d PowOrAuthorityDigest) uint64 {
			if d.Kind == KindPoW {
				return d.Nonce
			}
			return p.Nonce
		},
		FromBefore: PowDigest,
		ToAfter: func(d PowOrAuthorityDigest) types.Authority {
			if d.Kind == KindAuthority {
				return d.Authority
			}
			return p.Authority
		},
		FromAfter: AuthorityDigest,
	}
}
