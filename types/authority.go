package types

import (
	"fmt"
	"strings"
)

// Authority is a permissioned signer. Authorities are opaque
// identities: no signature is checked, equality is the only
// operation that matters to consensus.
type Authority uint8

const (
	Alice Authority = iota
	Bob
	Charlie
	Dave
	Eve
)

var authorityNames = [...]string{"Alice", "Bob", "Charlie", "Dave", "Eve"}

// AllAuthorities returns every known authority in order.
func AllAuthorities() []Authority {
	return []Authority{Alice, Bob, Charlie, Dave, Eve}
}

// Valid returns true if a is one of the known authorities.
func (a Authority) Valid() bool {
	return int(a) < len(authorityNames)
}

// String returns the authority's name.
func (a Authority) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Authority(%d)", uint8(a))
	}
	return authorityNames[a]
}

// ParseAuthority parses a case-insensitive authority name.
func ParseAuthority(s string) (Authority, error) {
	name := strings.TrimSpace(s)
	for i, n := range authorityNames {
		if strings.EqualFold(n, name) {
			return Authority(i), nil
		}
	}
	return 0, fmt.Errorf("unknown authority %q", s)
}

// SlotDigest is the digest of slot-scheduled authority engines. Within
// a valid chain a child's slot is strictly greater than its parent's;
// slots may be skipped.
type SlotDigest struct {
	Slot      uint64    `cramberry:"1"`
	Signature Authority `cramberry:"2"`
}

func (d SlotDigest) String() string {
	return fmt.Sprintf("slot %d by %s", d.Slot, d.Signature)
}
