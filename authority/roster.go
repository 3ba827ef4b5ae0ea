// Package authority implements permissioned consensus engines: a fixed
// roster of authorities takes turns signing headers. Signatures are
// modelled as the authority's identity; no cryptography is involved.
//
// Three scheduling rules are provided:
//
//   - AnyMember accepts any roster member as signer.
//   - RoundRobinByHeight fixes the signer of every height.
//   - RoundRobinBySlot fixes the signer of every slot and lets slots be
//     skipped, carrying the slot in a SlotDigest.
//
// All engines treat an empty roster as "no one may sign": Validate
// returns false and Seal fails with ErrEmptyRoster.
package authority

import (
	"fmt"
	"strings"

	"github.com/blockberries/sealberry/types"
)

// Roster is an ordered set of authorities. Order determines the
// round-robin schedule.
type Roster []types.Authority

// DefaultRoster returns the roster used by default instances.
func DefaultRoster() Roster {
	return Roster{types.Alice, types.Bob, types.Charlie}
}

// ParseRoster parses authority names in order. Duplicate names are
// rejected since they would skew the schedule.
func ParseRoster(names []string) (Roster, error) {
	r := make(Roster, 0, len(names))
	for _, name := range names {
		a, err := types.ParseAuthority(name)
		if err != nil {
			return nil, err
		}
		if r.Contains(a) {
			return nil, fmt.Errorf("duplicate authority %s in roster", a)
		}
		r = append(r, a)
	}
	return r, nil
}

// Len returns the number of authorities.
func (r Roster) Len() int { return len(r) }

// Contains reports whether a is a member.
func (r Roster) Contains(a types.Authority) bool {
	for _, m := range r {
		if m == a {
			return true
		}
	}
	return false
}

// At returns the member scheduled for position i, wrapping around the
// roster. It returns false for an empty roster.
func (r Roster) At(i uint64) (types.Authority, bool) {
	if len(r) == 0 {
		return 0, false
	}
	return r[i%uint64(len(r))], true
}

// Clone returns a copy that shares no memory with r.
func (r Roster) Clone() Roster {
	if r == nil {
		return nil
	}
	return append(Roster(nil), r...)
}

func (r Roster) String() string {
	names := make([]string, len(r))
	for i, a := range r {
		names[i] = a.String()
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// Rostered is implemented by engines scheduled over a roster. Fork
// conversions use it to pick placeholders the after-fork engine will
// accept.
type Rostered interface {
	Roster() Roster
}
