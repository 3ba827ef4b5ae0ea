// Package sealberry defines the consensus capability contract shared
// by every engine in this module.
//
// The core [Engine] interface is required. [GenesisDigester] and
// [ContextSealer] are optional capabilities discovered via Go type
// assertion, in the same way combinators discover what their inner
// engines can do.
//
// Engines are values holding immutable configuration. Validate and
// Seal are pure functions of their explicit inputs, so one engine may
// be shared by any number of goroutines.
package sealberry

import (
	"context"

	"github.com/blockberries/sealberry/types"
)

// Engine is the interface every consensus engine implements, leaf or
// combinator. D is the engine's native digest type.
type Engine[D comparable] interface {
	// Validate reports whether header is admissible as the child of a
	// header whose digest is parent.
	//
	// Validate depends only on its two arguments, never on global chain
	// state. A false result is the whole of the error signal: rule
	// violations are not errors and never panic.
	Validate(parent D, header types.Header[D]) bool

	// Seal manufactures a digest for partial, given the digest of the
	// header it extends.
	//
	// When no legal digest exists (empty roster, exhausted search,
	// missing digest slot, wrong parent signer) Seal returns a
	// *SealError and a zero header. Callers treat that as a retryable
	// or user-visible failure; it is never a panic.
	Seal(parent D, partial types.PartialHeader) (types.Header[D], error)

	// VerifySubChain validates a contiguous run of headers. Engines
	// implement it by delegating to the package-level VerifySubChain,
	// which is the single definition of the fold.
	VerifySubChain(parent D, headers []types.Header[D]) bool

	// Default returns the canonical configuration of this engine, used
	// for bootstrapping and tests. Combinators default their inner
	// engines recursively.
	Default() Engine[D]

	// HumanName is a diagnostic label only.
	HumanName() string
}

// GenesisDigester is implemented by engines whose genesis digest is not
// the zero value of D. Alternating digests, for example, must carry a
// populated slot for both inner engines from the very first header.
type GenesisDigester[D comparable] interface {
	GenesisDigest() D
}

// GenesisDigest returns the digest a genesis header carries under e:
// e's GenesisDigest if it implements GenesisDigester, otherwise the
// zero value of D.
func GenesisDigest[D comparable](e Engine[D]) D {
	if g, ok := e.(GenesisDigester[D]); ok {
		return g.GenesisDigest()
	}
	var zero D
	return zero
}

// ContextSealer is implemented by engines whose Seal can be bounded by
// a context. Proof of work implements it, and combinators forward it to
// their inner engines.
type ContextSealer[D comparable] interface {
	SealContext(ctx context.Context, parent D, partial types.PartialHeader) (types.Header[D], error)
}

// SealContext seals partial with e, honouring ctx when e supports it.
// Engines that do not implement ContextSealer are sealed directly, as
// their Seal does not block.
func SealContext[D comparable](ctx context.Context, e Engine[D], parent D, partial types.PartialHeader) (types.Header[D], error) {
	if cs, ok := e.(ContextSealer[D]); ok {
		return cs.SealContext(ctx, parent, partial)
	}
	return e.Seal(parent, partial)
}

// UnnamedEngine is the label used by engines that do not name
// themselves.
const UnnamedEngine = "Unnamed Consensus Engine"
