package types

import "fmt"

// Header is the sealed metadata of one block, generic over the
// consensus digest type. The digest is opaque to everyone except the
// engine that produced it.
type Header[D any] struct {
	// Hash of the predecessor header. 0 for genesis.
	Parent uint64 `cramberry:"1"`
	// Monotonic counter starting at 0 for genesis.
	Height uint64 `cramberry:"2"`
	// Hash of the post-state.
	StateRoot uint64 `cramberry:"3"`
	// Hash of the block body.
	ExtrinsicsRoot uint64 `cramberry:"4"`
	// Engine-defined seal.
	ConsensusDigest D `cramberry:"5"`
}

// PartialHeader is a header that has everything except its consensus
// digest. It is what an engine receives when asked to seal.
type PartialHeader = Header[Unsealed]

// WithDigest completes a partial header with the given digest.
func WithDigest[D any](p PartialHeader, digest D) Header[D] {
	return Header[D]{
		Parent:          p.Parent,
		Height:          p.Height,
		StateRoot:       p.StateRoot,
		ExtrinsicsRoot:  p.ExtrinsicsRoot,
		ConsensusDigest: digest,
	}
}

// Partial strips the consensus digest.
func (h Header[D]) Partial() PartialHeader {
	return PartialHeader{
		Parent:         h.Parent,
		Height:         h.Height,
		StateRoot:      h.StateRoot,
		ExtrinsicsRoot: h.ExtrinsicsRoot,
	}
}

// Project re-types a header's digest, keeping every other field.
// Combinators use it to hand a header to an inner engine in that
// engine's native digest representation.
func Project[D, E any](h Header[D], f func(D) E) Header[E] {
	return WithDigest(h.Partial(), f(h.ConsensusDigest))
}

// Hash returns the structural hash of the header using the default
// hasher. It panics if the digest type cannot be encoded, which only
// happens for digest types without cramberry support.
func (h Header[D]) Hash() uint64 {
	sum, err := h.HashWith(DefaultHasher)
	if err != nil {
		panic(fmt.Sprintf("sealberry: header hash: %v", err))
	}
	return sum
}

// HashWith returns the structural hash of the header using hasher.
func (h Header[D]) HashWith(hasher Hasher) (uint64, error) {
	return HashValue(hasher, h)
}

// Genesis returns a genesis header: no parent, height 0, no extrinsics.
func Genesis[D any](stateRoot uint64, digest D) Header[D] {
	return Header[D]{
		StateRoot:       stateRoot,
		ConsensusDigest: digest,
	}
}

// Child returns the partial header of a child of h. The caller seals it.
func (h Header[D]) Child(stateRoot, extrinsicsRoot uint64) PartialHeader {
	return PartialHeader{
		Parent:         h.Hash(),
		Height:         h.Height + 1,
		StateRoot:      stateRoot,
		ExtrinsicsRoot: extrinsicsRoot,
	}
}

// IsChildOf reports whether h links to parent by hash and height.
func (h Header[D]) IsChildOf(parent Header[D]) bool {
	return parent.Height+1 == h.Height && h.Parent == parent.Hash()
}
