// Package types defines the data types shared by every sealberry
// consensus engine.
//
// These are plain Go structs with cramberry struct tags. The
// deterministic cramberry encoding of a header is what its structural
// hash is computed over, so two headers that differ in any field,
// including the consensus digest, hash differently.
package types

// Unsealed is the digest carried by a header that has not been sealed
// yet.
type Unsealed struct{}
