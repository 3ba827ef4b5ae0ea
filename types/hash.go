package types

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/blockberries/cramberry/pkg/cramberry"
	pm256 "github.com/polarysfoundation/pm-256"
	"golang.org/x/crypto/blake2b"
)

// Hasher reduces a byte string to a 256-bit digest. Sealberry links
// headers with the first 8 bytes of that digest.
type Hasher interface {
	Sum256(data []byte) [32]byte
	Name() string
}

type blake2bHasher struct{}

func (blake2bHasher) Sum256(data []byte) [32]byte { return blake2b.Sum256(data) }
func (blake2bHasher) Name() string                { return "blake2b" }

type pm256Hasher struct{}

func (pm256Hasher) Sum256(data []byte) [32]byte {
	var out [32]byte
	h := pm256.New256()
	h.Write(data)
	copy(out[:], h.Sum(nil))
	return out
}

func (pm256Hasher) Name() string { return "pm256" }

var (
	// Blake2b hashes with BLAKE2b-256.
	Blake2b Hasher = blake2bHasher{}
	// PM256 hashes with the Polarys PM-256 function.
	PM256 Hasher = pm256Hasher{}

	// DefaultHasher is used by Header.Hash.
	DefaultHasher = Blake2b
)

// HasherByName returns the hasher registered under name.
func HasherByName(name string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "blake2b":
		return Blake2b, nil
	case "pm256", "pm-256":
		return PM256, nil
	default:
		return nil, fmt.Errorf("unknown hasher %q", name)
	}
}

// Encode returns the deterministic cramberry encoding of v.
func Encode(v any) ([]byte, error) {
	data, err := cramberry.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cramberry marshal: %w", err)
	}
	return data, nil
}

// HashValue encodes v and reduces it to a 64-bit hash.
func HashValue(hasher Hasher, v any) (uint64, error) {
	data, err := Encode(v)
	if err != nil {
		return 0, err
	}
	sum := hasher.Sum256(data)
	return binary.BigEndian.Uint64(sum[:8]), nil
}
