package pow

import (
	"errors"
	"math"
)

var (
	ErrZeroThreshold  = errors.New("pow: threshold must be non-zero")
	ErrZeroIterations = errors.New("pow: max iterations must be non-zero")
)

// Config holds the parameters of a proof-of-work engine.
type Config struct {
	// Headers hashing strictly below Threshold are valid.
	Threshold uint64

	// Upper bound on the nonces one seal may try.
	MaxIterations uint64

	// First nonce tried by a seal.
	StartNonce uint64
}

// DefaultConfig returns a moderate difficulty: roughly 1 in 100 nonces
// is valid.
func DefaultConfig() Config {
	return Config{
		Threshold:     math.MaxUint64 / 100,
		MaxIterations: 1 << 20,
		StartNonce:    10,
	}
}

// ValidateBasic performs basic validation of the config
func (cfg Config) ValidateBasic() error {
	if cfg.Threshold == 0 {
		return ErrZeroThreshold
	}
	if cfg.MaxIterations == 0 {
		return ErrZeroIterations
	}
	return nil
}
