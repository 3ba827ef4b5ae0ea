// Package pow implements a proof-of-work consensus engine: a header is
// valid when its structural hash, digest included, falls strictly
// below a threshold. The digest is the nonce.
package pow

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/blockberries/sealberry"
	"github.com/blockberries/sealberry/logging"
	"github.com/blockberries/sealberry/types"
)

// Name is the engine's human name.
const Name = "Proof of Work"

// ctxCheckInterval is how many nonces SealContext tries between
// context checks.
const ctxCheckInterval = 1024

var (
	_ sealberry.Engine[uint64]        = (*PoW)(nil)
	_ sealberry.ContextSealer[uint64] = (*PoW)(nil)
)

// PoW is a proof-of-work engine. It never looks at the parent digest.
type PoW struct {
	cfg    Config
	hasher types.Hasher
	log    logrus.FieldLogger
}

// Option configures a PoW engine.
type Option func(*PoW)

// WithHasher selects the hash function headers are measured with.
func WithHasher(h types.Hasher) Option {
	return func(p *PoW) { p.hasher = h }
}

// WithLogger sets the logger used to report failed searches.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *PoW) { p.log = l }
}

// New creates an engine with the given threshold and the default
// search bounds.
func New(threshold uint64, opts ...Option) *PoW {
	cfg := DefaultConfig()
	cfg.Threshold = threshold
	return build(cfg, opts)
}

// NewWithConfig creates an engine from a validated config.
func NewWithConfig(cfg Config, opts ...Option) (*PoW, error) {
	if err := cfg.ValidateBasic(); err != nil {
		return nil, err
	}
	return build(cfg, opts), nil
}

// Default returns the moderate-difficulty engine.
func Default() *PoW {
	return build(DefaultConfig(), nil)
}

func build(cfg Config, opts []Option) *PoW {
	p := &PoW{
		cfg:    cfg,
		hasher: types.DefaultHasher,
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Threshold returns the exclusive upper bound on valid header hashes.
func (p *PoW) Threshold() uint64 { return p.cfg.Threshold }

// Config returns the engine's configuration.
func (p *PoW) Config() Config { return p.cfg }

// Validate checks that the header's hash is below the threshold.
func (p *PoW) Validate(_ uint64, header types.Header[uint64]) bool {
	sum, err := header.HashWith(p.hasher)
	if err != nil {
		return false
	}
	return sum < p.cfg.Threshold
}

// Seal mines a nonce for partial. The search is bounded by the
// configured iteration cap.
func (p *PoW) Seal(parent uint64, partial types.PartialHeader) (types.Header[uint64], error) {
	return p.SealContext(context.Background(), parent, partial)
}

// SealContext is Seal with an additional deadline: the search stops
// when ctx is done. Exhaustion and cancellation are both seal failures
// the caller may retry, for example with a different extrinsics root.
func (p *PoW) SealContext(ctx context.Context, _ uint64, partial types.PartialHeader) (types.Header[uint64], error) {
	h := types.WithDigest(partial, p.cfg.StartNonce)

	for i := uint64(0); i < p.cfg.MaxIterations; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				p.log.WithFields(logrus.Fields{
					"engine":     Name,
					"height":     partial.Height,
					"iterations": i,
				}).Debug("nonce search canceled")
				return types.Header[uint64]{}, sealberry.NewSealError(Name, partial.Height,
					fmt.Errorf("%w: %w", sealberry.ErrSearchCanceled, err))
			}
		}
		if p.Validate(0, h) {
			return h, nil
		}
		h.ConsensusDigest++
	}

	p.log.WithFields(logrus.Fields{
		"engine":     Name,
		"height":     partial.Height,
		"iterations": p.cfg.MaxIterations,
		"threshold":  p.cfg.Threshold,
	}).Debug("nonce search exhausted")
	return types.Header[uint64]{}, sealberry.NewSealError(Name, partial.Height, sealberry.ErrSearchExhausted)
}

// VerifySubChain validates a contiguous run of headers.
func (p *PoW) VerifySubChain(parent uint64, headers []types.Header[uint64]) bool {
	return sealberry.VerifySubChain[uint64](p, parent, headers)
}

// Default returns the moderate-difficulty engine.
func (p *PoW) Default() sealberry.Engine[uint64] {
	return Default()
}

func (p *PoW) HumanName() string { return Name }
