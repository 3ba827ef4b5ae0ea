// Package chain is the client side of sealberry: it grows a chain of
// blocks on top of a state machine and checks chains it receives.
//
// A block's state root is the hash of the state after its own body has
// been applied, and its extrinsics root is the hash of the body. The
// consensus engine only ever sees headers.
//
// Engines that rewrite header fields while sealing, EvenOnly's state
// root adjustment in particular, produce chains whose state roots no
// longer match the replayed state. Check those with VerifyHeaders.
package chain

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/blockberries/sealberry"
	"github.com/blockberries/sealberry/logging"
	"github.com/blockberries/sealberry/types"
)

// StateMachine is a pure state transition function. NextState must not
// modify state in place; it returns the successor.
type StateMachine[S, T any] interface {
	NextState(state S, transition T) S
}

// Block is a header together with the transitions it applies. It does
// not carry the engine that sealed it: a Chain owns one engine and
// every block it builds or verifies goes through that engine.
type Block[D any, T any] struct {
	Header types.Header[D] `cramberry:"1"`
	Body   []T             `cramberry:"2"`
}

// Headers strips the bodies off blocks.
func Headers[D any, T any](blocks []Block[D, T]) []types.Header[D] {
	out := make([]types.Header[D], len(blocks))
	for i, b := range blocks {
		out[i] = b.Header
	}
	return out
}

type options struct {
	hasher types.Hasher
	log    logrus.FieldLogger
}

// Option configures a Chain.
type Option func(*options)

// WithHasher selects the hash used for state and extrinsics roots.
// Header linkage always uses the default hasher.
func WithHasher(h types.Hasher) Option {
	return func(o *options) { o.hasher = h }
}

// WithLogger sets the chain's logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.log = l }
}

// Chain builds and verifies blocks for one engine and state machine.
// It holds no chain data and is safe for concurrent use.
type Chain[D comparable, S any, T any] struct {
	engine  sealberry.Engine[D]
	machine StateMachine[S, T]
	hasher  types.Hasher
	log     logrus.FieldLogger
}

// New creates a chain client.
func New[D comparable, S any, T any](engine sealberry.Engine[D], machine StateMachine[S, T], opts ...Option) *Chain[D, S, T] {
	o := options{
		hasher: types.DefaultHasher,
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Chain[D, S, T]{
		engine:  engine,
		machine: machine,
		hasher:  o.hasher,
		log:     o.log.WithField("engine", engine.HumanName()),
	}
}

// Engine returns the consensus engine.
func (c *Chain[D, S, T]) Engine() sealberry.Engine[D] { return c.engine }

// Apply runs body on state.
func (c *Chain[D, S, T]) Apply(state S, body []T) S {
	for _, t := range body {
		state = c.machine.NextState(state, t)
	}
	return state
}

// StateRoot hashes a state.
func (c *Chain[D, S, T]) StateRoot(state S) (uint64, error) {
	root, err := types.HashValue(c.hasher, state)
	if err != nil {
		return 0, fmt.Errorf("hash state: %w", err)
	}
	return root, nil
}

// ExtrinsicsRoot hashes a block body. An empty body hashes to 0, the
// extrinsics root of genesis.
func (c *Chain[D, S, T]) ExtrinsicsRoot(body []T) (uint64, error) {
	if len(body) == 0 {
		return 0, nil
	}
	root, err := types.HashValue(c.hasher, body)
	if err != nil {
		return 0, fmt.Errorf("hash body: %w", err)
	}
	return root, nil
}

// Genesis returns the genesis block for state.
func (c *Chain[D, S, T]) Genesis(state S) (Block[D, T], error) {
	root, err := c.StateRoot(state)
	if err != nil {
		return Block[D, T]{}, err
	}
	return Block[D, T]{
		Header: types.Genesis(root, sealberry.GenesisDigest(c.engine)),
	}, nil
}

// Child seals a block applying body on top of parent, whose post-state
// is parentState. It returns the block and its post-state.
func (c *Chain[D, S, T]) Child(ctx context.Context, parent Block[D, T], parentState S, body []T) (Block[D, T], S, error) {
	post := c.Apply(parentState, body)
	stateRoot, err := c.StateRoot(post)
	if err != nil {
		return Block[D, T]{}, post, err
	}
	extrinsicsRoot, err := c.ExtrinsicsRoot(body)
	if err != nil {
		return Block[D, T]{}, post, err
	}

	partial := parent.Header.Child(stateRoot, extrinsicsRoot)
	header, err := sealberry.SealContext(ctx, c.engine, parent.Header.ConsensusDigest, partial)
	if err != nil {
		c.log.WithError(err).WithField("height", partial.Height).Warn("failed to seal block")
		return Block[D, T]{}, post, fmt.Errorf("seal block at height %d: %w", partial.Height, err)
	}

	c.log.WithFields(logrus.Fields{
		"height":     header.Height,
		"parent":     types.FormatHash(header.Parent),
		"state_root": types.FormatHash(header.StateRoot),
		"txs":        len(body),
		"digest":     header.ConsensusDigest,
	}).Debug("sealed block")
	return Block[D, T]{Header: header, Body: body}, post, nil
}

// Build grows a chain of n blocks on top of a fresh genesis block.
// bodyFn supplies the body of each height. The returned slice starts
// with genesis.
func (c *Chain[D, S, T]) Build(ctx context.Context, genesisState S, n int, bodyFn func(height uint64) []T) ([]Block[D, T], error) {
	genesis, err := c.Genesis(genesisState)
	if err != nil {
		return nil, err
	}
	blocks := make([]Block[D, T], 0, n+1)
	blocks = append(blocks, genesis)

	state := genesisState
	for i := 1; i <= n; i++ {
		var body []T
		if bodyFn != nil {
			body = bodyFn(uint64(i))
		}
		var b Block[D, T]
		b, state, err = c.Child(ctx, blocks[i-1], state, body)
		if err != nil {
			return blocks, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// Verify checks a full chain starting at genesis: the genesis block
// against genesisState, then for every later block its link to the
// previous header, its roots against the replayed state and body, and
// its consensus digest.
func (c *Chain[D, S, T]) Verify(genesisState S, blocks []Block[D, T]) error {
	if err := c.verifyGenesis(genesisState, blocks); err != nil {
		return err
	}

	state := genesisState
	for i := 1; i < len(blocks); i++ {
		b := blocks[i]
		if err := c.verifyLink(i, blocks[i-1].Header, b.Header); err != nil {
			return err
		}

		state = c.Apply(state, b.Body)
		stateRoot, err := c.StateRoot(state)
		if err != nil {
			return err
		}
		if stateRoot != b.Header.StateRoot {
			return c.fail(i, b.Header.Height, ErrStateRootMismatch)
		}
		extrinsicsRoot, err := c.ExtrinsicsRoot(b.Body)
		if err != nil {
			return err
		}
		if extrinsicsRoot != b.Header.ExtrinsicsRoot {
			return c.fail(i, b.Header.Height, ErrExtrinsicsMismatch)
		}

		if !c.engine.Validate(blocks[i-1].Header.ConsensusDigest, b.Header) {
			return c.fail(i, b.Header.Height, ErrConsensusRejected)
		}
	}
	return nil
}

// VerifyHeaders checks linkage and consensus only, leaving state roots
// and bodies alone.
func (c *Chain[D, S, T]) VerifyHeaders(blocks []Block[D, T]) error {
	if len(blocks) == 0 {
		return c.fail(0, 0, ErrEmptyChain)
	}
	for i := 1; i < len(blocks); i++ {
		if err := c.verifyLink(i, blocks[i-1].Header, blocks[i].Header); err != nil {
			return err
		}
	}
	headers := Headers(blocks)
	if idx, found := sealberry.FirstInvalid[D](c.engine, headers[0].ConsensusDigest, headers[1:]); found {
		return c.fail(idx+1, headers[idx+1].Height, ErrConsensusRejected)
	}
	return nil
}

func (c *Chain[D, S, T]) verifyGenesis(state S, blocks []Block[D, T]) error {
	if len(blocks) == 0 {
		return c.fail(0, 0, ErrEmptyChain)
	}
	g := blocks[0]
	root, err := c.StateRoot(state)
	if err != nil {
		return err
	}
	want := types.Genesis(root, sealberry.GenesisDigest(c.engine))
	if g.Header != want || len(g.Body) != 0 {
		return c.fail(0, g.Header.Height, ErrBadGenesis)
	}
	return nil
}

func (c *Chain[D, S, T]) verifyLink(i int, parent, header types.Header[D]) error {
	if header.Height != parent.Height+1 {
		return c.fail(i, header.Height, ErrHeightGap)
	}
	if header.Parent != parent.Hash() {
		return c.fail(i, header.Height, ErrBrokenLink)
	}
	return nil
}

func (c *Chain[D, S, T]) fail(index int, height uint64, reason error) error {
	c.log.WithFields(logrus.Fields{
		"index":  index,
		"height": height,
	}).Warnf("chain verification failed: %v", reason)
	return &VerifyError{Index: index, Height: height, Reason: reason}
}
