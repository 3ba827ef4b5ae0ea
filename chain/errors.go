package chain

import (
	"errors"
	"fmt"
)

// Verification failure reasons. A VerifyError always wraps one of these.
var (
	ErrEmptyChain         = errors.New("chain has no blocks")
	ErrBadGenesis         = errors.New("first block is not a genesis block")
	ErrBrokenLink         = errors.New("parent hash does not match the previous header")
	ErrHeightGap          = errors.New("height does not follow the previous header")
	ErrStateRootMismatch  = errors.New("state root does not match the replayed state")
	ErrExtrinsicsMismatch = errors.New("extrinsics root does not match the block body")
	ErrConsensusRejected  = errors.New("consensus engine rejected the header")
)

// VerifyError reports the first block of a chain that failed
// verification.
type VerifyError struct {
	Index  int
	Height uint64
	Reason error
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("block %d (height %d): %v", e.Index, e.Height, e.Reason)
}

func (e *VerifyError) Unwrap() error { return e.Reason }

// IsVerifyFailure checks whether an error is a VerifyError and returns it.
func IsVerifyFailure(err error) (*VerifyError, bool) {
	var v *VerifyError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
