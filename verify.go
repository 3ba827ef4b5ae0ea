package sealberry

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/blockberries/sealberry/types"
)

// Validator is the part of an Engine that chain verification needs.
type Validator[D comparable] interface {
	Validate(parent D, header types.Header[D]) bool
}

// VerifySubChain is the chain verification protocol every engine uses.
//
// An empty run is valid. A single header is invalid, because there is
// no internal parent to compare it against. Otherwise headers[0] is
// validated against parent and every later header against the digest
// of the one before it, stopping at the first failure.
func VerifySubChain[D comparable](v Validator[D], parent D, headers []types.Header[D]) bool {
	switch len(headers) {
	case 0:
		return true
	case 1:
		return false
	}
	_, found := FirstInvalid(v, parent, headers)
	return !found
}

// FirstInvalid walks headers left to right like VerifySubChain and
// returns the index of the first header that fails validation. It does
// not apply the single-header rule.
func FirstInvalid[D comparable](v Validator[D], parent D, headers []types.Header[D]) (int, bool) {
	for i, h := range headers {
		if !v.Validate(parent, h) {
			return i, true
		}
		parent = h.ConsensusDigest
	}
	return -1, false
}

// VerifySubChainParallel returns the same answer as VerifySubChain but
// checks the (parent digest, header) pairs on up to workers goroutines.
// Each pair depends only on the digest before it, which is already
// known, so the checks are independent. A failure stops the remaining
// work early.
//
// If ctx is done before every pair has been checked the run is
// reported invalid. workers < 1 means GOMAXPROCS.
func VerifySubChainParallel[D comparable](ctx context.Context, v Validator[D], parent D, headers []types.Header[D], workers int) bool {
	switch len(headers) {
	case 0:
		return true
	case 1:
		return false
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		failed  atomic.Bool
		checked atomic.Int64
		wg      sync.WaitGroup
		jobs    = make(chan int)
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				p := parent
				if i > 0 {
					p = headers[i-1].ConsensusDigest
				}
				if !v.Validate(p, headers[i]) {
					failed.Store(true)
					cancel()
				}
				checked.Add(1)
			}
		}()
	}

feed:
	for i := range headers {
		if failed.Load() || ctx.Err() != nil {
			break
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return !failed.Load() && checked.Load() == int64(len(headers))
}
