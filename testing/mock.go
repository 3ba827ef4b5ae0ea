// Package sealtest provides test utilities for sealberry engine
// development, including a configurable mock engine, a chain-building
// harness, and a compliance suite every engine is expected to pass.
package sealtest

import (
	"sync/atomic"

	"github.com/blockberries/sealberry"
	"github.com/blockberries/sealberry/types"
)

// Compile-time check that MockEngine satisfies the interfaces.
var (
	_ sealberry.Engine[uint64]          = (*MockEngine[uint64])(nil)
	_ sealberry.GenesisDigester[uint64] = (*MockEngine[uint64])(nil)
)

// MockEngine is a configurable mock consensus engine for combinator and
// client testing. All methods are configurable via function fields.
// Unconfigured methods accept every header and seal by copying the
// parent digest.
type MockEngine[D comparable] struct {
	Name    string
	Genesis D

	// Configurable handlers. If nil, defaults are used.
	ValidateFn func(D, types.Header[D]) bool
	SealFn     func(D, types.PartialHeader) (types.Header[D], error)

	// Call counters (atomic for concurrent access).
	ValidateCalls atomic.Int64
	SealCalls     atomic.Int64

	// Last arguments seen, for asserting what a combinator forwarded.
	lastParent  atomic.Pointer[D]
	lastPartial atomic.Pointer[types.PartialHeader]
}

func (m *MockEngine[D]) Validate(parent D, header types.Header[D]) bool {
	m.ValidateCalls.Add(1)
	m.lastParent.Store(&parent)
	if m.ValidateFn != nil {
		return m.ValidateFn(parent, header)
	}
	return true
}

func (m *MockEngine[D]) Seal(parent D, partial types.PartialHeader) (types.Header[D], error) {
	m.SealCalls.Add(1)
	m.lastParent.Store(&parent)
	m.lastPartial.Store(&partial)
	if m.SealFn != nil {
		return m.SealFn(parent, partial)
	}
	return types.WithDigest(partial, parent), nil
}

func (m *MockEngine[D]) VerifySubChain(parent D, headers []types.Header[D]) bool {
	return sealberry.VerifySubChain[D](m, parent, headers)
}

func (m *MockEngine[D]) Default() sealberry.Engine[D] {
	return &MockEngine[D]{Name: m.Name, Genesis: m.Genesis}
}

func (m *MockEngine[D]) HumanName() string {
	if m.Name == "" {
		return sealberry.UnnamedEngine
	}
	return m.Name
}

func (m *MockEngine[D]) GenesisDigest() D { return m.Genesis }

// LastParent returns the parent digest of the most recent call.
func (m *MockEngine[D]) LastParent() (D, bool) {
	p := m.lastParent.Load()
	if p == nil {
		var zero D
		return zero, false
	}
	return *p, true
}

// LastPartial returns the partial header of the most recent Seal.
func (m *MockEngine[D]) LastPartial() (types.PartialHeader, bool) {
	p := m.lastPartial.Load()
	if p == nil {
		return types.PartialHeader{}, false
	}
	return *p, true
}
