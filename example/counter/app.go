// Package counter implements a minimal state machine that counts
// increments. It is the smallest thing a chain can be built on and is
// used throughout the sealberry tests.
//
// Transition format: a uint64 increment.
package counter

import "github.com/blockberries/sealberry/chain"

// Compile-time interface check.
var _ chain.StateMachine[State, uint64] = Machine{}

// State is the counter's state. It is hashed into state roots, so every
// field carries a cramberry tag.
type State struct {
	Count   uint64 `cramberry:"1"`
	Applied uint64 `cramberry:"2"`
}

// Machine is the counter state machine.
type Machine struct{}

// NextState adds inc to the count.
func (Machine) NextState(state State, inc uint64) State {
	state.Count += inc
	state.Applied++
	return state
}

// Body returns the block body used at height in tests and examples:
// height increments of one each, so the count after height h is
// h*(h+1)/2.
func Body(height uint64) []uint64 {
	body := make([]uint64, height)
	for i := range body {
		body[i] = 1
	}
	return body
}
