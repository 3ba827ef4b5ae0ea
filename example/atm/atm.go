// Package atm implements an automated teller machine as a pure state
// machine. A customer swipes a card, keys in a PIN, presses Enter, keys
// in an amount and presses Enter again to withdraw cash.
//
// The machine learns the PIN's hash from the card. A wrong PIN ends the
// session. Withdrawals are bounded only by the cash inside; a request
// for more than that dispenses nothing.
package atm

import (
	"fmt"

	"github.com/blockberries/sealberry/chain"
	"github.com/blockberries/sealberry/types"
)

// Compile-time interface check.
var _ chain.StateMachine[State, Action] = Machine{}

// Key is a key on the keypad.
type Key uint8

const (
	KeyOne Key = iota + 1
	KeyTwo
	KeyThree
	KeyFour
	KeyEnter
)

func (k Key) digit() (uint64, bool) {
	if k >= KeyOne && k <= KeyFour {
		return uint64(k), true
	}
	return 0, false
}

// Auth is the session's authentication status.
type Auth uint8

const (
	// Waiting for a card.
	Waiting Auth = iota
	// Card swiped, waiting for the PIN.
	Authenticating
	// PIN accepted, waiting for an amount.
	Authenticated
)

func (a Auth) String() string {
	switch a {
	case Waiting:
		return "waiting"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("Auth(%d)", uint8(a))
	}
}

// State is the machine's state.
type State struct {
	Cash uint64 `cramberry:"1"`
	Auth Auth   `cramberry:"2"`
	// Expected PIN hash while Authenticating.
	PinHash uint64 `cramberry:"3"`
	// Keys pressed since the last Enter.
	Keys []Key `cramberry:"4"`
}

// ActionKind selects what an Action does.
type ActionKind uint8

const (
	SwipeCard ActionKind = iota + 1
	PressKey
)

// Action is one customer interaction.
type Action struct {
	Kind ActionKind `cramberry:"1"`
	// Hash of the card's PIN, for SwipeCard.
	PinHash uint64 `cramberry:"2"`
	// Key pressed, for PressKey.
	Key Key `cramberry:"3"`
}

// Swipe returns the action of swiping a card with the given PIN.
func Swipe(pin ...Key) Action {
	return Action{Kind: SwipeCard, PinHash: PinHash(pin)}
}

// Press returns the action of pressing k.
func Press(k Key) Action {
	return Action{Kind: PressKey, Key: k}
}

// Type returns the actions of keying in keys followed by Enter.
func Type(keys ...Key) []Action {
	out := make([]Action, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, Press(k))
	}
	return append(out, Press(KeyEnter))
}

// PinHash hashes a PIN the way cards carry it.
func PinHash(pin []Key) uint64 {
	sum, err := types.HashValue(types.DefaultHasher, pin)
	if err != nil {
		panic(fmt.Sprintf("atm: hash pin: %v", err))
	}
	return sum
}

// Machine is the ATM state machine.
type Machine struct{}

// NextState applies one action. The input state is never modified.
func (Machine) NextState(s State, a Action) State {
	switch a.Kind {
	case SwipeCard:
		if s.Auth != Waiting {
			return s
		}
		return State{Cash: s.Cash, Auth: Authenticating, PinHash: a.PinHash}
	case PressKey:
		if a.Key == KeyEnter {
			return enter(s)
		}
		if _, ok := a.Key.digit(); !ok || s.Auth == Waiting {
			return s
		}
		keys := make([]Key, len(s.Keys), len(s.Keys)+1)
		copy(keys, s.Keys)
		s.Keys = append(keys, a.Key)
		return s
	default:
		return s
	}
}

func enter(s State) State {
	switch s.Auth {
	case Authenticating:
		if PinHash(s.Keys) == s.PinHash {
			return State{Cash: s.Cash, Auth: Authenticated}
		}
	case Authenticated:
		if amount := amountOf(s.Keys); amount <= s.Cash {
			return State{Cash: s.Cash - amount}
		}
	}
	return State{Cash: s.Cash}
}

// amountOf reads keys as a decimal number.
func amountOf(keys []Key) uint64 {
	var amount uint64
	for _, k := range keys {
		d, _ := k.digit()
		amount = amount*10 + d
	}
	return amount
}
