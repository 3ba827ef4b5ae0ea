// Package combinator builds new consensus engines out of existing ones.
//
// Every combinator implements sealberry.Engine and owns its inner
// engines, so combinators nest freely:
//
//   - EvenOnly adds an even-state-root rule to any engine.
//   - Forked switches from one engine to another above a fork height,
//     translating between digest representations with an explicit
//     Conversion.
//   - Alternating interleaves two engines by height parity, carrying a
//     digest slot for each.
//
// Presets in presets.go assemble the common fork shapes: an authority
// set change, a difficulty change, a rule added after a height, and a
// switch from proof of work to authorities.
package combinator
