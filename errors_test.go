package sealberry

import (
	"errors"
	"fmt"
	"testing"
)

func TestSealError(t *testing.T) {
	err := NewSealError("Proof of Work", 42, ErrSearchExhausted)
	if err.Height != 42 {
		t.Errorf("expected height 42, got %d", err.Height)
	}
	if err.Engine != "Proof of Work" {
		t.Errorf("unexpected engine: %s", err.Engine)
	}

	expected := "Proof of Work: seal failed at height 42: proof-of-work search exhausted"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, ErrSearchExhausted) {
		t.Error("SealError should unwrap to its reason")
	}
}

func TestIsSealFailure(t *testing.T) {
	sealErr := NewSealError("Any-Member Authority", 10, ErrEmptyRoster)

	// Direct.
	s, ok := IsSealFailure(sealErr)
	if !ok {
		t.Fatal("expected IsSealFailure to return true")
	}
	if s.Height != 10 {
		t.Errorf("expected height 10, got %d", s.Height)
	}

	// Wrapped.
	wrapped := fmt.Errorf("child block: %w", sealErr)
	s2, ok2 := IsSealFailure(wrapped)
	if !ok2 {
		t.Fatal("expected IsSealFailure to unwrap wrapped error")
	}
	if !errors.Is(s2, ErrEmptyRoster) {
		t.Errorf("unexpected reason: %v", s2.Err)
	}

	// Non-seal error.
	if _, ok3 := IsSealFailure(fmt.Errorf("just a regular error")); ok3 {
		t.Fatal("expected IsSealFailure to return false for non-seal error")
	}

	// Nil.
	if _, ok4 := IsSealFailure(nil); ok4 {
		t.Fatal("expected IsSealFailure to return false for nil")
	}
}
