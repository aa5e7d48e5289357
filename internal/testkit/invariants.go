package testkit

import (
	"errors"
	"fmt"
	"testing"

	"swiftcore/swift"
)

// Checker is implemented by every container handle.
type Checker interface {
	CheckInvariants() error
}

// CheckInvariants runs the invariant check of every handle and joins the
// failures. Nil handles are reported, not skipped.
func CheckInvariants(handles ...Checker) error {
	var errs []error
	for i, h := range handles {
		if h == nil {
			errs = append(errs, fmt.Errorf("handle %d is nil", i))
			continue
		}
		if err := h.CheckInvariants(); err != nil {
			errs = append(errs, fmt.Errorf("handle %d (%T): %w", i, h, err))
		}
	}
	return errors.Join(errs...)
}

// MustHold fails the test when any handle breaks its invariants.
func MustHold(t testing.TB, handles ...Checker) {
	t.Helper()
	if err := CheckInvariants(handles...); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}
}

// ExpectPanic runs fn and fails the test unless it panics with a core
// error carrying code.
func ExpectPanic(t testing.TB, code swift.PanicCode, fn func()) {
	t.Helper()
	err := swift.Try(fn)
	if err == nil {
		t.Fatalf("expected %s panic, got none", code)
	}
	var se *swift.Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *swift.Error, got %T: %v", err, err)
	}
	if se.Code != code {
		t.Fatalf("expected %s, got %s (%v)", code, se.Code, err)
	}
}
