// Package testutil provides shared test infrastructure for the schedulability
// analyzer and simulator test suites.
package testutil

import (
	"math"
	"testing"
)

// AssertFloat64Equal compares two float64 values with absolute tolerance,
// matching the kernel's own tolerance-based equality (sim.Tolerance).
func AssertFloat64Equal(t *testing.T, name string, want, got, absTol float64) {
	t.Helper()
	if math.Abs(want-got) > absTol {
		t.Errorf("%s: got %v, want %v (absTol=%v)", name, got, want, absTol)
	}
}

// Float64Ptr returns a pointer to v, for populating optional float64 fields
// like Task.BCET in test fixtures.
func Float64Ptr(v float64) *float64 {
	return &v
}

// IntPtr returns a pointer to v, for populating optional int fields like
// Task.Priority in test fixtures.
func IntPtr(v int) *int {
	return &v
}
