package testing

import (
	"errors"
	"strings"
	"testing"
)

// AssertError validates that an error matches expected results.
func AssertError(t *testing.T, err error, wantErr bool) {
	t.Helper()

	if wantErr != (err != nil) {
		t.Fatalf("Expected error = %v, got: %v", wantErr, err)
	}
}

// AssertErrorIs validates that err wraps target; a nil target expects no error.
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()

	if target == nil {
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		return
	}

	if !errors.Is(err, target) {
		t.Fatalf("Expected error wrapping %q, got: %v", target, err)
	}
}

// AssertEqual verifies two values are equal.
func AssertEqual(t *testing.T, got, want any) {
	t.Helper()

	if got != want {
		t.Errorf("got = %q, want: %q", got, want)
	}
}

// AssertContains verifies that got contains every wanted substring.
func AssertContains(t *testing.T, got string, want ...string) {
	t.Helper()

	for _, needle := range want {
		if !strings.Contains(got, needle) {
			t.Errorf("Expected output to contain %q, got: %q", needle, got)
		}
	}
}

// AssertNotContains verifies that got contains none of the unwanted substrings.
func AssertNotContains(t *testing.T, got string, unwanted ...string) {
	t.Helper()

	for _, needle := range unwanted {
		if strings.Contains(got, needle) {
			t.Errorf("Expected output to not contain %q, got: %q", needle, got)
		}
	}
}
