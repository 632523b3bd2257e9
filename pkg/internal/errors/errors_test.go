package errors

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{"with path", &Error{Kind: KindTypeMismatch, Path: []string{"User", "Email"}, Message: "want string"}, "type_mismatch: User.Email: want string"},
		{"empty path", &Error{Kind: KindCycleDetected, Path: []string{}, Message: "self-reference"}, "cycle_detected: self-reference"},
		{"cause only", &Error{Kind: KindReflectiveAccess, Cause: errors.New("boom")}, "reflective_access: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("inner")
	err := Wrap(KindUserHandler, nil, "handler failed", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestPathString(t *testing.T) {
	if got := PathString([]string{"A", "B", "[2]"}); got != "A.B.[2]" {
		t.Errorf("PathString() = %q", got)
	}
}
