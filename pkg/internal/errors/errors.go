// Package errors defines the shared error taxonomy for gojson's core.
package errors

import (
	"fmt"
	"strings"
)

// Kind is an enum over the terminal error categories a serialization or
// deserialization call can fail with. All five are terminal: the core never
// attempts to recover a partial subtree.
type Kind string

const (
	KindCycleDetected    Kind = "cycle_detected"    // the visited-set invariant would be violated
	KindReflectiveAccess Kind = "reflective_access" // field read or constructor invocation failed
	KindUserHandler      Kind = "user_handler"      // a registered serializer/deserializer raised
	KindTypeMismatch     Kind = "type_mismatch"     // JSON node shape incompatible with declared type
	KindUnconstructible  Kind = "unconstructible"   // no instance creator and no viable default construction
)

// Error is the terminal error the facade returns. Path records the
// field/index chain from the root to the point of failure, e.g.
// ["Address", "ZipCode"] or ["Items", "[2]"].
type Error struct {
	Path    []string
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if len(e.Path) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, strings.Join(e.Path, "."), msg)
}

// Unwrap exposes the chained cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an *Error with no chained cause.
func New(kind Kind, path []string, message string) *Error {
	return &Error{Path: path, Kind: kind, Message: message}
}

// Wrap builds an *Error chaining an underlying cause.
func Wrap(kind Kind, path []string, message string, cause error) *Error {
	return &Error{Path: path, Kind: kind, Message: message, Cause: cause}
}

// PathString renders a dotted path, for use in messages that embed a
// sub-path without allocating a new Error.
func PathString(path []string) string {
	return strings.Join(path, ".")
}
