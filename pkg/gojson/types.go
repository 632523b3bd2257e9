package gojson

import (
	"reflect"

	gojsonerrors "github.com/gojson-dev/gojson/pkg/internal/errors"
	"github.com/gojson-dev/gojson/pkg/internal/typeinfo"
	"github.com/gojson-dev/gojson/pkg/node"
)

// Node is the JSON tree node type custom handlers build and inspect. It is
// an alias for node.Node so callers never need to import the node package
// directly for routine handler work.
type Node = node.Node

// Error is the terminal error type every public entry point can return.
// Callers use errors.As to inspect Kind, Path and a chained Cause.
type Error = gojsonerrors.Error

// ErrorKind re-exports the error taxonomy.
type ErrorKind = gojsonerrors.Kind

const (
	ErrCycleDetected    = gojsonerrors.KindCycleDetected
	ErrReflectiveAccess = gojsonerrors.KindReflectiveAccess
	ErrUserHandler      = gojsonerrors.KindUserHandler
	ErrTypeMismatch     = gojsonerrors.KindTypeMismatch
	ErrUnconstructible  = gojsonerrors.KindUnconstructible
)

// SerializerFunc is the reflection-level shape a registered serializer
// reduces to; RegisterSerializer[T] adapts a typed func(T, Context) into
// one of these so the underlying HandlerMap registry stays non-generic.
type SerializerFunc func(value reflect.Value, ctx Context) (*Node, error)

// DeserializerFunc is the symmetric shape for inbound handlers.
type DeserializerFunc func(n *Node, ctx Context) (reflect.Value, error)

// InstanceCreatorFunc produces a fresh, addressable instance of a declared
// type during deserialization.
type InstanceCreatorFunc func(t reflect.Type) (reflect.Value, error)

// Context is handed to a custom handler so it can re-enter the pipeline.
// Valid only for the duration of the handler call that received it.
type Context interface {
	// Serialize recurses through the same pipeline as the top-level call:
	// exclusion, cycle detection and registry lookup all re-apply.
	Serialize(value any, declaredType reflect.Type) (*Node, error)

	// Deserialize is the symmetric re-entry point for DeserializerFunc.
	Deserialize(n *Node, declaredType reflect.Type) (any, error)
}

func typeInfoOf(t reflect.Type) *typeinfo.Info {
	return typeinfo.Of(t)
}

func adaptSerializer[T any](fn func(T, Context) (Node, error)) SerializerFunc {
	return func(value reflect.Value, ctx Context) (*Node, error) {
		typed, ok := value.Interface().(T)
		if !ok {
			return nil, gojsonerrors.New(ErrTypeMismatch, nil, "value does not match registered serializer type")
		}
		n, err := fn(typed, ctx)
		if err != nil {
			return nil, gojsonerrors.Wrap(ErrUserHandler, nil, "registered serializer failed", err)
		}
		return &n, nil
	}
}

func adaptDeserializer[T any](fn func(Node, Context) (T, error)) DeserializerFunc {
	return func(n *Node, ctx Context) (reflect.Value, error) {
		typed, err := fn(*n, ctx)
		if err != nil {
			return reflect.Value{}, gojsonerrors.Wrap(ErrUserHandler, nil, "registered deserializer failed", err)
		}
		return reflect.ValueOf(typed), nil
	}
}

func adaptInstanceCreator[T any](fn func() (T, error)) InstanceCreatorFunc {
	return func(reflect.Type) (reflect.Value, error) {
		typed, err := fn()
		if err != nil {
			return reflect.Value{}, gojsonerrors.Wrap(ErrUnconstructible, nil, "registered instance creator failed", err)
		}
		return reflect.ValueOf(typed), nil
	}
}
