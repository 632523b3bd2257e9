// Package handler implements a handler registry: a lookup keyed by declared
// type that tries an exact match first and falls back to a widened "raw"
// match, shared by the three handler roles (serializer, deserializer,
// instance creator) via a single generic type.
package handler

import (
	"sync"

	"github.com/gojson-dev/gojson/pkg/internal/typeinfo"
)

// Registry is a HandlerMap for one handler role. H is left fully generic so
// the concrete function signature (which closes over the facade's Context
// and node types) is decided entirely by the caller in package gojson;
// this package only ever moves values of type H around by key.
type Registry[H any] struct {
	mu    sync.RWMutex
	exact map[string]H
	raw   map[string]H

	// onOverwrite is invoked, outside the lock, whenever a Register call
	// replaces an existing entry under the same key. It is a plain
	// func(string), never an error: warnings stay separable from the
	// error taxonomy.
	onOverwrite func(key string)
}

// NewRegistry builds an empty Registry. onOverwrite may be nil.
func NewRegistry[H any](onOverwrite func(key string)) *Registry[H] {
	return &Registry[H]{
		exact:       make(map[string]H),
		raw:         make(map[string]H),
		onOverwrite: onOverwrite,
	}
}

// SetWarningSink replaces the overwrite-warning sink. Builder wiring may
// learn the sink only after some registrations have already been made, so
// this is mutable even though Register/Lookup behavior is not.
func (r *Registry[H]) SetWarningSink(onOverwrite func(key string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onOverwrite = onOverwrite
}

// RegisterExact registers handler against info's fully-parameterised exact
// key, e.g. []int as opposed to []interface{}.
func (r *Registry[H]) RegisterExact(info *typeinfo.Info, h H) {
	r.register(r.exact, info.ExactKey(), h)
}

// RegisterRaw registers handler against info's widened raw key, making it
// the fallback for every exact instantiation sharing that raw shape (every
// slice type, or every instantiation of a given generic type).
func (r *Registry[H]) RegisterRaw(info *typeinfo.Info, h H) {
	r.register(r.raw, info.RawKey(), h)
}

func (r *Registry[H]) register(into map[string]H, key string, h H) {
	r.mu.Lock()
	_, exists := into[key]
	into[key] = h
	r.mu.Unlock()

	if exists && r.onOverwrite != nil {
		r.onOverwrite(key)
	}
}

// Lookup tries the exact key first, then the raw key, never the reverse.
func (r *Registry[H]) Lookup(info *typeinfo.Info) (H, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if h, ok := r.exact[info.ExactKey()]; ok {
		return h, true
	}
	if h, ok := r.raw[info.RawKey()]; ok {
		return h, true
	}
	var zero H
	return zero, false
}

// HasSpecificHandlerFor reports whether info's exact key has a registered
// handler, ignoring any raw-key fallback that might also apply.
func (r *Registry[H]) HasSpecificHandlerFor(info *typeinfo.Info) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.exact[info.ExactKey()]
	return ok
}

// Map composes the three handler roles a full serialization/deserialization
// engine needs: S for serializers, D for deserializers, C for instance
// creators. Each role is independent; nothing here assumes a type
// registered as one role is also registered as another.
type Map[S any, D any, C any] struct {
	Serializers      *Registry[S]
	Deserializers    *Registry[D]
	InstanceCreators *Registry[C]
}

// NewMap builds an empty Map. onOverwrite is shared across all three roles.
func NewMap[S any, D any, C any](onOverwrite func(key string)) *Map[S, D, C] {
	return &Map[S, D, C]{
		Serializers:      NewRegistry[S](onOverwrite),
		Deserializers:    NewRegistry[D](onOverwrite),
		InstanceCreators: NewRegistry[C](onOverwrite),
	}
}
