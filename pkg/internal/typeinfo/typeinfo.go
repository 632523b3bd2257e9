// Package typeinfo normalises a Go declared type (a reflect.Type known at
// the point of serialization) into a declared type descriptor: raw
// identity, element type for array/collection/map shapes, and an ordered
// type-argument list.
package typeinfo

import (
	"reflect"
	"strings"
	"sync"
)

// Info is a declared type descriptor. Every Info is reducible to a Raw type
// plus an (optionally empty) ordered Args list.
type Info struct {
	// Raw is the declared reflect.Type itself, unmodified. Go does not
	// erase generic type arguments the way Java does, so Raw already
	// carries full parametric identity for slices, arrays and maps, and
	// for monomorphized user generic types.
	Raw reflect.Type

	// Args holds the ordered child descriptors: zero for a plain type,
	// one for a slice/array ([element]), two for a map ([key, value]).
	Args []*Info

	// Element is Args' element descriptor: for array/slice it is Args[0];
	// for a map it is Args[1] (the value type); otherwise nil.
	Element *Info
}

var cache sync.Map // map[reflect.Type]*Info

// Of derives the Info for a declared reflect.Type, caching per-type since
// the descriptor is purely structural and independent of any particular
// root serialization call. The cache is safe to share across concurrent
// calls because Info values are never mutated after construction.
func Of(t reflect.Type) *Info {
	if t == nil {
		return &Info{Raw: anyType}
	}
	if cached, ok := cache.Load(t); ok {
		return cached.(*Info)
	}

	info := &Info{Raw: t}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		elem := Of(t.Elem())
		info.Args = []*Info{elem}
		info.Element = elem
	case reflect.Map:
		key := Of(t.Key())
		val := Of(t.Elem())
		info.Args = []*Info{key, val}
		info.Element = val
	}

	// Best-effort: store only once fully built to avoid publishing a
	// partially-populated Info if Of recurses back into the same type
	// (self-referential generic instantiations are not possible in Go,
	// but a self-referential named slice/map type, e.g. type Tree
	// map[string]Tree, is). LoadOrStore prevents a torn cache entry.
	actual, _ := cache.LoadOrStore(t, info)
	return actual.(*Info)
}

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// Unwrapped returns the Info for the pointer-stripped type, useful for
// classification code that wants to ignore a declared `*T` wrapper without
// discarding the original descriptor.
func (i *Info) Unwrapped() *Info {
	t := i.Raw
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == i.Raw {
		return i
	}
	return Of(t)
}

// Equal implements the descriptor equality invariant: raw equality is
// reflexive, parametric equality requires per-position raw equality of
// arguments.
func (i *Info) Equal(other *Info) bool {
	if i == nil || other == nil {
		return i == other
	}
	if i.Raw != other.Raw {
		return false
	}
	if len(i.Args) != len(other.Args) {
		return false
	}
	for idx := range i.Args {
		if !i.Args[idx].Equal(other.Args[idx]) {
			return false
		}
	}
	return true
}

// ExactKey is the HandlerMap lookup key for this exact, fully-parameterised
// descriptor.
func (i *Info) ExactKey() string {
	return i.Raw.String()
}

// RawKey is the HandlerMap fallback lookup key with type arguments erased.
// Go does not erase generics at runtime the way Java does, so the erasure
// is synthesised:
//   - built-in slice/array/map kinds widen their argument positions to
//     interface{}, e.g. []int -> []interface {}, map[string]int ->
//     map[interface {}]interface {};
//   - a named generic instantiation (e.g. pkg.Box[int]) has its bracketed
//     argument list stripped from the type's string form, yielding pkg.Box;
//   - anything else has no narrower raw form and RawKey equals ExactKey.
func (i *Info) RawKey() string {
	switch i.Raw.Kind() {
	case reflect.Slice:
		return "[]interface {}"
	case reflect.Array:
		return reflect.ArrayOf(i.Raw.Len(), anyType).String()
	case reflect.Map:
		return "map[interface {}]interface {}"
	}

	s := i.Raw.String()
	if idx := strings.IndexByte(s, '['); idx != -1 {
		return s[:idx]
	}
	return s
}
