// Package navigator implements a single-level shape classifier that, given a
// value and its declared type, invokes exactly one Visitor callback.
// Recursion into children is the Visitor's responsibility ("Visitor as open
// recursion") — Navigator never constructs a child Navigator itself. It does
// enumerate an object's own fields (a task assigned to the navigator rather
// than the visitor), handing each one to the Visitor, which recurses.
package navigator

import (
	"fmt"
	"reflect"
	"sort"
	"unsafe"

	gojsonerrors "github.com/gojson-dev/gojson/pkg/internal/errors"
	"github.com/gojson-dev/gojson/pkg/internal/exclusion"
	"github.com/gojson-dev/gojson/pkg/internal/reflectutil"
	"github.com/gojson-dev/gojson/pkg/internal/typeinfo"
)

// Enum is the marker interface a Go type implements to be classified as an
// enum by shape-classification step 2. Go has no native enum kind; this is
// the idiomatic name-convention substitute.
type Enum interface {
	GojsonEnumName() string
}

// Visitor is the callback surface the navigator drives during traversal, a
// tagged variant of callbacks in Go form. Every method it needs to recurse
// (VisitArray, VisitMap, VisitObjectField) is responsible for building its
// own child Navigator/Visitor pair and calling Accept on it — see New.
type Visitor interface {
	// VisitNull marks the current node absent. Called for an actual nil
	// value and for a value whose runtime class is wholly excluded.
	VisitNull(declared *typeinfo.Info) error

	// VisitEnum renders value's enum member. value's type, or a pointer to
	// it when value is addressable, implements Enum.
	VisitEnum(value reflect.Value, declared *typeinfo.Info) error

	// TryCustomHandler gives the visitor first refusal on declared: if a
	// handler is registered and accepts, handled is true and the
	// callback is terminal; otherwise classification continues to step 4.
	TryCustomHandler(value reflect.Value, declared *typeinfo.Info) (handled bool, err error)

	// VisitPrimitive renders value through the TypeAdapter. Called for
	// any shape the Navigator's IsPrimitive classifier accepts, and for any
	// other kind that is not an array, slice, map or struct.
	VisitPrimitive(value reflect.Value, declared *typeinfo.Info) error

	// VisitArray is called once for the whole array/slice value; the
	// visitor iterates elements and recurses itself.
	VisitArray(value reflect.Value, declared *typeinfo.Info) error

	// VisitMap is called once for the whole map value; the visitor
	// iterates entries (after coercing and sorting keys) and recurses
	// itself.
	VisitMap(value reflect.Value, declared *typeinfo.Info) error

	// BeginObject/EndObject bracket a struct's field enumeration,
	// expressing the Empty -> Populating -> Finalised state machine
	// explicitly rather than implicitly.
	BeginObject(declared *typeinfo.Info) error
	EndObject(declared *typeinfo.Info) error

	// VisitObjectField is invoked once per non-excluded field, in the
	// order the navigator enumerated them (ancestors before descendants).
	// The visitor computes the child node and recurses itself.
	VisitObjectField(field exclusion.FieldDescriptor, value reflect.Value, declared *typeinfo.Info) error
}

// VisitedSet tracks the heap identities of values currently being recursed
// into: exactly the ancestors of the currently-visited node are present.
// Scoped to Ptr/Map/Slice identity: a Go struct cannot embed itself by
// value, so value-typed structs never have a cycle to detect.
type VisitedSet struct {
	seen map[uintptr]struct{}
}

// NewVisitedSet returns an empty set, to be created fresh per root call.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{seen: make(map[uintptr]struct{})}
}

// Push records identity as visited. It returns false if identity was
// already present, signalling a cycle; the caller must not recurse further
// in that case and must not call Pop.
func (s *VisitedSet) Push(identity uintptr) bool {
	if _, ok := s.seen[identity]; ok {
		return false
	}
	s.seen[identity] = struct{}{}
	return true
}

// Pop removes identity, shrinking the set as the navigator unwinds. Callers
// must invoke this on every path, including failure, via defer.
func (s *VisitedSet) Pop(identity uintptr) {
	delete(s.seen, identity)
}

// Navigator drives one level of shape classification for (Value, Declared).
type Navigator struct {
	Value     reflect.Value
	Declared  *typeinfo.Info
	Visited   *VisitedSet
	Exclusion exclusion.Strategy
	// IsPrimitive classifies a dereferenced runtime type as primitive for
	// shape-classification step 7. Supplied by the facade so this package
	// never needs to know about TypeAdapter's uuid.UUID/url.URL/time.Time
	// special cases.
	IsPrimitive func(t reflect.Type) bool
	Path        []string
}

// New constructs a Navigator for a child value reached while recursing.
// Visitors call this (not Accept's receiver directly) to build each child
// frame, per the open-recursion design.
func New(value reflect.Value, declared *typeinfo.Info, visited *VisitedSet, strategy exclusion.Strategy, isPrimitive func(reflect.Type) bool, path []string) *Navigator {
	return &Navigator{
		Value:       value,
		Declared:    declared,
		Visited:     visited,
		Exclusion:   strategy,
		IsPrimitive: isPrimitive,
		Path:        path,
	}
}

// identityOf resolves v's heap identity for cycle tracking, unwrapping
// interface layers first. ok is false when v carries no meaningful identity
// (value types, nil).
func identityOf(v reflect.Value) (identity uintptr, ok bool) {
	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return 0, false
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return 0, false
		}
		return v.Pointer(), true
	}
	return 0, false
}

// isNullish reports whether v represents the absence of a value: an
// invalid reflect.Value, or a nilable kind holding nil.
func isNullish(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return v.IsNil()
	}
	return false
}

// unwrap strips pointer and interface indirection to reach the concrete
// value the rest of classification operates on.
func unwrap(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v
		}
		v = v.Elem()
	}
	return v
}

// implementsEnum reports whether v's type (or a pointer to it, when v is
// addressable) implements Enum.
func implementsEnum(v reflect.Value) bool {
	if v.Type().Implements(enumType) {
		return true
	}
	if v.CanAddr() && reflect.PointerTo(v.Type()).Implements(enumType) {
		return true
	}
	return false
}

var enumType = reflect.TypeOf((*Enum)(nil)).Elem()

// Accept performs shape classification in priority order and invokes
// exactly one terminal Visitor callback (or, for the struct/object shape,
// the Begin/Field.../End sequence that callback expands into).
func (n *Navigator) Accept(v Visitor) error {
	// Step 1: null.
	if isNullish(n.Value) {
		return v.VisitNull(n.Declared)
	}

	concrete := unwrap(n.Value)
	if isNullish(concrete) {
		return v.VisitNull(n.Declared)
	}

	// Step 2: enum.
	if implementsEnum(concrete) {
		return v.VisitEnum(concrete, n.Declared)
	}

	// Step 3: custom handler, with refusal.
	handled, err := v.TryCustomHandler(concrete, n.Declared)
	if err != nil {
		return err
	}
	if handled {
		return nil
	}

	// Step 7 (checked early): TypeAdapter-recognised wrapper types such as
	// time.Time, uuid.UUID or url.URL must be claimed before shape
	// classification below would otherwise route them into the array or
	// struct branches by their underlying Go Kind.
	if n.IsPrimitive != nil && n.IsPrimitive(concrete.Type()) {
		return v.VisitPrimitive(concrete, n.Declared)
	}

	kind := concrete.Kind()

	// Steps 4-5: array or slice.
	if kind == reflect.Array || kind == reflect.Slice {
		return n.acceptContainer(concrete, v.VisitArray)
	}

	// Step 6: map.
	if kind == reflect.Map {
		return n.acceptContainer(concrete, v.VisitMap)
	}

	if kind != reflect.Struct {
		// Any remaining basic kind (numbers, bool, string) that the
		// facade's IsPrimitive classifier did not already claim.
		return v.VisitPrimitive(concrete, n.Declared)
	}

	// Step 8: object with fields.
	return n.acceptObject(concrete, v)
}

// acceptContainer handles the shared cycle bookkeeping for array/slice and
// map shapes, both of which are a single terminal visitor callback.
func (n *Navigator) acceptContainer(concrete reflect.Value, visit func(reflect.Value, *typeinfo.Info) error) error {
	if identity, ok := identityOf(concrete); ok {
		if !n.Visited.Push(identity) {
			return gojsonerrors.New(gojsonerrors.KindCycleDetected, n.Path, "cycle detected")
		}
		defer n.Visited.Pop(identity)
	}
	return visit(concrete, n.Declared)
}

func (n *Navigator) acceptObject(concrete reflect.Value, v Visitor) error {
	runtimeType := concrete.Type()
	if n.Exclusion != nil && n.Exclusion.ShouldSkipClass(runtimeType) {
		return v.VisitNull(n.Declared)
	}

	if identity, hasIdentity := identityOf(n.Value); hasIdentity {
		if !n.Visited.Push(identity) {
			return gojsonerrors.New(gojsonerrors.KindCycleDetected, n.Path, "cycle detected")
		}
		defer n.Visited.Pop(identity)
	}

	if err := v.BeginObject(n.Declared); err != nil {
		return err
	}

	for _, field := range FlattenFields(runtimeType) {
		if n.Exclusion != nil && n.Exclusion.ShouldSkipField(field) {
			continue
		}
		fieldValue, err := readField(concrete, field)
		if err != nil {
			return gojsonerrors.Wrap(gojsonerrors.KindReflectiveAccess,
				append(append([]string{}, n.Path...), field.StructField.Name),
				"field read failed", err)
		}
		if err := v.VisitObjectField(field, fieldValue, typeinfo.Of(field.StructField.Type)); err != nil {
			return err
		}
	}

	return v.EndObject(n.Declared)
}

// readField reads a field from concrete, recovering from any reflect panic
// into a ReflectiveAccess cause rather than letting it escape. Go's
// FieldByName already resolves promoted fields through anonymous embedding
// at any depth, the same resolution FlattenFields replicates for ordering
// purposes.
//
// Host capability: read access is provided regardless of access control, so
// an unexported field is still read by value. Go's reflect package flags a
// Value obtained from an unexported field read-only, which would panic the
// moment anything downstream calls Interface() on it (directly, or via
// MapIndex/Elem on a read-only map or pointer). reflect.NewAt re-derives a
// fresh, unflagged Value at the same address, the standard workaround.
func readField(concrete reflect.Value, field exclusion.FieldDescriptor) (value reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	if !concrete.CanAddr() {
		addressable := reflect.New(concrete.Type()).Elem()
		addressable.Set(concrete)
		concrete = addressable
	}

	fv := concrete.FieldByName(field.StructField.Name)
	if !field.StructField.IsExported() {
		fv = reflect.NewAt(fv.Type(), unsafe.Pointer(fv.UnsafeAddr())).Elem()
	}
	return fv, nil
}

// FlattenFields enumerates t's fields ancestor-first, recursively expanding
// anonymous embedded structs in place (the same rule encoding/json uses: an
// embedded field with an explicit gojson tag is NOT flattened).
func FlattenFields(t reflect.Type) []exclusion.FieldDescriptor {
	out := make([]exclusion.FieldDescriptor, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			embedded := reflectutil.UnwrapPointer(f.Type)
			_, tagged := f.Tag.Lookup("gojson")
			if embedded.Kind() == reflect.Struct && !tagged {
				out = append(out, FlattenFields(embedded)...)
				continue
			}
		}
		out = append(out, exclusion.FieldDescriptor{StructField: f, DeclaringType: t})
	}
	return out
}

// SortedMapKeys returns concrete's keys coerced to strings, sorted
// lexicographically, giving map iteration a deterministic order (unlike Go's
// own randomized map iteration). Exported for the facade's VisitMap
// implementation.
func SortedMapKeys(concrete reflect.Value) []reflect.Value {
	keys := concrete.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
	return keys
}
