package navigator

import (
	"reflect"
	"testing"

	"github.com/gojson-dev/gojson/pkg/internal/exclusion"
	"github.com/gojson-dev/gojson/pkg/internal/typeinfo"
)

// recordingVisitor logs which callback fired and recurses into the children
// of array/map/object shapes so multi-level fixtures can be exercised
// without a real facade.
type recordingVisitor struct {
	events      []string
	visited     *VisitedSet
	exclusion   exclusion.Strategy
	isPrimitive func(reflect.Type) bool
	handlerFor  map[reflect.Type]bool // types TryCustomHandler should accept
}

func newRecordingVisitor() *recordingVisitor {
	return &recordingVisitor{
		visited:     NewVisitedSet(),
		exclusion:   exclusion.NewDisjunction(exclusion.DefaultModifierMask(), exclusion.InnerClassRule{}),
		isPrimitive: func(t reflect.Type) bool { return false },
		handlerFor:  map[reflect.Type]bool{},
	}
}

func (r *recordingVisitor) child(value reflect.Value, declared *typeinfo.Info) *Navigator {
	return New(value, declared, r.visited, r.exclusion, r.isPrimitive, nil)
}

func (r *recordingVisitor) VisitNull(declared *typeinfo.Info) error {
	r.events = append(r.events, "null")
	return nil
}

func (r *recordingVisitor) VisitEnum(value reflect.Value, declared *typeinfo.Info) error {
	r.events = append(r.events, "enum:"+value.Interface().(Enum).GojsonEnumName())
	return nil
}

func (r *recordingVisitor) TryCustomHandler(value reflect.Value, declared *typeinfo.Info) (bool, error) {
	if r.handlerFor[declared.Raw] {
		r.events = append(r.events, "custom")
		return true, nil
	}
	return false, nil
}

func (r *recordingVisitor) VisitPrimitive(value reflect.Value, declared *typeinfo.Info) error {
	r.events = append(r.events, "primitive")
	return nil
}

func (r *recordingVisitor) VisitArray(value reflect.Value, declared *typeinfo.Info) error {
	r.events = append(r.events, "array")
	for i := 0; i < value.Len(); i++ {
		elem := value.Index(i)
		if err := r.child(elem, declared.Element).Accept(r); err != nil {
			return err
		}
	}
	return nil
}

func (r *recordingVisitor) VisitMap(value reflect.Value, declared *typeinfo.Info) error {
	r.events = append(r.events, "map")
	for _, key := range SortedMapKeys(value) {
		if err := r.child(value.MapIndex(key), declared.Element).Accept(r); err != nil {
			return err
		}
	}
	return nil
}

func (r *recordingVisitor) BeginObject(declared *typeinfo.Info) error {
	r.events = append(r.events, "begin-object")
	return nil
}

func (r *recordingVisitor) EndObject(declared *typeinfo.Info) error {
	r.events = append(r.events, "end-object")
	return nil
}

func (r *recordingVisitor) VisitObjectField(field exclusion.FieldDescriptor, value reflect.Value, declared *typeinfo.Info) error {
	r.events = append(r.events, "field:"+field.StructField.Name)
	return r.child(value, declared).Accept(r)
}

func accept(t *testing.T, value any) *recordingVisitor {
	t.Helper()
	rv := reflect.ValueOf(value)
	visitor := newRecordingVisitor()
	nav := New(rv, typeinfo.Of(rv.Type()), visitor.visited, visitor.exclusion, visitor.isPrimitive, nil)
	if err := nav.Accept(visitor); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	return visitor
}

func TestAccept_Null(t *testing.T) {
	var p *int
	rv := reflect.ValueOf(p)
	visitor := newRecordingVisitor()
	nav := New(rv, typeinfo.Of(reflect.TypeOf(p)), visitor.visited, visitor.exclusion, visitor.isPrimitive, nil)
	if err := nav.Accept(visitor); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if len(visitor.events) != 1 || visitor.events[0] != "null" {
		t.Fatalf("events = %v, want [null]", visitor.events)
	}
}

type color int

func (c color) GojsonEnumName() string {
	return [...]string{"red", "green", "blue"}[c]
}

func TestAccept_Enum(t *testing.T) {
	visitor := accept(t, color(1))
	if len(visitor.events) != 1 || visitor.events[0] != "enum:green" {
		t.Fatalf("events = %v, want [enum:green]", visitor.events)
	}
}

func TestAccept_Primitive(t *testing.T) {
	visitor := accept(t, 42)
	if len(visitor.events) != 1 || visitor.events[0] != "primitive" {
		t.Fatalf("events = %v, want [primitive]", visitor.events)
	}
}

func TestAccept_Array(t *testing.T) {
	visitor := accept(t, []int{1, 2, 3})
	want := []string{"array", "primitive", "primitive", "primitive"}
	if !reflect.DeepEqual(visitor.events, want) {
		t.Fatalf("events = %v, want %v", visitor.events, want)
	}
}

func TestAccept_Map(t *testing.T) {
	visitor := accept(t, map[string]int{"b": 2, "a": 1})
	want := []string{"map", "primitive", "primitive"}
	if !reflect.DeepEqual(visitor.events, want) {
		t.Fatalf("events = %v, want %v", visitor.events, want)
	}
}

type inner struct {
	Y int
}

type outer struct {
	inner
	X string
	skip string `gojson:"transient"` //nolint:unused
}

func TestAccept_ObjectAncestorFirst(t *testing.T) {
	visitor := accept(t, outer{inner: inner{Y: 1}, X: "hi"})
	want := []string{"begin-object", "field:Y", "primitive", "field:X", "primitive", "end-object"}
	if !reflect.DeepEqual(visitor.events, want) {
		t.Fatalf("events = %v, want %v", visitor.events, want)
	}
}

func TestAccept_CustomHandler(t *testing.T) {
	type special struct{ V int }
	rv := reflect.ValueOf(special{V: 1})
	visitor := newRecordingVisitor()
	visitor.handlerFor[rv.Type()] = true
	nav := New(rv, typeinfo.Of(rv.Type()), visitor.visited, visitor.exclusion, visitor.isPrimitive, nil)
	if err := nav.Accept(visitor); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if len(visitor.events) != 1 || visitor.events[0] != "custom" {
		t.Fatalf("events = %v, want [custom]", visitor.events)
	}
}

type node struct {
	Next *node
}

func TestAccept_CycleDetected(t *testing.T) {
	n := &node{}
	n.Next = n

	rv := reflect.ValueOf(n)
	visitor := newRecordingVisitor()
	nav := New(rv, typeinfo.Of(rv.Type()), visitor.visited, visitor.exclusion, visitor.isPrimitive, nil)
	err := nav.Accept(visitor)
	if err == nil {
		t.Fatal("expected a cycle error")
	}
	if got := err.Error(); got == "" {
		t.Fatal("expected a non-empty error message")
	}
}

func TestAccept_DAGSiblingsBothEmitted(t *testing.T) {
	shared := inner{Y: 9}
	type twoRefs struct {
		A inner
		B inner
	}
	visitor := accept(t, twoRefs{A: shared, B: shared})
	want := []string{"begin-object", "field:A", "begin-object", "field:Y", "primitive", "end-object",
		"field:B", "begin-object", "field:Y", "primitive", "end-object", "end-object"}
	if !reflect.DeepEqual(visitor.events, want) {
		t.Fatalf("events = %v, want %v", visitor.events, want)
	}
}

func TestAccept_TransientFieldExcluded(t *testing.T) {
	visitor := accept(t, outer{inner: inner{Y: 1}, X: "hi", skip: "nope"})
	for _, e := range visitor.events {
		if e == "field:skip" {
			t.Fatal("transient field should have been excluded")
		}
	}
}
