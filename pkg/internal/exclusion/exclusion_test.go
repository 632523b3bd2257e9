package exclusion

import (
	"reflect"
	"testing"
)

type sample struct {
	Name      string
	secret    string //nolint:unused
	Temp      string `gojson:"transient"`
	NewField  string `gojson:"version=2.0"`
	OldField  string `gojson:"version=1.0"`
	Combo     string `gojson:"transient,version=1.0"`
	Fn        func()
	Ch        chan int
}

func fieldOf(t *testing.T, name string) FieldDescriptor {
	t.Helper()
	typ := reflect.TypeOf(sample{})
	sf, ok := typ.FieldByName(name)
	if !ok {
		t.Fatalf("field %q not found", name)
	}
	return FieldDescriptor{StructField: sf, DeclaringType: typ}
}

func TestModifierMask(t *testing.T) {
	m := DefaultModifierMask()

	if m.ShouldSkipField(fieldOf(t, "secret")) {
		t.Error("unexported field should be read by default")
	}
	if !m.ShouldSkipField(fieldOf(t, "Temp")) {
		t.Error("transient-tagged field should be skipped")
	}
	if m.ShouldSkipField(fieldOf(t, "Name")) {
		t.Error("plain exported field should not be skipped")
	}

	opted := ModifierMask{Mask: ModifierUnexported | ModifierTransient}
	if !opted.ShouldSkipField(fieldOf(t, "secret")) {
		t.Error("unexported field should be skipped once ModifierUnexported is opted into")
	}
}

func TestInnerClassRule(t *testing.T) {
	r := InnerClassRule{}

	if !r.ShouldSkipField(fieldOf(t, "Fn")) {
		t.Error("func field should be skipped")
	}
	if !r.ShouldSkipField(fieldOf(t, "Ch")) {
		t.Error("chan field should be skipped")
	}
	if r.ShouldSkipField(fieldOf(t, "Name")) {
		t.Error("string field should not be skipped")
	}

	anon := reflect.TypeOf(struct{ X int }{})
	if !r.ShouldSkipClass(anon) {
		t.Error("anonymous struct type should be skipped at class level")
	}
	if r.ShouldSkipClass(reflect.TypeOf(sample{})) {
		t.Error("named struct type should not be skipped")
	}
}

func TestVersionCeiling(t *testing.T) {
	v := VersionCeiling{Ceiling: 1.5}

	if !v.ShouldSkipField(fieldOf(t, "NewField")) {
		t.Error("field versioned above ceiling should be skipped")
	}
	if v.ShouldSkipField(fieldOf(t, "OldField")) {
		t.Error("field versioned at or below ceiling should not be skipped")
	}
	if v.ShouldSkipField(fieldOf(t, "Name")) {
		t.Error("unversioned field should never be skipped")
	}
}

type versionedType struct{}

func (versionedType) GojsonVersion() float64 { return 3.0 }

func TestVersionCeiling_Class(t *testing.T) {
	v := VersionCeiling{Ceiling: 1.0}
	if !v.ShouldSkipClass(reflect.TypeOf(versionedType{})) {
		t.Error("class whose GojsonVersion exceeds the ceiling should be skipped")
	}

	v2 := VersionCeiling{Ceiling: 5.0}
	if v2.ShouldSkipClass(reflect.TypeOf(versionedType{})) {
		t.Error("class whose GojsonVersion is within the ceiling should not be skipped")
	}

	if v.ShouldSkipClass(reflect.TypeOf(sample{})) {
		t.Error("a type with no GojsonVersion method should never be skipped")
	}
}

type ownerOfVersionedField struct {
	Nested string
}

func (ownerOfVersionedField) GojsonVersion() float64 { return 3.0 }

func TestVersionCeiling_FieldInheritsDeclaringClass(t *testing.T) {
	typ := reflect.TypeOf(ownerOfVersionedField{})
	sf, ok := typ.FieldByName("Nested")
	if !ok {
		t.Fatal("field Nested not found")
	}
	field := FieldDescriptor{StructField: sf, DeclaringType: typ}

	v := VersionCeiling{Ceiling: 1.0}
	if !v.ShouldSkipField(field) {
		t.Error("field with no own version tag should inherit its declaring class's GojsonVersion ceiling")
	}

	v2 := VersionCeiling{Ceiling: 5.0}
	if v2.ShouldSkipField(field) {
		t.Error("field should not be skipped when the inherited ceiling is within bounds")
	}
}

func TestDisjunction(t *testing.T) {
	d := NewDisjunction(DefaultModifierMask(), InnerClassRule{}, VersionCeiling{Ceiling: 1.5})

	if !d.ShouldSkipField(fieldOf(t, "Temp")) {
		t.Error("disjunction should defer to ModifierMask")
	}
	if d.ShouldSkipField(fieldOf(t, "secret")) {
		t.Error("unexported field should be read by default even under the disjunction")
	}
	if !d.ShouldSkipField(fieldOf(t, "Fn")) {
		t.Error("disjunction should defer to InnerClassRule")
	}
	if !d.ShouldSkipField(fieldOf(t, "NewField")) {
		t.Error("disjunction should defer to VersionCeiling")
	}
	if d.ShouldSkipField(fieldOf(t, "Name")) {
		t.Error("a field no leaf vetoes should not be skipped")
	}
}
