// Package exclusion implements composable field/class exclusion rules: a
// set of independent leaf strategies combined by disjunction, any one of
// which can veto a field or a whole class.
package exclusion

import (
	"reflect"
	"strconv"
	"strings"
)

// FieldDescriptor carries everything a leaf strategy needs to judge a
// struct field without re-deriving it from reflect.StructField each time.
type FieldDescriptor struct {
	StructField   reflect.StructField
	DeclaringType reflect.Type
}

// Tag returns the gojson struct tag for the field, e.g. `gojson:"transient"`
// or `gojson:"version=1.1"`. An absent tag yields "".
func (d FieldDescriptor) Tag() string {
	return d.StructField.Tag.Get("gojson")
}

// TagHas reports whether the comma-separated gojson tag contains option.
func (d FieldDescriptor) TagHas(option string) bool {
	for _, part := range strings.Split(d.Tag(), ",") {
		if strings.TrimSpace(part) == option {
			return true
		}
	}
	return false
}

// TagValue returns the value of a "key=value" entry in the gojson tag.
func (d FieldDescriptor) TagValue(key string) (string, bool) {
	for _, part := range strings.Split(d.Tag(), ",") {
		part = strings.TrimSpace(part)
		if v, ok := strings.CutPrefix(part, key+"="); ok {
			return v, true
		}
	}
	return "", false
}

// Strategy is the exclusion-strategy contract: a predicate over fields, and
// an independent predicate over whole classes (used for the root value and
// for container element types alike).
type Strategy interface {
	ShouldSkipField(d FieldDescriptor) bool
	ShouldSkipClass(t reflect.Type) bool
}

// Disjunction combines leaves so that a field or class is excluded the
// moment any one leaf vetoes it: a short-circuiting OR of independent
// predicates.
type Disjunction struct {
	Leaves []Strategy
}

func NewDisjunction(leaves ...Strategy) *Disjunction {
	return &Disjunction{Leaves: leaves}
}

func (s *Disjunction) ShouldSkipField(d FieldDescriptor) bool {
	for _, leaf := range s.Leaves {
		if leaf.ShouldSkipField(d) {
			return true
		}
	}
	return false
}

func (s *Disjunction) ShouldSkipClass(t reflect.Type) bool {
	for _, leaf := range s.Leaves {
		if leaf.ShouldSkipClass(t) {
			return true
		}
	}
	return false
}

// Modifier is a bit in the ModifierMask. Go has no "static"/"final" field
// modifiers, so this is narrowed to the two modifier-like facts a Go field
// actually carries: visibility and an explicit opt-out tag.
type Modifier uint8

const (
	ModifierUnexported Modifier = 1 << iota
	ModifierTransient
)

// ModifierMask excludes fields whose modifier bits intersect the mask,
// the field-visibility-gate idiom adapted from pkg/internal/reflectutil.
type ModifierMask struct {
	Mask Modifier
}

// DefaultModifierMask excludes only fields explicitly tagged
// `gojson:"transient"`. Unexported fields are read (via navigator's
// unsafe-pointer trick) and included by default; ModifierUnexported is
// available for callers who want to opt into excluding them via
// WithModifierMask.
func DefaultModifierMask() ModifierMask {
	return ModifierMask{Mask: ModifierTransient}
}

func (m ModifierMask) ShouldSkipField(d FieldDescriptor) bool {
	if m.Mask&ModifierUnexported != 0 && !d.StructField.IsExported() {
		return true
	}
	if m.Mask&ModifierTransient != 0 && d.TagHas("transient") {
		return true
	}
	return false
}

func (m ModifierMask) ShouldSkipClass(reflect.Type) bool {
	return false
}

// InnerClassRule excludes the Go shapes that cannot be meaningfully
// serialised because they have no JSON representation: functions, channels
// and unsafe pointers at the field level, and unnamed ("anonymous") struct
// types at the class level, which have no stable identity to register a
// handler against.
type InnerClassRule struct{}

func (InnerClassRule) ShouldSkipField(d FieldDescriptor) bool {
	switch d.StructField.Type.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}

func (InnerClassRule) ShouldSkipClass(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.Name() == ""
}

// versioned is the marker a type implements to publish a class-level
// version ceiling, the moral equivalent of a field tag but for the
// type itself rather than one of its fields. Discovered by reflection on
// the method set.
type versioned interface {
	GojsonVersion() float64
}

// VersionCeiling excludes fields (and whole classes) declared with a
// version newer than Ceiling. A field opts in via `gojson:"version=1.1"`; a
// class opts in by implementing GojsonVersion() float64.
type VersionCeiling struct {
	Ceiling float64
}

func (v VersionCeiling) ShouldSkipField(d FieldDescriptor) bool {
	raw, ok := d.TagValue("version")
	if !ok {
		if d.DeclaringType == nil {
			return false
		}
		return v.ShouldSkipClass(d.DeclaringType)
	}
	fieldVersion, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return false
	}
	return fieldVersion > v.Ceiling
}

func (v VersionCeiling) ShouldSkipClass(t reflect.Type) bool {
	candidate := reflect.New(t).Interface()
	ver, ok := candidate.(versioned)
	if !ok {
		return false
	}
	return ver.GojsonVersion() > v.Ceiling
}
