package gojson

import (
	"fmt"
	"reflect"

	gojsonerrors "github.com/gojson-dev/gojson/pkg/internal/errors"
	"github.com/gojson-dev/gojson/pkg/internal/exclusion"
	"github.com/gojson-dev/gojson/pkg/internal/handler"
	"github.com/gojson-dev/gojson/pkg/internal/navigator"
	"github.com/gojson-dev/gojson/pkg/internal/typeinfo"
	"github.com/gojson-dev/gojson/pkg/node"

	"github.com/gojson-dev/gojson/pkg/format"
)

// Serializer is the immutable, concurrency-safe facade: built once from a
// Builder, shared freely across goroutines. Each call allocates its own
// visited-set and visitor tree.
type Serializer struct {
	exclusion         exclusion.Strategy
	formatter         format.Formatter
	naming            NamingStrategy
	includeNullFields bool
	handlers          *handler.Map[SerializerFunc, DeserializerFunc, InstanceCreatorFunc]
}

// ToJSON infers the declared type from value's runtime class.
func (s *Serializer) ToJSON(value any) (string, error) {
	var t reflect.Type
	if value != nil {
		t = reflect.TypeOf(value)
	}
	return s.ToJSONTyped(value, t)
}

// ToJSONTyped uses the supplied declared type, mandatory for a value whose
// runtime class carries parametric information a bare interface value
// cannot reconstruct — e.g. a generic collection's element type.
func (s *Serializer) ToJSONTyped(value any, declaredType reflect.Type) (string, error) {
	rv := reflect.ValueOf(value)
	info := typeinfo.Of(declaredType)
	visited := navigator.NewVisitedSet()

	root, err := s.serialize(rv, info, visited, nil)
	if err != nil {
		return "", err
	}
	if root.IsNull() {
		return "", nil
	}
	return s.formatter.Format(root)
}

// serialize drives one Navigator/Visitor frame and returns its resulting
// node, the shared recursive step every VisitArray/VisitMap/VisitObjectField
// callback below performs to build a child.
func (s *Serializer) serialize(value reflect.Value, declared *typeinfo.Info, visited *navigator.VisitedSet, path []string) (*Node, error) {
	sv := &serializationVisitor{s: s, visited: visited, path: path}
	nav := navigator.New(value, declared, visited, s.exclusion, isAdapterPrimitive, path)
	if err := nav.Accept(sv); err != nil {
		return nil, err
	}
	return sv.result, nil
}

// serializationVisitor implements navigator.Visitor and accumulates one
// node in result: each recursive call allocates a fresh instance with its
// own root slot.
type serializationVisitor struct {
	s       *Serializer
	visited *navigator.VisitedSet
	path    []string
	result  *Node
}

func (sv *serializationVisitor) VisitNull(declared *typeinfo.Info) error {
	sv.result = node.NewNull()
	return nil
}

func (sv *serializationVisitor) VisitEnum(value reflect.Value, declared *typeinfo.Info) error {
	en, ok := value.Interface().(navigator.Enum)
	if !ok && value.CanAddr() {
		en, ok = value.Addr().Interface().(navigator.Enum)
	}
	if !ok {
		return gojsonerrors.New(ErrTypeMismatch, sv.path, "value does not implement Enum")
	}
	sv.result = node.NewString(en.GojsonEnumName())
	return nil
}

func (sv *serializationVisitor) TryCustomHandler(value reflect.Value, declared *typeinfo.Info) (bool, error) {
	fn, ok := sv.s.handlers.Serializers.Lookup(declared)
	if !ok {
		return false, nil
	}
	ctx := &contextImpl{s: sv.s, visited: sv.visited, path: sv.path}
	n, err := fn(value, ctx)
	if err != nil {
		if gerr, ok := err.(*gojsonerrors.Error); ok {
			return true, gerr
		}
		return true, gojsonerrors.Wrap(ErrUserHandler, sv.path, "registered serializer failed", err)
	}
	sv.result = n
	return true, nil
}

func (sv *serializationVisitor) VisitPrimitive(value reflect.Value, declared *typeinfo.Info) error {
	n, err := adaptPrimitive(value)
	if err != nil {
		return gojsonerrors.Wrap(ErrTypeMismatch, sv.path, "no adapter rule", err)
	}
	sv.result = n
	return nil
}

func (sv *serializationVisitor) VisitArray(value reflect.Value, declared *typeinfo.Info) error {
	arr := node.NewArray()
	for i := 0; i < value.Len(); i++ {
		childPath := append(append([]string{}, sv.path...), fmt.Sprintf("[%d]", i))
		child, err := sv.s.serialize(value.Index(i), declared.Element, sv.visited, childPath)
		if err != nil {
			return err
		}
		arr.Append(child)
	}
	sv.result = arr
	return nil
}

func (sv *serializationVisitor) VisitMap(value reflect.Value, declared *typeinfo.Info) error {
	obj := node.NewObject()
	for _, key := range navigator.SortedMapKeys(value) {
		keyStr := fmt.Sprint(key.Interface())
		childPath := append(append([]string{}, sv.path...), keyStr)
		child, err := sv.s.serialize(value.MapIndex(key), declared.Element, sv.visited, childPath)
		if err != nil {
			return err
		}
		if child.IsNull() && !sv.s.includeNullFields {
			continue
		}
		obj.Set(keyStr, child)
	}
	sv.result = obj
	return nil
}

func (sv *serializationVisitor) BeginObject(declared *typeinfo.Info) error {
	sv.result = node.NewObject()
	return nil
}

func (sv *serializationVisitor) EndObject(declared *typeinfo.Info) error {
	return nil
}

func (sv *serializationVisitor) VisitObjectField(field exclusion.FieldDescriptor, value reflect.Value, declared *typeinfo.Info) error {
	name := sv.s.naming.FieldName(field)
	childPath := append(append([]string{}, sv.path...), name)
	child, err := sv.s.serialize(value, declared, sv.visited, childPath)
	if err != nil {
		return err
	}
	if child.IsNull() && !sv.s.includeNullFields {
		return nil
	}
	sv.result.Set(name, child)
	return nil
}

// contextImpl is the Context handed to a custom handler mid-callback,
// valid only for the duration of that call.
type contextImpl struct {
	s       *Serializer
	visited *navigator.VisitedSet
	path    []string
}

func (c *contextImpl) Serialize(value any, declaredType reflect.Type) (*Node, error) {
	if declaredType == nil && value != nil {
		declaredType = reflect.TypeOf(value)
	}
	return c.s.serialize(reflect.ValueOf(value), typeinfo.Of(declaredType), c.visited, c.path)
}

func (c *contextImpl) Deserialize(n *Node, declaredType reflect.Type) (any, error) {
	value, err := c.s.deserialize(n, typeinfo.Of(declaredType), c.path)
	if err != nil {
		return nil, err
	}
	return value.Interface(), nil
}
