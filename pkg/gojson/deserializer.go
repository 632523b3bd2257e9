package gojson

import (
	"encoding/json"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	gojsonerrors "github.com/gojson-dev/gojson/pkg/internal/errors"
	"github.com/gojson-dev/gojson/pkg/internal/navigator"
	"github.com/gojson-dev/gojson/pkg/internal/typeinfo"
	"github.com/gojson-dev/gojson/pkg/node"
)

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// FromJSON decodes data into a value of declaredType, the symmetric
// counterpart to ToJSON. It is not a streaming parser: the whole document
// is decoded into a node.Node tree up front via a single
// encoding/json.Unmarshal, then walked field-by-field the same way
// serialization walks a Go value.
func (s *Serializer) FromJSON(data string, declaredType reflect.Type) (any, error) {
	root, err := parseToNode([]byte(data))
	if err != nil {
		return nil, gojsonerrors.Wrap(ErrTypeMismatch, nil, "invalid JSON document", err)
	}
	value, err := s.deserialize(root, typeinfo.Of(declaredType), nil)
	if err != nil {
		return nil, err
	}
	return value.Interface(), nil
}

// FromJSONTyped is the generic convenience wrapper over FromJSON: it infers
// declaredType from T and asserts the decoded value back to T.
func FromJSONTyped[T any](s *Serializer, data string) (T, error) {
	var zero T
	t := reflect.TypeOf((*T)(nil)).Elem()
	value, err := s.FromJSON(data, t)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, gojsonerrors.New(ErrTypeMismatch, nil, "decoded value does not match requested type")
	}
	return typed, nil
}

// parseToNode decodes a JSON document into this package's node.Node model
// in one pass, per FromJSON's doc comment.
func parseToNode(data []byte) (*Node, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return nodeFromAny(raw), nil
}

func nodeFromAny(v any) *Node {
	switch t := v.(type) {
	case nil:
		return node.NewNull()
	case bool:
		return node.NewBool(t)
	case float64:
		return node.NewNumber(strconv.FormatFloat(t, 'g', -1, 64))
	case json.Number:
		return node.NewNumber(t.String())
	case string:
		return node.NewString(t)
	case []any:
		arr := node.NewArray()
		for _, elem := range t {
			arr.Append(nodeFromAny(elem))
		}
		return arr
	case map[string]any:
		obj := node.NewObject()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			obj.Set(k, nodeFromAny(t[k]))
		}
		return obj
	}
	return node.NewNull()
}

// deserialize is the ObjectConstructor-driven mirror of serialize: given a
// parsed node.Node and a declared type, it produces a reflect.Value of that
// type, consulting the same HandlerMap (deserializer and instance-creator
// roles) and NamingStrategy the serialization direction uses.
func (s *Serializer) deserialize(n *Node, declared *typeinfo.Info, path []string) (reflect.Value, error) {
	if n == nil || n.IsNull() {
		return reflect.Zero(declared.Raw), nil
	}

	if fn, ok := s.handlers.Deserializers.Lookup(declared); ok {
		ctx := &contextImpl{s: s, visited: navigator.NewVisitedSet(), path: path}
		value, err := fn(n, ctx)
		if err != nil {
			if gerr, ok := err.(*gojsonerrors.Error); ok {
				return reflect.Value{}, gerr
			}
			return reflect.Value{}, gojsonerrors.Wrap(ErrUserHandler, path, "registered deserializer failed", err)
		}
		return value, nil
	}

	raw := derefType(declared.Raw)

	if raw.Kind() == reflect.Interface && raw.NumMethod() == 0 {
		return s.deserializeDynamic(n, path)
	}

	switch raw {
	case timeType:
		if n.PrimitiveKind() != node.String {
			return reflect.Value{}, gojsonerrors.New(ErrTypeMismatch, path, "expected a string for time.Time")
		}
		t, err := time.Parse(time.RFC3339Nano, n.StringValue())
		if err != nil {
			return reflect.Value{}, gojsonerrors.Wrap(ErrTypeMismatch, path, "invalid time value", err)
		}
		return wrapPointer(declared.Raw, reflect.ValueOf(t)), nil
	case uuidType:
		u, err := uuid.Parse(n.StringValue())
		if err != nil {
			return reflect.Value{}, gojsonerrors.Wrap(ErrTypeMismatch, path, "invalid uuid value", err)
		}
		return wrapPointer(declared.Raw, reflect.ValueOf(u)), nil
	case urlType:
		parsed, err := url.Parse(n.StringValue())
		if err != nil {
			return reflect.Value{}, gojsonerrors.Wrap(ErrTypeMismatch, path, "invalid url value", err)
		}
		return wrapPointer(declared.Raw, reflect.ValueOf(*parsed)), nil
	}

	switch raw.Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String:
		return s.deserializePrimitive(n, declared, path)
	case reflect.Slice, reflect.Array:
		return s.deserializeArray(n, declared, path)
	case reflect.Map:
		return s.deserializeMap(n, declared, path)
	case reflect.Struct:
		return s.deserializeStruct(n, declared, path)
	}

	return reflect.Value{}, gojsonerrors.New(ErrTypeMismatch, path, "unsupported declared shape for deserialization")
}

// deserializeDynamic decodes n into the closest un-declared Go shape
// (nil/bool/string/float64/[]any/map[string]any), the same fallback
// encoding/json.Unmarshal uses for an `any` destination. No declared type
// means no struct/slice-element identity to drive against, so custom
// deserializers and instance creators never apply here.
func (s *Serializer) deserializeDynamic(n *Node, path []string) (reflect.Value, error) {
	switch n.Kind() {
	case node.Null:
		return reflect.Zero(anyType), nil
	case node.Primitive:
		switch n.PrimitiveKind() {
		case node.Bool:
			return reflect.ValueOf(n.BoolValue()), nil
		case node.String:
			return reflect.ValueOf(n.StringValue()), nil
		case node.Number:
			f, err := strconv.ParseFloat(n.NumberText(), 64)
			if err != nil {
				return reflect.Value{}, gojsonerrors.Wrap(ErrTypeMismatch, path, "invalid float literal", err)
			}
			return reflect.ValueOf(f), nil
		}
	case node.Array:
		elems := n.Elements()
		out := make([]any, len(elems))
		for i, elem := range elems {
			childPath := append(append([]string{}, path...), "["+strconv.Itoa(i)+"]")
			value, err := s.deserializeDynamic(elem, childPath)
			if err != nil {
				return reflect.Value{}, err
			}
			out[i] = value.Interface()
		}
		return reflect.ValueOf(out), nil
	case node.Object:
		out := map[string]any{}
		err := n.ForEach(func(key string, value *Node) error {
			childPath := append(append([]string{}, path...), key)
			elemValue, err := s.deserializeDynamic(value, childPath)
			if err != nil {
				return err
			}
			out[key] = elemValue.Interface()
			return nil
		})
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(out), nil
	}
	return reflect.Value{}, gojsonerrors.New(ErrTypeMismatch, path, "unrecognised node kind")
}

func (s *Serializer) deserializePrimitive(n *Node, declared *typeinfo.Info, path []string) (reflect.Value, error) {
	raw := derefType(declared.Raw)
	if n.Kind() != node.Primitive {
		return reflect.Value{}, gojsonerrors.New(ErrTypeMismatch, path, "expected a JSON primitive")
	}

	switch raw.Kind() {
	case reflect.Bool:
		if n.PrimitiveKind() != node.Bool {
			return reflect.Value{}, gojsonerrors.New(ErrTypeMismatch, path, "expected a boolean")
		}
		return wrapPointer(declared.Raw, reflect.ValueOf(n.BoolValue()).Convert(raw)), nil
	case reflect.String:
		if n.PrimitiveKind() != node.String {
			return reflect.Value{}, gojsonerrors.New(ErrTypeMismatch, path, "expected a string")
		}
		return wrapPointer(declared.Raw, reflect.ValueOf(n.StringValue()).Convert(raw)), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n.PrimitiveKind() != node.Number {
			return reflect.Value{}, gojsonerrors.New(ErrTypeMismatch, path, "expected a number")
		}
		i, err := strconv.ParseInt(n.NumberText(), 10, 64)
		if err != nil {
			return reflect.Value{}, gojsonerrors.Wrap(ErrTypeMismatch, path, "invalid integer literal", err)
		}
		return wrapPointer(declared.Raw, reflect.ValueOf(i).Convert(raw)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n.PrimitiveKind() != node.Number {
			return reflect.Value{}, gojsonerrors.New(ErrTypeMismatch, path, "expected a number")
		}
		u, err := strconv.ParseUint(n.NumberText(), 10, 64)
		if err != nil {
			return reflect.Value{}, gojsonerrors.Wrap(ErrTypeMismatch, path, "invalid integer literal", err)
		}
		return wrapPointer(declared.Raw, reflect.ValueOf(u).Convert(raw)), nil
	case reflect.Float32, reflect.Float64:
		if n.PrimitiveKind() != node.Number {
			return reflect.Value{}, gojsonerrors.New(ErrTypeMismatch, path, "expected a number")
		}
		f, err := strconv.ParseFloat(n.NumberText(), 64)
		if err != nil {
			return reflect.Value{}, gojsonerrors.Wrap(ErrTypeMismatch, path, "invalid float literal", err)
		}
		return wrapPointer(declared.Raw, reflect.ValueOf(f).Convert(raw)), nil
	}
	return reflect.Value{}, gojsonerrors.New(ErrTypeMismatch, path, "unsupported primitive kind")
}

func (s *Serializer) deserializeArray(n *Node, declared *typeinfo.Info, path []string) (reflect.Value, error) {
	if n.Kind() != node.Array {
		return reflect.Value{}, gojsonerrors.New(ErrTypeMismatch, path, "expected a JSON array")
	}
	raw := derefType(declared.Raw)
	elems := n.Elements()

	var out reflect.Value
	if raw.Kind() == reflect.Array {
		out = reflect.New(raw).Elem()
	} else {
		out = reflect.MakeSlice(raw, len(elems), len(elems))
	}

	for i, elem := range elems {
		childPath := append(append([]string{}, path...), "["+strconv.Itoa(i)+"]")
		value, err := s.deserialize(elem, declared.Element, childPath)
		if err != nil {
			return reflect.Value{}, err
		}
		if i < out.Len() {
			out.Index(i).Set(value)
		}
	}
	return wrapPointer(declared.Raw, out), nil
}

func (s *Serializer) deserializeMap(n *Node, declared *typeinfo.Info, path []string) (reflect.Value, error) {
	if n.Kind() != node.Object {
		return reflect.Value{}, gojsonerrors.New(ErrTypeMismatch, path, "expected a JSON object for a map")
	}
	raw := derefType(declared.Raw)
	out := reflect.MakeMap(raw)
	keyType := raw.Key()

	err := n.ForEach(func(key string, value *Node) error {
		childPath := append(append([]string{}, path...), key)
		keyValue := reflect.ValueOf(key)
		if keyType.Kind() != reflect.String {
			return gojsonerrors.New(ErrTypeMismatch, childPath, "only string-keyed maps are supported")
		}
		elemValue, err := s.deserialize(value, declared.Element, childPath)
		if err != nil {
			return err
		}
		out.SetMapIndex(keyValue.Convert(keyType), elemValue)
		return nil
	})
	if err != nil {
		return reflect.Value{}, err
	}
	return wrapPointer(declared.Raw, out), nil
}

func (s *Serializer) deserializeStruct(n *Node, declared *typeinfo.Info, path []string) (reflect.Value, error) {
	if n.Kind() != node.Object {
		return reflect.Value{}, gojsonerrors.New(ErrTypeMismatch, path, "expected a JSON object")
	}
	raw := derefType(declared.Raw)

	instance, err := s.newInstance(raw, declared)
	if err != nil {
		return reflect.Value{}, err
	}
	target := instance
	if target.Kind() == reflect.Pointer {
		target = target.Elem()
	}

	for _, field := range navigator.FlattenFields(raw) {
		if s.exclusion != nil && s.exclusion.ShouldSkipField(field) {
			continue
		}
		name := s.naming.FieldName(field)
		childNode, present := n.Get(name)
		if !present {
			continue
		}
		childPath := append(append([]string{}, path...), name)
		value, err := s.deserialize(childNode, typeinfo.Of(field.StructField.Type), childPath)
		if err != nil {
			return reflect.Value{}, err
		}
		fv := target.FieldByName(field.StructField.Name)
		if fv.IsValid() && fv.CanSet() && value.IsValid() {
			fv.Set(value)
		}
	}

	return wrapPointer(declared.Raw, instance), nil
}

// newInstance produces a fresh instance of raw, consulting the registered
// InstanceCreator first and falling back to zero-value construction.
func (s *Serializer) newInstance(raw reflect.Type, declared *typeinfo.Info) (reflect.Value, error) {
	if fn, ok := s.handlers.InstanceCreators.Lookup(declared); ok {
		value, err := fn(raw)
		if err != nil {
			if gerr, ok := err.(*gojsonerrors.Error); ok {
				return reflect.Value{}, gerr
			}
			return reflect.Value{}, gojsonerrors.Wrap(ErrUnconstructible, nil, "registered instance creator failed", err)
		}
		if value.Kind() == reflect.Pointer {
			return value.Elem(), nil
		}
		addressable := reflect.New(value.Type()).Elem()
		addressable.Set(value)
		return addressable, nil
	}
	return reflect.New(raw).Elem(), nil
}

// derefType strips one pointer layer from a declared type so deserialize's
// switch operates on the concrete shape.
func derefType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}

// wrapPointer re-wraps value in a pointer if declared itself was a pointer
// type, the deserialization-side mirror of the pointer transparency
// serialization's unwrap provides.
func wrapPointer(declared reflect.Type, value reflect.Value) reflect.Value {
	if declared.Kind() != reflect.Pointer {
		return value
	}
	ptr := reflect.New(declared.Elem())
	ptr.Elem().Set(value)
	return ptr
}
