package gojson

import (
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"

	gojsonerrors "github.com/gojson-dev/gojson/pkg/internal/errors"
	"github.com/gojson-dev/gojson/pkg/internal/reflectutil"
	"github.com/gojson-dev/gojson/pkg/node"
)

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
	urlType  = reflect.TypeOf(url.URL{})
)

// isAdapterPrimitive classifies the wrapper types the TypeAdapter renders as
// a single JSON primitive despite their underlying Go Kind being Struct or
// Array: time.Time, uuid.UUID and url.URL render via their canonical string
// form.
func isAdapterPrimitive(t reflect.Type) bool {
	switch t {
	case timeType, uuidType, urlType:
		return true
	}
	return reflectutil.IsBasicType(t) && t.Kind() != reflect.Slice && t.Kind() != reflect.Map && t.Kind() != reflect.Array
}

// adaptPrimitive renders value through the TypeAdapter rules: booleans pass
// through; integral types render decimal;
// floating types drop a trailing ".0" when integral-valued and otherwise
// carry enough digits to round-trip; strings pass through (escaping is the
// formatter's job); URL/UUID/time render via their canonical string form.
func adaptPrimitive(value reflect.Value) (*Node, error) {
	switch value.Type() {
	case timeType:
		t := value.Interface().(time.Time)
		return node.NewString(t.Format(time.RFC3339Nano)), nil
	case uuidType:
		u := value.Interface().(uuid.UUID)
		return node.NewString(u.String()), nil
	case urlType:
		addr := reflectutil.MakeAddressable(value, urlType).Interface().(*url.URL)
		return node.NewString(addr.String()), nil
	}

	switch value.Kind() {
	case reflect.Bool:
		return node.NewBool(value.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return node.NewNumber(strconv.FormatInt(value.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return node.NewNumber(strconv.FormatUint(value.Uint(), 10)), nil
	case reflect.Float32:
		return node.NewNumber(strconv.FormatFloat(value.Float(), 'g', -1, 32)), nil
	case reflect.Float64:
		return node.NewNumber(strconv.FormatFloat(value.Float(), 'g', -1, 64)), nil
	case reflect.String:
		return node.NewString(value.String()), nil
	}

	return nil, gojsonerrors.New(ErrTypeMismatch, nil, "no TypeAdapter rule for "+value.Type().String())
}
