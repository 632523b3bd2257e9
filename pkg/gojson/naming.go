package gojson

import (
	"strings"

	"github.com/danielgtaylor/casing"

	"github.com/gojson-dev/gojson/pkg/internal/exclusion"
)

// NamingStrategy is the field-naming policy hook. By default (DefaultNaming)
// a field's JSON key is the rename in its gojson tag, or else its declared
// name verbatim; renaming is a policy hook the core exposes but does not
// mandate.
type NamingStrategy interface {
	FieldName(field exclusion.FieldDescriptor) string
}

// DefaultNaming uses the leading, option-free segment of the field's gojson
// struct tag as a rename (the same position encoding/json's own tag reserves
// for a name, ahead of comma-separated options like "transient" or
// "version=1.1"), falling back to the declared Go name verbatim.
type DefaultNaming struct{}

func (DefaultNaming) FieldName(field exclusion.FieldDescriptor) string {
	head, _, _ := strings.Cut(field.Tag(), ",")
	if head == "" || head == "transient" || strings.Contains(head, "=") {
		return field.StructField.Name
	}
	return head
}

// SnakeCaseNaming renames every field to snake_case regardless of any gojson
// tag rename, via danielgtaylor/casing — the same casing helper
// danielgtaylor/huma uses for its own schema field naming.
type SnakeCaseNaming struct{}

func (SnakeCaseNaming) FieldName(field exclusion.FieldDescriptor) string {
	return casing.Snake(field.StructField.Name)
}
