// Package format implements the compact JSON formatter: a bit-exact,
// whitespace-free linearisation of a node.Node tree, plus a
// top-level-null-is-empty-string exception.
package format

import (
	"strconv"
	"strings"

	"github.com/gojson-dev/gojson/pkg/node"
)

// Formatter renders a node.Node tree to its JSON text. The facade's default
// is Compact; WithFormatter lets callers substitute another.
type Formatter interface {
	Format(root *node.Node) (string, error)
}

// Compact is the default formatter: no whitespace, standard string escapes,
// control characters as \u00XX.
type Compact struct{}

// Format renders root to JSON text. A Null root renders as the empty
// string, not the four-character literal "null".
func (Compact) Format(root *node.Node) (string, error) {
	if root == nil || root.IsNull() {
		return "", nil
	}
	var b strings.Builder
	writeNode(&b, root)
	return b.String(), nil
}

func writeNode(b *strings.Builder, n *node.Node) {
	switch n.Kind() {
	case node.Null:
		b.WriteString("null")
	case node.Primitive:
		writePrimitive(b, n)
	case node.Array:
		writeArray(b, n)
	case node.Object:
		writeObject(b, n)
	}
}

func writePrimitive(b *strings.Builder, n *node.Node) {
	switch n.PrimitiveKind() {
	case node.Number:
		b.WriteString(n.NumberText())
	case node.Bool:
		if n.BoolValue() {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case node.String:
		writeEscapedString(b, n.StringValue())
	}
}

func writeArray(b *strings.Builder, n *node.Node) {
	b.WriteByte('[')
	for i, elem := range n.Elements() {
		if i > 0 {
			b.WriteByte(',')
		}
		writeNode(b, elem)
	}
	b.WriteByte(']')
}

func writeObject(b *strings.Builder, n *node.Node) {
	b.WriteByte('{')
	first := true
	_ = n.ForEach(func(key string, value *node.Node) error {
		if !first {
			b.WriteByte(',')
		}
		first = false
		writeEscapedString(b, key)
		b.WriteByte(':')
		writeNode(b, value)
		return nil
	})
	b.WriteByte('}')
}

// writeEscapedString applies the standard backslash escapes, and \u00XX for
// any other control character.
func writeEscapedString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u`)
				hex := strconv.FormatInt(int64(r), 16)
				for len(hex) < 4 {
					hex = "0" + hex
				}
				b.WriteString(hex)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}
