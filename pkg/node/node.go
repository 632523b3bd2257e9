// Package node implements the JSON node model: a discriminated tree of
// Null, Primitive, Array and Object values that the serialization visitor
// builds and the format package linearises. It has no dependency on
// reflection or the core traversal — callers assembling custom serializers
// build these trees directly.
package node

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind discriminates the four node shapes.
type Kind int

const (
	Null Kind = iota
	Primitive
	Array
	Object
)

// PrimitiveKind narrows a Primitive node to the JSON literal family it
// renders as.
type PrimitiveKind int

const (
	Number PrimitiveKind = iota
	Bool
	String
)

// Node is an immutable-by-convention JSON tree node. Object and Array
// nodes are built incrementally via Set/Append while populating; callers
// should treat a Node as finalised once handed to a parent.
type Node struct {
	kind Kind

	primitiveKind PrimitiveKind
	numberText    string // pre-rendered per TypeAdapter rules, e.g. "20" not "20.0"
	boolValue     bool
	stringValue   string

	array  []*Node
	object *orderedmap.OrderedMap[string, *Node]
}

// NewNull returns the Null node. Values are never the native Go nil
// marker — absence is encoded by omitting the key, while an explicit Null
// node is a separate shape.
func NewNull() *Node {
	return &Node{kind: Null}
}

// NewNumber wraps a pre-rendered canonical numeric literal (no further
// rendering work happens here).
func NewNumber(text string) *Node {
	return &Node{kind: Primitive, primitiveKind: Number, numberText: text}
}

// NewBool wraps a boolean primitive.
func NewBool(b bool) *Node {
	return &Node{kind: Primitive, primitiveKind: Bool, boolValue: b}
}

// NewString wraps a string primitive. Escaping is the formatter's job, not
// this package's.
func NewString(s string) *Node {
	return &Node{kind: Primitive, primitiveKind: String, stringValue: s}
}

// NewArray returns an empty Array node ready for Append.
func NewArray() *Node {
	return &Node{kind: Array, array: make([]*Node, 0)}
}

// NewObject returns an empty Object node ready for Set. Backed by an
// insertion-order-preserving map so insertion order is preserved without a
// hand-rolled ordered map.
func NewObject() *Node {
	return &Node{kind: Object, object: orderedmap.New[string, *Node]()}
}

// Kind reports which of the four shapes this node is.
func (n *Node) Kind() Kind {
	return n.kind
}

// IsNull reports whether n is the Null node.
func (n *Node) IsNull() bool {
	return n.kind == Null
}

// PrimitiveKind reports which literal family a Primitive node renders as.
// Panics if n is not a Primitive node; callers must check Kind first.
func (n *Node) PrimitiveKind() PrimitiveKind {
	n.mustBe(Primitive)
	return n.primitiveKind
}

// NumberText returns the pre-rendered numeric literal. Panics unless n is a
// Primitive node; a Primitive of another literal family yields "".
func (n *Node) NumberText() string {
	n.mustBe(Primitive)
	return n.numberText
}

// BoolValue returns the boolean value. Panics unless n is a Primitive node;
// a Primitive of another literal family yields false.
func (n *Node) BoolValue() bool {
	n.mustBe(Primitive)
	return n.boolValue
}

// StringValue returns the raw (unescaped) string value. Panics unless n is
// a Primitive node; a Primitive of another literal family yields "".
func (n *Node) StringValue() string {
	n.mustBe(Primitive)
	return n.stringValue
}

// Append adds child to the end of an Array node. Panics if n is not an
// Array node.
func (n *Node) Append(child *Node) {
	n.mustBe(Array)
	n.array = append(n.array, child)
}

// Elements returns an Array node's children in index order. Panics if n is
// not an Array node.
func (n *Node) Elements() []*Node {
	n.mustBe(Array)
	return n.array
}

// Set inserts or overwrites key in an Object node, preserving first-
// insertion position on overwrite the way a Go map would not. Panics if n
// is not an Object node.
func (n *Node) Set(key string, child *Node) {
	n.mustBe(Object)
	n.object.Set(key, child)
}

// Get looks up key in an Object node.
func (n *Node) Get(key string) (*Node, bool) {
	n.mustBe(Object)
	return n.object.Get(key)
}

// Len reports the number of entries (Object) or elements (Array).
func (n *Node) Len() int {
	switch n.kind {
	case Array:
		return len(n.array)
	case Object:
		return n.object.Len()
	default:
		return 0
	}
}

// ForEach walks an Object node's entries in insertion order, stopping at
// the first error fn returns.
func (n *Node) ForEach(fn func(key string, value *Node) error) error {
	n.mustBe(Object)
	for pair := n.object.Oldest(); pair != nil; pair = pair.Next() {
		if err := fn(pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) mustBe(k Kind) {
	if n.kind != k {
		panic("node: wrong kind for operation")
	}
}
