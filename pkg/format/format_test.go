package format

import (
	"testing"

	"github.com/gojson-dev/gojson/pkg/node"
)

func TestCompact_NullRoot(t *testing.T) {
	got, err := Compact{}.Format(node.NewNull())
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("Format(null) = %q, want empty string", got)
	}
}

func TestCompact_NilRoot(t *testing.T) {
	got, err := Compact{}.Format(nil)
	if err != nil || got != "" {
		t.Errorf("Format(nil) = %q, %v", got, err)
	}
}

func TestCompact_Primitives(t *testing.T) {
	tests := []struct {
		name string
		n    *node.Node
		want string
	}{
		{"number", node.NewNumber("20"), "20"},
		{"bool true", node.NewBool(true), "true"},
		{"bool false", node.NewBool(false), "false"},
		{"string", node.NewString("stringValue"), `"stringValue"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compact{}.Format(tt.n)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompact_S2_ArrayOfNumbers(t *testing.T) {
	arr := node.NewArray()
	for i := 1; i <= 9; i++ {
		arr.Append(node.NewNumber(intToText(i)))
	}
	got, err := Compact{}.Format(arr)
	if err != nil {
		t.Fatal(err)
	}
	want := "[1,2,3,4,5,6,7,8,9]"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func intToText(i int) string {
	digits := "0123456789"
	if i < 10 {
		return string(digits[i])
	}
	return ""
}

func TestCompact_S3_ObjectOfScalars(t *testing.T) {
	obj := node.NewObject()
	obj.Set("intVal", node.NewNumber("10"))
	obj.Set("longVal", node.NewNumber("20"))
	obj.Set("boolVal", node.NewBool(false))
	obj.Set("strVal", node.NewString("stringValue"))

	got, err := Compact{}.Format(obj)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"intVal":10,"longVal":20,"boolVal":false,"strVal":"stringValue"}`
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestCompact_S1_EmptyObject(t *testing.T) {
	got, err := Compact{}.Format(node.NewObject())
	if err != nil {
		t.Fatal(err)
	}
	if got != "{}" {
		t.Errorf("Format() = %q, want {}", got)
	}
}

func TestCompact_StringEscaping(t *testing.T) {
	got, err := Compact{}.Format(node.NewString("a\"b\\c\nd\te\x01"))
	if err != nil {
		t.Fatal(err)
	}
	want := "\"a\\\"b\\\\c\\nd\\te\\u0001\""
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestCompact_NestedObjectAndArray(t *testing.T) {
	inner := node.NewArray()
	inner.Append(node.NewNumber("1"))
	inner.Append(node.NewNumber("2"))

	obj := node.NewObject()
	obj.Set("items", inner)

	got, err := Compact{}.Format(obj)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"items":[1,2]}`
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}
