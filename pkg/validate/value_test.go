package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOf(t *testing.T) {
	t.Parallel()

	var nilPtr *string
	var nilSlice []string
	var nilMap map[string]any
	var nilIface error
	name := "bucket"

	tests := []struct {
		name string
		in   any
		kind Kind
		size int
	}{
		{"nil", nil, KindAbsent, 0},
		{"nil pointer", nilPtr, KindAbsent, 0},
		{"nil slice", nilSlice, KindAbsent, 0},
		{"nil map", nilMap, KindAbsent, 0},
		{"nil interface", nilIface, KindAbsent, 0},
		{"string", "x", KindString, 0},
		{"string pointer", &name, KindString, 0},
		{"int", 3, KindInteger, 0},
		{"int8", int8(-3), KindInteger, 0},
		{"uint", uint(7), KindInteger, 0},
		{"float", 3.5, KindFloat, 0},
		{"float32", float32(1), KindFloat, 0},
		{"bool", true, KindBool, 0},
		{"empty slice", []string{}, KindArray, 0},
		{"slice", []int{1, 2}, KindArray, 2},
		{"array", [3]int{}, KindArray, 3},
		{"any slice", []any{"a"}, KindArray, 1},
		{"empty map", map[string]any{}, KindObject, 0},
		{"map", map[string]int{"a": 1}, KindObject, 1},
		{"struct", struct{ A, B int }{}, KindObject, 2},
		{"struct pointer", &struct{ A int }{}, KindObject, 1},
		{"time", time.Time{}, KindObject, 3},
		{"func", func() {}, KindOther, 0},
		{"value passthrough", Int(9), KindInteger, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Of(tt.in)
			assert.Equal(t, tt.kind, v.Kind())
			if tt.kind == KindArray || tt.kind == KindObject {
				assert.Equal(t, tt.size, v.Len())
			}
		})
	}
}

func TestOptional(t *testing.T) {
	t.Parallel()

	assert.True(t, OptionalString(nil).IsAbsent())
	s := ""
	assert.Equal(t, KindString, OptionalString(&s).Kind())

	assert.True(t, OptionalInt(nil).IsAbsent())
	n := -1
	assert.Equal(t, KindInteger, OptionalInt(&n).Kind())
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "absent", KindAbsent.String())
	assert.Equal(t, "array", KindArray.String())
	assert.Equal(t, "object", KindObject.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
	assert.True(t, Value{}.IsAbsent())
}
