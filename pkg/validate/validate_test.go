package validate

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scttfrdmn/baasclient/pkg/errors"
)

func requireCode(t *testing.T, err error, code errors.ErrorCode) *errors.Error {
	t.Helper()
	require.Error(t, err)
	var e *errors.Error
	require.True(t, stderrors.As(err, &e), "error %T is not *errors.Error", err)
	assert.Equal(t, code, e.Code)
	return e
}

func TestCheckRequired(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"a", "bucket", " x ", "0", "\tname\n"} {
		assert.NoError(t, CheckRequired("f", String(s), true), "string %q", s)
	}

	e := requireCode(t, CheckRequired("f", Absent(), true), errors.ErrCodeMissingRequiredValue)
	assert.Equal(t, "f", e.Field)
	assert.Contains(t, e.Message, "f")

	requireCode(t, CheckRequired("f", Absent(), false), errors.ErrCodeMissingRequiredValue)
	requireCode(t, CheckRequired("f", String("   "), true), errors.ErrCodeMissingRequiredValue)
	requireCode(t, CheckRequired("f", String(""), true), errors.ErrCodeMissingRequiredValue)
	assert.NoError(t, CheckRequired("f", String("   "), false))
	assert.NoError(t, CheckRequired("f", String(""), false))

	// Only strings are subject to the blank check.
	assert.NoError(t, CheckRequired("f", Int(0), true))
	assert.NoError(t, CheckRequired("f", Array(0), true))
	assert.NoError(t, CheckRequired("f", Bool(false), true))
}

func TestCheckRequired_MessageNamesField(t *testing.T) {
	t.Parallel()

	err := CheckRequired("bucketNameOrId", Absent(), true)
	e := requireCode(t, err, errors.ErrCodeMissingRequiredValue)
	assert.Contains(t, e.Message, "bucketNameOrId")
	assert.Equal(t, errors.CategoryValidation, e.Category)
}

func TestArrayRequired(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ArrayRequired("f", Array(0), false))
	assert.NoError(t, ArrayRequired("f", Array(3), true))
	requireCode(t, ArrayRequired("f", Array(0), true), errors.ErrCodeEmptyArray)
	requireCode(t, ArrayRequired("f", String("not-an-array"), false), errors.ErrCodeInvalidValue)
	requireCode(t, ArrayRequired("f", Object(1), false), errors.ErrCodeInvalidValue)
	requireCode(t, ArrayRequired("f", Absent(), false), errors.ErrCodeMissingRequiredValue)

	// Presence is checked without the blank-string rule, so the type check reports it.
	requireCode(t, ArrayRequired("f", String(""), false), errors.ErrCodeInvalidValue)
}

func TestIntegerRequired(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		value         Value
		checkPositive bool
		wantCode      errors.ErrorCode
	}{
		{"positive int", Int(5), true, ""},
		{"fraction", Float(3.5), true, errors.ErrCodeInvalidValue},
		{"negative strict", Int(-2), true, errors.ErrCodeInvalidValue},
		{"negative lenient", Int(-2), false, ""},
		{"zero strict", Int(0), true, errors.ErrCodeInvalidValue},
		{"zero lenient", Int(0), false, ""},
		{"whole float", Float(4.0), true, ""},
		{"negative whole float strict", Float(-4.0), true, errors.ErrCodeInvalidValue},
		{"infinity", Float(math.Inf(1)), false, errors.ErrCodeInvalidValue},
		{"nan", Float(math.NaN()), false, errors.ErrCodeInvalidValue},
		{"numeric string", String("5"), true, errors.ErrCodeInvalidValue},
		{"bool", Bool(true), true, errors.ErrCodeInvalidValue},
		{"absent", Absent(), true, errors.ErrCodeMissingRequiredValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := IntegerRequired("f", tt.value, tt.checkPositive)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			requireCode(t, err, tt.wantCode)
		})
	}
}

func TestObjectRequired(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ObjectRequired("f", Object(0), false))
	assert.NoError(t, ObjectRequired("f", Of(map[string]any{}), false))
	requireCode(t, ObjectRequired("f", Array(0), false), errors.ErrCodeInvalidValue)
	assert.NoError(t, ObjectRequired("f", Array(0), true))
	assert.NoError(t, ObjectRequired("f", Object(2), true))
	requireCode(t, ObjectRequired("f", String("x"), true), errors.ErrCodeInvalidValue)
	requireCode(t, ObjectRequired("f", Int(1), false), errors.ErrCodeInvalidValue)
	requireCode(t, ObjectRequired("f", Absent(), true), errors.ErrCodeMissingRequiredValue)
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	// The asymmetry between array and integer strictness is part of the API.
	assert.True(t, DefaultCheckEmptyString)
	assert.False(t, DefaultCheckEmptyArray)
	assert.True(t, DefaultCheckPositive)
	assert.False(t, DefaultCheckArray)

	assert.NoError(t, ArrayRequired("f", Array(0), DefaultCheckEmptyArray))
	requireCode(t, IntegerRequired("f", Int(-2), DefaultCheckPositive), errors.ErrCodeInvalidValue)
}

func TestFirst(t *testing.T) {
	t.Parallel()

	assert.NoError(t, First())
	assert.NoError(t, First(nil, nil))

	err := First(
		CheckRequired("a", String("ok"), true),
		IntegerRequired("b", Int(-1), true),
		CheckRequired("c", Absent(), true),
	)
	e := requireCode(t, err, errors.ErrCodeInvalidValue)
	assert.Equal(t, "b", e.Field)
}

func TestValidatorsConcurrent(t *testing.T) {
	t.Parallel()

	done := make(chan error, 32)
	for i := 0; i < cap(done); i++ {
		go func(i int) {
			done <- IntegerRequired("n", Int(int64(i-16)), true)
		}(i)
	}
	failures := 0
	for i := 0; i < cap(done); i++ {
		if err := <-done; err != nil {
			failures++
		}
	}
	assert.Equal(t, 17, failures)
}
