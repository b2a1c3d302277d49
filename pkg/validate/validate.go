package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/scttfrdmn/baasclient/pkg/errors"
)

// Strictness defaults of the public API. They are deliberately not uniform:
// arrays may be empty unless asked, integers must be positive unless asked.
const (
	DefaultCheckEmptyString = true
	DefaultCheckEmptyArray  = false
	DefaultCheckPositive    = true
	DefaultCheckArray       = false
)

// CheckRequired fails with missing_required_value when v is absent, or when
// checkEmptyString is set and v is a string that is empty after trimming.
func CheckRequired(field string, v Value, checkEmptyString bool) error {
	if v.kind == KindAbsent {
		return missing(field)
	}
	if checkEmptyString && v.kind == KindString && strings.TrimSpace(v.str) == "" {
		return missing(field)
	}
	return nil
}

// ArrayRequired requires v to be a present array. When checkEmptyArray is set
// a zero-length array fails with empty_array.
func ArrayRequired(field string, v Value, checkEmptyArray bool) error {
	if err := CheckRequired(field, v, false); err != nil {
		return err
	}
	if v.kind != KindArray {
		return invalid(field, v, fmt.Sprintf("%s needs to be an array", field))
	}
	if checkEmptyArray && v.size == 0 {
		return errors.NewFieldError(errors.ErrCodeEmptyArray, field,
			fmt.Sprintf("%s needs to be a non-empty array", field))
	}
	return nil
}

// IntegerRequired requires v to be a whole number. Floats without a fractional
// part are accepted. When checkPositive is set the number must be > 0.
func IntegerRequired(field string, v Value, checkPositive bool) error {
	if err := CheckRequired(field, v, false); err != nil {
		return err
	}

	var n float64
	switch v.kind {
	case KindInteger:
		n = float64(v.num)
	case KindFloat:
		if math.IsInf(v.flt, 0) || math.IsNaN(v.flt) || math.Trunc(v.flt) != v.flt {
			return invalid(field, v, fmt.Sprintf("%s needs to be an integer", field))
		}
		n = v.flt
	default:
		return invalid(field, v, fmt.Sprintf("%s needs to be an integer", field))
	}

	if checkPositive && n <= 0 {
		return invalid(field, v, fmt.Sprintf("%s needs to be a positive integer", field))
	}
	return nil
}

// ObjectRequired requires v to be an object. Arrays are accepted only when
// checkArray is set.
func ObjectRequired(field string, v Value, checkArray bool) error {
	if err := CheckRequired(field, v, false); err != nil {
		return err
	}
	if v.kind == KindObject {
		return nil
	}
	if checkArray && v.kind == KindArray {
		return nil
	}
	if checkArray {
		return invalid(field, v, fmt.Sprintf("%s needs to be an object or an array", field))
	}
	return invalid(field, v, fmt.Sprintf("%s needs to be an object", field))
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func missing(field string) error {
	return errors.NewFieldError(errors.ErrCodeMissingRequiredValue, field,
		fmt.Sprintf("%s is a required field, cannot be left empty", field))
}

func invalid(field string, v Value, msg string) error {
	return errors.NewFieldError(errors.ErrCodeInvalidValue, field, msg).
		WithDetail("kind", v.kind.String())
}
