package types

import (
	"fmt"

	"github.com/scttfrdmn/baasclient/pkg/errors"
	"github.com/scttfrdmn/baasclient/pkg/validate"
)

// SortDirection orders list results.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortEntry sorts by a single field.
type SortEntry struct {
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction,omitempty"`
}

// ListOptions are the pagination and sorting options shared by list operations.
// Nil fields are left to the server's defaults.
type ListOptions struct {
	Limit           *int       `json:"limit,omitempty"`
	Page            *int       `json:"page,omitempty"`
	ReturnCountInfo bool       `json:"returnCountInfo,omitempty"`
	Sort            *SortEntry `json:"sort,omitempty"`
}

// Validate checks the options the way the list endpoints expect them. An
// empty sort direction is left to the server, which sorts ascending.
func (o *ListOptions) Validate() error {
	if o == nil {
		return nil
	}
	if o.Limit != nil {
		if err := validate.IntegerRequired("limit", validate.OptionalInt(o.Limit), validate.DefaultCheckPositive); err != nil {
			return err
		}
	}
	if o.Page != nil {
		if err := validate.IntegerRequired("page", validate.OptionalInt(o.Page), validate.DefaultCheckPositive); err != nil {
			return err
		}
	}
	if o.Sort != nil {
		if err := validate.CheckRequired("sort.field", validate.String(o.Sort.Field), validate.DefaultCheckEmptyString); err != nil {
			return err
		}
		switch o.Sort.Direction {
		case "", SortAsc, SortDesc:
		default:
			return errors.NewFieldError(errors.ErrCodeInvalidValue, "sort.direction",
				fmt.Sprintf("sort.direction needs to be %q or %q", SortAsc, SortDesc)).
				WithDetail("value", string(o.Sort.Direction))
		}
	}
	return nil
}

// Int returns a pointer to n, for filling optional integer options.
func Int(n int) *int { return &n }

// Bool returns a pointer to b, for filling optional boolean options.
func Bool(b bool) *bool { return &b }
