package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/scttfrdmn/baasclient/pkg/errors"
	"github.com/scttfrdmn/baasclient/pkg/types"
	"github.com/scttfrdmn/baasclient/pkg/validate"
)

// Model endpoints.
const (
	pathModelCreate    = "/db/model/create"
	pathModelGet       = "/db/model/get"
	pathModelGetRandom = "/db/model/get-random"
	pathModelUpdate    = "/db/model/update"
	pathModelDelete    = "/db/model/delete"
)

// UpdateType is the operator of a field update.
type UpdateType string

const (
	UpdateSet       UpdateType = "set"
	UpdateUnset     UpdateType = "unset"
	UpdateIncrement UpdateType = "increment"
	UpdateDecrement UpdateType = "decrement"
	UpdateMin       UpdateType = "min"
	UpdateMax       UpdateType = "max"
	UpdateMultiply  UpdateType = "multiply"
	UpdatePull      UpdateType = "pull"
	UpdatePush      UpdateType = "push"
	UpdatePop       UpdateType = "pop"
	UpdateShift     UpdateType = "shift"
)

var updateTypes = map[UpdateType]bool{
	UpdateSet: true, UpdateUnset: true, UpdateIncrement: true, UpdateDecrement: true,
	UpdateMin: true, UpdateMax: true, UpdateMultiply: true, UpdatePull: true,
	UpdatePush: true, UpdatePop: true, UpdateShift: true,
}

// FieldUpdate changes one field of every object matched by a query.
type FieldUpdate struct {
	Field      string     `json:"field"`
	UpdateType UpdateType `json:"updateType"`
	Value      any        `json:"value,omitempty"`
}

// Lookup joins objects of another model into the results. Either ModelName
// and Field or a Query expression is required.
type Lookup struct {
	Name      string `json:"name"`
	ModelName string `json:"modelName,omitempty"`
	Field     string `json:"field,omitempty"`
	Query     string `json:"query,omitempty"`
}

type queryParams struct {
	Filter  string            `json:"filter,omitempty"`
	Sort    []types.SortEntry `json:"sort,omitempty"`
	Limit   *int              `json:"limit,omitempty"`
	Page    *int              `json:"page,omitempty"`
	Omit    []string          `json:"omit,omitempty"`
	Lookups []Lookup          `json:"lookups,omitempty"`
}

// QueryBuilder builds a query on one model. Setters return the builder for
// chaining and keep the first invalid input; it is returned by the terminal
// call, which then sends nothing.
//
//	res := db.Model("users").Filter("age > 18").Sort("name", types.SortAsc).Limit(20).Get(ctx, false)
type QueryBuilder struct {
	req   types.Requester
	model string
	query queryParams
	err   error
}

// Err returns the first error recorded by a setter.
func (q *QueryBuilder) Err() error {
	return q.err
}

// Filter restricts the query to objects matching expression.
func (q *QueryBuilder) Filter(expression string) *QueryBuilder {
	q.fail(validate.CheckRequired("expression", validate.String(expression), validate.DefaultCheckEmptyString))
	q.query.Filter = expression
	return q
}

// Sort adds a sort key. Keys apply in the order they were added.
func (q *QueryBuilder) Sort(field string, direction types.SortDirection) *QueryBuilder {
	q.fail(validate.CheckRequired("fieldName", validate.String(field), validate.DefaultCheckEmptyString))
	switch direction {
	case types.SortAsc, types.SortDesc:
	default:
		q.fail(errors.NewFieldError(errors.ErrCodeInvalidValue, "sortDirection",
			fmt.Sprintf("sortDirection needs to be %q or %q", types.SortAsc, types.SortDesc)).
			WithDetail("value", string(direction)))
	}
	q.query.Sort = append(q.query.Sort, types.SortEntry{Field: field, Direction: direction})
	return q
}

// Limit caps the number of objects returned.
func (q *QueryBuilder) Limit(count int) *QueryBuilder {
	q.fail(validate.IntegerRequired("count", validate.Int(int64(count)), validate.DefaultCheckPositive))
	q.query.Limit = &count
	return q
}

// Page selects the 1-based page of size Limit.
func (q *QueryBuilder) Page(page int) *QueryBuilder {
	q.fail(validate.IntegerRequired("page", validate.Int(int64(page)), validate.DefaultCheckPositive))
	q.query.Page = &page
	return q
}

// Omit drops fields from the returned objects.
func (q *QueryBuilder) Omit(fields ...string) *QueryBuilder {
	q.fail(validate.ArrayRequired("fields", validate.Array(len(fields)), true))
	q.query.Omit = append(q.query.Omit, fields...)
	return q
}

// Lookup adds a join.
func (q *QueryBuilder) Lookup(l Lookup) *QueryBuilder {
	q.fail(validate.CheckRequired("lookup.name", validate.String(l.Name), validate.DefaultCheckEmptyString))
	if l.Query == "" {
		q.fail(validate.First(
			validate.CheckRequired("lookup.modelName", validate.String(l.ModelName), validate.DefaultCheckEmptyString),
			validate.CheckRequired("lookup.field", validate.String(l.Field), validate.DefaultCheckEmptyString),
		))
	}
	q.query.Lookups = append(q.query.Lookups, l)
	return q
}

// Create creates one object, or several when values is a slice.
func (q *QueryBuilder) Create(ctx context.Context, values any) types.Result[json.RawMessage] {
	check := validate.First(q.check(), validate.ObjectRequired("values", validate.Of(values), true))
	return types.Run(q.req, pathModelCreate, check, func(out *json.RawMessage) error {
		return q.req.Post(ctx, pathModelCreate, map[string]any{
			"model":  q.model,
			"values": values,
		}, out)
	})
}

// Get runs the query. With returnCountInfo the result is wrapped as
// {"data": [...], "countInfo": {...}}; Decode it into a types.Page.
func (q *QueryBuilder) Get(ctx context.Context, returnCountInfo bool) types.Result[json.RawMessage] {
	return types.Run(q.req, pathModelGet, q.check(), func(out *json.RawMessage) error {
		return q.req.Post(ctx, pathModelGet, map[string]any{
			"model":           q.model,
			"query":           q.query,
			"returnCountInfo": returnCountInfo,
		}, out)
	})
}

// GetRandom returns up to count random objects matching the filter.
func (q *QueryBuilder) GetRandom(ctx context.Context, count int) types.Result[json.RawMessage] {
	check := validate.First(
		q.check(),
		validate.IntegerRequired("count", validate.Int(int64(count)), validate.DefaultCheckPositive),
	)
	return types.Run(q.req, pathModelGetRandom, check, func(out *json.RawMessage) error {
		return q.req.Post(ctx, pathModelGetRandom, map[string]any{
			"model": q.model,
			"query": q.query,
			"count": count,
		}, out)
	})
}

// Update applies updates to every object matching the query. At least one
// update is required.
func (q *QueryBuilder) Update(ctx context.Context, updates ...FieldUpdate) types.Result[UpdateInfo] {
	check := validate.First(q.check(), validate.ArrayRequired("updates", validate.Array(len(updates)), true))
	for i, u := range updates {
		if check != nil {
			break
		}
		check = checkUpdate(fmt.Sprintf("updates[%d]", i), u)
	}
	return types.Run(q.req, pathModelUpdate, check, func(out *UpdateInfo) error {
		return q.req.Post(ctx, pathModelUpdate, map[string]any{
			"model":   q.model,
			"query":   q.query,
			"updates": updates,
		}, out)
	})
}

// Delete deletes every object matching the query.
func (q *QueryBuilder) Delete(ctx context.Context) types.Result[DeleteInfo] {
	return types.Run(q.req, pathModelDelete, q.check(), func(out *DeleteInfo) error {
		return q.req.Post(ctx, pathModelDelete, map[string]any{
			"model": q.model,
			"query": q.query,
		}, out)
	})
}

func (q *QueryBuilder) fail(err error) {
	if q.err == nil && err != nil {
		q.err = err
	}
}

func (q *QueryBuilder) check() error {
	return validate.First(
		validate.CheckRequired("modelName", validate.String(q.model), validate.DefaultCheckEmptyString),
		q.err,
	)
}

func checkUpdate(field string, u FieldUpdate) error {
	if err := validate.CheckRequired(field+".field", validate.String(u.Field), validate.DefaultCheckEmptyString); err != nil {
		return err
	}
	if !updateTypes[u.UpdateType] {
		return errors.NewFieldError(errors.ErrCodeInvalidValue, field+".updateType",
			fmt.Sprintf("%s.updateType %q is not a supported update operator", field, u.UpdateType))
	}
	switch u.UpdateType {
	case UpdateUnset, UpdatePop, UpdateShift:
		return nil
	}
	return validate.CheckRequired(field+".value", validate.Of(u.Value), false)
}
