package db

import (
	"encoding/json"

	"github.com/scttfrdmn/baasclient/pkg/errors"
	"github.com/scttfrdmn/baasclient/pkg/types"
)

// Manager is the entry point of the database API. It is safe for concurrent
// use; the builders it returns are not.
type Manager struct {
	req types.Requester
}

// NewManager creates a database manager sending requests through req.
func NewManager(req types.Requester) *Manager {
	return &Manager{req: req}
}

// Model starts a query on the named model. Nested models are addressed with
// dots, e.g. "users.addresses".
func (m *Manager) Model(name string) *QueryBuilder {
	return &QueryBuilder{req: m.req, model: name}
}

// Object returns a manager for one object of model.
func (m *Manager) Object(model, id string) *ObjectManager {
	return &ObjectManager{req: m.req, model: model, id: id}
}

// Decode converts a raw result into a typed one. Decode failures are reported
// as invalid_response.
func Decode[T any](res types.Result[json.RawMessage]) types.Result[T] {
	if res.Errors != nil {
		return types.Result[T]{Errors: res.Errors}
	}
	var out T
	if res.Data != nil {
		if err := json.Unmarshal(*res.Data, &out); err != nil {
			return types.Fail[T](errors.NewError(errors.ErrCodeInvalidResponse,
				"cannot decode database result").WithCause(err))
		}
	}
	return types.OK(out)
}

// UpdateInfo reports the outcome of an update by query.
type UpdateInfo struct {
	Updated int64 `json:"updated"`
}

// DeleteInfo reports the outcome of a delete by query.
type DeleteInfo struct {
	Deleted int64 `json:"deleted"`
}
