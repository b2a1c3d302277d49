package db

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/scttfrdmn/baasclient/pkg/types"
	"github.com/scttfrdmn/baasclient/pkg/validate"
)

// Object endpoints.
const (
	pathObjectGet    = "/db/object/get"
	pathObjectUpdate = "/db/object/update"
	pathObjectDelete = "/db/object/delete"
)

// ObjectManager operates on a single object addressed by model and id.
type ObjectManager struct {
	req   types.Requester
	model string
	id    string
}

// Get returns the object.
func (o *ObjectManager) Get(ctx context.Context) types.Result[json.RawMessage] {
	return types.Run(o.req, pathObjectGet, o.check(), func(out *json.RawMessage) error {
		return o.req.Get(ctx, pathObjectGet, o.query(), out)
	})
}

// Update sets the given fields of the object and returns the updated object.
func (o *ObjectManager) Update(ctx context.Context, values any) types.Result[json.RawMessage] {
	check := validate.First(o.check(), validate.ObjectRequired("values", validate.Of(values), validate.DefaultCheckArray))
	return types.Run(o.req, pathObjectUpdate, check, func(out *json.RawMessage) error {
		return o.req.Post(ctx, pathObjectUpdate, map[string]any{
			"model":  o.model,
			"id":     o.id,
			"values": values,
		}, out)
	})
}

// Delete deletes the object.
func (o *ObjectManager) Delete(ctx context.Context) types.Result[types.Message] {
	return types.Run(o.req, pathObjectDelete, o.check(), func(out *types.Message) error {
		return o.req.Delete(ctx, pathObjectDelete, o.query(), out)
	})
}

func (o *ObjectManager) check() error {
	return validate.First(
		validate.CheckRequired("modelName", validate.String(o.model), validate.DefaultCheckEmptyString),
		validate.CheckRequired("id", validate.String(o.id), validate.DefaultCheckEmptyString),
	)
}

func (o *ObjectManager) query() url.Values {
	return url.Values{"model": {o.model}, "id": {o.id}}
}
