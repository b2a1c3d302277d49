package storage

import (
	"context"
	"net/url"

	"github.com/scttfrdmn/baasclient/pkg/types"
	"github.com/scttfrdmn/baasclient/pkg/validate"
)

// Storage endpoints.
const (
	pathCreateBucket = "/storage/create-bucket"
	pathListBuckets  = "/storage/list-buckets"
	pathSearchFiles  = "/storage/search-files"
	pathStats        = "/storage/stats"
	pathDeleteFile   = "/storage/delete-file"
)

// Manager operates on the app storage as a whole. It is safe for concurrent use.
type Manager struct {
	req types.Requester
}

// NewManager creates a storage manager sending requests through req.
func NewManager(req types.Requester) *Manager {
	return &Manager{req: req}
}

// Bucket returns a manager for the bucket with the given name or id. The name
// is validated by each operation, not here.
func (m *Manager) Bucket(nameOrID string) *BucketManager {
	return &BucketManager{req: m.req, bucket: nameOrID}
}

// Root returns the manager of the app's default "root" bucket.
func (m *Manager) Root() *BucketManager {
	return m.Bucket(RootBucket)
}

// CreateBucket creates a bucket.
func (m *Manager) CreateBucket(ctx context.Context, name string, isPublic bool, tags ...string) types.Result[types.Bucket] {
	check := validate.CheckRequired("name", validate.String(name), validate.DefaultCheckEmptyString)
	return types.Run(m.req, pathCreateBucket, check, func(out *types.Bucket) error {
		return m.req.Post(ctx, pathCreateBucket, createBucketRequest{
			Name:     name,
			IsPublic: isPublic,
			Tags:     tags,
		}, out)
	})
}

// ListBuckets lists buckets whose name matches expression. An empty
// expression lists every bucket.
func (m *Manager) ListBuckets(ctx context.Context, expression string, opts *types.ListOptions) types.Result[types.Page[types.Bucket]] {
	return types.Run(m.req, pathListBuckets, opts.Validate(), func(out *types.Page[types.Bucket]) error {
		return m.req.Post(ctx, pathListBuckets, listRequest{
			Expression:  expression,
			ListOptions: opts,
		}, out)
	})
}

// SearchFiles searches files of all buckets with a filter expression.
func (m *Manager) SearchFiles(ctx context.Context, expression string, opts *types.ListOptions) types.Result[types.Page[types.File]] {
	check := validate.First(
		validate.CheckRequired("expression", validate.String(expression), validate.DefaultCheckEmptyString),
		opts.Validate(),
	)
	return types.Run(m.req, pathSearchFiles, check, func(out *types.Page[types.File]) error {
		return m.req.Post(ctx, pathSearchFiles, listRequest{
			Expression:  expression,
			ListOptions: opts,
		}, out)
	})
}

// GetStats returns usage statistics of the app storage.
func (m *Manager) GetStats(ctx context.Context) types.Result[types.StorageStats] {
	return types.Run(m.req, pathStats, nil, func(out *types.StorageStats) error {
		return m.req.Get(ctx, pathStats, nil, out)
	})
}

// DeleteFile deletes the file addressed by its public URL.
func (m *Manager) DeleteFile(ctx context.Context, fileURL string) types.Result[types.Message] {
	check := validate.CheckRequired("fileUrl", validate.String(fileURL), validate.DefaultCheckEmptyString)
	return types.Run(m.req, pathDeleteFile, check, func(out *types.Message) error {
		return m.req.Delete(ctx, pathDeleteFile, url.Values{"fileUrl": {fileURL}}, out)
	})
}

type createBucketRequest struct {
	Name     string   `json:"name"`
	IsPublic bool     `json:"isPublic"`
	Tags     []string `json:"tags,omitempty"`
}

type listRequest struct {
	Expression string `json:"expression,omitempty"`
	*types.ListOptions
}
