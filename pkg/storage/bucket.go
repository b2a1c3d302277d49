package storage

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/scttfrdmn/baasclient/pkg/errors"
	"github.com/scttfrdmn/baasclient/pkg/types"
	"github.com/scttfrdmn/baasclient/pkg/validate"
)

// RootBucket is the bucket every app starts with.
const RootBucket = "root"

// Bucket endpoints.
const (
	pathBucketExists      = "/storage/bucket/exists"
	pathBucketGet         = "/storage/bucket/get"
	pathBucketEmpty       = "/storage/bucket/empty"
	pathBucketRename      = "/storage/bucket/rename"
	pathBucketDelete      = "/storage/bucket/delete"
	pathBucketMakePublic  = "/storage/bucket/make-public"
	pathBucketMakePrivate = "/storage/bucket/make-private"
	pathBucketListFiles   = "/storage/bucket/list-files"
	pathBucketUpload      = "/storage/bucket/upload"
	pathBucketDeleteFiles = "/storage/bucket/delete-files"
	pathBucketAddTags     = "/storage/bucket/add-tags"
	pathBucketRemoveTags  = "/storage/bucket/remove-tags"
)

// BucketManager operates on a single bucket. It does not change after
// creation; after Rename, address the bucket through a new manager.
type BucketManager struct {
	req    types.Requester
	bucket string
}

// Name returns the bucket name or id the manager addresses.
func (b *BucketManager) Name() string {
	return b.bucket
}

// File returns a manager for a file of this bucket.
func (b *BucketManager) File(nameOrID string) *FileManager {
	return &FileManager{req: b.req, bucket: b.bucket, file: nameOrID}
}

// Exists reports whether the bucket exists.
func (b *BucketManager) Exists(ctx context.Context) types.Result[bool] {
	return types.Run(b.req, pathBucketExists, b.check(), func(out *bool) error {
		var res types.Exists
		if err := b.req.Get(ctx, pathBucketExists, b.query(), &res); err != nil {
			return err
		}
		*out = res.Exists
		return nil
	})
}

// GetInfo returns the bucket record. When detailed is set the record carries
// file statistics.
func (b *BucketManager) GetInfo(ctx context.Context, detailed bool) types.Result[types.Bucket] {
	return types.Run(b.req, pathBucketGet, b.check(), func(out *types.Bucket) error {
		q := b.query()
		q.Set("detailed", strconv.FormatBool(detailed))
		return b.req.Get(ctx, pathBucketGet, q, out)
	})
}

// Empty deletes every file of the bucket and keeps the bucket.
func (b *BucketManager) Empty(ctx context.Context) types.Result[types.Message] {
	return types.Run(b.req, pathBucketEmpty, b.check(), func(out *types.Message) error {
		return b.req.Delete(ctx, pathBucketEmpty, b.query(), out)
	})
}

// Rename renames the bucket. Renaming the root bucket is refused by the
// server, not checked here, since the bucket may be addressed by its id.
func (b *BucketManager) Rename(ctx context.Context, newName string) types.Result[types.Bucket] {
	check := validate.First(
		b.check(),
		validate.CheckRequired("newName", validate.String(newName), validate.DefaultCheckEmptyString),
	)
	return types.Run(b.req, pathBucketRename, check, func(out *types.Bucket) error {
		return b.req.Post(ctx, pathBucketRename, map[string]string{
			"bucket":  b.bucket,
			"newName": newName,
		}, out)
	})
}

// Delete deletes the bucket and all of its files.
func (b *BucketManager) Delete(ctx context.Context) types.Result[types.Message] {
	return types.Run(b.req, pathBucketDelete, b.check(), func(out *types.Message) error {
		return b.req.Delete(ctx, pathBucketDelete, b.query(), out)
	})
}

// MakePublic makes the bucket public. With includeFiles every file of the
// bucket is made public too.
func (b *BucketManager) MakePublic(ctx context.Context, includeFiles bool) types.Result[types.Bucket] {
	return b.setVisibility(ctx, pathBucketMakePublic, includeFiles)
}

// MakePrivate makes the bucket private. With includeFiles every file of the
// bucket is made private too.
func (b *BucketManager) MakePrivate(ctx context.Context, includeFiles bool) types.Result[types.Bucket] {
	return b.setVisibility(ctx, pathBucketMakePrivate, includeFiles)
}

func (b *BucketManager) setVisibility(ctx context.Context, path string, includeFiles bool) types.Result[types.Bucket] {
	return types.Run(b.req, path, b.check(), func(out *types.Bucket) error {
		return b.req.Post(ctx, path, map[string]any{
			"bucket":       b.bucket,
			"includeFiles": includeFiles,
		}, out)
	})
}

// ListFiles lists files of the bucket matching expression. An empty
// expression lists every file.
func (b *BucketManager) ListFiles(ctx context.Context, expression string, opts *types.ListOptions) types.Result[types.Page[types.File]] {
	check := validate.First(b.check(), opts.Validate())
	return types.Run(b.req, pathBucketListFiles, check, func(out *types.Page[types.File]) error {
		return b.req.Post(ctx, pathBucketListFiles, bucketListRequest{
			Bucket:      b.bucket,
			Expression:  expression,
			ListOptions: opts,
		}, out)
	})
}

// Upload stores content as fileName in the bucket. The whole content is sent
// in a single request. A nil content is rejected; an empty one is not.
func (b *BucketManager) Upload(ctx context.Context, fileName string, content []byte, opts *types.UploadOptions) types.Result[types.File] {
	check := validate.First(
		b.check(),
		validate.CheckRequired("fileName", validate.String(fileName), validate.DefaultCheckEmptyString),
		validate.ArrayRequired("content", validate.Of(content), validate.DefaultCheckEmptyArray),
	)
	return types.Run(b.req, pathBucketUpload, check, func(out *types.File) error {
		form := types.UploadForm{
			FileName: fileName,
			Content:  content,
			Fields:   map[string]string{"bucket": b.bucket},
		}
		if opts != nil {
			form.ContentType = opts.ContentType
			encoded, err := json.Marshal(opts)
			if err != nil {
				return errors.NewError(errors.ErrCodeClientError, "cannot encode upload options").WithCause(err)
			}
			form.Fields["options"] = string(encoded)
		}
		return b.req.Upload(ctx, pathBucketUpload, form, out)
	})
}

// DeleteFiles deletes the named files of the bucket.
func (b *BucketManager) DeleteFiles(ctx context.Context, fileNamesOrIDs []string) types.Result[types.Message] {
	check := validate.First(
		b.check(),
		validate.ArrayRequired("fileNamesOrIds", validate.Of(fileNamesOrIDs), validate.DefaultCheckEmptyArray),
	)
	return types.Run(b.req, pathBucketDeleteFiles, check, func(out *types.Message) error {
		return b.req.Post(ctx, pathBucketDeleteFiles, map[string]any{
			"bucket":         b.bucket,
			"fileNamesOrIds": fileNamesOrIDs,
		}, out)
	})
}

// AddTags adds tags to the bucket.
func (b *BucketManager) AddTags(ctx context.Context, tags []string) types.Result[types.Bucket] {
	return b.tags(ctx, pathBucketAddTags, tags)
}

// RemoveTags removes tags from the bucket.
func (b *BucketManager) RemoveTags(ctx context.Context, tags []string) types.Result[types.Bucket] {
	return b.tags(ctx, pathBucketRemoveTags, tags)
}

func (b *BucketManager) tags(ctx context.Context, path string, tags []string) types.Result[types.Bucket] {
	check := validate.First(
		b.check(),
		validate.ArrayRequired("tags", validate.Of(tags), validate.DefaultCheckEmptyArray),
	)
	return types.Run(b.req, path, check, func(out *types.Bucket) error {
		return b.req.Post(ctx, path, map[string]any{
			"bucket": b.bucket,
			"tags":   tags,
		}, out)
	})
}

func (b *BucketManager) check() error {
	return validate.CheckRequired("bucket", validate.String(b.bucket), validate.DefaultCheckEmptyString)
}

func (b *BucketManager) query() url.Values {
	return url.Values{"bucket": {b.bucket}}
}

type bucketListRequest struct {
	Bucket     string `json:"bucket"`
	Expression string `json:"expression,omitempty"`
	*types.ListOptions
}
