package storage

import (
	"context"
	"net/url"

	"github.com/scttfrdmn/baasclient/pkg/types"
	"github.com/scttfrdmn/baasclient/pkg/validate"
)

// File endpoints.
const (
	pathFileExists      = "/storage/bucket/file/exists"
	pathFileGet         = "/storage/bucket/file/get"
	pathFileDownload    = "/storage/bucket/file/download"
	pathFileRename      = "/storage/bucket/file/rename"
	pathFileDuplicate   = "/storage/bucket/file/duplicate"
	pathFileMove        = "/storage/bucket/file/move"
	pathFileCopy        = "/storage/bucket/file/copy"
	pathFileMakePublic  = "/storage/bucket/file/make-public"
	pathFileMakePrivate = "/storage/bucket/file/make-private"
	pathFileAddTags     = "/storage/bucket/file/add-tags"
	pathFileRemoveTags  = "/storage/bucket/file/remove-tags"
	pathFileDelete      = "/storage/bucket/file/delete"
)

// FileManager operates on a single file of a bucket.
type FileManager struct {
	req    types.Requester
	bucket string
	file   string
}

// Name returns the file name or id the manager addresses.
func (f *FileManager) Name() string {
	return f.file
}

// Exists reports whether the file exists.
func (f *FileManager) Exists(ctx context.Context) types.Result[bool] {
	return types.Run(f.req, pathFileExists, f.check(), func(out *bool) error {
		var res types.Exists
		if err := f.req.Get(ctx, pathFileExists, f.query(), &res); err != nil {
			return err
		}
		*out = res.Exists
		return nil
	})
}

// GetInfo returns the file record.
func (f *FileManager) GetInfo(ctx context.Context) types.Result[types.File] {
	return types.Run(f.req, pathFileGet, f.check(), func(out *types.File) error {
		return f.req.Get(ctx, pathFileGet, f.query(), out)
	})
}

// Download returns the file content.
func (f *FileManager) Download(ctx context.Context) types.Result[[]byte] {
	return types.Run(f.req, pathFileDownload, f.check(), func(out *[]byte) error {
		data, err := f.req.Download(ctx, pathFileDownload, f.query())
		if err != nil {
			return err
		}
		*out = data
		return nil
	})
}

// Rename renames the file within its bucket.
func (f *FileManager) Rename(ctx context.Context, newName string) types.Result[types.File] {
	check := validate.First(
		f.check(),
		validate.CheckRequired("newName", validate.String(newName), validate.DefaultCheckEmptyString),
	)
	return types.Run(f.req, pathFileRename, check, func(out *types.File) error {
		return f.req.Post(ctx, pathFileRename, f.body("newName", newName), out)
	})
}

// Duplicate copies the file within its bucket under a generated name.
func (f *FileManager) Duplicate(ctx context.Context) types.Result[types.File] {
	return types.Run(f.req, pathFileDuplicate, f.check(), func(out *types.File) error {
		return f.req.Post(ctx, pathFileDuplicate, f.body("", nil), out)
	})
}

// MoveTo moves the file to another bucket.
func (f *FileManager) MoveTo(ctx context.Context, bucketNameOrID string) types.Result[types.File] {
	return f.transfer(ctx, pathFileMove, bucketNameOrID)
}

// CopyTo copies the file to another bucket.
func (f *FileManager) CopyTo(ctx context.Context, bucketNameOrID string) types.Result[types.File] {
	return f.transfer(ctx, pathFileCopy, bucketNameOrID)
}

func (f *FileManager) transfer(ctx context.Context, path, target string) types.Result[types.File] {
	check := validate.First(
		f.check(),
		validate.CheckRequired("bucketNameOrId", validate.String(target), validate.DefaultCheckEmptyString),
	)
	return types.Run(f.req, path, check, func(out *types.File) error {
		return f.req.Post(ctx, path, f.body("targetBucket", target), out)
	})
}

// MakePublic makes the file public.
func (f *FileManager) MakePublic(ctx context.Context) types.Result[types.File] {
	return types.Run(f.req, pathFileMakePublic, f.check(), func(out *types.File) error {
		return f.req.Post(ctx, pathFileMakePublic, f.body("", nil), out)
	})
}

// MakePrivate makes the file private.
func (f *FileManager) MakePrivate(ctx context.Context) types.Result[types.File] {
	return types.Run(f.req, pathFileMakePrivate, f.check(), func(out *types.File) error {
		return f.req.Post(ctx, pathFileMakePrivate, f.body("", nil), out)
	})
}

// AddTags adds tags to the file.
func (f *FileManager) AddTags(ctx context.Context, tags []string) types.Result[types.File] {
	return f.tags(ctx, pathFileAddTags, tags)
}

// RemoveTags removes tags from the file.
func (f *FileManager) RemoveTags(ctx context.Context, tags []string) types.Result[types.File] {
	return f.tags(ctx, pathFileRemoveTags, tags)
}

func (f *FileManager) tags(ctx context.Context, path string, tags []string) types.Result[types.File] {
	check := validate.First(
		f.check(),
		validate.ArrayRequired("tags", validate.Of(tags), validate.DefaultCheckEmptyArray),
	)
	return types.Run(f.req, path, check, func(out *types.File) error {
		return f.req.Post(ctx, path, f.body("tags", tags), out)
	})
}

// Delete deletes the file.
func (f *FileManager) Delete(ctx context.Context) types.Result[types.Message] {
	return types.Run(f.req, pathFileDelete, f.check(), func(out *types.Message) error {
		return f.req.Delete(ctx, pathFileDelete, f.query(), out)
	})
}

func (f *FileManager) check() error {
	return validate.First(
		validate.CheckRequired("bucket", validate.String(f.bucket), validate.DefaultCheckEmptyString),
		validate.CheckRequired("file", validate.String(f.file), validate.DefaultCheckEmptyString),
	)
}

func (f *FileManager) query() url.Values {
	return url.Values{"bucket": {f.bucket}, "file": {f.file}}
}

// body addresses the file and carries one extra field when key is set.
func (f *FileManager) body(key string, value any) map[string]any {
	m := map[string]any{"bucket": f.bucket, "file": f.file}
	if key != "" {
		m[key] = value
	}
	return m
}
