package types

import (
	"time"

	"github.com/scttfrdmn/baasclient/pkg/errors"
)

// Result is the uniform envelope returned by every manager operation that
// produces data. Exactly one of Data and Errors is set.
type Result[T any] struct {
	Data   *T                  `json:"data"`
	Errors *errors.ErrorObject `json:"errors"`
}

// OK wraps data in a successful envelope.
func OK[T any](data T) Result[T] {
	return Result[T]{Data: &data}
}

// Fail wraps err in a failed envelope.
func Fail[T any](err error) Result[T] {
	obj := errors.ToObject(err)
	if obj == nil {
		obj = errors.ToObject(errors.NewError(errors.ErrCodeClientError, "operation failed without an error"))
	}
	return Result[T]{Errors: obj}
}

// Err returns the envelope's errors as an error value, or nil.
func (r Result[T]) Err() error {
	if r.Errors == nil {
		return nil
	}
	return r.Errors
}

// Bucket is a storage bucket record.
type Bucket struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	IsPublic  bool      `json:"isPublic"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy string    `json:"createdBy,omitempty"`
	UpdatedBy string    `json:"updatedBy,omitempty"`

	// Populated by detailed bucket queries only.
	Stats *BucketStats `json:"stats,omitempty"`
}

// BucketStats summarizes the files of one bucket.
type BucketStats struct {
	ObjectsCount int64 `json:"objectsCount"`
	ObjectsSize  int64 `json:"objectsSize"`
}

// File is a stored file record.
type File struct {
	ID         string    `json:"_id"`
	BucketID   string    `json:"bucketId"`
	FileName   string    `json:"fileName"`
	Size       int64     `json:"size"`
	Encoding   string    `json:"encoding,omitempty"`
	MimeType   string    `json:"mimeType"`
	PublicPath string    `json:"publicPath,omitempty"`
	IsPublic   bool      `json:"isPublic"`
	Uploaded   bool      `json:"uploaded"`
	Tags       []string  `json:"tags,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// StorageStats reports usage of the whole app storage.
type StorageStats struct {
	ObjectsCount int64     `json:"objectsCount"`
	ObjectsSize  int64     `json:"objectsSize"`
	BucketsCount int64     `json:"bucketsCount"`
	Plan         string    `json:"plan,omitempty"`
	Quota        int64     `json:"quota,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CountInfo is returned next to list results when ListOptions.ReturnCountInfo is set.
type CountInfo struct {
	Count       int64 `json:"count"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int64 `json:"currentPage"`
	PageSize    int64 `json:"pageSize"`
}

// Page is a list result with optional count information.
type Page[T any] struct {
	Items     []T        `json:"data"`
	CountInfo *CountInfo `json:"countInfo,omitempty"`
}

// Exists is the payload of existence checks.
type Exists struct {
	Exists bool `json:"exists"`
}

// UploadOptions control how a buffered upload is stored.
type UploadOptions struct {
	ContentType  string   `json:"contentType,omitempty"`
	CreateBucket bool     `json:"createBucket,omitempty"`
	IsPublic     *bool    `json:"isPublic,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// Message is the payload of operations that only acknowledge success.
type Message struct {
	Message string `json:"message,omitempty"`
}

// Run is the common body of manager operations. A failed check is reported
// to r and returned without sending anything; otherwise send performs the
// request and its outcome is wrapped in the envelope.
func Run[T any](r Requester, path string, check error, send func(out *T) error) Result[T] {
	if check != nil {
		r.Reject(path, check)
		return Fail[T](check)
	}
	var out T
	if err := send(&out); err != nil {
		return Fail[T](err)
	}
	return OK(out)
}
