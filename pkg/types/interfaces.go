package types

import (
	"context"
	"net/url"
	"time"
)

// Requester performs requests against the platform's REST API. Paths are
// relative to the API root. Failed requests return an *errors.ErrorObject or
// an *errors.Error.
type Requester interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Delete(ctx context.Context, path string, query url.Values, out any) error
	Upload(ctx context.Context, path string, form UploadForm, out any) error
	Download(ctx context.Context, path string, query url.Values) ([]byte, error)

	// Reject records that the request to path was refused before it was sent.
	Reject(path string, err error)
}

// UploadForm is a buffered multipart upload.
type UploadForm struct {
	FileName    string
	ContentType string
	Content     []byte
	Fields      map[string]string
}

// MetricsCollector records request outcomes and rejected inputs.
type MetricsCollector interface {
	RecordRequest(operation string, status int, duration time.Duration, success bool)
	RecordRejected(operation string, code string)
}
