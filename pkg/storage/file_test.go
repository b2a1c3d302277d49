package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scttfrdmn/baasclient/internal/fetcher"
	"github.com/scttfrdmn/baasclient/pkg/errors"
)

func TestFileManager_Requests(t *testing.T) {
	t.Parallel()
	m, srv, _ := newTestManager(t)
	ctx := context.Background()
	f := m.Bucket("images").File("cat.png")
	addressed := map[string]string{"bucket": "images", "file": "cat.png"}

	tests := []struct {
		name   string
		call   func() error
		method string
		path   string
		query  map[string]string
		body   map[string]any
	}{
		{"get info", func() error { return f.GetInfo(ctx).Err() },
			http.MethodGet, "/storage/bucket/file/get", addressed, nil},
		{"rename", func() error { return f.Rename(ctx, "dog.png").Err() },
			http.MethodPost, "/storage/bucket/file/rename", map[string]string{}, map[string]any{"bucket": "images", "file": "cat.png", "newName": "dog.png"}},
		{"duplicate", func() error { return f.Duplicate(ctx).Err() },
			http.MethodPost, "/storage/bucket/file/duplicate", map[string]string{}, map[string]any{"bucket": "images", "file": "cat.png"}},
		{"move", func() error { return f.MoveTo(ctx, "archive").Err() },
			http.MethodPost, "/storage/bucket/file/move", map[string]string{}, map[string]any{"bucket": "images", "file": "cat.png", "targetBucket": "archive"}},
		{"copy", func() error { return f.CopyTo(ctx, "archive").Err() },
			http.MethodPost, "/storage/bucket/file/copy", map[string]string{}, map[string]any{"bucket": "images", "file": "cat.png", "targetBucket": "archive"}},
		{"make public", func() error { return f.MakePublic(ctx).Err() },
			http.MethodPost, "/storage/bucket/file/make-public", map[string]string{}, map[string]any{"bucket": "images", "file": "cat.png"}},
		{"make private", func() error { return f.MakePrivate(ctx).Err() },
			http.MethodPost, "/storage/bucket/file/make-private", map[string]string{}, map[string]any{"bucket": "images", "file": "cat.png"}},
		{"add tags", func() error { return f.AddTags(ctx, []string{"pet"}).Err() },
			http.MethodPost, "/storage/bucket/file/add-tags", map[string]string{}, map[string]any{"bucket": "images", "file": "cat.png", "tags": []any{"pet"}}},
		{"remove tags", func() error { return f.RemoveTags(ctx, []string{"pet"}).Err() },
			http.MethodPost, "/storage/bucket/file/remove-tags", map[string]string{}, map[string]any{"bucket": "images", "file": "cat.png", "tags": []any{"pet"}}},
		{"delete", func() error { return f.Delete(ctx).Err() },
			http.MethodDelete, "/storage/bucket/file/delete", addressed, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.call())
			req := srv.last(t)
			assert.Equal(t, tt.method, req.Method)
			assert.Equal(t, tt.path, req.Path)
			assert.Equal(t, tt.query, req.Query)
			assert.Equal(t, tt.body, req.Body)
		})
	}
}

func TestFileManager_Exists(t *testing.T) {
	t.Parallel()
	m, srv, _ := newTestManager(t)
	srv.reply(http.StatusOK, `{"exists":true}`)

	res := m.Bucket("images").File("cat.png").Exists(context.Background())
	require.Nil(t, res.Errors)
	assert.True(t, *res.Data)
	assert.Equal(t, "/storage/bucket/file/exists", srv.last(t).Path)
}

func TestFileManager_Download(t *testing.T) {
	t.Parallel()

	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("file") == "missing.png" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"items":[{"origin":"server_error","code":"file_not_found","message":"File not found"}]}`))
			return
		}
		_, _ = w.Write([]byte("PNGDATA"))
	}))
	t.Cleanup(hs.Close)

	f, err := fetcher.New(fetcher.Config{EnvURL: hs.URL, ClientKey: "k"})
	require.NoError(t, err)
	bucket := NewManager(f).Bucket("images")

	res := bucket.File("cat.png").Download(context.Background())
	require.Nil(t, res.Errors)
	assert.Equal(t, []byte("PNGDATA"), *res.Data)

	res = bucket.File("missing.png").Download(context.Background())
	assert.Nil(t, res.Data)
	assert.Equal(t, http.StatusNotFound, res.Errors.Status)
	assert.Equal(t, errors.ErrorCode("file_not_found"), res.Errors.Code())
}
