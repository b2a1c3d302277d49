package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scttfrdmn/baasclient/pkg/errors"
	"github.com/scttfrdmn/baasclient/pkg/types"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		field string
	}{
		{"missing env url", Options{ClientKey: "k"}, "envUrl"},
		{"blank env url", Options{EnvURL: "   ", ClientKey: "k"}, "envUrl"},
		{"missing client key", Options{EnvURL: "https://x.example.app"}, "clientKey"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.opts)
			assert.Nil(t, c)
			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, errors.ErrCodeMissingRequiredValue, e.Code)
			assert.Equal(t, tt.field, e.Field)
		})
	}
}

func TestClient_EndToEnd(t *testing.T) {
	var sessions []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessions = append(sessions, r.Header.Get("Session"))
		switch r.URL.Path {
		case "/_api/rest/v1/storage/stats":
			_, _ = io.WriteString(w, `{"objectsCount":1,"objectsSize":10,"bucketsCount":1}`)
		case "/_api/rest/v1/db/model/get":
			_, _ = io.WriteString(w, `[]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, err := New(Options{EnvURL: srv.URL + "/", ClientKey: "k", Metrics: true, MetricsNamespace: "e2e"})
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/_api/rest/v1", c.BaseURL())

	ctx := context.Background()
	stats := c.Storage.GetStats(ctx)
	require.Nil(t, stats.Errors)
	assert.Equal(t, int64(1), stats.Data.BucketsCount)

	assert.True(t, c.UseRedirect(srv.URL+"/auth?action=oauth-signin&status=200#st=token-1"))
	require.Nil(t, c.DB.Model("users").Get(ctx, false).Errors)

	missing := c.Storage.Bucket("nope").GetInfo(ctx, false)
	assert.Equal(t, http.StatusNotFound, missing.Errors.Status)

	rejected := c.Storage.CreateBucket(ctx, "", false)
	assert.Equal(t, errors.ErrCodeMissingRequiredValue, rejected.Errors.Code())

	assert.Equal(t, []string{"", "token-1", "token-1"}, sessions)

	rec := httptest.NewRecorder()
	c.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `e2e_requests_total{operation="storage.stats",status="200"} 1`)
	assert.Contains(t, body, `e2e_rejected_inputs_total{code="missing_required_value",operation="storage.create_bucket"} 1`)
}

func TestClient_MetricsDisabled(t *testing.T) {
	c, err := New(Options{EnvURL: "https://x.example.app", ClientKey: "k"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClient_UploadLimit(t *testing.T) {
	c, err := New(Options{EnvURL: "https://x.example.app", ClientKey: "k", MaxUploadSize: 3, Metrics: true, MetricsNamespace: "up"})
	require.NoError(t, err)

	ctx := context.Background()
	res := c.Storage.Root().Upload(ctx, "a.bin", []byte(strings.Repeat("x", 4)), &types.UploadOptions{})
	require.NotNil(t, res.Errors)
	assert.Equal(t, errors.ErrCodeInvalidValue, res.Errors.Code())

	res = c.Storage.Root().Upload(ctx, " ", []byte("x"), &types.UploadOptions{})
	require.NotNil(t, res.Errors)
	assert.Equal(t, errors.ErrCodeMissingRequiredValue, res.Errors.Code())

	rec := httptest.NewRecorder()
	c.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `up_rejected_inputs_total{code="invalid_value",operation="storage.bucket.upload"} 1`)
	assert.Contains(t, body, `up_rejected_inputs_total{code="missing_required_value",operation="storage.bucket.upload"} 1`)
	assert.NotContains(t, body, "up_requests_total{")
}

func TestClient_UseRedirect(t *testing.T) {
	var sessions []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessions = append(sessions, r.Header.Get("Session"))
		_, _ = io.WriteString(w, `{"objectsCount":0,"objectsSize":0,"bucketsCount":0}`)
	}))
	defer srv.Close()

	c, err := New(Options{EnvURL: srv.URL, ClientKey: "k", SessionToken: "old"})
	require.NoError(t, err)

	ctx := context.Background()
	require.Nil(t, c.Storage.GetStats(ctx).Errors)

	assert.True(t, c.UseRedirect("https://app.example.com/cb?action=magic-link&status=200&st=new%2Btoken"))
	require.Nil(t, c.Storage.GetStats(ctx).Errors)

	assert.False(t, c.UseRedirect("https://app.example.com/cb?action=magic-link&status=400&error=expired"))
	require.Nil(t, c.Storage.GetStats(ctx).Errors)

	assert.Equal(t, []string{"old", "new+token", "new+token"}, sessions)
}

func TestParseRedirect(t *testing.T) {
	r := ParseRedirect("https://app.example.com/cb?action=email-confirm&status=401&error=Token+expired")
	assert.Equal(t, Redirect{Action: "email-confirm", Status: "401", Error: "Token expired"}, r)

	assert.Equal(t, Redirect{}, ParseRedirect(""))

	c, err := New(Options{EnvURL: "https://x.example.app", ClientKey: "k"})
	require.NoError(t, err)
	assert.False(t, c.UseRedirect("https://app.example.com/cb?action=signin"))
}
