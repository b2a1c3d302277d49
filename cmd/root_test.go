package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv is a fake API server plus a runner for baasctl commands against it.
type testEnv struct {
	t   *testing.T
	srv *httptest.Server

	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, name := range []string{"BAAS_ENV_URL", "BAAS_CLIENT_KEY", "BAAS_LOG_LEVEL", "BAAS_MAX_UPLOAD_SIZE"} {
		t.Setenv(name, "")
	}

	env := &testEnv{t: t}
	env.srv = httptest.NewServer(http.HandlerFunc(env.serve))
	t.Cleanup(env.srv.Close)
	return env
}

func (e *testEnv) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	e.mu.Lock()
	e.requests = append(e.requests, r)
	e.bodies = append(e.bodies, string(body))
	e.mu.Unlock()

	switch strings.TrimPrefix(r.URL.Path, "/_api/rest/v1") {
	case "/storage/list-buckets":
		_, _ = io.WriteString(w, `{"data":[{"_id":"b1","name":"images"}]}`)
	case "/storage/create-bucket":
		_, _ = io.WriteString(w, `{"_id":"b2","name":"docs"}`)
	case "/storage/stats":
		_, _ = io.WriteString(w, `{"objectsCount":3,"objectsSize":1536,"bucketsCount":2,"quota":3072}`)
	case "/storage/bucket/upload":
		_, _ = io.WriteString(w, `{"_id":"f1","fileName":"notes.txt","size":5}`)
	case "/storage/bucket/file/download":
		_, _ = io.WriteString(w, "hello")
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"items":[{"origin":"server_error","code":"not_found","message":"nothing here"}]}`)
	}
}

// run executes baasctl with args and returns stdout and the command error.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--env-url", e.srv.URL, "--client-key", "test-key", "--log-level", "ERROR"}, args...))
	err := root.Execute()
	return out.String(), err
}

func (e *testEnv) lastRequest() (*http.Request, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	require.NotEmpty(e.t, e.requests)
	return e.requests[len(e.requests)-1], e.bodies[len(e.bodies)-1]
}

func envelope(t *testing.T, out string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m), "output: %s", out)
	return m
}

func TestBucketsList(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("buckets", "list", "--limit", "5", "--sort", "name", "--desc")
	require.NoError(t, err)
	res := envelope(t, out)
	assert.Nil(t, res["errors"])
	assert.Equal(t, "images", res["data"].(map[string]any)["data"].([]any)[0].(map[string]any)["name"])

	req, body := env.lastRequest()
	assert.Equal(t, "test-key", req.Header.Get("X-Client-Key"))
	assert.JSONEq(t, `{"limit":5,"sort":{"field":"name","direction":"desc"}}`, body)
}

func TestBucketsList_InvalidLimit(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("buckets", "list", "--limit", "0")
	assert.ErrorIs(t, err, errFailed)
	res := envelope(t, out)
	assert.Nil(t, res["data"])
	item := res["errors"].(map[string]any)["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "invalid_value", item["code"])
	assert.Empty(t, env.requests)
}

func TestBucketsCreateAndDelete(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("buckets", "create", "docs", "--public", "--tag", "a", "--tag", "b")
	require.NoError(t, err)
	assert.Equal(t, "b2", envelope(t, out)["data"].(map[string]any)["_id"])
	_, body := env.lastRequest()
	assert.JSONEq(t, `{"name":"docs","isPublic":true,"tags":["a","b"]}`, body)

	out, err = env.run("buckets", "delete", "docs")
	assert.ErrorIs(t, err, errFailed)
	assert.Contains(t, out, "not_found")
	req, _ := env.lastRequest()
	assert.Equal(t, http.MethodDelete, req.Method)
}

func TestFilesUploadAndDownload(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0600))

	out, err := env.run("files", "upload", "docs", src, "--public")
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", envelope(t, out)["data"].(map[string]any)["fileName"])
	_, body := env.lastRequest()
	assert.Contains(t, body, `filename="notes.txt"`)
	assert.Contains(t, body, `"isPublic":true`)

	out, err = env.run("files", "download", "docs", "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	dst := filepath.Join(dir, "copy.txt")
	_, err = env.run("files", "download", "docs", "notes.txt", "-f", dst)
	require.NoError(t, err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestFilesUpload_MissingFile(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("files", "upload", "docs", filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, errFailed)
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("stats")
	require.NoError(t, err)
	assert.Equal(t, float64(2), envelope(t, out)["data"].(map[string]any)["bucketsCount"])

	out, err = env.run("stats", "--human")
	require.NoError(t, err)
	assert.Contains(t, out, "Buckets: 2")
	assert.Contains(t, out, "Size:    1.5 KB")
	assert.Contains(t, out, "(50.0% used)")
}

func TestMissingConfiguration(t *testing.T) {
	newTestEnv(t)

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"stats"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.env_url")
}
