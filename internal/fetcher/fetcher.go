package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/scttfrdmn/baasclient/pkg/errors"
	"github.com/scttfrdmn/baasclient/pkg/types"
	"github.com/scttfrdmn/baasclient/pkg/urlutil"
	"github.com/scttfrdmn/baasclient/pkg/utils"
	"github.com/scttfrdmn/baasclient/pkg/validate"
)

// APIPrefix is prepended to every request path.
const APIPrefix = "/_api/rest/v1"

// Request headers sent by the fetcher.
const (
	HeaderClientKey = "X-Client-Key"
	HeaderAPIKey    = "X-Api-Key"
	HeaderSession   = "Session"
	HeaderRequestID = "X-Request-Id"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 1 << 20

// Config configures a Fetcher.
type Config struct {
	EnvURL       string
	ClientKey    string
	APIKey       string
	SessionToken string
	UserAgent    string
	Timeout      time.Duration
	// MaxUploadSize rejects larger uploads before sending; 0 disables the check.
	MaxUploadSize int64

	HTTPClient *http.Client
	Logger     *logrus.Logger
	Metrics    types.MetricsCollector
}

// Fetcher sends JSON requests to the platform and decodes the responses.
// It is safe for concurrent use; only the session token may change after
// construction.
type Fetcher struct {
	baseURL       string
	clientKey     string
	apiKey        string
	userAgent     string
	maxUploadSize int64

	session sessionToken
	client  *http.Client
	log     *logrus.Entry
	metrics types.MetricsCollector
}

// New creates a Fetcher. EnvURL is normalized; EnvURL and ClientKey are required.
func New(cfg Config) (*Fetcher, error) {
	envURL := urlutil.NormalizeURL(cfg.EnvURL)
	if err := validate.First(
		validate.CheckRequired("envUrl", validate.String(envURL), validate.DefaultCheckEmptyString),
		validate.CheckRequired("clientKey", validate.String(cfg.ClientKey), validate.DefaultCheckEmptyString),
	); err != nil {
		return nil, err
	}
	if _, err := url.ParseRequestURI(envURL); err != nil {
		return nil, errors.NewFieldError(errors.ErrCodeInvalidValue, "envUrl",
			fmt.Sprintf("envUrl needs to be an absolute URL, got %q", cfg.EnvURL)).WithCause(err)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "baasclient"
	}

	f := &Fetcher{
		baseURL:       envURL + APIPrefix,
		clientKey:     cfg.ClientKey,
		apiKey:        cfg.APIKey,
		userAgent:     userAgent,
		maxUploadSize: cfg.MaxUploadSize,
		client:        client,
		log:           logger.WithField("component", "fetcher"),
		metrics:       cfg.Metrics,
	}
	f.session.set(cfg.SessionToken)
	return f, nil
}

// BaseURL returns the API root requests are sent to.
func (f *Fetcher) BaseURL() string {
	return f.baseURL
}

// SetSession sets the session token sent with subsequent requests. An empty
// token clears it.
func (f *Fetcher) SetSession(token string) {
	f.session.set(token)
}

// Get issues a GET request and decodes the JSON response into out.
func (f *Fetcher) Get(ctx context.Context, path string, query url.Values, out any) error {
	return f.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST request with body encoded as JSON.
func (f *Fetcher) Post(ctx context.Context, path string, body any, out any) error {
	return f.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

// Delete issues a DELETE request.
func (f *Fetcher) Delete(ctx context.Context, path string, query url.Values, out any) error {
	return f.doJSON(ctx, http.MethodDelete, path, query, nil, out)
}

// Upload sends form as multipart/form-data. The content is buffered in memory.
func (f *Fetcher) Upload(ctx context.Context, path string, form types.UploadForm, out any) error {
	if f.maxUploadSize > 0 && int64(len(form.Content)) > f.maxUploadSize {
		err := errors.NewFieldError(errors.ErrCodeInvalidValue, "content",
			fmt.Sprintf("content is %s, larger than the %s upload limit",
				utils.FormatBytes(int64(len(form.Content))), utils.FormatBytes(f.maxUploadSize)))
		f.Reject(path, err)
		return err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range form.Fields {
		if err := w.WriteField(k, v); err != nil {
			return errors.NewError(errors.ErrCodeClientError, "cannot build upload form").WithCause(err)
		}
	}

	contentType := form.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(form.Content)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, form.FileName))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return errors.NewError(errors.ErrCodeClientError, "cannot build upload form").WithCause(err)
	}
	if _, err := part.Write(form.Content); err != nil {
		return errors.NewError(errors.ErrCodeClientError, "cannot build upload form").WithCause(err)
	}
	if err := w.Close(); err != nil {
		return errors.NewError(errors.ErrCodeClientError, "cannot build upload form").WithCause(err)
	}

	body, err := f.do(ctx, http.MethodPost, path, nil, &buf, w.FormDataContentType())
	if err != nil {
		return err
	}
	return decode(body, out)
}

// Download issues a GET request and returns the raw response body.
func (f *Fetcher) Download(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return f.do(ctx, http.MethodGet, path, query, nil, "")
}

// Reject logs and counts a request to path refused before it was sent.
func (f *Fetcher) Reject(path string, err error) {
	operation := operationName(http.MethodPost, path)
	code := errors.CodeOf(err)
	if code == "" {
		code = errors.ErrCodeClientError
	}
	entry := f.log.WithFields(logrus.Fields{
		"operation": operation,
		"code":      code,
	})
	var e *errors.Error
	if stderrors.As(err, &e) && e.Field != "" {
		entry = entry.WithField("field", e.Field)
	}
	entry.Debug("request rejected")

	if f.metrics != nil {
		f.metrics.RecordRejected(operation, string(code))
	}
}

func (f *Fetcher) doJSON(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.NewError(errors.ErrCodeClientError, "cannot encode request body").WithCause(err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}

	resp, err := f.do(ctx, method, path, query, reader, contentType)
	if err != nil {
		return err
	}
	return decode(resp, out)
}

// do performs the request and returns the body of a 2xx response. Any other
// outcome is returned as *errors.ErrorObject (server answered) or *errors.Error.
func (f *Fetcher) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) ([]byte, error) {
	target := f.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errors.NewError(errors.ErrCodeClientError, "cannot build request").WithCause(err)
	}

	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)
	req.Header.Set(HeaderClientKey, f.clientKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.userAgent)
	if f.apiKey != "" {
		req.Header.Set(HeaderAPIKey, f.apiKey)
	}
	if token := f.session.get(); token != "" {
		req.Header.Set(HeaderSession, token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	operation := operationName(method, path)
	log := f.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})

	start := time.Now()
	resp, err := f.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		f.record(operation, 0, duration, false)
		log.WithError(err).Warn("request failed")
		return nil, errors.NewError(errors.ErrCodeClientError, err.Error()).
			WithOperation(operation).
			WithCause(err)
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	f.record(operation, resp.StatusCode, duration, ok)
	log = log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": duration,
	})

	if !ok {
		obj := readErrorObject(resp)
		log.WithField("code", obj.Code()).Warn("request returned an error")
		return nil, obj
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithError(err).Warn("cannot read response body")
		return nil, errors.NewError(errors.ErrCodeClientError, "cannot read response body").
			WithOperation(operation).
			WithCause(err)
	}
	log.Debug("request completed")
	return data, nil
}

func (f *Fetcher) record(operation string, status int, duration time.Duration, success bool) {
	if f.metrics != nil {
		f.metrics.RecordRequest(operation, status, duration, success)
	}
}

// readErrorObject decodes a non-2xx response. Bodies that are not error
// objects are kept as the message of a single item.
func readErrorObject(resp *http.Response) *errors.ErrorObject {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	obj := &errors.ErrorObject{}
	if len(data) > 0 {
		_ = json.Unmarshal(data, obj)
	}
	obj.Status = resp.StatusCode
	obj.StatusText = http.StatusText(resp.StatusCode)

	if len(obj.Items) == 0 {
		code := strings.ToLower(strings.ReplaceAll(obj.StatusText, " ", "_"))
		if code == "" {
			code = fmt.Sprintf("http_%d", resp.StatusCode)
		}
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = obj.StatusText
		}
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		obj.Items = []errors.ErrorItem{{
			Origin:  "server_error",
			Code:    errors.ErrorCode(code),
			Message: msg,
		}}
	}
	return obj
}

func decode(data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.NewError(errors.ErrCodeInvalidResponse, "cannot decode response body").WithCause(err)
	}
	return nil
}

// operationName turns "/storage/bucket/list-files" into "storage.bucket.list_files".
func operationName(method, path string) string {
	name := strings.Trim(path, "/")
	name = strings.ReplaceAll(name, "/", ".")
	name = strings.ReplaceAll(name, "-", "_")
	if name == "" {
		return strings.ToLower(method)
	}
	return name
}
