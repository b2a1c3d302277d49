package client

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/scttfrdmn/baasclient/internal/fetcher"
	"github.com/scttfrdmn/baasclient/internal/metrics"
	"github.com/scttfrdmn/baasclient/pkg/db"
	"github.com/scttfrdmn/baasclient/pkg/storage"
	"github.com/scttfrdmn/baasclient/pkg/urlutil"
)

// DefaultTimeout bounds every request when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Options configure a Client. EnvURL and ClientKey are required.
type Options struct {
	// EnvURL is the base URL of the app environment, e.g. https://c1-na.example.app.
	EnvURL       string
	ClientKey    string
	APIKey       string
	SessionToken string
	UserAgent    string
	Timeout      time.Duration
	// MaxUploadSize rejects larger uploads locally; 0 disables the check.
	MaxUploadSize int64

	// HTTPClient replaces the default client. Timeout is ignored when set.
	HTTPClient *http.Client
	// Logger receives request logs; nil discards them.
	Logger *logrus.Logger
	// Metrics enables the Prometheus collector exposed by MetricsHandler.
	Metrics          bool
	MetricsNamespace string
}

// Client is the entry point of the library. It is safe for concurrent use.
type Client struct {
	Storage *storage.Manager
	DB      *db.Manager

	fetcher *fetcher.Fetcher
	metrics *metrics.Collector
}

// New creates a Client. Invalid options are reported as *errors.Error with
// the offending field.
func New(opts Options) (*Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	mcfg := metrics.DefaultConfig()
	mcfg.Enabled = opts.Metrics
	if opts.MetricsNamespace != "" {
		mcfg.Namespace = opts.MetricsNamespace
	}
	collector, err := metrics.NewCollector(mcfg)
	if err != nil {
		return nil, err
	}

	f, err := fetcher.New(fetcher.Config{
		EnvURL:        opts.EnvURL,
		ClientKey:     opts.ClientKey,
		APIKey:        opts.APIKey,
		SessionToken:  opts.SessionToken,
		UserAgent:     opts.UserAgent,
		Timeout:       timeout,
		MaxUploadSize: opts.MaxUploadSize,
		HTTPClient:    opts.HTTPClient,
		Logger:        opts.Logger,
		Metrics:       collector,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		Storage: storage.NewManager(f),
		DB:      db.NewManager(f),
		fetcher: f,
		metrics: collector,
	}, nil
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.fetcher.BaseURL()
}

// SetSession sets the session token sent with every later request. An empty
// token signs the client out locally.
func (c *Client) SetSession(token string) {
	c.fetcher.SetSession(token)
}

// MetricsHandler serves the client's metrics in the Prometheus format. It
// answers 404 when metrics are disabled.
func (c *Client) MetricsHandler() http.Handler {
	return c.metrics.Handler()
}

// Redirect holds the parameters the platform appends to a redirect URL after
// an email confirmation, password reset or OAuth flow.
type Redirect struct {
	Action       string
	Status       string
	Error        string
	SessionToken string
}

// ParseRedirect extracts the redirect parameters from location. Parameters
// may appear in the query or the fragment. Missing ones are left empty.
func ParseRedirect(location string) Redirect {
	get := func(name string) string {
		v, _ := urlutil.ParamValue(location, name)
		return v
	}
	return Redirect{
		Action:       get("action"),
		Status:       get("status"),
		Error:        get("error"),
		SessionToken: get("st"),
	}
}

// UseRedirect stores the session token carried by location, if any, and
// reports whether one was found.
func (c *Client) UseRedirect(location string) bool {
	r := ParseRedirect(location)
	if r.SessionToken == "" {
		return false
	}
	c.SetSession(r.SessionToken)
	return true
}
