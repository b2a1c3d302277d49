package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records request outcomes and rejected inputs of the client.
type Collector struct {
	mu       sync.RWMutex
	config   *Config
	registry *prometheus.Registry

	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rejectedCounter *prometheus.CounterVec

	operations map[string]*OperationMetrics
	lastReset  time.Time
}

// Config represents metrics configuration
type Config struct {
	Enabled   bool              `yaml:"enabled"`
	Namespace string            `yaml:"namespace"`
	Subsystem string            `yaml:"subsystem"`
	Labels    map[string]string `yaml:"labels"`
}

// OperationMetrics tracks metrics for a single operation name
type OperationMetrics struct {
	Count         int64         `json:"count"`
	Errors        int64         `json:"errors"`
	Rejected      int64         `json:"rejected"`
	TotalDuration time.Duration `json:"total_duration"`
	AvgDuration   time.Duration `json:"avg_duration"`
	LastStatus    int           `json:"last_status"`
	LastOperation time.Time     `json:"last_operation"`
}

// DefaultConfig returns an enabled configuration in the "baasclient" namespace.
func DefaultConfig() *Config {
	return &Config{
		Enabled:   true,
		Namespace: "baasclient",
		Labels:    make(map[string]string),
	}
}

// NewCollector creates a new metrics collector
func NewCollector(config *Config) (*Collector, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if !config.Enabled {
		return &Collector{config: config}, nil
	}

	collector := &Collector{
		config:     config,
		registry:   prometheus.NewRegistry(),
		operations: make(map[string]*OperationMetrics),
		lastReset:  time.Now(),
	}

	collector.initMetrics()

	if err := collector.registerMetrics(); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	return collector, nil
}

// Enabled reports whether the collector records anything.
func (c *Collector) Enabled() bool {
	return c != nil && c.config.Enabled
}

// Registry returns the private registry, or nil when disabled.
func (c *Collector) Registry() *prometheus.Registry {
	if !c.Enabled() {
		return nil
	}
	return c.registry
}

// Handler exposes the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if !c.Enabled() {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// RecordRequest records one completed or failed request. status is 0 when no
// response was received.
func (c *Collector) RecordRequest(operation string, status int, duration time.Duration, success bool) {
	if !c.Enabled() {
		return
	}

	c.mu.Lock()
	m := c.operation(operation)
	m.Count++
	if !success {
		m.Errors++
	}
	m.TotalDuration += duration
	m.AvgDuration = time.Duration(int64(m.TotalDuration) / m.Count)
	m.LastStatus = status
	m.LastOperation = time.Now()
	c.mu.Unlock()

	c.requestCounter.With(prometheus.Labels{
		"operation": operation,
		"status":    statusLabel(status, success),
	}).Inc()
	c.requestDuration.With(prometheus.Labels{
		"operation": operation,
	}).Observe(duration.Seconds())
}

// RecordRejected records an operation refused by input validation.
func (c *Collector) RecordRejected(operation string, code string) {
	if !c.Enabled() {
		return
	}

	c.mu.Lock()
	m := c.operation(operation)
	m.Rejected++
	m.LastOperation = time.Now()
	c.mu.Unlock()

	c.rejectedCounter.With(prometheus.Labels{
		"operation": operation,
		"code":      code,
	}).Inc()
}

// GetMetrics returns a snapshot of per-operation counters
func (c *Collector) GetMetrics() map[string]interface{} {
	metrics := make(map[string]interface{})
	if !c.Enabled() {
		return metrics
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	operations := make(map[string]OperationMetrics, len(c.operations))
	for k, v := range c.operations {
		operations[k] = *v
	}

	metrics["operations"] = operations
	metrics["last_reset"] = c.lastReset
	metrics["uptime"] = time.Since(c.lastReset)

	return metrics
}

// ResetMetrics resets the per-operation snapshot. Prometheus counters are
// monotonic and keep their values.
func (c *Collector) ResetMetrics() {
	if !c.Enabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.operations = make(map[string]*OperationMetrics)
	c.lastReset = time.Now()
}

// operation must be called with c.mu held.
func (c *Collector) operation(name string) *OperationMetrics {
	m, ok := c.operations[name]
	if !ok {
		m = &OperationMetrics{}
		c.operations[name] = m
	}
	return m
}

func (c *Collector) initMetrics() {
	c.requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   c.config.Namespace,
			Subsystem:   c.config.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of API requests",
			ConstLabels: c.config.Labels,
		},
		[]string{"operation", "status"},
	)

	c.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   c.config.Namespace,
			Subsystem:   c.config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "Duration of API requests in seconds",
			Buckets:     prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			ConstLabels: c.config.Labels,
		},
		[]string{"operation"},
	)

	c.rejectedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   c.config.Namespace,
			Subsystem:   c.config.Subsystem,
			Name:        "rejected_inputs_total",
			Help:        "Total number of operations rejected by input validation",
			ConstLabels: c.config.Labels,
		},
		[]string{"operation", "code"},
	)
}

func (c *Collector) registerMetrics() error {
	collectors := []prometheus.Collector{
		c.requestCounter,
		c.requestDuration,
		c.rejectedCounter,
	}

	for _, collector := range collectors {
		if err := c.registry.Register(collector); err != nil {
			return err
		}
	}

	return nil
}

func statusLabel(status int, success bool) string {
	if status == 0 {
		if success {
			return "ok"
		}
		return "error"
	}
	return strconv.Itoa(status)
}
