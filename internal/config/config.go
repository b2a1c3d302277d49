package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/scttfrdmn/baasclient/internal/metrics"
	"github.com/scttfrdmn/baasclient/pkg/errors"
	"github.com/scttfrdmn/baasclient/pkg/urlutil"
	"github.com/scttfrdmn/baasclient/pkg/utils"
	"github.com/scttfrdmn/baasclient/pkg/validate"
)

// EnvPrefix prefixes every environment variable read by LoadFromEnv.
const EnvPrefix = "BAAS_"

// Configuration represents the complete client configuration
type Configuration struct {
	Global  GlobalConfig   `yaml:"global"`
	API     APIConfig      `yaml:"api"`
	Metrics metrics.Config `yaml:"metrics"`
}

// GlobalConfig represents logging settings
type GlobalConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogFile   string `yaml:"log_file"`

	// Rotation of log_file. An empty log_max_size disables rotation.
	LogMaxSize    string `yaml:"log_max_size"`
	LogMaxBackups int    `yaml:"log_max_backups"`
	LogCompress   bool   `yaml:"log_compress"`
}

// APIConfig describes the platform endpoint and credentials
type APIConfig struct {
	EnvURL        string        `yaml:"env_url"`
	ClientKey     string        `yaml:"client_key"`
	APIKey        string        `yaml:"api_key"`
	SessionToken  string        `yaml:"session_token"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxUploadSize string        `yaml:"max_upload_size"`
	UserAgent     string        `yaml:"user_agent"`
}

// NewDefault returns a configuration with sensible defaults. EnvURL and
// ClientKey have no default and must be supplied.
func NewDefault() *Configuration {
	return &Configuration{
		Global: GlobalConfig{
			LogLevel:      "INFO",
			LogFormat:     "text",
			LogMaxSize:    "10MB",
			LogMaxBackups: 3,
		},
		API: APIConfig{
			Timeout:       30 * time.Second,
			MaxUploadSize: "50MB",
			UserAgent:     "baasclient",
		},
		Metrics: metrics.Config{
			Enabled:   false,
			Namespace: "baasclient",
		},
	}
}

// LoadFromFile loads configuration from a YAML file
func (c *Configuration) LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// LoadFromEnv loads configuration from BAAS_* environment variables
func (c *Configuration) LoadFromEnv() error {
	if val := getenv("LOG_LEVEL"); val != "" {
		c.Global.LogLevel = val
	}
	if val := getenv("LOG_FORMAT"); val != "" {
		c.Global.LogFormat = val
	}
	if val := getenv("LOG_FILE"); val != "" {
		c.Global.LogFile = val
	}

	if val := getenv("ENV_URL"); val != "" {
		c.API.EnvURL = val
	}
	if val := getenv("CLIENT_KEY"); val != "" {
		c.API.ClientKey = val
	}
	if val := getenv("API_KEY"); val != "" {
		c.API.APIKey = val
	}
	if val := getenv("SESSION_TOKEN"); val != "" {
		c.API.SessionToken = val
	}
	if val := getenv("TIMEOUT"); val != "" {
		timeout, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid %sTIMEOUT: %w", EnvPrefix, err)
		}
		c.API.Timeout = timeout
	}
	if val := getenv("MAX_UPLOAD_SIZE"); val != "" {
		c.API.MaxUploadSize = val
	}

	if val := getenv("METRICS_ENABLED"); val != "" {
		c.Metrics.Enabled = strings.ToLower(val) == "true"
	}

	return nil
}

// SaveToFile saves the configuration to a YAML file
func (c *Configuration) SaveToFile(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate normalizes the endpoint URL and validates the configuration.
// Missing or malformed values are reported as *errors.Error.
func (c *Configuration) Validate() error {
	c.API.EnvURL = urlutil.NormalizeURL(c.API.EnvURL)

	if err := validate.First(
		validate.CheckRequired("api.env_url", validate.String(c.API.EnvURL), validate.DefaultCheckEmptyString),
		validate.CheckRequired("api.client_key", validate.String(c.API.ClientKey), validate.DefaultCheckEmptyString),
	); err != nil {
		return err
	}

	u, err := url.Parse(c.API.EnvURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.NewFieldError(errors.ErrCodeInvalidValue, "api.env_url",
			fmt.Sprintf("api.env_url needs to be an absolute http(s) URL, got %q", c.API.EnvURL))
	}

	if c.API.Timeout <= 0 {
		return errors.NewFieldError(errors.ErrCodeInvalidValue, "api.timeout",
			"api.timeout must be greater than 0")
	}

	if _, err := c.MaxUploadBytes(); err != nil {
		return errors.NewFieldError(errors.ErrCodeInvalidValue, "api.max_upload_size",
			fmt.Sprintf("api.max_upload_size is invalid: %v", err)).WithCause(err)
	}

	if _, err := utils.ParseLogLevel(c.Global.LogLevel); err != nil {
		return errors.NewFieldError(errors.ErrCodeInvalidValue, "global.log_level",
			fmt.Sprintf("invalid log_level: %s (must be one of: DEBUG, INFO, WARN, ERROR)", c.Global.LogLevel))
	}

	if strings.TrimSpace(c.Global.LogMaxSize) != "" {
		if _, err := utils.ParseBytes(c.Global.LogMaxSize); err != nil {
			return errors.NewFieldError(errors.ErrCodeInvalidValue, "global.log_max_size",
				fmt.Sprintf("global.log_max_size is invalid: %v", err)).WithCause(err)
		}
	}
	if c.Global.LogMaxBackups < 0 {
		return errors.NewFieldError(errors.ErrCodeInvalidValue, "global.log_max_backups",
			"global.log_max_backups cannot be negative")
	}

	switch strings.ToLower(c.Global.LogFormat) {
	case "", "text", "json":
	default:
		return errors.NewFieldError(errors.ErrCodeInvalidValue, "global.log_format",
			fmt.Sprintf("invalid log_format: %s (must be text or json)", c.Global.LogFormat))
	}

	return nil
}

// MaxUploadBytes returns the upload limit in bytes; 0 means unlimited.
func (c *Configuration) MaxUploadBytes() (int64, error) {
	if strings.TrimSpace(c.API.MaxUploadSize) == "" {
		return 0, nil
	}
	return utils.ParseBytes(c.API.MaxUploadSize)
}

// LogConfig returns the logger settings. Call Validate first; an invalid
// log_max_size disables rotation here.
func (c *Configuration) LogConfig() utils.LogConfig {
	cfg := utils.LogConfig{
		Level:      c.Global.LogLevel,
		Format:     c.Global.LogFormat,
		File:       c.Global.LogFile,
		MaxBackups: c.Global.LogMaxBackups,
		Compress:   c.Global.LogCompress,
	}
	if strings.TrimSpace(c.Global.LogMaxSize) != "" {
		if size, err := utils.ParseBytes(c.Global.LogMaxSize); err == nil {
			cfg.MaxSize = size
		}
	}
	return cfg
}

func getenv(name string) string {
	return os.Getenv(EnvPrefix + name)
}
