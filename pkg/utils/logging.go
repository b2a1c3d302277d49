package utils

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the logging level
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logrus maps the level onto logrus.
func (l LogLevel) Logrus() logrus.Level {
	switch l {
	case DEBUG:
		return logrus.DebugLevel
	case WARN:
		return logrus.WarnLevel
	case ERROR:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// ParseLogLevel parses a string log level
func ParseLogLevel(level string) (LogLevel, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("invalid log level: %s", level)
	}
}

// LogConfig describes how to build a logger.
type LogConfig struct {
	Level  string
	Format string // "text" or "json"
	File   string
	Output io.Writer // takes precedence over File

	// Rotation of File; a MaxSize of 0 disables it.
	MaxSize    int64
	MaxBackups int
	Compress   bool
}

// NewLogger builds a logrus logger from cfg. The caller owns any file opened
// for cfg.File and closes it through the returned io.Closer, which is a no-op
// otherwise.
func NewLogger(cfg LogConfig) (*logrus.Logger, io.Closer, error) {
	level, err := ParseLogLevel(cfg.Level)
	if cfg.Level != "" && err != nil {
		return nil, nil, err
	}

	logger := logrus.New()
	logger.SetLevel(level.Logrus())

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, nil, fmt.Errorf("invalid log format: %s", cfg.Format)
	}

	var closer io.Closer = nopCloser{}
	switch {
	case cfg.Output != nil:
		logger.SetOutput(cfg.Output)
	case cfg.File != "" && cfg.MaxSize > 0:
		rf, err := NewRotatingFile(RotationConfig{
			Path:       cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			Compress:   cfg.Compress,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.SetOutput(rf)
		closer = rf
	case cfg.File != "":
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logger.SetOutput(file)
		closer = file
	default:
		logger.SetOutput(os.Stderr)
	}

	return logger, closer, nil
}

// DiscardLogger returns a logger that writes nothing.
func DiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// FormatBytes formats bytes as human-readable string
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// ParseBytes parses a human-readable byte string such as "10MB", "512K" or
// "4MiB". Units are binary multiples of 1024.
func ParseBytes(s string) (int64, error) {
	in := s
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty string")
	}

	binary := strings.HasSuffix(s, "IB")
	if binary {
		s = strings.TrimSuffix(s, "IB")
	} else {
		s = strings.TrimSuffix(s, "B")
	}

	multiplier := int64(1)
	numStr := s
	if len(s) > 0 {
		if i := strings.IndexByte("KMGTP", s[len(s)-1]); i >= 0 {
			multiplier = int64(1) << (10 * (i + 1))
			numStr = s[:len(s)-1]
		} else if binary {
			return 0, fmt.Errorf("invalid size unit: %s", in)
		}
	}

	num, err := strconv.ParseFloat(strings.TrimSpace(numStr), 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, fmt.Errorf("invalid number format: %s", in)
	}
	if num < 0 {
		return 0, fmt.Errorf("negative size: %s", in)
	}

	size := num * float64(multiplier)
	if size >= math.MaxInt64 {
		return 0, fmt.Errorf("size too large: %s", in)
	}
	return int64(size), nil
}
