// Package logger builds the charmbracelet loggers used by the norma CLI.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Level names accepted by Config and the --log-level flag.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// CharmLevel maps a level name to a charm log level. Unknown names are info.
func (l Level) CharmLevel() log.Level {
	switch l {
	case DebugLevel:
		return log.DebugLevel
	case WarnLevel:
		return log.WarnLevel
	case ErrorLevel:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Config controls logger output.
type Config struct {
	Level      Level
	JSON       bool
	AddSource  bool
	TimeFormat string
	Output     io.Writer
}

// DefaultConfig logs at info level to stderr, leaving stdout to command output.
func DefaultConfig() *Config {
	return &Config{
		Level:      InfoLevel,
		TimeFormat: "15:04:05",
		Output:     os.Stderr,
	}
}

// New creates a logger from cfg. A nil cfg uses DefaultConfig.
func New(cfg *Config) *log.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	logger := log.NewWithOptions(out, log.Options{
		ReportCaller:    cfg.AddSource,
		ReportTimestamp: cfg.TimeFormat != "",
		TimeFormat:      cfg.TimeFormat,
		Level:           cfg.Level.CharmLevel(),
	})
	if cfg.JSON {
		logger.SetFormatter(log.JSONFormatter)
	}
	return logger
}

// Setup creates a logger for the CLI and makes it the package default of
// charmbracelet/log.
func Setup(level string, json bool) *log.Logger {
	cfg := DefaultConfig()
	cfg.Level = Level(level)
	cfg.JSON = json
	logger := New(cfg)
	log.SetDefault(logger)
	return logger
}
