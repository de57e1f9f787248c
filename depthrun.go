// Package depthrun holds process-wide defaults shared by the depthrun
// command and embedding programs.
package depthrun

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/raykavin/depthrun/pkg/logger"
	"github.com/raykavin/depthrun/pkg/logger/logrus"
	"github.com/raykavin/depthrun/pkg/logger/zerolog"
	sirupsen "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultLog is the default logger instance
var DefaultLog logger.Logger = logger.Nop()

// LogConfig selects and configures a logging backend
type LogConfig struct {
	Backend    string
	Level      string
	TimeLayout string
	Colored    bool
	JSON       bool
	Out        io.Writer

	// File, when set and Out is nil, receives the log through a size rotated writer
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// output returns the writer the backend logs to, nil for the backend default
func (c LogConfig) output() io.Writer {
	if c.Out != nil || c.File == "" {
		return c.Out
	}
	return &lumberjack.Logger{
		Filename:   c.File,
		MaxSize:    c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
	}
}

// NewLogger builds a logger for the configured backend
func NewLogger(cfg LogConfig) (logger.Logger, error) {
	if cfg.Level != "" && logger.ParseLevel(cfg.Level) == logger.NoLevel {
		return nil, fmt.Errorf("unknown log level %q", cfg.Level)
	}

	switch strings.ToLower(cfg.Backend) {
	case "", "zerolog":
		return zerolog.New(zerolog.Options{
			Level:      cfg.Level,
			TimeLayout: cfg.TimeLayout,
			Colored:    cfg.Colored,
			JSON:       cfg.JSON,
			Out:        cfg.output(),
		})
	case "logrus":
		return newLogrus(cfg)
	default:
		return nil, fmt.Errorf("unknown log backend %q", cfg.Backend)
	}
}

func newLogrus(cfg LogConfig) (logger.Logger, error) {
	level, err := sirupsen.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	base := sirupsen.New()
	base.SetLevel(level)
	base.SetOutput(os.Stderr)
	if out := cfg.output(); out != nil {
		base.SetOutput(out)
	}

	if cfg.JSON {
		base.SetFormatter(&sirupsen.JSONFormatter{TimestampFormat: cfg.TimeLayout})
	} else {
		base.SetFormatter(&sirupsen.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: cfg.TimeLayout,
			ForceColors:     cfg.Colored,
			DisableColors:   !cfg.Colored,
		})
	}

	return logrus.New(base), nil
}
