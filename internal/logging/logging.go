package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pixil98/go-errors"
	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

type Config struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.Level != "" {
		if _, err := logrus.ParseLevel(c.Level); err != nil {
			el.Add(fmt.Errorf("level: %w", err))
		}
	}

	switch strings.ToLower(c.Format) {
	case "", "text", "json":
	default:
		el.Add(fmt.Errorf("format must be text or json, got %q", c.Format))
	}

	return el.Err()
}

// New builds a logger writing to stdout.
func New(c Config) *logrus.Logger {
	return NewWithOutput(c, os.Stdout)
}

func NewWithOutput(c Config, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)

	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.ToLower(c.Format) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return l
}

// WithLogger returns a copy of ctx carrying l.
func WithLogger(ctx context.Context, l logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// GetLogger returns the logger stored in ctx, or the logrus standard logger.
func GetLogger(ctx context.Context) logrus.FieldLogger {
	if l, ok := ctx.Value(ctxKey{}).(logrus.FieldLogger); ok {
		return l
	}
	return logrus.StandardLogger()
}
