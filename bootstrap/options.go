package bootstrap

import (
	"io"
	"os"
	"time"

	"github.com/kbukum/rxkit/logger"
)

// Option configures an App.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout time.Duration
	output          io.Writer
	signals         bool
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{gracefulTimeout: 15 * time.Second, output: os.Stdout, signals: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the application logger instead of initializing the global
// logger from the config's logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithGracefulTimeout bounds the whole shutdown sequence.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) { o.gracefulTimeout = d }
}

// WithSummaryOutput redirects the startup summary; nil disables it.
func WithSummaryOutput(w io.Writer) Option {
	return func(o *appOptions) { o.output = w }
}

// WithoutSignals makes Run wait only for context cancellation.
func WithoutSignals() Option {
	return func(o *appOptions) { o.signals = false }
}
