package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/rxkit/component"
	"github.com/kbukum/rxkit/logger"
)

// App runs a service with typed config C.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	output          io.Writer
	signals         bool

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp applies defaults to cfg, validates it and sets up logging.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()
	o := resolveOptions(opts)

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		Logger:          o.logger,
		gracefulTimeout: o.gracefulTimeout,
		output:          o.output,
		signals:         o.signals,
	}
	if app.Logger == nil {
		logger.Init(base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	return app, nil
}

// RegisterComponent adds c to the registry. Components start in
// registration order and stop in reverse.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// ReadyCheck fails when any component reports anything but healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		detail := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			detail += "(" + h.Message + ")"
		}
		unhealthy = append(unhealthy, detail)
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// Run starts the application, blocks until ctx is canceled or SIGINT or
// SIGTERM arrives, then shuts down. A startup failure unwinds whatever
// already started.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return stderrors.Join(err, a.Shutdown())
	}

	if a.signals {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
	}
	a.Logger.Info("application ready, waiting for shutdown signal")
	<-ctx.Done()
	a.Logger.Info("shutdown requested")

	return a.Shutdown()
}

// Start runs the startup sequence: components, OnStart hooks, ready check,
// OnReady hooks and the summary. Use it with Shutdown when the caller owns
// the wait.
func (a *App[C]) Start(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := runHooks(ctx, "start", a.onStart); err != nil {
		return err
	}

	var warnings []string
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("ready check reported issues", logger.ErrorFields("ready", err))
		warnings = append(warnings, err.Error())
	}
	if err := runHooks(ctx, "ready", a.onReady); err != nil {
		return err
	}

	if a.output != nil {
		Summary{
			Service:  a.Name,
			Version:  a.Version,
			Startup:  time.Since(start),
			Parts:    a.Components.Describe(),
			Health:   a.Components.HealthAll(ctx),
			Warnings: warnings,
		}.Write(a.output)
	}
	return nil
}

// Shutdown stops components in reverse order and then runs the OnStop
// hooks, all within the graceful timeout.
func (a *App[C]) Shutdown() error {
	a.Logger.Info("shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("components stopped with errors", logger.ErrorFields("shutdown", err))
		errs = append(errs, err)
	}
	if err := runHooks(ctx, "stop", a.onStop); err != nil {
		a.Logger.Error("stop hook failed", logger.ErrorFields("shutdown", err))
		errs = append(errs, err)
	}

	a.Logger.Info("application shutdown complete")
	return stderrors.Join(errs...)
}
