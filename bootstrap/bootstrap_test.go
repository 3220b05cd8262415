package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/rxkit/component"
	"github.com/kbukum/rxkit/config"
	"github.com/kbukum/rxkit/logger"
)

type testConfig struct {
	config.ServiceConfig
}

type mockComponent struct {
	name     string
	startErr error
	health   component.HealthStatus
	log      *[]string
}

func (m *mockComponent) Name() string { return m.name }

func (m *mockComponent) Start(context.Context) error {
	*m.log = append(*m.log, "start "+m.name)
	return m.startErr
}

func (m *mockComponent) Stop(context.Context) error {
	*m.log = append(*m.log, "stop "+m.name)
	return nil
}

func (m *mockComponent) Health(context.Context) component.Health {
	status := m.health
	if status == "" {
		status = component.StatusHealthy
	}
	return component.Health{Name: m.name, Status: status}
}

func (m *mockComponent) Describe() component.Description {
	return component.Description{Name: m.name, Type: "mock", Details: "ok"}
}

func newTestApp(t *testing.T, out io.Writer) *App[*testConfig] {
	t.Helper()
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Name: "svc", Version: "1.2.3"}}
	quiet := logger.NewWithWriter(&logger.Config{Level: "error", Format: "json"}, io.Discard, "test")
	app, err := NewApp(cfg, WithLogger(quiet), WithSummaryOutput(out), WithoutSignals(), WithGracefulTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app
}

func TestNewAppAppliesDefaults(t *testing.T) {
	app := newTestApp(t, nil)
	if app.Cfg.Environment != "development" || !app.Cfg.Debug {
		t.Errorf("defaults not applied: %+v", app.Cfg.ServiceConfig)
	}
	if app.Name != "svc" || app.Version != "1.2.3" {
		t.Errorf("name/version = %q/%q", app.Name, app.Version)
	}
}

func TestNewAppRejectsInvalidConfig(t *testing.T) {
	_, err := NewApp(&testConfig{}, WithLogger(logger.NewWithWriter(&logger.Config{Level: "error", Format: "json"}, io.Discard, "test")))
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRunLifecycleOrder(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(t, &out)
	var events []string
	for _, name := range []string{"loop", "server", "hub"} {
		if err := app.RegisterComponent(&mockComponent{name: name, log: &events}); err != nil {
			t.Fatal(err)
		}
	}
	app.OnStart(func(context.Context) error { events = append(events, "onStart"); return nil })
	app.OnReady(func(context.Context) error { events = append(events, "onReady"); return nil })
	app.OnStop(func(context.Context) error { events = append(events, "onStop"); return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := app.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := "start loop,start server,start hub,onStart,onReady,stop hub,stop server,stop loop,onStop"
	if got := strings.Join(events, ","); got != want {
		t.Errorf("events = %s\nwant     %s", got, want)
	}
	summary := out.String()
	for _, s := range []string{"svc 1.2.3 started", "hub (mock): ok", "3/3 healthy"} {
		if !strings.Contains(summary, s) {
			t.Errorf("summary missing %q:\n%s", s, summary)
		}
	}
}

func TestRunUnwindsOnStartFailure(t *testing.T) {
	app := newTestApp(t, nil)
	var events []string
	boom := errors.New("boom")
	_ = app.RegisterComponent(&mockComponent{name: "a", log: &events})
	_ = app.RegisterComponent(&mockComponent{name: "b", startErr: boom, log: &events})
	_ = app.RegisterComponent(&mockComponent{name: "c", log: &events})

	err := app.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want boom", err)
	}
	if got := strings.Join(events, ","); got != "start a,start b,stop a" {
		t.Errorf("events = %s", got)
	}
}

func TestHookFailureStopsStartup(t *testing.T) {
	app := newTestApp(t, nil)
	boom := errors.New("hook")
	app.OnStart(func(context.Context) error { return boom })
	called := false
	app.OnReady(func(context.Context) error { called = true; return nil })

	if err := app.Start(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Start error = %v", err)
	}
	if called {
		t.Error("ready hook ran after start hook failed")
	}
}

func TestReadyCheckWarnsInSummary(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(t, &out)
	var events []string
	_ = app.RegisterComponent(&mockComponent{name: "db", health: component.StatusUnhealthy, log: &events})

	if err := app.ReadyCheck(context.Background()); err == nil || !strings.Contains(err.Error(), "db=unhealthy") {
		t.Fatalf("ReadyCheck = %v", err)
	}
	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() { _ = app.Shutdown() }()

	if !strings.Contains(out.String(), "0/1 healthy") || !strings.Contains(out.String(), "! unhealthy components") {
		t.Errorf("summary:\n%s", out.String())
	}
}
