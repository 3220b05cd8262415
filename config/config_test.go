package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/logger"
)

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Extra         struct {
		Window time.Duration `mapstructure:"window"`
		Limit  int           `mapstructure:"limit"`
	} `mapstructure:"extra"`
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func codeOf(err error) errors.ErrorCode {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development with debug logs", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug log level, got %q", cfg.Logging.Level)
		}
	})

	t.Run("production keeps debug off", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info log level, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  ServiceConfig
		code errors.ErrorCode
	}{
		{"valid staging", ServiceConfig{Name: "svc", Environment: "staging"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, errors.ErrCodeMissingField},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, errors.ErrCodeInvalidInput},
		{"invalid log level", ServiceConfig{Name: "svc", Environment: "staging", Logging: logger.Config{Level: "loud"}}, errors.ErrCodeInvalidInput},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if got := codeOf(err); got != tc.code {
				t.Errorf("expected code %s, got %s (%v)", tc.code, got, err)
			}
		})
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := writeFile(t, "config.yml", `
name: relay
environment: staging
logging:
  level: warn
  format: json
extra:
  window: 250ms
  limit: 3
`)

	var cfg testConfig
	if err := Load("relay", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != "relay" || cfg.Environment != "staging" {
		t.Errorf("unexpected service config: %+v", cfg.ServiceConfig)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
	if cfg.Extra.Window != 250*time.Millisecond || cfg.Extra.Limit != 3 {
		t.Errorf("unexpected extra config: %+v", cfg.Extra)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := writeFile(t, "config.yml", "name: relay\nenvironment: staging\nlogging:\n  level: info\n")
	t.Setenv("RXTEST_LOGGING_LEVEL", "error")
	t.Setenv("RXTEST_EXTRA_WINDOW", "2s")

	var cfg testConfig
	err := Load("relay", &cfg,
		WithConfigFile(path),
		WithEnvPrefix("RXTEST"),
		WithDefault("extra.window", "1s"),
		WithDefault("extra.limit", 8),
	)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected env to override file, got %q", cfg.Logging.Level)
	}
	if cfg.Extra.Window != 2*time.Second {
		t.Errorf("expected env to override default, got %v", cfg.Extra.Window)
	}
	if cfg.Extra.Limit != 8 {
		t.Errorf("expected default limit, got %d", cfg.Extra.Limit)
	}
}

func TestLoadEnvFile(t *testing.T) {
	configPath := writeFile(t, "config.yml", "name: relay\nenvironment: staging\n")
	envPath := writeFile(t, ".env", "RXENVFILE_VERSION=1.2.3\n")
	t.Cleanup(func() { os.Unsetenv("RXENVFILE_VERSION") })

	var cfg testConfig
	err := Load("relay", &cfg,
		WithConfigFile(configPath),
		WithEnvFile(envPath),
		WithEnvPrefix("RXENVFILE"),
		WithDefault("version", ""),
	)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Version != "1.2.3" {
		t.Errorf("expected version from .env, got %q", cfg.Version)
	}
}

func TestLoadRunsValidation(t *testing.T) {
	path := writeFile(t, "config.yml", "environment: staging\n")
	var cfg testConfig
	err := Load("relay", &cfg, WithConfigFile(path))
	if codeOf(err) != errors.ErrCodeMissingField {
		t.Fatalf("expected missing field error, got %v", err)
	}
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	var cfg testConfig
	err := Load("relay", &cfg, WithConfigFile("/nonexistent/config.yml"))
	if codeOf(err) != errors.ErrCodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	path := writeFile(t, "config.yml", "name: [unterminated\n")
	var cfg testConfig
	err := Load("relay", &cfg, WithConfigFile(path))
	if codeOf(err) != errors.ErrCodeInvalidInput {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if !strings.Contains(err.Error(), "config.yml") {
		t.Errorf("expected file name in error, got %q", err.Error())
	}
}

type mockFS struct {
	files  map[string]bool
	loaded []string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }

func (m *mockFS) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	return nil
}

func TestResolveSearchOrder(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"../cmd/relay/config.yml": true,
		"./config.yml":            true,
		"./.env":                  true,
		"./cmd/relay/.env.relay":  true,
	}}

	got, err := resolve(fs, "", configCandidates("relay"))
	if err != nil || got != "../cmd/relay/config.yml" {
		t.Errorf("expected ../cmd/relay/config.yml, got %q (%v)", got, err)
	}
	got, err = resolve(fs, "", envCandidates("relay"))
	if err != nil || got != "./cmd/relay/.env.relay" {
		t.Errorf("expected ./cmd/relay/.env.relay, got %q (%v)", got, err)
	}
}

func TestLoadWithNothingFound(t *testing.T) {
	fs := &mockFS{files: map[string]bool{}}
	var cfg struct {
		Name string `mapstructure:"name"`
	}
	if err := Load("relay", &cfg, WithFileSystem(fs), WithDefault("name", "fallback")); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != "fallback" {
		t.Errorf("expected default name, got %q", cfg.Name)
	}
	if len(fs.loaded) != 0 {
		t.Errorf("expected no env file loads, got %v", fs.loaded)
	}
}
