package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/rxkit/errors"
)

// FileSystem abstracts the file operations the loader needs.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem is the FileSystem backed by the real disk.
type OSFileSystem struct{}

// Exists reports whether path can be stat'ed.
func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads a .env file. Variables already set in the process win.
func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Defaulter is implemented by configs that fill in unset fields after
// loading.
type Defaulter interface {
	ApplyDefaults()
}

// Validator is implemented by configs that check themselves after loading.
type Validator interface {
	Validate() error
}

type options struct {
	fs         FileSystem
	configFile string
	envFile    string
	envPrefix  string
	defaults   map[string]any
}

// Option customizes Load.
type Option func(*options)

// WithFileSystem replaces the disk, mostly for tests.
func WithFileSystem(fs FileSystem) Option {
	return func(o *options) { o.fs = fs }
}

// WithConfigFile skips the search and reads path, which must exist.
func WithConfigFile(path string) Option {
	return func(o *options) { o.configFile = path }
}

// WithEnvFile skips the search and loads path, which must exist.
func WithEnvFile(path string) Option {
	return func(o *options) { o.envFile = path }
}

// WithEnvPrefix sets the prefix for environment overrides.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) { o.envPrefix = prefix }
}

// WithDefault registers a default for key. Defaults also make the key
// overridable from the environment when the file does not mention it.
func WithDefault(key string, value any) Option {
	return func(o *options) {
		if o.defaults == nil {
			o.defaults = make(map[string]any)
		}
		o.defaults[key] = value
	}
}

// Load reads the configuration of service into cfg. The precedence is
// environment, then config file, then defaults. When cfg implements
// Defaulter and Validator they run after unmarshalling.
func Load(service string, cfg any, opts ...Option) error {
	o := options{fs: OSFileSystem{}}
	for _, opt := range opts {
		opt(&o)
	}

	configFile, err := resolve(o.fs, o.configFile, configCandidates(service))
	if err != nil {
		return err
	}
	envFile, err := resolve(o.fs, o.envFile, envCandidates(service))
	if err != nil {
		return err
	}

	if envFile != "" {
		if err := o.fs.LoadEnv(envFile); err != nil {
			return errors.InvalidInput("env_file", err.Error()).WithCause(err)
		}
	}

	v := viper.New()
	for key, value := range o.defaults {
		v.SetDefault(key, value)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.InvalidInput("config_file", fmt.Sprintf("read %s: %v", configFile, err)).WithCause(err)
		}
	}
	if o.envPrefix != "" {
		v.SetEnvPrefix(o.envPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(cfg); err != nil {
		return errors.InvalidInput("config", fmt.Sprintf("unmarshal config for %s: %v", service, err)).WithCause(err)
	}

	if d, ok := cfg.(Defaulter); ok {
		d.ApplyDefaults()
	}
	if val, ok := cfg.(Validator); ok {
		if err := val.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// resolve returns explicit when set, failing if it does not exist, or the
// first existing candidate. An empty result means nothing was found.
func resolve(fs FileSystem, explicit string, candidates []string) (string, error) {
	if explicit != "" {
		if !fs.Exists(explicit) {
			return "", errors.NotFound("file", explicit)
		}
		return explicit, nil
	}
	for _, path := range candidates {
		if fs.Exists(path) {
			return path, nil
		}
	}
	return "", nil
}

func configCandidates(service string) []string {
	var paths []string
	for _, prefix := range []string{".", "..", "../.."} {
		paths = append(paths, fmt.Sprintf("%s/cmd/%s/config.yml", prefix, service))
	}
	return append(paths, "./config/config.yml", "./config.yml")
}

func envCandidates(service string) []string {
	var paths []string
	for _, name := range []string{".env." + service, ".env"} {
		for _, dir := range []string{"./cmd/" + service, "./config", "."} {
			paths = append(paths, dir+"/"+name)
		}
	}
	return paths
}
