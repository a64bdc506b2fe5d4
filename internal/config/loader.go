package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Loader handles loading configuration from multiple sources.
type Loader struct {
	configFile string
	envFiles   []string
	environ    map[string]string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithConfigFile reads a YAML file after the defaults. The file must exist.
func WithConfigFile(path string) LoaderOption {
	return func(l *Loader) { l.configFile = path }
}

// WithEnvFiles replaces the list of .env files. Missing files are skipped.
func WithEnvFiles(paths ...string) LoaderOption {
	return func(l *Loader) { l.envFiles = paths }
}

// WithEnviron replaces the process environment, mainly for tests.
func WithEnviron(environ map[string]string) LoaderOption {
	return func(l *Loader) { l.environ = environ }
}

// NewLoader creates a loader that reads ".env" and the process environment.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{envFiles: []string{".env"}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load applies, lowest priority first:
//  1. Default values
//  2. The YAML config file, when set
//  3. .env files (never overriding real environment variables)
//  4. Environment variables, including the SUPABASE_* and VITE_SUPABASE_* aliases
func (l *Loader) Load() (*Config, error) {
	cfg := Default()
	cfg.LoadedFrom = append(cfg.LoadedFrom, "defaults")

	if l.configFile != "" {
		data, err := os.ReadFile(l.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", l.configFile, err)
		}
		cfg.LoadedFrom = append(cfg.LoadedFrom, l.configFile)
	}

	environ := l.environ
	if environ == nil {
		environ = osEnviron()
	}
	environ = copyEnv(environ)

	for _, path := range l.envFiles {
		values, err := godotenv.Read(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		for k, v := range values {
			if _, set := environ[k]; !set {
				environ[k] = v
			}
		}
		cfg.LoadedFrom = append(cfg.LoadedFrom, path)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	applyAliases(cfg, environ)
	cfg.LoadedFrom = append(cfg.LoadedFrom, "environment")

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Load reads configuration with the default sources plus an optional YAML file.
func Load(configFile string) (*Config, error) {
	return NewLoader(WithConfigFile(configFile)).Load()
}

var (
	urlAliases = []string{"SUPABASE_URL", "VITE_SUPABASE_URL"}
	keyAliases = []string{"SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY"}
)

// applyAliases fills unset or empty credentials from the shorter variable names used by
// the Supabase tooling and the original web build.
func applyAliases(cfg *Config, environ map[string]string) {
	if strings.TrimSpace(environ["HIPROMPT_SUPABASE_URL"]) == "" {
		if v := firstSet(environ, urlAliases); v != "" {
			cfg.Supabase.URL = v
		}
	}
	if strings.TrimSpace(environ["HIPROMPT_SUPABASE_ANON_KEY"]) == "" {
		if v := firstSet(environ, keyAliases); v != "" {
			cfg.Supabase.AnonKey = v
		}
	}
}

func firstSet(environ map[string]string, keys []string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(environ[k]); v != "" {
			return v
		}
	}
	return ""
}

func osEnviron() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			out[k] = v
		}
	}
	return out
}

func copyEnv(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
