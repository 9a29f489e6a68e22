// Package config loads the jobtrack server configuration from YAML with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendPostgREST = "postgrest"
	BackendSQLite    = "sqlite"
)

// Config is the full server configuration.
type Config struct {
	Store       StoreConfig `yaml:"store"`
	HTTP        HTTPConfig  `yaml:"http"`
	LogFile     string      `yaml:"log_file" env:"JOBTRACK_LOG_FILE"`
	LoginURL    string      `yaml:"login_url" env:"JOBTRACK_LOGIN_URL"`
	SessionFile string      `yaml:"session_file" env:"JOBTRACK_SESSION_FILE"`
}

// StoreConfig selects and configures the record-store backend.
type StoreConfig struct {
	Backend    string `yaml:"backend" env:"JOBTRACK_STORE_BACKEND"` // postgrest or sqlite
	URL        string `yaml:"url" env:"JOBTRACK_STORE_URL"`
	AnonKey    string `yaml:"anon_key" env:"JOBTRACK_ANON_KEY"`
	SQLitePath string `yaml:"sqlite_path" env:"JOBTRACK_SQLITE_PATH"`
}

// HTTPConfig configures the optional HTTP transport.
type HTTPConfig struct {
	Addr      string `yaml:"addr" env:"JOBTRACK_HTTP_ADDR"`
	AuthToken string `yaml:"auth_token" env:"JOBTRACK_HTTP_TOKEN"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Backend: BackendPostgREST,
		},
		LoginURL: "https://job-tracker-auth.vercel.app",
	}
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendPostgREST:
		if c.Store.URL == "" {
			return fmt.Errorf("store.url is required for the %s backend", BackendPostgREST)
		}
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the %s backend", BackendSQLite)
		}
	default:
		return fmt.Errorf("unknown store backend: %s", c.Store.Backend)
	}
	return nil
}

// Load reads a YAML configuration file over the defaults and applies
// environment variable overrides using struct tags.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file %s: %w", path, err)
	}

	// Expand environment variables in the YAML
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// LoadOrDefault tries to load config from path, falls back to defaults
// (plus env overrides) if the file doesn't exist.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		applyEnvOverrides(&cfg)
		return cfg, nil
	}
	return Load(path)
}

// applyEnvOverrides sets struct fields from environment variables.
// It uses the `env` struct tag to determine the env var name.
func applyEnvOverrides(v any) {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return
	}

	t := val.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := val.Field(i)

		// Recurse into struct fields
		if fieldVal.Kind() == reflect.Struct {
			if fieldVal.CanAddr() {
				applyEnvOverrides(fieldVal.Addr().Interface())
			}
			continue
		}

		envTag := field.Tag.Get("env")
		if envTag == "" {
			continue
		}

		envVal, ok := os.LookupEnv(envTag)
		if !ok {
			continue
		}

		if !fieldVal.CanSet() {
			continue
		}

		switch fieldVal.Kind() {
		case reflect.String:
			fieldVal.SetString(envVal)
		case reflect.Int, reflect.Int64:
			var n int64
			if _, err := fmt.Sscanf(envVal, "%d", &n); err == nil {
				fieldVal.SetInt(n)
			}
		case reflect.Bool:
			fieldVal.SetBool(strings.EqualFold(envVal, "true") || envVal == "1")
		}
	}
}
