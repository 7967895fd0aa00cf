// Package config loads application configuration from defaults, an optional
// yaml file, and environment variable overrides, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	TMDB     TMDBConfig     `yaml:"tmdb"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string        `yaml:"host" env:"CINEMIND_HOST" default:"0.0.0.0"`
	Port           int           `yaml:"port" env:"CINEMIND_PORT" default:"8080"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"CINEMIND_READ_TIMEOUT" default:"30s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"CINEMIND_WRITE_TIMEOUT" default:"30s"`
	EnableCORS     bool          `yaml:"enable_cors" env:"CINEMIND_ENABLE_CORS" default:"true"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"CINEMIND_ALLOWED_ORIGINS"`
}

// DatabaseConfig holds relational store settings.
type DatabaseConfig struct {
	Type            string        `yaml:"type" env:"DATABASE_TYPE" default:"sqlite"`
	Path            string        `yaml:"path" env:"CINEMIND_DATABASE_PATH" default:"./data/cinemind.db"`
	Host            string        `yaml:"host" env:"POSTGRES_HOST" default:"localhost"`
	Port            int           `yaml:"port" env:"POSTGRES_PORT" default:"5432"`
	Username        string        `yaml:"username" env:"POSTGRES_USER" default:"cinemind"`
	Password        string        `yaml:"password" env:"POSTGRES_PASSWORD"`
	Database        string        `yaml:"database" env:"POSTGRES_DB" default:"cinemind"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" default:"100"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" default:"20"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" default:"2h"`
	LogQueries      bool          `yaml:"log_queries" env:"DB_LOG_QUERIES" default:"false"`
}

// TMDBConfig holds settings for the external catalog service used by the
// offline sync job.
type TMDBConfig struct {
	APIKey            string        `yaml:"api_key" env:"TMDB_API_KEY"`
	BaseURL           string        `yaml:"base_url" env:"TMDB_BASE_URL" default:"https://api.themoviedb.org/3"`
	ImageBaseURL      string        `yaml:"image_base_url" env:"TMDB_IMAGE_BASE_URL" default:"https://image.tmdb.org/t/p/original"`
	RequestTimeout    time.Duration `yaml:"request_timeout" env:"TMDB_REQUEST_TIMEOUT" default:"15s"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"TMDB_REQUESTS_PER_SECOND" default:"4"`
	MaxCastMembers    int           `yaml:"max_cast_members" env:"TMDB_MAX_CAST" default:"10"`
}

// GeminiConfig holds settings for the sentiment analysis service.
type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model  string `yaml:"model" env:"GEMINI_MODEL" default:"gemini-2.0-flash-lite"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"CINEMIND_LOG_LEVEL" default:"info"`
	Format string `yaml:"format" env:"CINEMIND_LOG_FORMAT" default:"text"`
}

// Watcher is called whenever the configuration is reloaded.
type Watcher func(oldConfig, newConfig *Config)

// Manager owns the live configuration and its reload lifecycle.
type Manager struct {
	config     *Config
	configPath string
	watchers   []Watcher
	mu         sync.RWMutex
}

// NewManager returns a manager seeded with defaults.
func NewManager() *Manager {
	return &Manager{config: Default()}
}

// Default returns the built-in configuration, derived from the `default`
// struct tags.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(reflect.ValueOf(cfg).Elem())
	return cfg
}

// Load builds a fresh configuration from defaults, the optional yaml file at
// configPath, and environment overrides, then installs it.
func (m *Manager) Load(configPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldConfig := m.config
	m.configPath = configPath

	newConfig := Default()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, newConfig); err != nil {
				return fmt.Errorf("failed to parse config file %s: %w", configPath, err)
			}
		}
	}

	if err := applyEnv(reflect.ValueOf(newConfig).Elem()); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := validate(newConfig); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = newConfig

	for _, w := range m.watchers {
		go w(oldConfig, newConfig)
	}
	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp := *m.config
	return &cp
}

// AddWatcher registers a callback invoked after each successful reload.
func (m *Manager) AddWatcher(w Watcher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watchers = append(m.watchers, w)
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Database.Type != "sqlite" && cfg.Database.Type != "postgres" {
		return fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
	if cfg.TMDB.RequestsPerSecond <= 0 {
		return fmt.Errorf("invalid TMDB request rate: %f", cfg.TMDB.RequestsPerSecond)
	}
	return nil
}

func applyDefaults(v reflect.Value) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Duration(0)) {
			applyDefaults(field)
			continue
		}
		def := t.Field(i).Tag.Get("default")
		if def == "" {
			continue
		}
		// Defaults come from our own tags; a bad one is a programming error.
		if err := setField(field, def); err != nil {
			panic(fmt.Sprintf("bad default for %s.%s: %v", t.Name(), t.Field(i).Name, err))
		}
	}
}

func applyEnv(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Duration(0)) {
			if err := applyEnv(field); err != nil {
				return err
			}
			continue
		}
		envName := t.Field(i).Tag.Get("env")
		if envName == "" {
			continue
		}
		val := os.Getenv(envName)
		if val == "" {
			continue
		}
		if err := setField(field, val); err != nil {
			return fmt.Errorf("failed to set %s from %s: %w", t.Field(i).Name, envName, err)
		}
	}
	return nil
}

func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %v", field.Type())
		}
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts))
	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}
	return nil
}

// DSN returns the postgres connection string for the configured database.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		d.Host, d.Username, d.Password, d.Database, d.Port)
}

// EnsureSQLiteDir creates the parent directory for the sqlite database file.
func (d DatabaseConfig) EnsureSQLiteDir() error {
	return os.MkdirAll(filepath.Dir(d.Path), 0o755)
}
