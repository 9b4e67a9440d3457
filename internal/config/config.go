package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

var (
	once     sync.Once
	instance *Config
	loadErr  error
)

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("invalid config")

// ComponentConfig holds the network settings a service listens on
type ComponentConfig struct {
	Protocol string `yaml:"protocol"`
	Host     string `yaml:"host" envconfig:"HOST"`
	Port     int    `yaml:"port" envconfig:"PORT"`
	Debug    bool   `yaml:"debug"`
}

// BackendConfig describes the recommendation backend the UI talks to
type BackendConfig struct {
	URL          string        `yaml:"url" envconfig:"URL"`
	Timeout      time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	ValidateJSON bool          `yaml:"validate_json" envconfig:"VALIDATE_JSON"`
	SlowCall     time.Duration `yaml:"slow_call"`
}

// SessionConfig selects where per-browser UI state lives
type SessionConfig struct {
	Backend       string        `yaml:"backend" envconfig:"BACKEND"` // memory | redis
	RedisURL      string        `yaml:"redis_url" envconfig:"REDIS_URL"`
	TTL           time.Duration `yaml:"ttl" envconfig:"TTL"`
	MaxTranscript int           `yaml:"max_transcript"`
	CookieSecure  bool          `yaml:"cookie_secure" envconfig:"COOKIE_SECURE"`
}

// UIConfig is presentation settings
type UIConfig struct {
	Language  string `yaml:"language" envconfig:"LANGUAGE"`
	ListLimit int    `yaml:"list_limit"`
}

// RateLimitConfig limits UI events per client
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second" envconfig:"PER_SECOND"`
	Burst     int     `yaml:"burst" envconfig:"BURST"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"` // text | json
}

// CLIConfig settings for the terminal client (not a service)
type CLIConfig struct {
	HistoryFile string `yaml:"history_file"`
	Debug       bool   `yaml:"debug"`
}

// Config is the root of bookcurator.yaml
type Config struct {
	WebUI     ComponentConfig `yaml:"web_ui" envconfig:"WEB_UI"`
	Backend   BackendConfig   `yaml:"backend" envconfig:"BACKEND"`
	Session   SessionConfig   `yaml:"session" envconfig:"SESSION"`
	UI        UIConfig        `yaml:"ui" envconfig:"UI"`
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
	Log       LogConfig       `yaml:"log" envconfig:"LOG"`
	CLI       CLIConfig       `yaml:"cli"`
}

// Default returns the settings used when the YAML file omits a key.
func Default() *Config {
	return &Config{
		WebUI:   ComponentConfig{Protocol: "http", Host: "0.0.0.0", Port: 8080},
		Backend: BackendConfig{URL: "http://localhost:5001", Timeout: 30 * time.Second, ValidateJSON: true, SlowCall: 3 * time.Second},
		Session: SessionConfig{Backend: "memory", TTL: 12 * time.Hour, MaxTranscript: 50},
		UI:      UIConfig{Language: "ko", ListLimit: 12},
		RateLimit: RateLimitConfig{
			PerSecond: 5,
			Burst:     10,
		},
		Log: LogConfig{Level: "info", Format: "text"},
		CLI: CLIConfig{HistoryFile: ".bookcurator_history"},
	}
}

// Get returns the process-wide configuration (Singleton).
// The first call loads .env, the YAML file and environment overrides.
func Get() (*Config, error) {
	once.Do(func() {
		_ = godotenv.Load()

		path := os.Getenv("BOOKCURATOR_CONFIG")
		if path == "" {
			path = "bookcurator.yaml"
		}
		instance, loadErr = Load(path)
	})
	return instance, loadErr
}

// Load reads path (a missing file is fine), applies BOOKCURATOR_* overrides and validates.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(f, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := envconfig.Process("bookcurator", cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("%w: backend.url is required", ErrInvalid)
	}
	if c.WebUI.Port <= 0 || c.WebUI.Port > 65535 {
		return fmt.Errorf("%w: web_ui.port %d out of range", ErrInvalid, c.WebUI.Port)
	}
	switch strings.ToLower(c.Session.Backend) {
	case "memory":
	case "redis":
		if c.Session.RedisURL == "" {
			return fmt.Errorf("%w: session.redis_url is required for the redis backend", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown session.backend %q", ErrInvalid, c.Session.Backend)
	}
	if c.UI.ListLimit <= 0 {
		return fmt.Errorf("%w: ui.list_limit must be positive", ErrInvalid)
	}
	return nil
}

// Address returns host:port
func (c ComponentConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// FullURL returns protocol://host:port
func (c ComponentConfig) FullURL() string {
	return fmt.Sprintf("%s://%s:%d", c.Protocol, c.Host, c.Port)
}
