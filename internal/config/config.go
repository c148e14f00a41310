// Package config loads portal settings from configs/config.yml and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Execution contexts. A browser-like context has durable token storage.
const (
	RuntimeBrowser = "browser"
	RuntimeServer  = "server"
)

// Fallback backend URLs, one per execution context.
const (
	DefaultPublicAPIURL   = "http://localhost:8084"
	DefaultInternalAPIURL = "http://auth-service:8080"
)

// Config holds all portal settings.
type Config struct {
	Port        string     `mapstructure:"port"`
	Runtime     string     `mapstructure:"runtime"`
	ServiceName string     `mapstructure:"service_name"`
	LogLevel    string     `mapstructure:"log_level"`
	LogFormat   string     `mapstructure:"log_format"`
	DB          DBConfig   `mapstructure:"db"`
	API         APIConfig  `mapstructure:"api"`
	Stub        StubConfig `mapstructure:"stub"`
}

// DBConfig points at the portal's sqlite file.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// APIConfig describes how to reach the auth backend.
type APIConfig struct {
	PublicURL   string        `mapstructure:"public_url"`
	InternalURL string        `mapstructure:"internal_url"`
	Timeout     time.Duration `mapstructure:"timeout"` // 0 keeps transport defaults
}

// StubConfig configures the local development backend.
type StubConfig struct {
	Port      string        `mapstructure:"port"`
	DBPath    string        `mapstructure:"db_path"`
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

var errUnknownRuntime = errors.New("runtime must be browser or server")

// Load reads config.yml from the given directories (configs/ and . when none
// are given), then applies environment overrides. A missing file is not an error.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"configs", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// The backend URLs keep their conventional unprefixed names.
	_ = v.BindEnv("api.public_url", "PUBLIC_API_URL")
	_ = v.BindEnv("api.internal_url", "API_URL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Runtime = strings.ToLower(strings.TrimSpace(cfg.Runtime))
	if cfg.Runtime != RuntimeBrowser && cfg.Runtime != RuntimeServer {
		return nil, fmt.Errorf("%w, got %q", errUnknownRuntime, cfg.Runtime)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "3000")
	v.SetDefault("runtime", RuntimeBrowser)
	v.SetDefault("service_name", "web-portal")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("db.path", "portal.db")
	v.SetDefault("api.public_url", "")
	v.SetDefault("api.internal_url", "")
	v.SetDefault("api.timeout", "0s")

	v.SetDefault("stub.port", "8084")
	v.SetDefault("stub.db_path", "stub-backend.db")
	v.SetDefault("stub.jwt_secret", "dev-secret-change-me")
	v.SetDefault("stub.token_ttl", "1h")
}

// BrowserContext reports whether durable token storage is available.
func (c *Config) BrowserContext() bool {
	return c.Runtime == RuntimeBrowser
}

// APIBaseURL resolves the backend base URL for the current execution context.
func (c *Config) APIBaseURL() string {
	if c.BrowserContext() {
		return strings.TrimRight(orDefault(c.API.PublicURL, DefaultPublicAPIURL), "/")
	}
	return strings.TrimRight(orDefault(c.API.InternalURL, DefaultInternalAPIURL), "/")
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
