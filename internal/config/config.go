package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration for the application.
// Defaults are layered under an optional YAML file, and environment variables win over both.
type Config struct {
	Server    ServerConfig   `koanf:"server"`
	Database  DatabaseConfig `koanf:"database"`
	Auth      AuthConfig     `koanf:"auth"`
	API       APIConfig      `koanf:"api"`
	Fixtures  FixturesConfig `koanf:"fixtures"`
	LogLevel  string         `koanf:"log_level"`
	LogFormat string         `koanf:"log_format"`
}

type ServerConfig struct {
	Port            string `koanf:"port"`
	Host            string `koanf:"host"`
	ReadTimeout     int    `koanf:"read_timeout"`
	WriteTimeout    int    `koanf:"write_timeout"`
	ShutdownTimeout int    `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver string `koanf:"driver"` // postgres or sqlite
	DSN    string `koanf:"dsn"`
}

type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

type APIConfig struct {
	PageSize          int           `koanf:"page_size"`
	MaxPageSize       int           `koanf:"max_page_size"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// FixturesConfig lists seed sources loaded at startup; each entry is a file path or URL
type FixturesConfig struct {
	Ingredients []string `koanf:"ingredients"`
	Users       []string `koanf:"users"`
}

// ConfigPathEnvVar overrides the YAML config file location
const ConfigPathEnvVar = "CONFIG_PATH"

var defaultConfigPaths = []string{"config.yaml", "config.yml"}

// envKeys maps environment variables to koanf paths
var envKeys = map[string]string{
	"PORT":                 "server.port",
	"HOST":                 "server.host",
	"READ_TIMEOUT":         "server.read_timeout",
	"WRITE_TIMEOUT":        "server.write_timeout",
	"SHUTDOWN_TIMEOUT":     "server.shutdown_timeout",
	"DB_DRIVER":            "database.driver",
	"DB_DSN":               "database.dsn",
	"JWT_SECRET":           "auth.jwt_secret",
	"TOKEN_TTL":            "auth.token_ttl",
	"PAGE_SIZE":            "api.page_size",
	"MAX_PAGE_SIZE":        "api.max_page_size",
	"CORS_ORIGINS":         "api.cors_origins",
	"RATE_LIMIT_REQUESTS":  "api.rate_limit_requests",
	"RATE_LIMIT_WINDOW":    "api.rate_limit_window",
	"FIXTURES_INGREDIENTS": "fixtures.ingredients",
	"FIXTURES_USERS":       "fixtures.users",
	"LOG_LEVEL":            "log_level",
	"LOG_FORMAT":           "log_format",
}

var sliceKeys = []string{"api.cors_origins", "fixtures.ingredients", "fixtures.users"}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Host:            "0.0.0.0",
			ReadTimeout:     15,
			WriteTimeout:    15,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "foodgram.db",
		},
		Auth: AuthConfig{
			TokenTTL: 7 * 24 * time.Hour,
		},
		API: APIConfig{
			PageSize:          6,
			MaxPageSize:       999,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load reads configuration from defaults, an optional YAML file and environment variables
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitSliceKeys(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid database driver: %s (must be postgres or sqlite)", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}

	if c.API.PageSize <= 0 || c.API.MaxPageSize < c.API.PageSize {
		return fmt.Errorf("invalid page size %d (max %d)", c.API.PageSize, c.API.MaxPageSize)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range defaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform returns "" for unknown variables so that koanf skips them
func envTransform(key string) string {
	return envKeys[key]
}

// splitSliceKeys turns comma-separated env values into slices
func splitSliceKeys(k *koanf.Koanf) error {
	for _, path := range sliceKeys {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := make([]string, 0)
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
