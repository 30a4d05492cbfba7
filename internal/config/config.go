package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultClientOrigin = "http://localhost:5173"
	defaultUploadDir    = "./schoolImages"
)

// Config is the server runtime configuration.
type Config struct {
	AppEnv          string        `env:"APP_ENV" envDefault:"dev"`
	Port            string        `env:"PORT" envDefault:"5000"`
	DatabaseURL     string        `env:"DATABASE_URL" envDefault:"schools.db"`
	UploadDir       string        `env:"UPLOAD_DIR" envDefault:"./schoolImages"`
	ClientOrigin    string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	ExtraOrigins    []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MetricsEnabled  bool          `env:"METRICS_ENABLED" envDefault:"true"`

	Log LogConfig
}

// LogConfig mirrors logger.Config so that cmd packages can hand it over directly.
type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Format     string `env:"LOG_FORMAT" envDefault:"text"`
	Output     string `env:"LOG_OUTPUT" envDefault:""`
	Rotation   bool   `env:"LOG_ROTATION" envDefault:"true"`
	MaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"50"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	MaxAge     int    `env:"LOG_MAX_AGE" envDefault:"14"`
}

// ClientConfig configures the API client used by schoolctl.
type ClientConfig struct {
	APIBaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:5000"`
	Timeout    time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
}

// LoadDotEnv loads a .env file from the working directory when one exists.
// A missing file is not an error; variables already set in the process win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	present := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.Port = strings.TrimPrefix(strings.TrimSpace(cfg.Port), ":")
	cfg.ClientOrigin = strings.TrimRight(strings.TrimSpace(cfg.ClientOrigin), "/")
	cfg.UploadDir = strings.TrimSpace(cfg.UploadDir)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadClient() (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return nil, fmt.Errorf("invalid API_BASE_URL %q: %w", cfg.APIBaseURL, err)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("API_TIMEOUT must be > 0")
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// AllowedOrigins returns CLIENT_ORIGIN followed by any CORS_ALLOWED_ORIGINS entries.
func (c *Config) AllowedOrigins() []string {
	origins := []string{c.ClientOrigin}
	for _, o := range c.ExtraOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" && o != c.ClientOrigin {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR must not be empty")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	if _, err := url.ParseRequestURI(cfg.ClientOrigin); err != nil {
		return fmt.Errorf("invalid CLIENT_ORIGIN %q: %w", cfg.ClientOrigin, err)
	}

	if isProdLike(cfg.AppEnv) {
		if cfg.ClientOrigin == defaultClientOrigin {
			return fmt.Errorf("in prod/release CLIENT_ORIGIN must be set and not default")
		}
		if cfg.UploadDir == defaultUploadDir {
			return fmt.Errorf("in prod/release UPLOAD_DIR must be an explicit path")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}
