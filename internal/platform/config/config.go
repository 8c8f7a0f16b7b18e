package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "CORPDASH_"
	envFileVar = "CORPDASH_CONFIG"
)

type Config struct {
	Addr               string        `koanf:"addr"`
	DatabaseURL        string        `koanf:"database_url"`
	SessionSecret      string        `koanf:"session_secret"`
	CSRFKey            string        `koanf:"csrf_key"`
	Environment        string        `koanf:"environment"`
	LogLevel           string        `koanf:"log_level"`
	SessionTTL         time.Duration `koanf:"session_ttl"`
	RunMigrations      bool          `koanf:"run_migrations"`
	RunSeed            bool          `koanf:"run_seed"`
	SeedCEOEmail       string        `koanf:"seed_ceo_email"`
	SeedCEOPassword    string        `koanf:"seed_ceo_password"`
	MaxBodyBytes       int64         `koanf:"max_body_bytes"`
	LoginRateLimit     int           `koanf:"login_rate_limit"`
	MetricsEnabled     bool          `koanf:"metrics_enabled"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins"`
}

func Default() Config {
	return Config{
		Addr:           ":8080",
		Environment:    "development",
		LogLevel:       "info",
		SessionTTL:     8 * time.Hour,
		RunMigrations:  true,
		RunSeed:        true,
		SeedCEOEmail:   "ceo@example.com",
		MaxBodyBytes:   1048576,
		LoginRateLimit: 10,
		MetricsEnabled: true,
	}
}

// Load layers defaults, an optional YAML file named by CORPDASH_CONFIG and
// CORPDASH_* environment variables, in that order.
func Load() (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path := os.Getenv(envFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("load config env: %w", err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("database_url is required")
	}
	if strings.TrimSpace(c.SessionSecret) == "" {
		return fmt.Errorf("session_secret is required")
	}
	if len(c.CSRFKey) != 32 {
		return fmt.Errorf("csrf_key must be exactly 32 bytes")
	}
	if c.IsProduction() && c.RunSeed && strings.TrimSpace(c.SeedCEOPassword) == "" {
		return fmt.Errorf("seed_ceo_password must be set or run_seed disabled in production")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("max_body_bytes must be at least 1024")
	}
	if c.LoginRateLimit <= 0 {
		return fmt.Errorf("login_rate_limit must be positive")
	}
	return nil
}
