package config

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultDSN = "host=localhost user=postgres password=postgres dbname=caja port=5432 sslmode=disable"
)

type Config struct {
	HTTPPort          string        `yaml:"http_port"`
	DatabaseDriver    string        `yaml:"database_driver"`    // postgres | sqlite
	DatabaseDSN       string        `yaml:"database_dsn"`
	DatabaseIsolation string        `yaml:"database_isolation"` // serializable | repeatable_read | read_committed | default
	JWTSecret         string        `yaml:"jwt_secret"`
	JWTTTL            time.Duration `yaml:"jwt_ttl"`
	CORSOrigins       string        `yaml:"cors_allowed_origins"`
	Environment       string        `yaml:"environment"` // production | staging | development | local
	LogLevel          string        `yaml:"log_level"`
	Currency          string        `yaml:"currency"` // ISO kodu, gösterim için
}

// Load: önce varsayılanlar, sonra CAJA_CONFIG ile verilen YAML dosyası, en son ortam değişkenleri.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CAJA_CONFIG"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	cfg.HTTPPort = getEnv("HTTP_PORT", cfg.HTTPPort)
	cfg.DatabaseDriver = strings.ToLower(getEnv("DATABASE_DRIVER", cfg.DatabaseDriver))
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.DatabaseIsolation = strings.ToLower(getEnv("DATABASE_ISOLATION", cfg.DatabaseIsolation))
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.CORSOrigins = getEnv("CORS_ALLOWED_ORIGINS", cfg.CORSOrigins)
	cfg.Environment = strings.ToLower(getEnv("APP_ENV", cfg.Environment))
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.Currency = strings.ToUpper(getEnv("CURRENCY", cfg.Currency))

	if v := os.Getenv("JWT_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("JWT_TTL geçersiz: %w", err)
		}
		cfg.JWTTTL = ttl
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		HTTPPort:          "8080",
		DatabaseDriver:    DriverPostgres,
		DatabaseDSN:       defaultDSN,
		DatabaseIsolation: "serializable",
		JWTTTL:            12 * time.Hour, // bir vardiya
		CORSOrigins:       "http://localhost:5173",
		Environment:       "production",
		LogLevel:          "",
		Currency:          "COP",
	}
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	return nil
}

// Validate: production güvenlik kontrolleri.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET tanımlanmamış")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET en az 32 karakter olmalıdır")
	}
	switch c.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DATABASE_DRIVER geçersiz: %q (postgres|sqlite)", c.DatabaseDriver)
	}
	if _, err := c.Isolation(); err != nil {
		return err
	}
	switch c.Environment {
	case "production", "staging", "development", "local":
	default:
		return fmt.Errorf("APP_ENV geçersiz: %q", c.Environment)
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL pozitif olmalı")
	}
	return nil
}

// Isolation maps DatabaseIsolation to a database/sql level.
func (c *Config) Isolation() (sql.IsolationLevel, error) {
	switch c.DatabaseIsolation {
	case "", "default":
		return sql.LevelDefault, nil
	case "serializable":
		return sql.LevelSerializable, nil
	case "repeatable_read":
		return sql.LevelRepeatableRead, nil
	case "read_committed":
		return sql.LevelReadCommitted, nil
	}
	return sql.LevelDefault, fmt.Errorf("DATABASE_ISOLATION geçersiz: %q", c.DatabaseIsolation)
}

// Warnings lists insecure defaults still in use; the caller decides how to log them.
func (c *Config) Warnings() []string {
	var out []string
	if c.DatabaseDriver == DriverPostgres && c.DatabaseDSN == defaultDSN {
		out = append(out, "DATABASE_DSN varsayılan değer kullanılıyor, production için kendi Postgres bağlantı bilgisini tanımla")
	}
	if c.CORSOrigins == "http://localhost:5173" {
		out = append(out, "CORS_ALLOWED_ORIGINS varsayılan değer kullanılıyor, production için kendi domain'ini tanımla")
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
