package config

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSessionSecret is only acceptable outside production
const DefaultSessionSecret = "your-secret-key-change-in-production"

type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Session  SessionConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Payment  PaymentConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port               string
	Host               string
	Env                string
	CORSAllowedOrigins []string
}

type BackendConfig struct {
	URL             string
	Timeout         time.Duration
	CatalogCacheTTL time.Duration
}

type SessionConfig struct {
	Secret     string
	CookieName string
	File       string // session file used by ticketctl
}

type DatabaseConfig struct {
	URL      string // Full database URL
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether a database was configured at all
func (d DatabaseConfig) Enabled() bool {
	return d.URL != "" || d.Host != ""
}

type RedisConfig struct {
	URL string
}

type PaymentConfig struct {
	DefaultProvider   string
	ConfirmationDelay time.Duration
	PendingTTL        time.Duration
	FlowSweepInterval time.Duration
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			Host:               getEnv("HOST", "localhost"),
			Env:                getEnv("ENV", "development"),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Backend: BackendConfig{
			URL:             strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:5000/api"), "/"),
			Timeout:         getEnvAsDuration("BACKEND_TIMEOUT", 15*time.Second),
			CatalogCacheTTL: getEnvAsDuration("CATALOG_CACHE_TTL", 30*time.Second),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", DefaultSessionSecret),
			CookieName: getEnv("SESSION_COOKIE", "storefront_session"),
			File:       getEnv("SESSION_FILE", defaultSessionFile()),
		},
		Database: parseDatabaseConfig(),
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Payment: PaymentConfig{
			DefaultProvider:   getEnv("PAYMENT_DEFAULT_PROVIDER", "payos"),
			ConfirmationDelay: getEnvAsDuration("PAYMENT_CONFIRMATION_DELAY", 1500*time.Millisecond),
			PendingTTL:        getEnvAsDuration("PAYMENT_PENDING_TTL", 30*time.Minute),
			FlowSweepInterval: getEnvAsDuration("FLOW_SWEEP_INTERVAL", time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects configurations that must not reach production
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return errors.New("BACKEND_URL is required")
	}
	if _, err := url.ParseRequestURI(c.Backend.URL); err != nil {
		return errors.New("BACKEND_URL must be an absolute URL")
	}
	if c.IsProduction() && c.Session.Secret == DefaultSessionSecret {
		return errors.New("SESSION_SECRET must be set in production")
	}
	if len(c.Session.Secret) < 16 {
		return errors.New("SESSION_SECRET must be at least 16 characters")
	}
	if c.Payment.PendingTTL <= 0 {
		return errors.New("PAYMENT_PENDING_TTL must be positive")
	}
	if c.Payment.FlowSweepInterval <= 0 {
		return errors.New("FLOW_SWEEP_INTERVAL must be positive")
	}
	switch c.Payment.DefaultProvider {
	case "payos", "momo":
	default:
		return errors.New("PAYMENT_DEFAULT_PROVIDER must be payos or momo")
	}
	return nil
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Addr returns the listen address of the storefront
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".ticketctl-session.json"
	}
	return filepath.Join(dir, "ticketctl", "session.json")
}

func parseDatabaseConfig() DatabaseConfig {
	// Check if DATABASE_URL is provided
	databaseURL := getEnv("DATABASE_URL", "")
	if databaseURL != "" {
		return parseDatabaseURL(databaseURL)
	}

	// The flow store falls back to memory when no host is configured
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnvAsInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "storefront"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func parseDatabaseURL(databaseURL string) DatabaseConfig {
	config := DatabaseConfig{
		URL: databaseURL,
	}

	u, err := url.Parse(databaseURL)
	if err != nil {
		// If parsing fails, return the URL as-is
		return config
	}

	config.Host = u.Hostname()
	if u.Port() != "" {
		config.Port, _ = strconv.Atoi(u.Port())
	} else {
		config.Port = 5432
	}

	if u.User != nil {
		config.User = u.User.Username()
		config.Password, _ = u.User.Password()
	}

	config.DBName = strings.TrimPrefix(u.Path, "/")

	config.SSLMode = u.Query().Get("sslmode")
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("1500ms") or plain milliseconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
