package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Supabase      SupabaseConfig
	Auth          AuthConfig
	App           AppConfig
	Observability ObservabilityConfig
	Environment   string // NODE_ENV
	Vercel        string // VERCEL, set to "1" on Vercel deployments
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

// DatabaseConfig holds PostgreSQL database configuration.
// When ConnectionString (from DATABASE_URL) is set, it takes precedence over individual fields.
type DatabaseConfig struct {
	ConnectionString string // From DATABASE_URL when set
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	SSLMode          string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// SupabaseConfig holds the hosted Supabase project settings
type SupabaseConfig struct {
	URL            string // NEXT_PUBLIC_SUPABASE_URL
	AnonKey        string // NEXT_PUBLIC_SUPABASE_ANON_KEY
	ServiceRoleKey string // SUPABASE_SERVICE_ROLE_KEY
	HTTPTimeout    time.Duration
}

// AuthConfig holds session cookie settings for the dashboard's own session
type AuthConfig struct {
	URL              string // NEXTAUTH_URL, public base URL of the dashboard
	Secret           string // NEXTAUTH_SECRET, HMAC key for session tokens
	SessionCookie    string
	SessionMaxAge    time.Duration
	SessionCacheSize int
	SessionCacheTTL  time.Duration
	SignInRate       float64 // sign-in attempts per second per IP
	SignInBurst      int
}

// AppConfig is the immutable application configuration threaded through
// handlers, navigation and layout rendering.
type AppConfig struct {
	APIPrefix                string
	AuthenticatedEntryPath   string
	UnAuthenticatedEntryPath string
	Locale                   string
	ActiveNavTranslation     bool
	AuthLayout               string // simple | split | side
}

// ObservabilityConfig holds monitoring and logging configuration
type ObservabilityConfig struct {
	LogLevel       string
	LogFormat      string // json or console
	MetricsEnabled bool
}

// EnvLookup mirrors os.LookupEnv so diagnostics can be tested without touching the process env.
type EnvLookup func(key string) (string, bool)

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	// .env.local wins over .env, matching the dashboard's local dev setup
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("NODE_ENV", "development"),
		Vercel:      getEnv("VERCEL", ""),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			RequestTimeout:  getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 60*time.Second),
		},
		Database: loadDatabaseConfig(),
		Supabase: SupabaseConfig{
			URL:            getEnv("NEXT_PUBLIC_SUPABASE_URL", ""),
			AnonKey:        getEnv("NEXT_PUBLIC_SUPABASE_ANON_KEY", ""),
			ServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
			HTTPTimeout:    getEnvAsDuration("SUPABASE_HTTP_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			URL:              getEnv("NEXTAUTH_URL", "http://localhost:3000"),
			Secret:           getEnv("NEXTAUTH_SECRET", ""),
			SessionCookie:    getEnv("SESSION_COOKIE_NAME", "authjs.session-token"),
			SessionMaxAge:    getEnvAsDuration("SESSION_MAX_AGE", 30*24*time.Hour),
			SessionCacheSize: getEnvAsInt("SESSION_CACHE_SIZE", 1024),
			SessionCacheTTL:  getEnvAsDuration("SESSION_CACHE_TTL", time.Minute),
			SignInRate:       getEnvAsFloat("SIGN_IN_RATE", 1),
			SignInBurst:      getEnvAsInt("SIGN_IN_BURST", 5),
		},
		App: AppConfig{
			APIPrefix:                getEnv("APP_API_PREFIX", "/api"),
			AuthenticatedEntryPath:   getEnv("APP_AUTHENTICATED_ENTRY_PATH", "/dashboards/project"),
			UnAuthenticatedEntryPath: getEnv("APP_UNAUTHENTICATED_ENTRY_PATH", "/sign-in"),
			Locale:                   getEnv("APP_LOCALE", "en"),
			ActiveNavTranslation:     getEnvAsBool("APP_ACTIVE_NAV_TRANSLATION", false),
			AuthLayout:               getEnv("APP_AUTH_LAYOUT", "side"),
		},
		Observability: ObservabilityConfig{
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			LogFormat:      getEnv("LOG_FORMAT", "json"),
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// DefaultAppConfig returns the application defaults used when no overrides are set
func DefaultAppConfig() AppConfig {
	return AppConfig{
		APIPrefix:                "/api",
		AuthenticatedEntryPath:   "/dashboards/project",
		UnAuthenticatedEntryPath: "/sign-in",
		Locale:                   "en",
		ActiveNavTranslation:     false,
		AuthLayout:               "side",
	}
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.Auth.Secret == "" {
			return fmt.Errorf("NEXTAUTH_SECRET is required in production")
		}
		if c.Supabase.URL == "" || c.Supabase.AnonKey == "" {
			return fmt.Errorf("supabase URL and anon key are required in production")
		}
	}

	if c.Supabase.URL != "" {
		if _, err := url.ParseRequestURI(c.Supabase.URL); err != nil {
			return fmt.Errorf("invalid NEXT_PUBLIC_SUPABASE_URL: %w", err)
		}
	}

	switch c.App.AuthLayout {
	case "simple", "split", "side":
	default:
		return fmt.Errorf("unknown auth layout %q", c.App.AuthLayout)
	}

	if !strings.HasPrefix(c.App.AuthenticatedEntryPath, "/") || !strings.HasPrefix(c.App.UnAuthenticatedEntryPath, "/") {
		return fmt.Errorf("entry paths must be absolute")
	}

	// Observability validation
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// HasDatabase reports whether a Postgres connection is configured
func (c *Config) HasDatabase() bool {
	return c.Database.ConnectionString != "" || c.Database.Host != ""
}

// SecureCookies reports whether cookies should carry the Secure attribute
func (c *Config) SecureCookies() bool {
	return strings.HasPrefix(c.Auth.URL, "https")
}

// DSN returns the PostgreSQL connection string.
// Uses ConnectionString (from DATABASE_URL) when set; otherwise builds from individual fields.
func (c *DatabaseConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// LogString returns a safe string for logging (no password). Parses ConnectionString when set.
func (c *DatabaseConfig) LogString() string {
	if c.ConnectionString != "" {
		u, err := url.Parse(c.ConnectionString)
		if err == nil {
			host := u.Hostname()
			port := u.Port()
			if port == "" {
				port = "5432"
			}
			db := strings.TrimPrefix(u.Path, "/")
			return fmt.Sprintf("host=%s port=%s database=%s", host, port, db)
		}
		return "host=<from DATABASE_URL>"
	}
	return fmt.Sprintf("host=%s port=%d database=%s", c.Host, c.Port, c.Database)
}

// loadDatabaseConfig loads database config from DATABASE_URL or DB_* env vars.
// Supabase exposes a direct Postgres connection string, so DATABASE_URL is the usual path.
func loadDatabaseConfig() DatabaseConfig {
	dbURL := getEnv("DATABASE_URL", "")
	if dbURL != "" {
		return DatabaseConfig{
			ConnectionString: dbURL,
			MaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		}
	}
	return DatabaseConfig{
		Host:            getEnv("DB_HOST", ""),
		Port:            getEnvAsInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Database:        getEnv("DB_NAME", "postgres"),
		SSLMode:         getEnv("DB_SSLMODE", "require"),
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
		ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 3000)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 3000
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
