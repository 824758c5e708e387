package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	RateLimit    RateLimitConfig
	Appointments AppointmentConfig
	OTEL         OTELConfig
}

// ServerConfig holds server configuration. TrustProxy takes client IPs from
// X-Forwarded-For / X-Real-IP and is only safe behind a proxy that overwrites them.
type ServerConfig struct {
	Host           string
	Port           int
	Env            string
	AllowedOrigins []string
	TrustProxy     bool
}

// IsDevelopment reports whether internal error detail may be exposed
func (c ServerConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Enabled  bool
}

// JWTConfig holds bearer credential configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
	Issuer    string
}

// RateLimitRule is a fixed-window quota
type RateLimitRule struct {
	Limit  int
	Window time.Duration
}

// RateLimitConfig holds per-route-group quotas
type RateLimitConfig struct {
	API      RateLimitRule
	Login    RateLimitRule
	Register RateLimitRule
}

// AppointmentConfig holds appointment lifecycle switches
type AppointmentConfig struct {
	StrictTransitions bool
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables, reading a .env file first when present
func Load() (*Config, error) {
	if envFile := getEnv("ENV_FILE", ".env"); fileExists(envFile) {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	jwtExpiry, err := parseExpiry(getEnv("JWT_EXPIRES_IN", "7d"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 5000),
			Env:            getEnv("APP_ENV", "production"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
			TrustProxy:     getEnvAsBool("TRUST_PROXY", false),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "ototamirci"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},
		JWT: JWTConfig{
			Secret:    getEnv("JWT_SECRET", ""),
			ExpiresIn: jwtExpiry,
			Issuer:    getEnv("JWT_ISSUER", "ototamirci-api"),
		},
		RateLimit: RateLimitConfig{
			API: RateLimitRule{
				Limit:  getEnvAsInt("RATE_LIMIT_API_MAX", 100),
				Window: getEnvAsDuration("RATE_LIMIT_API_WINDOW", time.Minute),
			},
			Login: RateLimitRule{
				Limit:  getEnvAsInt("RATE_LIMIT_LOGIN_MAX", 10),
				Window: getEnvAsDuration("RATE_LIMIT_LOGIN_WINDOW", 15*time.Minute),
			},
			Register: RateLimitRule{
				Limit:  getEnvAsInt("RATE_LIMIT_REGISTER_MAX", 5),
				Window: getEnvAsDuration("RATE_LIMIT_REGISTER_WINDOW", 15*time.Minute),
			},
		},
		Appointments: AppointmentConfig{
			StrictTransitions: getEnvAsBool("APPOINTMENT_STRICT_TRANSITIONS", false),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "ototamirci-api"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if cfg.JWT.Secret == "" {
		if !cfg.Server.IsDevelopment() {
			return nil, fmt.Errorf("JWT_SECRET must be set outside development")
		}
		cfg.JWT.Secret = "development-secret"
	}

	return cfg, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// parseExpiry accepts Go durations plus a day suffix ("7d").
func parseExpiry(value string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("bad day count %q", value)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("expiry must be positive")
	}
	return d, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
