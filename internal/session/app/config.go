package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/sessiond/pkg/cryptox"
	"github.com/aussiebroadwan/sessiond/pkg/jwtx"
)

type Config struct {
	Issuer string // Optional: issuer claim for tokens (default: sessiond)

	AccessSecret  string        // Required: HMAC secret for access tokens
	RefreshSecret string        // Required: HMAC secret for refresh tokens (must differ from AccessSecret)
	AccessTTL     time.Duration // Optional: access token lifetime (default: 24h)
	RefreshTTL    time.Duration // Optional: refresh token lifetime (default: 7d)

	BcryptCost int // Optional: bcrypt work factor (default: 10, clamped 4..15)

	DBDriver     string // Optional: database driver (sqlite, postgres) (default: sqlite)
	DatabaseFile string // Optional: path to SQLite database file (default: ./sessiond.db)
	DatabaseURL  string // Required for postgres: connection DSN

	AllowedOrigins []string // Optional: comma-separated CORS origins (default: none)
	SecureCookies  bool     // Optional: set Secure on refresh cookies (default: true outside dev)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() (Config, error) {
	cfg := Config{
		Issuer:              getEnvOrDefault("SESSION_ISSUER", "sessiond"),
		AccessSecret:        os.Getenv("SESSION_ACCESS_SECRET"),
		RefreshSecret:       os.Getenv("SESSION_REFRESH_SECRET"),
		BcryptCost:          getEnvIntOrDefault("SESSION_BCRYPT_COST", cryptox.DefaultCost),
		DBDriver:            getEnvOrDefault("SESSION_DB_DRIVER", "sqlite"),
		DatabaseFile:        getEnvOrDefault("SESSION_DATABASE_FILE", "sessiond.db"),
		DatabaseURL:         os.Getenv("SESSION_DATABASE_URL"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	// Fail fast on missing or shared secrets. An access token must never
	// verify against the refresh secret or vice versa.
	if cfg.AccessSecret == "" {
		return Config{}, errors.New("SESSION_ACCESS_SECRET is required")
	}
	if cfg.RefreshSecret == "" {
		return Config{}, errors.New("SESSION_REFRESH_SECRET is required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return Config{}, errors.New("SESSION_ACCESS_SECRET and SESSION_REFRESH_SECRET must differ")
	}

	var err error
	cfg.AccessTTL, err = parseTTLOrDefault("SESSION_ACCESS_TTL", jwtx.DefaultAccessTokenTTL)
	if err != nil {
		return Config{}, err
	}
	cfg.RefreshTTL, err = parseTTLOrDefault("SESSION_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL)
	if err != nil {
		return Config{}, err
	}

	if origins := os.Getenv("SESSION_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	switch cfg.DBDriver {
	case "sqlite":
		// DatabaseFile default is enough
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("SESSION_DATABASE_URL is required for the postgres driver")
		}
	default:
		return Config{}, fmt.Errorf("unknown SESSION_DB_DRIVER %q (expected sqlite or postgres)", cfg.DBDriver)
	}

	// Browsers drop Secure cookies over plain http, so allow opting out in dev.
	cfg.SecureCookies = getEnvBoolOrDefault("SESSION_SECURE_COOKIES", cfg.Env != "dev")

	return cfg, nil
}

func parseTTLOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	ttl, err := jwtx.ParseTTL(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return ttl, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
