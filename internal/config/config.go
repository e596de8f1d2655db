package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"cashbook/internal/logger"
)

// Config holds application configuration
type Config struct {
	Env  string
	Port string

	// Database
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	SQLitePath    string
	MigrationsDir string

	// Identity
	JWTSecret   string
	JWTIssuer   string
	AuthTimeout time.Duration
	APIKeys     map[string]string // user id -> bcrypt hash
}

var (
	appConfig *Config
	mu        sync.Mutex
)

var defaults = map[string]any{
	"ENV":            "development",
	"PORT":           "8080",
	"DB_DRIVER":      "postgres",
	"DB_HOST":        "localhost",
	"DB_PORT":        "5432",
	"DB_USER":        "cashbook",
	"DB_PASSWORD":    "cashbook",
	"DB_NAME":        "cashbook",
	"DB_SSLMODE":     "disable",
	"SQLITE_PATH":    "cashbook.db",
	"MIGRATIONS_DIR": "migrations",
	"JWT_SECRET":     "fallback-secret-key-for-dev-only",
	"JWT_ISSUER":     "",
	"AUTH_TIMEOUT":   "5s",
	"API_KEYS":       "",
}

// Load reads .env (if present) into the process environment and resolves
// every key through viper, falling back to defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Get().Debug(".env file not found, using environment only")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	appConfig = cfg
	mu.Unlock()
	return cfg, nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:           v.GetString("ENV"),
		Port:          v.GetString("PORT"),
		DBDriver:      strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:        v.GetString("DB_HOST"),
		DBPort:        v.GetString("DB_PORT"),
		DBUser:        v.GetString("DB_USER"),
		DBPassword:    v.GetString("DB_PASSWORD"),
		DBName:        v.GetString("DB_NAME"),
		DBSSLMode:     v.GetString("DB_SSLMODE"),
		SQLitePath:    v.GetString("SQLITE_PATH"),
		MigrationsDir: v.GetString("MIGRATIONS_DIR"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTIssuer:     v.GetString("JWT_ISSUER"),
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER %q: must be postgres or sqlite", cfg.DBDriver)
	}

	timeoutStr := v.GetString("AUTH_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_TIMEOUT %q: %w", timeoutStr, err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("AUTH_TIMEOUT must be positive, got %v", timeout)
	}
	cfg.AuthTimeout = timeout

	keys, err := parseAPIKeys(v.GetString("API_KEYS"))
	if err != nil {
		return nil, err
	}
	cfg.APIKeys = keys

	return cfg, nil
}

// parseAPIKeys reads "user:hash,user:hash". Bcrypt hashes contain no commas
// and the user id is everything before the first colon.
func parseAPIKeys(raw string) (map[string]string, error) {
	keys := make(map[string]string)
	if strings.TrimSpace(raw) == "" {
		return keys, nil
	}
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		userID, hash, ok := strings.Cut(entry, ":")
		if !ok || userID == "" || hash == "" {
			return nil, fmt.Errorf("invalid API_KEYS entry %q: want user:bcrypt-hash", entry)
		}
		keys[userID] = hash
	}
	return keys, nil
}

// Get returns the loaded configuration, loading it on first use.
func Get() *Config {
	mu.Lock()
	cfg := appConfig
	mu.Unlock()
	if cfg != nil {
		return cfg
	}

	cfg, err := Load()
	if err != nil {
		logger.Get().Fatalf("Failed to load configuration: %v", err)
	}
	return cfg
}
