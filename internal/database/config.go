package database

import (
	"fmt"
	"net/url"

	"cashbook/internal/config"
)

// Config holds database connection settings.
type Config struct {
	Driver        string
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	SQLitePath    string
	MigrationsDir string
}

// NewConfig derives the database configuration from the application config.
func NewConfig(cfg *config.Config) *Config {
	return &Config{
		Driver:        cfg.DBDriver,
		Host:          cfg.DBHost,
		Port:          cfg.DBPort,
		User:          cfg.DBUser,
		Password:      cfg.DBPassword,
		DBName:        cfg.DBName,
		SSLMode:       cfg.DBSSLMode,
		SQLitePath:    cfg.SQLitePath,
		MigrationsDir: cfg.MigrationsDir,
	}
}

// DSN returns the PostgreSQL keyword/value connection string used by GORM.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MigrateURL returns the PostgreSQL URL understood by golang-migrate.
func (c *Config) MigrateURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// SourceURL returns the file:// migration source.
func (c *Config) SourceURL() string {
	return "file://" + c.MigrationsDir
}
