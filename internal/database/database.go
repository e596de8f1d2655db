package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cashbook/internal/logger"
	"cashbook/internal/models"
)

// Models lists every table owned by the service, in dependency order.
var Models = []any{
	&models.Category{},
	&models.Transaction{},
	&models.AuditLog{},
}

// Manager handles database operations
type Manager struct {
	db     *gorm.DB
	config *Config
}

// NewManager opens the configured database.
func NewManager(config *Config) (*Manager, error) {
	var dialector gorm.Dialector
	switch config.Driver {
	case "sqlite":
		dialector = sqlite.Open(config.SQLitePath + "?_foreign_keys=on")
	default:
		dialector = postgres.New(postgres.Config{
			DSN:                  config.DSN(),
			PreferSimpleProtocol: true,
		})
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Manager{db: db, config: config}, nil
}

// Migrate brings the schema up to date. PostgreSQL runs the SQL migrations in
// MigrationsDir; SQLite (local development) is auto-migrated and seeded.
func (m *Manager) Migrate() error {
	if m.config.Driver == "sqlite" {
		return AutoMigrate(m.db)
	}
	return RunMigrations(m.config)
}

// NewMigrator opens a golang-migrate instance over the SQL files in
// MigrationsDir. Callers must Close it.
func NewMigrator(config *Config) (*migrate.Migrate, error) {
	if config.Driver != "postgres" {
		return nil, fmt.Errorf("SQL migrations require DB_DRIVER=postgres, got %q", config.Driver)
	}
	mig, err := migrate.New(config.SourceURL(), config.MigrateURL())
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return mig, nil
}

// CloseMigrator closes both ends of mig, logging failures.
func CloseMigrator(mig *migrate.Migrate) {
	srcErr, dbErr := mig.Close()
	if srcErr != nil {
		logger.Get().Warnf("migrate source close error: %v", srcErr)
	}
	if dbErr != nil {
		logger.Get().Warnf("migrate database close error: %v", dbErr)
	}
}

// RunMigrations applies pending SQL migrations with golang-migrate.
func RunMigrations(config *Config) error {
	log := logger.Get()
	log.Infow("Running database migrations", "source", config.SourceURL())

	mig, err := NewMigrator(config)
	if err != nil {
		return err
	}
	defer CloseMigrator(mig)

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Info("Database migrations completed successfully")
	return nil
}

// AutoMigrate creates the tables through GORM and seeds the default categories
// when the categories table is empty.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}
	return SeedCategories(db)
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close releases the connection pool.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
