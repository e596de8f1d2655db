package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashbook/internal/config"
	"cashbook/internal/logger"
	"cashbook/internal/models"
)

func init() {
	logger.Init("test")
}

func TestConfigURLs(t *testing.T) {
	cfg := NewConfig(&config.Config{
		DBDriver:      "postgres",
		DBHost:        "db",
		DBPort:        "5433",
		DBUser:        "cash",
		DBPassword:    "p@ss word",
		DBName:        "ledger",
		DBSSLMode:     "require",
		MigrationsDir: "/srv/migrations",
	})

	assert.Equal(t, "host=db port=5433 user=cash password=p@ss word dbname=ledger sslmode=require", cfg.DSN())
	assert.Equal(t, "postgres://cash:p%40ss%20word@db:5433/ledger?sslmode=require", cfg.MigrateURL())
	assert.Equal(t, "file:///srv/migrations", cfg.SourceURL())
}

func TestNewMigrator_RequiresPostgres(t *testing.T) {
	_, err := NewMigrator(&Config{Driver: "sqlite"})
	assert.ErrorContains(t, err, "DB_DRIVER=postgres")
}

func TestManager_SQLiteMigrateSeedsOnce(t *testing.T) {
	cfg := &Config{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "cashbook.db")}

	m, err := NewManager(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	require.NoError(t, m.Migrate())
	require.NoError(t, m.Migrate())

	var categories []models.Category
	require.NoError(t, m.DB().Order("id").Find(&categories).Error)
	require.Len(t, categories, len(DefaultCategories))

	var income, expense int
	for _, c := range categories {
		switch c.Type {
		case models.CategoryTypeIncome:
			income++
		case models.CategoryTypeExpense:
			expense++
		default:
			t.Errorf("unexpected category type %q", c.Type)
		}
	}
	assert.Positive(t, income)
	assert.Positive(t, expense)
}
