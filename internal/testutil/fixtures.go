package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"cashbook/internal/models"
)

var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name: fmt.Sprintf("Category %d", nextID()),
		Type: categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction records a transaction for userID against category,
// dated date at midnight UTC.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, category *models.Category, amount string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:          userID,
		Description:     fmt.Sprintf("Transaction %d", nextID()),
		Amount:          decimal.RequireFromString(amount),
		TransactionDate: time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		CategoryID:      category.ID,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
