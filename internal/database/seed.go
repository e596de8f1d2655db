package database

import (
	"fmt"

	"gorm.io/gorm"

	"cashbook/internal/models"
)

// DefaultCategories mirrors migrations/000004_seed_categories.up.sql.
var DefaultCategories = []models.Category{
	{Name: "Salary", Type: models.CategoryTypeIncome},
	{Name: "Freelance", Type: models.CategoryTypeIncome},
	{Name: "Investments", Type: models.CategoryTypeIncome},
	{Name: "Other Income", Type: models.CategoryTypeIncome},
	{Name: "Groceries", Type: models.CategoryTypeExpense},
	{Name: "Housing", Type: models.CategoryTypeExpense},
	{Name: "Transport", Type: models.CategoryTypeExpense},
	{Name: "Utilities", Type: models.CategoryTypeExpense},
	{Name: "Entertainment", Type: models.CategoryTypeExpense},
	{Name: "Health", Type: models.CategoryTypeExpense},
	{Name: "Other Expense", Type: models.CategoryTypeExpense},
}

// SeedCategories inserts DefaultCategories into an empty categories table.
func SeedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	seed := make([]models.Category, len(DefaultCategories))
	copy(seed, DefaultCategories)
	if err := db.Create(&seed).Error; err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	return nil
}
