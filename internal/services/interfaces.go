package services

import (
	"context"

	"cashbook/internal/models"
	"cashbook/internal/pagination"
	"cashbook/internal/validator"
)

// CategoryServicer defines the contract for reading the category catalogue.
type CategoryServicer interface {
	ListCategories(ctx context.Context, categoryType *models.CategoryType) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, categoryID uint) (*models.Category, error)
}

// TransactionServicer defines the contract for recording and reading a user's
// transactions.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, userID string, payload validator.Payload) (*models.Transaction, error)
	GetUserTransactions(ctx context.Context, userID string, page pagination.Params) (*pagination.Page[models.Transaction], error)
	GetTransactionByID(ctx context.Context, userID string, transactionID uint) (*models.Transaction, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID, action, resourceType string, resourceID uint, changes map[string]any)
}
