package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "cashbook/internal/errors"
	"cashbook/internal/models"
	"cashbook/internal/pagination"
	"cashbook/internal/validator"
)

type transactionService struct {
	db           *gorm.DB
	auditService AuditServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, auditService AuditServicer) TransactionServicer {
	return &transactionService{
		db:           db,
		auditService: auditService,
	}
}

// CreateTransaction records a validated payload for userID. The referenced
// category must exist and have the payload's transaction type.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, payload validator.Payload) (*models.Transaction, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	var result *models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		category, err := findCategory(tx, payload.CategoryID)
		if err != nil {
			return err
		}
		if category.Type != payload.TransactionType.CategoryType() {
			return apperrors.WithFields(apperrors.ErrCategoryTypeMismatch, map[string]string{
				validator.FieldCategoryID: validator.MsgCategory,
			})
		}

		transaction := &models.Transaction{
			UserID:          userID,
			Description:     payload.Description,
			Amount:          payload.Amount,
			TransactionDate: payload.TransactionDate,
			CategoryID:      category.ID,
		}
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		transaction.Category = category
		result = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditService.Log(ctx, userID, ActionCreateTransaction, "transaction", result.ID, map[string]any{
		"category_id":      result.CategoryID,
		"amount":           result.Amount.String(),
		"transaction_date": validator.FormatDate(result.TransactionDate),
	})
	return result, nil
}

// GetUserTransactions lists userID's transactions, newest first.
func (s *transactionService) GetUserTransactions(ctx context.Context, userID string, page pagination.Params) (*pagination.Page[models.Transaction], error) {
	page = page.Normalize()
	base := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(page.Scope()).
		Preload("Category").
		Order("transaction_date DESC").
		Order("id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPage(transactions, page, total)
	return &result, nil
}

// GetTransactionByID returns one of userID's transactions. Rows owned by
// other users are reported as not found.
func (s *transactionService) GetTransactionByID(ctx context.Context, userID string, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}
