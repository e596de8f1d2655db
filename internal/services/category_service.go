package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "cashbook/internal/errors"
	"cashbook/internal/models"
)

type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// ListCategories returns every category ordered by id, optionally restricted
// to one type.
func (s *categoryService) ListCategories(ctx context.Context, categoryType *models.CategoryType) ([]models.Category, error) {
	q := s.db.WithContext(ctx).Model(&models.Category{})
	if categoryType != nil {
		if !categoryType.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be income or expense")
		}
		q = q.Where("type = ?", *categoryType)
	}

	categories := []models.Category{}
	if err := q.Order("id ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID returns a single category.
func (s *categoryService) GetCategoryByID(ctx context.Context, categoryID uint) (*models.Category, error) {
	return findCategory(s.db.WithContext(ctx), categoryID)
}

func findCategory(db *gorm.DB, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}
