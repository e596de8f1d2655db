package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "cashbook/internal/errors"
	"cashbook/internal/models"
	"cashbook/internal/services"
)

// CategoryHandler serves the read-only category catalogue.
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

type categoryQuery struct {
	Type models.CategoryType `form:"type" binding:"omitempty,category_type"`
}

// CategoryListResponse is the body of GET /categories.
type CategoryListResponse struct {
	Categories []models.Category `json:"categories"`
}

// CategoryResponse is the body of GET /categories/{id}.
type CategoryResponse struct {
	Category models.Category `json:"category"`
}

// ListCategories lists categories, optionally filtered by type
// @Summary     List categories
// @Description List every category, or only those of one type. Entry forms filter this list by transaction type.
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Security    ApiKeyAuth
// @Param       type query string false "Category type" Enums(income, expense)
// @Success     200 {object} CategoryListResponse
// @Failure     400 {object} ErrorResponse "Invalid type"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	var query categoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be income or expense"))
		return
	}

	var filter *models.CategoryType
	if query.Type != "" {
		filter = &query.Type
	}

	categories, err := h.categoryService.ListCategories(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, CategoryListResponse{Categories: categories})
}

// GetCategoryByID returns one category
// @Summary     Get a category
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Security    ApiKeyAuth
// @Param       id path int true "Category ID"
// @Success     200 {object} CategoryResponse
// @Failure     400 {object} ErrorResponse "Invalid id"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(c.Request.Context(), categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, CategoryResponse{Category: *category})
}
