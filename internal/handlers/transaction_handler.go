package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "cashbook/internal/errors"
	"cashbook/internal/models"
	"cashbook/internal/pagination"
	"cashbook/internal/services"
	"cashbook/internal/validator"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	schema             *validator.Schema
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, schema *validator.Schema) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, schema: schema}
}

// TransactionResponse is the body of a single-transaction response.
type TransactionResponse struct {
	Transaction models.Transaction `json:"transaction"`
}

// CreateTransaction validates and records a transaction for the caller
// @Summary     Create a transaction
// @Description Validate an entry form submission and record it. Every field violation is reported in error.fields.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Security    ApiKeyAuth
// @Param       request body validator.Input true "Transaction form fields"
// @Success     201 {object} TransactionResponse "Transaction created"
// @Failure     400 {object} ErrorResponse "Malformed body"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     422 {object} ErrorResponse "Validation failed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var in validator.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "request body must be a JSON object"))
		return
	}

	payload, fieldErrs := h.schema.Validate(in)
	if len(fieldErrs) > 0 {
		respondWithError(c, apperrors.WithFields(apperrors.ErrValidation, fieldErrs))
		return
	}

	ctx := services.WithClientIP(c.Request.Context(), c.ClientIP())
	transaction, err := h.transactionService.CreateTransaction(ctx, userID, payload)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, TransactionResponse{Transaction: *transaction})
}

// GetUserTransactions lists the caller's transactions, newest first
// @Summary     List transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Security    ApiKeyAuth
// @Param       page      query int false "Page number" minimum(1)
// @Param       page_size query int false "Page size" minimum(1) maximum(100)
// @Success     200 {object} pagination.Page[models.Transaction]
// @Failure     400 {object} ErrorResponse "Invalid paging"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.Params
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "page must be >= 1 and page_size between 1 and 100"))
		return
	}

	result, err := h.transactionService.GetUserTransactions(c.Request.Context(), userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransactionByID returns one of the caller's transactions
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Security    ApiKeyAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} TransactionResponse
// @Failure     400 {object} ErrorResponse "Invalid id"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Transaction: *transaction})
}
