package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "cashbook/internal/errors"
	"cashbook/internal/middleware"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// getUserID returns the caller resolved by the route guard.
func getUserID(c *gin.Context) (string, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// parsePathID parses a positive uint path parameter.
func parsePathID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return uint(id), nil
}

func respondWithError(c *gin.Context, err error) {
	middleware.WriteError(c, err)
}
