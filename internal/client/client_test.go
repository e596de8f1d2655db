package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashbook/internal/models"
	"cashbook/internal/validator"
)

func testPayload() validator.Payload {
	return validator.Payload{
		TransactionType: models.TransactionTypeExpense,
		CategoryID:      3,
		TransactionDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Amount:          decimal.RequireFromString("42.5"),
		Description:     "Groceries",
	}
}

func TestListCategories_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/api/v1/categories" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing or wrong bearer token")
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"categories": []map[string]any{
				{"id": 1, "name": "Salary", "type": "income"},
				{"id": 3, "name": "Groceries", "type": "expense"},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL+"/", server.Client(), WithBearerToken("tok"))
	cats, err := c.ListCategories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []models.Category{
		{ID: 1, Name: "Salary", Type: models.CategoryTypeIncome},
		{ID: 3, Name: "Groceries", Type: models.CategoryTypeExpense},
	}, cats)
}

func TestListCategories_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"Unauthorized"}}`))
	}))
	defer server.Close()

	_, err := New(server.URL, server.Client()).ListCategories(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
}

func TestCreateTransaction_Success(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/transactions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "user_1:secret" {
			t.Errorf("missing or wrong API key header")
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON content type")
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding body: %v", err)
		}

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"transaction": map[string]any{
				"id": 9, "user_id": "user_1", "description": "Groceries", "amount": "42.5",
				"transaction_date": "2025-06-15T00:00:00Z", "category_id": 3,
			},
		})
	}))
	defer server.Close()

	c := New(server.URL, server.Client(), WithAPIKey("user_1:secret"))
	tx, err := c.CreateTransaction(context.Background(), testPayload())

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"transactionType": "expense",
		"categoryId":      "3",
		"transactionDate": "2025-06-15",
		"amount":          "42.5",
		"description":     "Groceries",
	}, body)
	assert.Equal(t, uint(9), tx.ID)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("42.5")))
	assert.Equal(t, uint(3), tx.CategoryID)
}

func TestCreateTransaction_FieldErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"CATEGORY_TYPE_MISMATCH","message":"Category type does not match transaction type","fields":{"categoryId":"Please select a category"}}}`))
	}))
	defer server.Close()

	_, err := New(server.URL, server.Client()).CreateTransaction(context.Background(), testPayload())

	var fields validator.FieldErrors
	require.True(t, errors.As(err, &fields))
	assert.Equal(t, validator.FieldErrors{validator.FieldCategoryID: validator.MsgCategory}, fields)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "CATEGORY_TYPE_MISMATCH", apiErr.Code)
}

func TestCreateTransaction_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := New(server.URL, server.Client()).CreateTransaction(context.Background(), testPayload())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "UNEXPECTED_STATUS", apiErr.Code)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestCreateTransaction_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(server.URL, server.Client()).CreateTransaction(ctx, testPayload())

	assert.ErrorIs(t, err, context.Canceled)
}
