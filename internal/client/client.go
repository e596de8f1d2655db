// Package client provides an HTTP client for the Cashbook API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cashbook/internal/identity"
	"cashbook/internal/models"
	"cashbook/internal/validator"
)

// APIError is a non-2xx response decoded from the API error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Fields     validator.FieldErrors
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Fields.Error())
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Unwrap exposes per-field errors so callers can errors.As them into a
// validator.FieldErrors.
func (e *APIError) Unwrap() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e.Fields
}

// Client communicates with the Cashbook API.
type Client struct {
	baseURL    string
	token      string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBearerToken authenticates with a JWT.
func WithBearerToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithAPIKey authenticates with a "user:secret" API key.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// New creates a client for the API at baseURL. A nil httpClient uses
// http.DefaultClient.
func New(baseURL string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListCategories fetches every category.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var result struct {
		Categories []models.Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/categories", nil, http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return result.Categories, nil
}

// CreateTransaction submits a validated payload. Server-side field
// violations come back as an *APIError wrapping validator.FieldErrors.
func (c *Client) CreateTransaction(ctx context.Context, payload validator.Payload) (*models.Transaction, error) {
	body, err := json.Marshal(payload.Input())
	if err != nil {
		return nil, fmt.Errorf("marshaling transaction: %w", err)
	}

	var result struct {
		Transaction models.Transaction `json:"transaction"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/transactions", body, http.StatusCreated, &result); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}
	return &result.Transaction, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.apiKey != "" {
		req.Header.Set(identity.APIKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var envelope struct {
		Error struct {
			Code    string            `json:"code"`
			Message string            `json:"message"`
			Fields  map[string]string `json:"fields"`
		} `json:"error"`
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		apiErr.Code = "UNEXPECTED_STATUS"
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}
	apiErr.Code = envelope.Error.Code
	apiErr.Message = envelope.Error.Message
	if len(envelope.Error.Fields) > 0 {
		apiErr.Fields = validator.FieldErrors(envelope.Error.Fields)
	}
	return apiErr
}
