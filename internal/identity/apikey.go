package identity

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// APIKeyHeader carries "<user id>:<secret>".
const APIKeyHeader = "X-API-Key"

// APIKeyProvider authenticates scripts with per-user keys whose bcrypt hashes
// are configured through API_KEYS.
type APIKeyProvider struct {
	hashes map[string][]byte
}

// NewAPIKeyProvider creates a provider from user id -> bcrypt hash.
func NewAPIKeyProvider(hashes map[string]string) *APIKeyProvider {
	p := &APIKeyProvider{hashes: make(map[string][]byte, len(hashes))}
	for userID, hash := range hashes {
		p.hashes[userID] = []byte(hash)
	}
	return p
}

// Identify implements Provider.
func (p *APIKeyProvider) Identify(_ context.Context, r *http.Request) (string, error) {
	key := r.Header.Get(APIKeyHeader)
	if key == "" || len(p.hashes) == 0 {
		return "", nil
	}

	userID, secret, ok := strings.Cut(key, ":")
	if !ok || secret == "" {
		return "", nil
	}
	hash, known := p.hashes[userID]
	if !known {
		return "", nil
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(secret)); err != nil {
		return "", nil
	}
	return userID, nil
}

// HashAPIKey returns the bcrypt hash to put in API_KEYS for secret.
func HashAPIKey(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
