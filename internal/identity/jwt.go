package identity

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cashbook/internal/logger"
)

// JWTProvider verifies HS256 bearer tokens and uses the subject as user id.
type JWTProvider struct {
	secret []byte
	issuer string
}

// NewJWTProvider creates a provider for tokens signed with secret. When issuer
// is non-empty, tokens must carry a matching iss claim.
func NewJWTProvider(secret, issuer string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), issuer: issuer}
}

// Identify implements Provider. Missing, malformed, expired or foreign tokens
// resolve to no identity.
func (p *JWTProvider) Identify(_ context.Context, r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", nil
	}

	scheme, tokenString, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
		logger.Get().Debugw("rejecting malformed authorization header", "path", r.URL.Path)
		return "", nil
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		logger.Get().Debugw("rejecting bearer token", "error", err, "path", r.URL.Path)
		return "", nil
	}

	return claims.Subject, nil
}

// Issue signs a token for userID valid for ttl. It backs the development
// token command and tests.
func (p *JWTProvider) Issue(userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    p.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}
