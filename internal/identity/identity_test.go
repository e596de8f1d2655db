package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func requestWithHeader(key, value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", http.NoBody)
	if value != "" {
		req.Header.Set(key, value)
	}
	return req
}

func TestJWTProvider_Identify(t *testing.T) {
	provider := NewJWTProvider("test-secret", "cashbook")

	valid, err := provider.Issue("user_2abc", time.Hour)
	require.NoError(t, err)

	expired, err := provider.Issue("user_2abc", -time.Minute)
	require.NoError(t, err)

	foreign, err := NewJWTProvider("other-secret", "cashbook").Issue("user_2abc", time.Hour)
	require.NoError(t, err)

	wrongIssuer, err := NewJWTProvider("test-secret", "someone-else").Issue("user_2abc", time.Hour)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user_2abc"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"valid token", "Bearer " + valid, "user_2abc"},
		{"lowercase scheme", "bearer " + valid, "user_2abc"},
		{"missing header", "", ""},
		{"no scheme", valid, ""},
		{"basic scheme", "Basic dXNlcjpwYXNz", ""},
		{"expired", "Bearer " + expired, ""},
		{"wrong secret", "Bearer " + foreign, ""},
		{"wrong issuer", "Bearer " + wrongIssuer, ""},
		{"alg none", "Bearer " + noneAlg, ""},
		{"garbage", "Bearer not.a.jwt", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := provider.Identify(context.Background(), requestWithHeader("Authorization", tt.header))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJWTProvider_IssueRequiresUser(t *testing.T) {
	_, err := NewJWTProvider("s", "").Issue("", time.Hour)
	assert.Error(t, err)
}

func TestAPIKeyProvider_Identify(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	provider := NewAPIKeyProvider(map[string]string{"user_1": string(hash)})

	tests := []struct {
		name string
		key  string
		want string
	}{
		{"valid key", "user_1:s3cret", "user_1"},
		{"wrong secret", "user_1:nope", ""},
		{"unknown user", "user_2:s3cret", ""},
		{"missing secret", "user_1:", ""},
		{"no separator", "user_1", ""},
		{"missing header", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := provider.Identify(context.Background(), requestWithHeader(APIKeyHeader, tt.key))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHashAPIKey(t *testing.T) {
	hash, err := HashAPIKey("s3cret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}

func TestChain_Identify(t *testing.T) {
	none := ProviderFunc(func(context.Context, *http.Request) (string, error) { return "", nil })
	alice := ProviderFunc(func(context.Context, *http.Request) (string, error) { return "alice", nil })
	boom := errors.New("identity backend down")
	failing := ProviderFunc(func(context.Context, *http.Request) (string, error) { return "", boom })

	req := requestWithHeader("", "")

	got, err := Chain{none, alice, failing}.Identify(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "alice", got)

	_, err = Chain{none, failing, alice}.Identify(context.Background(), req)
	assert.ErrorIs(t, err, boom)

	got, err = Chain{none}.Identify(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Chain{alice}.Identify(ctx, req)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUserIDContext(t *testing.T) {
	_, ok := UserIDFrom(context.Background())
	assert.False(t, ok)

	ctx := WithUserID(context.Background(), "user_9")
	got, ok := UserIDFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user_9", got)
}
