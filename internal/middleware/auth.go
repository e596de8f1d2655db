package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "cashbook/internal/errors"
	"cashbook/internal/identity"
	"cashbook/internal/logger"
)

const userIDKey = "userID"

type identifyResult struct {
	userID string
	err    error
}

// Guard resolves the caller through provider before any downstream handler
// runs. Requests without an identity are aborted with 401 UNAUTHORIZED; the
// user id of an authorized caller is stored on the Gin context and on the
// request context. Downstream responses and errors pass through untouched.
func Guard(provider identity.Provider, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := identify(c, provider, timeout)
		if err != nil {
			logger.Get().Warnw("identity resolution failed",
				"error", err.Error(),
				"path", c.Request.URL.Path,
			)
			abortUnauthorized(c)
			return
		}
		if userID == "" {
			abortUnauthorized(c)
			return
		}

		c.Set(userIDKey, userID)
		c.Request = c.Request.WithContext(identity.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

// identify bounds the provider call by timeout even when the provider ignores
// its context. A provider panic is reported as an error since it happens
// outside the handler goroutine that gin.Recovery covers.
func identify(c *gin.Context, provider identity.Provider, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	req := c.Request
	done := make(chan identifyResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- identifyResult{err: fmt.Errorf("identity provider panic: %v", r)}
			}
		}()
		userID, err := provider.Identify(ctx, req)
		done <- identifyResult{userID: userID, err: err}
	}()

	select {
	case res := <-done:
		return res.userID, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(apperrors.ErrUnauthorized.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrUnauthorized.Code,
			"message": apperrors.ErrUnauthorized.Message,
		},
	})
}

// UserID returns the id stored by Guard.
func UserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	userID, ok := v.(string)
	return userID, ok && userID != ""
}

// SetUserID stores userID the way Guard does. Handler tests use it to stand
// in for the guard.
func SetUserID(c *gin.Context, userID string) {
	c.Set(userIDKey, userID)
	c.Request = c.Request.WithContext(identity.WithUserID(c.Request.Context(), userID))
}
