package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "cashbook/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected code and
// returns it for further inspection.
func AssertAppError(t *testing.T, err error, expectedCode string) *apperrors.AppError {
	t.Helper()

	require.Error(t, err, "expected AppError with code %q", expectedCode)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr, "expected *AppError, got %T: %v", err, err)
	assert.Equal(t, expectedCode, appErr.Code, "message: %s", appErr.Message)
	return appErr
}

// AssertNoError fails the test immediately if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	require.NoError(t, err)
}
