package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportErrorUnwrapsCause(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := NewTransportError("request failed", "claude", "messages", 0, cause)

	wrapped := fmt.Errorf("attempt 1: %w", err)

	var transportErr *TransportError
	require.True(t, stderrors.As(wrapped, &transportErr))
	assert.Equal(t, "claude", transportErr.Service)
	assert.Equal(t, CodeTransport, transportErr.Code)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "request failed: connection reset", err.Error())
}

func TestConstraintExceededErrorMessage(t *testing.T) {
	err := NewConstraintExceededError(175, 170, 3)

	assert.Equal(t, 175, err.Length)
	assert.Equal(t, 170, err.Limit)
	assert.Contains(t, err.Error(), "175 chars, limit is 170")
}

func TestFieldSyncErrorIsDistinctFromTransport(t *testing.T) {
	cause := NewTransportError("PATCH failed", "appstore", "update", 409, nil)
	err := NewFieldSyncError("de-DE", "update", cause)

	var transportErr *TransportError
	require.True(t, stderrors.As(err, &transportErr))
	assert.Equal(t, 409, transportErr.StatusCode)

	var notFound *RemoteNotFoundError
	assert.False(t, stderrors.As(err, &notFound))
}
