package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCircuitBreakerOpensAtThresholdAndProbesAfterTimeout(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(2, 30*time.Second, zap.NewNop()).WithClock(func() time.Time { return now })

	cb.RecordFailure()
	assert.True(t, cb.CanExecute())

	cb.RecordFailure()
	assert.False(t, cb.CanExecute())
	assert.Equal(t, CircuitStateOpen, cb.GetStatus().State)

	now = now.Add(31 * time.Second)
	assert.True(t, cb.CanExecute())
	assert.Equal(t, CircuitStateHalfOpen, cb.GetState())

	cb.RecordFailure()
	assert.False(t, cb.CanExecute(), "a failed probe reopens immediately")

	now = now.Add(31 * time.Second)
	assert.True(t, cb.CanExecute())
	cb.RecordSuccess()
	assert.Equal(t, CircuitStateClosed, cb.GetState())
	assert.Equal(t, 0, cb.GetStatus().FailureCount)
}

func TestCircuitBreakerSuccessResetsCount(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Minute, zap.NewNop())

	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()

	assert.True(t, cb.CanExecute())
}

func TestCharCountUsesCodePoints(t *testing.T) {
	assert.Equal(t, 5, CharCount("héllo"))
	assert.Equal(t, 3, CharCount("日本語"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", TruncateString("abc", 5))
	assert.Equal(t, "ab...", TruncateString("abcdef", 2))
}
