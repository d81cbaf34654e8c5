package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/localization-connect-go/internal/constants"
	"github.com/kapu/localization-connect-go/internal/domain"
	"github.com/kapu/localization-connect-go/internal/util"
	"github.com/kapu/localization-connect-go/pkg/errors"
)

// ModelManager fronts a single Provider with a circuit breaker. It never
// retries and never falls back to another vendor: any transport failure is
// returned to the caller as *errors.TransportError.
type ModelManager struct {
	provider       Provider
	logger         *zap.Logger
	circuitBreaker *util.CircuitBreaker
}

func NewModelManager(provider Provider, logger *zap.Logger) *ModelManager {
	return &ModelManager{
		provider: provider,
		logger:   logger,
		circuitBreaker: util.NewCircuitBreaker(
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			logger,
		),
	}
}

func (mm *ModelManager) ProviderName() string {
	return mm.provider.Name()
}

// Complete satisfies translation.Requester.
func (mm *ModelManager) Complete(ctx context.Context, req domain.TranslationRequest) (string, error) {
	if !mm.circuitBreaker.CanExecute() {
		status := mm.circuitBreaker.GetStatus()
		nextRetry := "unknown"
		if status.NextRetryTime != nil {
			nextRetry = status.NextRetryTime.Format(time.RFC3339)
		}

		mm.logger.Error("AI service unavailable (Circuit OPEN)",
			zap.String("provider", mm.provider.Name()),
			zap.Int("failure_count", status.FailureCount),
			zap.String("next_retry", nextRetry),
		)

		return "", errors.NewTransportError(
			fmt.Sprintf("%s is unavailable until %s", mm.provider.Name(), nextRetry),
			mm.provider.Name(), "complete", http.StatusServiceUnavailable, nil,
		)
	}

	result, err := mm.provider.Complete(ctx, req)
	if err != nil {
		transportErr := asTransportError(mm.provider.Name(), err)
		if isServiceFailure(transportErr) {
			mm.circuitBreaker.RecordFailure()
		}
		mm.logger.Error("Translation request failed",
			zap.String("provider", mm.provider.Name()),
			zap.Int("status", transportErr.StatusCode),
			zap.Error(err),
		)
		return "", transportErr
	}

	mm.circuitBreaker.RecordSuccess()
	return result.Text, nil
}

func (mm *ModelManager) GetCircuitStatus() util.CircuitBreakerStatus {
	return mm.circuitBreaker.GetStatus()
}

func (mm *ModelManager) ResetCircuit() {
	mm.circuitBreaker.Reset()
}

func asTransportError(provider string, err error) *errors.TransportError {
	var transportErr *errors.TransportError
	if stderrors.As(err, &transportErr) {
		return transportErr
	}
	return errors.NewTransportError("translation request failed", provider, "complete", 0, err)
}

// isServiceFailure separates outages (network, 429, 5xx) from request
// problems such as a bad API key, which an open circuit would not fix.
func isServiceFailure(err *errors.TransportError) bool {
	switch {
	case err.StatusCode == 0:
		return true
	case err.StatusCode == http.StatusTooManyRequests:
		return true
	case err.StatusCode >= 500:
		return true
	default:
		return false
	}
}
