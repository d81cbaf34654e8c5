package errors

import "fmt"

// Error codes
const (
	CodeAppError          = "APP_ERROR"
	CodeTransport         = "TRANSPORT_ERROR"
	CodeMalformedResponse = "MALFORMED_RESPONSE"
	CodeConstraint        = "CONSTRAINT_EXCEEDED"
	CodeRemoteNotFound    = "REMOTE_NOT_FOUND"
	CodeFieldSync         = "FIELD_SYNC_ERROR"
	CodeConfig            = "CONFIG_ERROR"
	CodeCache             = "CACHE_ERROR"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(message, code string, statusCode int, context map[string]any) *AppError {
	return &AppError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// TransportError is a network, auth or HTTP-status failure talking to an
// external service. It is never retried by the caller.
type TransportError struct {
	*AppError
	Service   string
	Operation string
}

func NewTransportError(message, service, operation string, statusCode int, cause error) *TransportError {
	return &TransportError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeTransport,
			StatusCode: statusCode,
			Context: map[string]any{
				"service":   service,
				"operation": operation,
			},
			Cause: cause,
		},
		Service:   service,
		Operation: operation,
	}
}

// MalformedResponseError means the model reply broke the delimiter contract.
type MalformedResponseError struct {
	*AppError
	Preview string
}

func NewMalformedResponseError(message, preview string) *MalformedResponseError {
	return &MalformedResponseError{
		AppError: &AppError{
			Message: message,
			Code:    CodeMalformedResponse,
			Context: map[string]any{
				"preview": preview,
			},
		},
		Preview: preview,
	}
}

// ConstraintExceededError carries the last measured length after the retry
// budget ran out.
type ConstraintExceededError struct {
	*AppError
	Length   int
	Limit    int
	Attempts int
}

func NewConstraintExceededError(length, limit, attempts int) *ConstraintExceededError {
	return &ConstraintExceededError{
		AppError: &AppError{
			Message: fmt.Sprintf("translation is %d chars, limit is %d (after %d attempts)", length, limit, attempts),
			Code:    CodeConstraint,
			Context: map[string]any{
				"length":   length,
				"limit":    limit,
				"attempts": attempts,
			},
		},
		Length:   length,
		Limit:    limit,
		Attempts: attempts,
	}
}

type RemoteNotFoundError struct {
	*AppError
	Resource string
	Key      string
}

func NewRemoteNotFoundError(resource, key string) *RemoteNotFoundError {
	return &RemoteNotFoundError{
		AppError: &AppError{
			Message:    fmt.Sprintf("%s %q not found", resource, key),
			Code:       CodeRemoteNotFound,
			StatusCode: 404,
			Context: map[string]any{
				"resource": resource,
				"key":      key,
			},
		},
		Resource: resource,
		Key:      key,
	}
}

// FieldSyncError scopes a create/update failure to one locale.
type FieldSyncError struct {
	*AppError
	Locale    string
	Operation string
}

func NewFieldSyncError(locale, operation string, cause error) *FieldSyncError {
	return &FieldSyncError{
		AppError: &AppError{
			Message: fmt.Sprintf("%s localization %s failed", operation, locale),
			Code:    CodeFieldSync,
			Context: map[string]any{
				"locale":    locale,
				"operation": operation,
			},
			Cause: cause,
		},
		Locale:    locale,
		Operation: operation,
	}
}

type ConfigError struct {
	*AppError
	Field string
}

func NewConfigError(message, field string) *ConfigError {
	return &ConfigError{
		AppError: &AppError{
			Message: message,
			Code:    CodeConfig,
			Context: map[string]any{
				"field": field,
			},
		},
		Field: field,
	}
}

type CacheError struct {
	*AppError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AppError: &AppError{
			Message: message,
			Code:    CodeCache,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}
