package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrCodeValidationFailed       ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidInput           ErrorCode = "INVALID_INPUT"
	ErrCodeEmailAlreadyRegistered ErrorCode = "EMAIL_ALREADY_REGISTERED"
	ErrCodePayloadTooLarge        ErrorCode = "PAYLOAD_TOO_LARGE"

	ErrCodeAuthenticationFailed ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodePermissionDenied     ErrorCode = "PERMISSION_DENIED"

	ErrCodeResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeFeatureDisabled  ErrorCode = "FEATURE_DISABLED"

	ErrCodeDatabaseError      ErrorCode = "DATABASE_ERROR"
	ErrCodeSearchQueryFailed  ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeStorageWriteFailed ErrorCode = "STORAGE_WRITE_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeLLMTimeout             ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMRequestFailed       ErrorCode = "LLM_REQUEST_FAILED"

	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT_ERROR"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the error shape shared by HTTP handlers and job workers.
// Message is safe to show to API callers; Details is for logs.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata sets a metadata key and returns the receiver.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// As unwraps err into a *StandardError when one is in the chain.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// Normalize always returns a StandardError, wrapping unknown errors as
// INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	if stdErr, ok := As(err); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal server error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

func NewValidationError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Invalid input",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

func NewEmailAlreadyRegisteredError(email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmailAlreadyRegistered,
		Message:   "Email already registered",
		Details:   fmt.Sprintf("email: %s", email),
		Timestamp: time.Now().UTC(),
	}
}

func NewPayloadTooLargeError(limit int64) *StandardError {
	return &StandardError{
		Code:      ErrCodePayloadTooLarge,
		Message:   fmt.Sprintf("Upload exceeds the %d byte limit", limit),
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthenticationError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthenticationFailed,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

func NewPermissionDeniedError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodePermissionDenied,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(resource, message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResourceNotFound,
		Message:   message,
		Details:   fmt.Sprintf("resource: %s", resource),
		Timestamp: time.Now().UTC(),
	}
}

func NewFeatureDisabledError(feature string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFeatureDisabled,
		Message:   fmt.Sprintf("Feature '%s' is disabled", feature),
		Timestamp: time.Now().UTC(),
	}
}

func NewDatabaseError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseError,
		Message:   "Database operation failed",
		Details:   fmt.Sprintf("operation: %s, error: %v", operation, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewSearchQueryFailedError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Search query failed",
		Details:   fmt.Sprintf("index: %s, error: %v", index, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewStorageWriteFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageWriteFailed,
		Message:   "Could not store uploaded file",
		Details:   fmt.Sprintf("path: %s, error: %v", path, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %v", channel, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewLLMTimeoutError(timeout time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "Language model request timed out",
		Details:   fmt.Sprintf("timeout: %s", timeout),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewLLMRequestFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMRequestFailed,
		Message:   "Language model request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalService,
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTimeout,
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal server error",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps an error code onto the status the API answers with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidInput, ErrCodeEmailAlreadyRegistered:
		return http.StatusBadRequest
	case ErrCodeAuthenticationFailed:
		return http.StatusUnauthorized
	case ErrCodePermissionDenied:
		return http.StatusForbidden
	case ErrCodeResourceNotFound, ErrCodeFeatureDisabled:
		return http.StatusNotFound
	case ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeSearchQueryFailed, ErrCodeExternalService, ErrCodeLLMRequestFailed:
		return http.StatusBadGateway
	case ErrCodeTimeout, ErrCodeLLMTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// GetRetryCount returns how many times a job worker should retry a
// failure with the given code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseError,
		ErrCodeSearchQueryFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeExternalService,
		ErrCodeLLMRequestFailed:
		return 3
	case ErrCodeTimeout:
		return 2
	case ErrCodeLLMTimeout:
		return 1
	default:
		return 0
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "AUTH") || strings.Contains(codeStr, "PERMISSION") || strings.Contains(codeStr, "EMAIL"):
		return "AUTH"
	case strings.Contains(codeStr, "DATABASE"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "LLM"):
		return "AI"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
