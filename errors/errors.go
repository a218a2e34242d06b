package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError là custom error type cho application
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying error to errors.Is / errors.As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// IsConfiguration reports whether the error belongs to the configuration class,
// which aborts processing before any provider call is made.
func (e AppError) IsConfiguration() bool {
	switch e.Code {
	case ErrorCode_AI_PROVIDER_NOT_CONFIGURED, ErrorCode_AI_PROVIDER_UNSUPPORTED, ErrorCode_CONFIG_INVALID:
		return true
	}
	return false
}

func newAppError(httpCode int, code ErrorCode, message string, raw error) AppError {
	return AppError{
		Raw:       raw,
		HTTPCode:  httpCode,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// General Errors
func ErrInternal(err error) AppError {
	return newAppError(http.StatusInternalServerError, ErrorCode_INTERNAL, "Internal server error", err)
}

func ErrInvalidArgument(message string) AppError {
	return newAppError(http.StatusBadRequest, ErrorCode_INVALID_ARGUMENT, message, nil)
}

func ErrInvalidPayload() AppError {
	return newAppError(http.StatusBadRequest, ErrorCode_INVALID_ARGUMENT, "Invalid request payload", nil)
}

func ErrNotFound(resource string) AppError {
	return newAppError(http.StatusNotFound, ErrorCode_NOT_FOUND, fmt.Sprintf("%s not found", resource), nil)
}

func ErrUnauthenticated() AppError {
	return newAppError(http.StatusUnauthorized, ErrorCode_UNAUTHENTICATED, "Authentication required", nil)
}

// Authentication Errors
func ErrInvalidToken() AppError {
	return newAppError(http.StatusUnauthorized, ErrorCode_AUTH_INVALID_TOKEN, "Invalid authentication token", nil)
}

func ErrTokenExpired() AppError {
	return newAppError(http.StatusUnauthorized, ErrorCode_AUTH_TOKEN_EXPIRED, "Authentication token has expired", nil)
}

// Configuration Errors
func ErrConfigInvalid(message string) AppError {
	return newAppError(http.StatusInternalServerError, ErrorCode_CONFIG_INVALID, message, nil)
}

func ErrAIProviderNotConfigured(provider string) AppError {
	return newAppError(
		http.StatusBadRequest,
		ErrorCode_AI_PROVIDER_NOT_CONFIGURED,
		fmt.Sprintf("No API key configured for provider %q", provider),
		nil,
	).WithDetail("provider", provider)
}

func ErrAIProviderUnsupported(provider string) AppError {
	return newAppError(
		http.StatusBadRequest,
		ErrorCode_AI_PROVIDER_UNSUPPORTED,
		fmt.Sprintf("Unsupported text-generation provider %q", provider),
		nil,
	).WithDetail("provider", provider)
}

// AI Service Errors
func ErrAIAnalysisFailed(err error) AppError {
	return newAppError(http.StatusInternalServerError, ErrorCode_AI_ANALYSIS_FAILED, "AI analysis failed", err)
}

func ErrAIServiceUnavailable(service string) AppError {
	return newAppError(
		http.StatusServiceUnavailable,
		ErrorCode_AI_SERVICE_UNAVAILABLE,
		fmt.Sprintf("%s is unavailable", service),
		nil,
	).WithDetail("service", service)
}

// Transcript Errors
func ErrInvalidTranscript(reason string) AppError {
	return newAppError(http.StatusBadRequest, ErrorCode_TRANSCRIPT_INVALID, "Invalid transcript", nil).
		WithDetail("reason", reason)
}

func ErrTranscriptImportFailed(transcriptID string, err error) AppError {
	return newAppError(http.StatusBadGateway, ErrorCode_TRANSCRIPT_IMPORT_FAILED, "Failed to import transcript", err).
		WithDetail("transcript_id", transcriptID)
}

func ErrTranscriptNotReady(transcriptID, status string) AppError {
	return newAppError(http.StatusConflict, ErrorCode_TRANSCRIPT_NOT_READY, "Transcript is not completed yet", nil).
		WithDetail("transcript_id", transcriptID).
		WithDetail("status", status)
}

func ErrProcessingFailed(err error) AppError {
	return newAppError(http.StatusInternalServerError, ErrorCode_PROCESSING_FAILED, "Processing failed", err)
}

// Integration Errors
func ErrStorageFailed(operation string, err error) AppError {
	return newAppError(http.StatusInternalServerError, ErrorCode_INTEGRATION_STORAGE_FAILED, "Storage operation failed", err).
		WithDetail("operation", operation)
}

func ErrCacheFailed(operation string, err error) AppError {
	return newAppError(http.StatusInternalServerError, ErrorCode_INTEGRATION_CACHE_FAILED, "Cache operation failed", err).
		WithDetail("operation", operation)
}

// Database Errors
func ErrDBConnectionFailed(err error) AppError {
	return newAppError(http.StatusInternalServerError, ErrorCode_DB_CONNECTION_FAILED, "Database connection failed", err)
}

func ErrDBQueryFailed(query string, err error) AppError {
	return newAppError(http.StatusInternalServerError, ErrorCode_DB_QUERY_FAILED, "Database query failed", err).
		WithDetail("query", query)
}
