package errors

import "errors"

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("resource not found")
	ErrInternalError = errors.New("internal server error")
)

// Processing errors
var (
	ErrResultNotFound  = errors.New("processing run not found")
	ErrEmptyTranscript = errors.New("transcript has no text")
	ErrCacheMiss       = errors.New("cache miss")
)

// Import errors
var (
	ErrImporterNotConfigured = errors.New("transcript importer not configured")
	ErrNoUtterances          = errors.New("transcript has no utterances or text")
)
