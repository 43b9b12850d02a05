package models

import "errors"

var (
	// ErrMissingInput is returned when a scan has no seed URL or no usable keywords
	ErrMissingInput = errors.New("a website URL and at least one keyword are required")

	// ErrInvalidSeedURL is returned when the seed is not an absolute http(s) URL
	ErrInvalidSeedURL = errors.New("seed URL must be an absolute http or https URL")

	// ErrNoMatches marks a finished scan where no keyword matched
	ErrNoMatches = errors.New("no keywords found")
)

// Error codes used in API responses.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeNoMatches    = "NO_MATCHES"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
