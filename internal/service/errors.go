package service

import (
	"errors"
	"fmt"
)

// Validation failures (HTTP 400).
var (
	ErrEmptyMessage   = errors.New("message cannot be empty")
	ErrMessageTooLong = errors.New("message too long (max 500 characters)")
	ErrInvalidSignup  = errors.New("invalid email or password (>=6 chars) required")
)

// Auth failures (HTTP 401 / 409).
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

// ErrMovieNotFound is returned when the metadata provider reports no match
// for the requested title (HTTP 404).
var ErrMovieNotFound = errors.New("movie not found on OMDb")

// UpstreamError is a non-success response from a third-party provider
// (HTTP 500). It carries the provider's status and message so the client
// sees what actually failed.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Message    string
	Detail     string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s API error (HTTP %d)", e.Provider, e.StatusCode)
}

// ParseError is an unparseable provider payload (HTTP 500). RawText is kept
// for diagnostics and returned to the caller in the error details.
type ParseError struct {
	RawText string
	Err     error
}

func (e *ParseError) Error() string {
	return "failed to parse AI response"
}

func (e *ParseError) Unwrap() error { return e.Err }
