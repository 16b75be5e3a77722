package core

import (
	"errors"
	"fmt"
)

// APIError is the normalized error produced for every failed request,
// regardless of which capability issued it.
type APIError struct {
	Status    int    // HTTP status, 0 for pure network failures
	Code      string // platform error code, if any
	Message   string
	RequestID string // client-generated request ID of the final attempt
	Attempts  int    // number of HTTP attempts performed
	Meta      Diagnostics
	Err       error // sentinel for errors.Is classification
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("lumen: %s (status=%d, code=%s, request_id=%s, attempts=%d)",
			e.Message, e.Status, e.Code, e.RequestID, e.Attempts)
	}
	return fmt.Sprintf("lumen: %s (request_id=%s, attempts=%d)",
		e.Message, e.RequestID, e.Attempts)
}

// Unwrap returns the sentinel error for chaining.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Diagnostics carries the client-side metadata attached to every request and
// echoed back on normalized errors.
type Diagnostics struct {
	Language  string `json:"language"`
	Version   string `json:"version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// Sentinel errors for classification.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
	ErrNetwork      = errors.New("network error")
	ErrDecode       = errors.New("decode error")
)

// ErrAPIKeyRequired is returned by New when the API key is empty.
var ErrAPIKeyRequired = errors.New("api key required: pass a non-empty key to core.New")

// sentinelForStatus maps an HTTP status code to a sentinel error.
func sentinelForStatus(status int) error {
	switch {
	case status == 400:
		return ErrBadRequest
	case status == 401 || status == 403:
		return ErrUnauthorized
	case status == 404:
		return ErrNotFound
	case status == 429:
		return ErrRateLimited
	default:
		return ErrServer
	}
}

// platformErrorBody is the error envelope the platform returns:
// {"error":{"message":"...","code":"..."}} with a legacy flat fallback.
type platformErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
	Message string `json:"message"`
}
