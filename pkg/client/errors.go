package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAbsent is returned by Result.Decode when the fetch produced no data.
var ErrAbsent = errors.New("no data available")

// ErrorClass represents a classification of tracker failures.
type ErrorClass string

const (
	// ErrorClassAccessDenied represents 403 responses (Cloudflare or API key).
	ErrorClassAccessDenied ErrorClass = "access_denied"

	// ErrorClassClient represents other 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents bodies that are not a {"data": ...} envelope.
	ErrorClassDecode ErrorClass = "decode"
)

// TRNError is a failed tracker attempt. It is logged, never returned to
// Fetch callers.
type TRNError struct {
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *TRNError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tracker %s error (status %d): %s: %v",
			e.ErrorClass, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("tracker %s error (status %d): %s",
		e.ErrorClass, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *TRNError) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP error status to its class.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusForbidden:
		return ErrorClassAccessDenied
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// classOf extracts the class of an attempt error.
func classOf(err error) ErrorClass {
	var trnErr *TRNError
	if errors.As(err, &trnErr) {
		return trnErr.ErrorClass
	}
	return ErrorClassNetwork
}
