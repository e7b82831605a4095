package models

import (
	"errors"
	"fmt"
)

// Error codes attached to per-address and per-attempt failures.
const (
	ErrCodeElementNotFound = "ELEMENT_NOT_FOUND"
	ErrCodeNavigation      = "NAVIGATION_FAILED"
	ErrCodeTimeout         = "SCRAPE_TIMEOUT"
	ErrCodeBrowserCrash    = "BROWSER_CRASH"
	ErrCodeBrowser         = "BROWSER_ERROR"
	ErrCodeIO              = "IO_ERROR"
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeCanceled        = "CANCELED"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// CodeOf returns the code of the first ScrapeError in err's chain,
// ErrCodeInternal for any other non-nil error, and "" for nil.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}
