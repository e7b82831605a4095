package models

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestScrapeError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ScrapeError
		want string
	}{
		{
			name: "without cause",
			err:  NewScrapeError(ErrCodeInvalidInput, "empty address", nil),
			want: "INVALID_INPUT: empty address",
		},
		{
			name: "with cause",
			err:  NewScrapeError(ErrCodeTimeout, "heading wait", context.DeadlineExceeded),
			want: "SCRAPE_TIMEOUT: heading wait: context deadline exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScrapeError_Unwrap(t *testing.T) {
	err := NewScrapeError(ErrCodeElementNotFound, "address input", context.DeadlineExceeded)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("errors.Is should see the wrapped cause")
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("attempt 2: %w", NewScrapeError(ErrCodeBrowserCrash, "launch", nil))

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), ErrCodeInternal},
		{"direct", NewScrapeError(ErrCodeNavigation, "navigate", nil), ErrCodeNavigation},
		{"wrapped", wrapped, ErrCodeBrowserCrash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}
