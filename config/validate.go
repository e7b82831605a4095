package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
)

// ErrInvalid is wrapped by every validation failure returned from Load.
var ErrInvalid = errors.New("invalid configuration")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// validate collects every problem at once so a user can fix the file in a
// single pass.
func (c *Config) validate() error {
	var errs []error

	if c.Scraper.URL == "" {
		errs = append(errs, invalid("web_url is required"))
	} else if u, err := url.ParseRequestURI(c.Scraper.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, invalid("web_url %q is not an http(s) URL", c.Scraper.URL))
	}

	if strings.TrimSpace(c.Run.InputFile) == "" {
		errs = append(errs, invalid("input_address_text_file is required"))
	}
	if strings.TrimSpace(c.Output.CSVPath) == "" {
		errs = append(errs, invalid("output_csv_file_location is required"))
	}
	if strings.TrimSpace(c.Output.TextDir) == "" {
		errs = append(errs, invalid("output_text_file_path is required"))
	}
	if c.Run.MaxAttempts < 1 {
		errs = append(errs, invalid("retry_count_when_failed must be at least 1, got %d", c.Run.MaxAttempts))
	}
	if c.Scraper.HeadingPollAttempts < 1 {
		errs = append(errs, invalid("heading_poll_attempts must be at least 1, got %d", c.Scraper.HeadingPollAttempts))
	}
	if c.Scraper.NavigationTimeout <= 0 {
		errs = append(errs, invalid("navigation_timeout_seconds must be positive"))
	}
	if c.Scraper.ElementTimeout <= 0 {
		errs = append(errs, invalid("element_timeout_seconds must be positive"))
	}

	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"settle_delay_ms", c.Scraper.SettleDelay},
		{"heading_poll_interval_ms", c.Scraper.HeadingPollInterval},
		{"seconds_to_wait_between_scrape", c.Scraper.AddressDelay},
		{"seconds_to_wait_after_error", c.Scraper.ErrorDelay},
		{"seconds_to_wait_between_attempts", c.Run.AttemptDelay},
	} {
		if d.value < 0 {
			errs = append(errs, invalid("%s must not be negative", d.name))
		}
	}

	for _, s := range []struct{ name, selector string }{
		{"selectors.address_input", c.Scraper.Selectors.AddressInput},
		{"selectors.result_item", c.Scraper.Selectors.ResultItem},
		{"selectors.heading", c.Scraper.Selectors.Heading},
	} {
		if _, err := cascadia.Parse(s.selector); err != nil {
			errs = append(errs, invalid("%s %q: %v", s.name, s.selector, err))
		}
	}

	if len(c.Labels) == 0 {
		errs = append(errs, invalid("label_mapping must not be empty"))
	}
	for i, r := range c.Labels {
		if strings.TrimSpace(r.Text) == "" || strings.TrimSpace(r.Label) == "" {
			errs = append(errs, invalid("label_mapping[%d] needs both text and label", i))
		}
	}

	for _, rt := range c.Browser.BlockedResourceTypes {
		if !slices.Contains(KnownResourceTypes, rt) {
			errs = append(errs, invalid("blocked_resources: unknown type %q (known: %s)",
				rt, strings.Join(KnownResourceTypes, ", ")))
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, invalid("log_level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, invalid("log_format %q is not one of text, json", c.Log.Format))
	}

	return errors.Join(errs...)
}
