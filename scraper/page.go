package scraper

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/use-agent/addrcheck/browser"
	"github.com/use-agent/addrcheck/models"
	"github.com/use-agent/addrcheck/retry"
)

// ScrapeAddress searches for address on the check page and classifies the
// status heading the site renders for it.
//
// A heading that never matches a rule is not an error: the record comes back
// with OutcomeUnmatched and an empty label. Every browser failure is returned
// as a *models.ScrapeError and the record is the zero value.
//
// Steps:
//  1. Navigate to the check page.
//  2. Wait for the address input and type the address.
//  3. Let the suggestions settle, then click the first result.
//  4. Wait for the heading and poll it until a rule matches.
//  5. Classify and append the page text to the audit log.
func (s *Scraper) ScrapeAddress(ctx context.Context, page browser.Page, address string) (models.ScrapeRecord, error) {
	sel := s.cfg.Selectors
	timeout := s.cfg.ElementTimeout

	// ── 1. Navigate ───────────────────────────────────────────────────
	if err := step(ctx, s.cfg.NavigationTimeout, func(ctx context.Context) error {
		return page.Navigate(ctx, s.cfg.URL)
	}); err != nil {
		return models.ScrapeRecord{}, categorizeError(err, models.ErrCodeNavigation, "navigation to check page failed")
	}

	// ── 2. Address input ──────────────────────────────────────────────
	if err := step(ctx, timeout, func(ctx context.Context) error {
		return page.WaitFor(ctx, sel.AddressInput)
	}); err != nil {
		return models.ScrapeRecord{}, categorizeError(err, models.ErrCodeElementNotFound, "address input did not appear")
	}
	if err := step(ctx, timeout, func(ctx context.Context) error {
		return page.Input(ctx, sel.AddressInput, address)
	}); err != nil {
		return models.ScrapeRecord{}, categorizeError(err, models.ErrCodeBrowser, "failed to type address")
	}

	// ── 3. First suggestion ───────────────────────────────────────────
	if err := sleep(ctx, s.cfg.SettleDelay); err != nil {
		return models.ScrapeRecord{}, categorizeError(err, models.ErrCodeCanceled, "scrape canceled")
	}
	if err := step(ctx, timeout, func(ctx context.Context) error {
		return page.WaitFor(ctx, sel.ResultItem)
	}); err != nil {
		return models.ScrapeRecord{}, categorizeError(err, models.ErrCodeElementNotFound, "no address suggestion appeared")
	}
	if err := step(ctx, timeout, func(ctx context.Context) error {
		return page.ClickFirst(ctx, sel.ResultItem)
	}); err != nil {
		return models.ScrapeRecord{}, categorizeError(err, models.ErrCodeBrowser, "failed to select address suggestion")
	}

	// ── 4. Heading ────────────────────────────────────────────────────
	if err := step(ctx, timeout, func(ctx context.Context) error {
		return page.WaitFor(ctx, sel.Heading)
	}); err != nil {
		return models.ScrapeRecord{}, categorizeError(err, models.ErrCodeElementNotFound, "status heading did not appear")
	}

	// The heading often shows a placeholder before the real status, so it
	// is re-read until some rule recognises it.
	policy := retry.Policy{MaxAttempts: s.cfg.HeadingPollAttempts, Interval: s.cfg.HeadingPollInterval}
	res, err := retry.Until(ctx, policy, func(ctx context.Context) (string, bool, error) {
		var heading string
		err := step(ctx, timeout, func(ctx context.Context) error {
			var err error
			heading, err = page.Text(ctx, sel.Heading)
			return err
		})
		if err != nil {
			return "", false, err
		}
		heading = strings.TrimSpace(heading)
		return heading, s.classifier.Matches(heading), nil
	})
	if err != nil {
		return models.ScrapeRecord{}, categorizeError(err, models.ErrCodeTimeout, "heading poll interrupted")
	}
	slog.Info("heading read", "address", address, "heading", res.Value, "polls", res.Attempts)

	// ── 5. Classify and audit ─────────────────────────────────────────
	rec := models.ScrapeRecord{
		Address: address,
		Outcome: models.OutcomeUnmatched,
		Heading: res.Value,
	}
	if rule, ok := s.classifier.Classify(res.Value); ok {
		rec.Label = rule.Label
		rec.Outcome = models.OutcomeMatched
	} else {
		slog.Warn("no label rule matched heading",
			"address", address,
			"heading", res.Value,
			"polls", res.Attempts,
			"lastError", res.LastErr,
		)
	}

	if s.audit != nil {
		var html string
		if err := step(ctx, timeout, func(ctx context.Context) error {
			var err error
			html, err = page.HTML(ctx)
			return err
		}); err != nil {
			return models.ScrapeRecord{}, categorizeError(err, models.ErrCodeBrowser, "failed to read page content")
		}
		text, err := PageText(html)
		if err != nil {
			return models.ScrapeRecord{}, models.NewScrapeError(models.ErrCodeInternal, "failed to extract page text", err)
		}
		if err := s.audit.Append(address, text); err != nil {
			return models.ScrapeRecord{}, models.NewScrapeError(models.ErrCodeIO, "failed to write page text", err)
		}
	}

	return rec, nil
}

// categorizeError wraps err with code, except that a canceled context always
// reports ErrCodeCanceled and an expired navigation reports ErrCodeTimeout.
func categorizeError(err error, code, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeCanceled, "scrape canceled", err)
	case errors.Is(err, context.DeadlineExceeded) && code == models.ErrCodeNavigation:
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	default:
		return models.NewScrapeError(code, msg, err)
	}
}
