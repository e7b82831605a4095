// Package runner wraps a batch in the bounded attempt loop: open a browser,
// scrape every address, export, and retry the whole attempt on failure.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/use-agent/addrcheck/browser"
	"github.com/use-agent/addrcheck/config"
	"github.com/use-agent/addrcheck/exporter"
	"github.com/use-agent/addrcheck/models"
	"github.com/use-agent/addrcheck/retry"
)

// BatchRunner scrapes the address list on page. *scraper.Batch implements it.
type BatchRunner interface {
	Run(ctx context.Context, page browser.Page) ([]models.ScrapeRecord, error)
}

// Outcome summarises a run.
type Outcome struct {
	// Success is true when an attempt completed and was exported.
	Success bool

	// Attempts is the number of attempts started.
	Attempts int

	// Duration is the wall-clock time of the whole run.
	Duration time.Duration

	// Records is the exported table; nil unless Success.
	Records []models.ScrapeRecord

	// Err is the last attempt's error when Success is false.
	Err error
}

// Runner owns the attempt loop. It holds no state between Runs.
type Runner struct {
	launch browser.Launcher
	batch  BatchRunner
	sink   exporter.Sink
	policy retry.Policy
}

// New builds a Runner that makes at most cfg.MaxAttempts attempts,
// cfg.AttemptDelay apart.
func New(cfg config.RunConfig, launch browser.Launcher, batch BatchRunner, sink exporter.Sink) *Runner {
	return &Runner{
		launch: launch,
		batch:  batch,
		sink:   sink,
		policy: retry.Policy{MaxAttempts: cfg.MaxAttempts, Interval: cfg.AttemptDelay},
	}
}

// Run executes attempts until one succeeds, the budget is spent, or ctx is
// canceled. The sink is called at most once, only for a completed attempt.
func (r *Runner) Run(ctx context.Context) Outcome {
	start := time.Now()
	var out Outcome

	attempts, err := retry.Do(ctx, r.policy, func(ctx context.Context, attempt int) error {
		slog.Info("attempt started", "attempt", attempt, "maxAttempts", r.policy.MaxAttempts)

		records, err := r.attempt(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return retry.Permanent(err)
			}
			return err
		}
		out.Records = records
		return nil
	}, func(attempt int, err error, wait time.Duration) {
		slog.Error("attempt failed",
			"attempt", attempt,
			"code", models.CodeOf(err),
			"error", err,
			"retryIn", wait,
		)
	})

	out.Attempts = attempts
	out.Duration = time.Since(start)
	out.Success = err == nil
	if err != nil {
		out.Err = err
		out.Records = nil
		slog.Error("all attempts failed",
			"attempts", attempts,
			"code", models.CodeOf(err),
			"error", err,
			"duration", out.Duration.Round(time.Millisecond),
		)
		return out
	}

	slog.Info("run completed",
		"attempts", attempts,
		"addresses", len(out.Records),
		"duration", out.Duration.Round(time.Millisecond),
	)
	return out
}

// attempt runs one full pass with a fresh browser, closed before returning.
func (r *Runner) attempt(ctx context.Context) (records []models.ScrapeRecord, err error) {
	sess, err := r.launch(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			slog.Warn("browser close failed", "error", cerr)
		}
	}()

	records, err = r.batch.Run(ctx, sess.Page())
	if err != nil {
		return nil, err
	}

	if err := r.sink.Export(records); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeIO, fmt.Sprintf("failed to export %d records", len(records)), err)
	}
	return records, nil
}
