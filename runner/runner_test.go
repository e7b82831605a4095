package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/use-agent/addrcheck/browser"
	"github.com/use-agent/addrcheck/config"
	"github.com/use-agent/addrcheck/models"
)

type stubSession struct {
	closed *int
}

func (s stubSession) Page() browser.Page { return nil }
func (s stubSession) Close() error {
	*s.closed++
	return nil
}

// harness counts every interaction with the collaborators of a Runner.
type harness struct {
	launches int
	closes   int
	batches  int
	exports  [][]models.ScrapeRecord

	launchErr func(n int) error
	batchErr  func(n int) error
	exportErr error
	onBatch   func()
}

func (h *harness) launcher() browser.Launcher {
	return func(ctx context.Context) (browser.Session, error) {
		h.launches++
		if h.launchErr != nil {
			if err := h.launchErr(h.launches); err != nil {
				return nil, err
			}
		}
		return stubSession{closed: &h.closes}, nil
	}
}

type batchFunc func(ctx context.Context, page browser.Page) ([]models.ScrapeRecord, error)

func (f batchFunc) Run(ctx context.Context, page browser.Page) ([]models.ScrapeRecord, error) {
	return f(ctx, page)
}

func (h *harness) batch() BatchRunner {
	return batchFunc(func(ctx context.Context, _ browser.Page) ([]models.ScrapeRecord, error) {
		h.batches++
		if h.onBatch != nil {
			h.onBatch()
		}
		if h.batchErr != nil {
			if err := h.batchErr(h.batches); err != nil {
				return nil, err
			}
		}
		return []models.ScrapeRecord{
			{Address: "addr1", Label: "serviceable", Outcome: models.OutcomeMatched},
			{Address: "addr2", Label: "noservice", Outcome: models.OutcomeMatched},
		}, nil
	})
}

type sinkFunc func([]models.ScrapeRecord) error

func (f sinkFunc) Export(r []models.ScrapeRecord) error { return f(r) }

func (h *harness) sink() sinkFunc {
	return func(r []models.ScrapeRecord) error {
		h.exports = append(h.exports, r)
		return h.exportErr
	}
}

func (h *harness) runner(maxAttempts int) *Runner {
	cfg := config.RunConfig{MaxAttempts: maxAttempts, AttemptDelay: time.Millisecond}
	return New(cfg, h.launcher(), h.batch(), h.sink())
}

var errBatch = errors.New("batch blew up")

func TestRun_AllAttemptsFail(t *testing.T) {
	h := &harness{batchErr: func(int) error { return errBatch }}

	out := h.runner(3).Run(context.Background())

	if out.Success {
		t.Fatal("Success = true, want false")
	}
	if out.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", out.Attempts)
	}
	if len(h.exports) != 0 {
		t.Errorf("exported %d times, want 0", len(h.exports))
	}
	if !errors.Is(out.Err, errBatch) {
		t.Errorf("Err = %v, want errBatch", out.Err)
	}
	if out.Records != nil {
		t.Errorf("Records = %v, want nil", out.Records)
	}
	if h.launches != 3 || h.closes != 3 {
		t.Errorf("launches = %d, closes = %d, want 3 each", h.launches, h.closes)
	}
}

func TestRun_SucceedsAfterRetry(t *testing.T) {
	h := &harness{batchErr: func(n int) error {
		if n < 2 {
			return errBatch
		}
		return nil
	}}

	out := h.runner(3).Run(context.Background())

	if !out.Success {
		t.Fatalf("Success = false, err = %v", out.Err)
	}
	if out.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", out.Attempts)
	}
	if len(h.exports) != 1 {
		t.Fatalf("exported %d times, want exactly 1", len(h.exports))
	}
	if diff := cmp.Diff(h.exports[0], out.Records); diff != "" {
		t.Errorf("Records differ from export (-export +records):\n%s", diff)
	}
	if h.launches != h.closes {
		t.Errorf("launches = %d, closes = %d", h.launches, h.closes)
	}
}

func TestRun_LaunchFailureRetried(t *testing.T) {
	errLaunch := models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to launch browser", nil)
	h := &harness{launchErr: func(n int) error {
		if n == 1 {
			return errLaunch
		}
		return nil
	}}

	out := h.runner(2).Run(context.Background())

	if !out.Success || out.Attempts != 2 {
		t.Errorf("Success = %v, Attempts = %d, want true, 2", out.Success, out.Attempts)
	}
	if h.batches != 1 {
		t.Errorf("batches = %d, want 1", h.batches)
	}
	if h.closes != 1 {
		t.Errorf("closes = %d, want 1 (no session on failed launch)", h.closes)
	}
}

func TestRun_ExportFailureRetriesAttempt(t *testing.T) {
	h := &harness{exportErr: errors.New("disk full")}

	out := h.runner(2).Run(context.Background())

	if out.Success {
		t.Fatal("Success = true, want false")
	}
	if out.Attempts != 2 || h.batches != 2 {
		t.Errorf("Attempts = %d, batches = %d, want 2 each", out.Attempts, h.batches)
	}
	if got := models.CodeOf(out.Err); got != models.ErrCodeIO {
		t.Errorf("CodeOf(Err) = %q, want %q", got, models.ErrCodeIO)
	}
}

func TestRun_CanceledStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := &harness{}
	h.onBatch = cancel
	h.batchErr = func(int) error {
		return models.NewScrapeError(models.ErrCodeCanceled, "batch canceled", ctx.Err())
	}

	out := h.runner(5).Run(ctx)

	if out.Success {
		t.Fatal("Success = true, want false")
	}
	if out.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", out.Attempts)
	}
	if !errors.Is(out.Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", out.Err)
	}
	if len(h.exports) != 0 {
		t.Errorf("exported %d times after cancel", len(h.exports))
	}
}
