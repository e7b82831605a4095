package scraper

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/use-agent/addrcheck/browser"
	"github.com/use-agent/addrcheck/models"
)

// Batch scrapes every address in an input file, in order, on one page.
type Batch struct {
	scraper   *Scraper
	inputFile string

	// sleep pauses between addresses.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewBatch returns a Batch reading addresses from inputFile. The file is
// re-read on every Run so a retried attempt sees its current contents.
func NewBatch(s *Scraper, inputFile string) *Batch {
	return &Batch{scraper: s, inputFile: inputFile, sleep: sleep}
}

// Run returns one record per address, in file order. A failing address is
// recorded with OutcomeFailed and an empty label, and the batch continues.
//
// Run itself fails only when the address file cannot be read or ctx is
// canceled; either ends the current attempt.
func (b *Batch) Run(ctx context.Context, page browser.Page) ([]models.ScrapeRecord, error) {
	addresses, err := ReadAddresses(b.inputFile)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeIO, "failed to read address list", err)
	}
	total := len(addresses)
	slog.Info("address list loaded", "file", b.inputFile, "total", total)

	cfg := b.scraper.cfg
	records := make([]models.ScrapeRecord, 0, total)
	for i, address := range addresses {
		if err := ctx.Err(); err != nil {
			return records, models.NewScrapeError(models.ErrCodeCanceled, "batch canceled", err)
		}

		start := time.Now()
		slog.Info("checking address", "index", i+1, "total", total, "address", address)

		rec, err := b.scraper.ScrapeAddress(ctx, page, address)
		delay := cfg.AddressDelay
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return records, models.NewScrapeError(models.ErrCodeCanceled, "batch canceled", cerr)
			}
			slog.Error("address check failed",
				"index", i+1,
				"total", total,
				"address", address,
				"code", models.CodeOf(err),
				"error", err,
			)
			rec = models.FailedRecord(address, err)
			delay = cfg.ErrorDelay
		} else {
			slog.Info("address checked",
				"index", i+1,
				"total", total,
				"address", address,
				"label", rec.Label,
				"outcome", rec.Outcome,
				"elapsed", time.Since(start).Round(time.Millisecond),
			)
		}
		records = append(records, rec)

		if i == total-1 {
			break
		}
		if err := b.sleep(ctx, delay); err != nil {
			return records, models.NewScrapeError(models.ErrCodeCanceled, "batch canceled", err)
		}
	}
	return records, nil
}

// ReadAddresses returns the trimmed, non-empty lines of path in order.
func ReadAddresses(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var addresses []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			addresses = append(addresses, line)
		}
	}
	return addresses, nil
}
