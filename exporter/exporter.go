// Package exporter writes the result table of a successful run.
package exporter

import (
	"errors"

	"github.com/use-agent/addrcheck/models"
)

// Sink receives the full, ordered result table exactly once per run.
type Sink interface {
	Export(records []models.ScrapeRecord) error
}

// Chain exports to every sink in order. All sinks run even if one fails;
// the errors are joined.
type Chain []Sink

func (c Chain) Export(records []models.ScrapeRecord) error {
	var errs []error
	for _, s := range c {
		if err := s.Export(records); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
