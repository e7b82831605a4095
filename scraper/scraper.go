// Package scraper drives the availability widget for one address at a time
// and runs the sequential batch over an address list.
package scraper

import (
	"github.com/use-agent/addrcheck/classifier"
	"github.com/use-agent/addrcheck/config"
)

// Scraper checks a single address on a page it does not own. It keeps no
// per-address state, so one Scraper serves a whole batch.
type Scraper struct {
	cfg        config.ScraperConfig
	classifier *classifier.Classifier
	audit      *AuditLog
}

// New builds a Scraper. audit may be nil to skip writing page text.
func New(cfg config.ScraperConfig, cl *classifier.Classifier, audit *AuditLog) *Scraper {
	return &Scraper{
		cfg:        cfg,
		classifier: cl,
		audit:      audit,
	}
}
