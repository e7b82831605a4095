package models

// Outcome describes how a single address scrape ended.
type Outcome string

const (
	// OutcomeMatched means the heading matched a label rule.
	OutcomeMatched Outcome = "matched"

	// OutcomeUnmatched means the heading never matched any rule within the
	// polling budget. It is not an error.
	OutcomeUnmatched Outcome = "unmatched"

	// OutcomeFailed means the browser interaction raised an error.
	OutcomeFailed Outcome = "failed"
)

// ScrapeRecord is the per-address row of the result table.
// Label is empty when no rule matched or the address failed.
type ScrapeRecord struct {
	Address string  `json:"address"`
	Label   string  `json:"label,omitempty"`
	Outcome Outcome `json:"outcome"`

	// Heading is the last heading text read from the page, for logging.
	Heading string `json:"heading,omitempty"`

	// Err is set only when Outcome is OutcomeFailed.
	Err error `json:"-"`
}

// FailedRecord builds the empty-label record written for an address whose
// scrape raised an error.
func FailedRecord(address string, err error) ScrapeRecord {
	return ScrapeRecord{
		Address: address,
		Outcome: OutcomeFailed,
		Err:     err,
	}
}

// LabelRule maps a heading substring to a status label.
type LabelRule struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// DefaultLabelRules are the built-in rules, tried in order.
func DefaultLabelRules() []LabelRule {
	return []LabelRule{
		{Text: "Great news", Label: "serviceable"},
		{Text: "Your building can get Starry", Label: "petition"},
		{Text: "We’re on our way", Label: "waitlist"},
		{Text: "Enter your info below", Label: "noservice"},
	}
}
