package config

import (
	"time"

	"github.com/use-agent/addrcheck/models"
)

// Config holds all application configuration. It is built once by Load and
// treated as read-only afterwards.
type Config struct {
	Browser BrowserConfig
	Scraper ScraperConfig
	Run     RunConfig
	Output  OutputConfig
	Log     LogConfig

	// Labels is the ordered rule list used to classify headings.
	// default: models.DefaultLabelRules()
	Labels []models.LabelRule
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	// Set from headless_mode == "Y"; default: false.
	Headless bool

	// BrowserBin overrides the Chromium binary path. Empty lets the
	// launcher find (or fetch) a browser.
	BrowserBin string

	// Stealth injects navigator.webdriver masking into every page.
	Stealth bool // default: false

	// BlockedResourceTypes lists resource types to block, e.g. "Image".
	BlockedResourceTypes []string // default: none
}

// Selectors are the CSS selectors of the provider's availability widget.
type Selectors struct {
	AddressInput string // default: "#check-availability-input"
	ResultItem   string // default: ".results > li"
	Heading      string // default: "h3"
}

// ScraperConfig controls the per-address interaction.
type ScraperConfig struct {
	// URL is the page hosting the availability search. Required.
	URL string

	Selectors Selectors

	// NavigationTimeout bounds loading the check page.
	NavigationTimeout time.Duration // default: 60s

	// ElementTimeout bounds each wait for the input, result list and heading.
	ElementTimeout time.Duration // default: 10s

	// SettleDelay is the pause after typing the address.
	SettleDelay time.Duration // default: 1s

	// HeadingPollAttempts and HeadingPollInterval bound how long the heading
	// is re-read while waiting for a recognisable status.
	HeadingPollAttempts int           // default: 100
	HeadingPollInterval time.Duration // default: 1s

	// AddressDelay is the pause after a successful address.
	AddressDelay time.Duration // default: 5s

	// ErrorDelay is the pause after a failed address.
	ErrorDelay time.Duration // default: 10s
}

// RunConfig controls the attempt loop.
type RunConfig struct {
	// InputFile is the line-delimited address list. Required.
	InputFile string

	// MaxAttempts is the attempt budget.
	MaxAttempts int // default: 3

	// AttemptDelay is the pause between failed attempts.
	AttemptDelay time.Duration // default: 10s
}

// OutputConfig controls where results are written.
type OutputConfig struct {
	// CSVPath is the result table path. Required.
	CSVPath string

	// TextDir receives one page-text file per address. Required.
	TextDir string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// KnownResourceTypes are the values accepted in BlockedResourceTypes.
var KnownResourceTypes = []string{"Image", "Stylesheet", "Font", "Media", "Script"}
