package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/titanous/json5"

	"github.com/use-agent/addrcheck/models"
)

// fileConfig is the on-disk shape of the configuration file.
type fileConfig struct {
	ChromedriverPath      string `json:"chromedriver_path"`
	BrowserPath           string `json:"browser_path"`
	WebURL                string `json:"web_url"`
	InputAddressTextFile  string `json:"input_address_text_file"`
	OutputCSVFileLocation string `json:"output_csv_file_location"`
	OutputTextFilePath    string `json:"output_text_file_path"`
	HeadlessMode          string `json:"headless_mode"`
	Stealth               string `json:"stealth"`

	BlockedResources []string           `json:"blocked_resources"`
	LabelMapping     *[]models.LabelRule `json:"label_mapping"`
	Selectors        fileSelectors      `json:"selectors"`

	RetryCountWhenFailed         *flexInt `json:"retry_count_when_failed"`
	SecondsToWaitBetweenScrape   *flexInt `json:"seconds_to_wait_between_scrape"`
	SecondsToWaitAfterError      *flexInt `json:"seconds_to_wait_after_error"`
	SecondsToWaitBetweenAttempts *flexInt `json:"seconds_to_wait_between_attempts"`
	NavigationTimeoutSeconds     *flexInt `json:"navigation_timeout_seconds"`
	ElementTimeoutSeconds        *flexInt `json:"element_timeout_seconds"`
	SettleDelayMs                *flexInt `json:"settle_delay_ms"`
	HeadingPollAttempts          *flexInt `json:"heading_poll_attempts"`
	HeadingPollIntervalMs        *flexInt `json:"heading_poll_interval_ms"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
}

type fileSelectors struct {
	AddressInput string `json:"address_input"`
	ResultItem   string `json:"result_item"`
	Heading      string `json:"heading"`
}

// flexInt accepts both 5 and "5", matching configs written for tools that
// coerced values with int(...).
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"'`)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("expected an integer, got %s", b)
	}
	*f = flexInt(n)
	return nil
}

// Load reads the configuration file at path, merges the optional
// <name>.local.<ext> override next to it, applies ADDRCHECK_* environment
// overrides and defaults, and validates the result.
//
// A missing or malformed file is an error; no partial config is returned.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: configuration path is empty", ErrInvalid)
	}

	fc, err := readFile(path)
	if err != nil {
		return nil, err
	}

	localPath := localOverridePath(path)
	local, err := readFile(localPath)
	switch {
	case err == nil:
		if err := mergo.Merge(&fc, local, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge %s: %w", localPath, err)
		}
		slog.Info("merging config with local overrides", "local", localPath)
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	cfg := fc.toConfig()
	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config: %w", err)
	}
	if err := json5.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

// localOverridePath turns "dir/config.json" into "dir/config.local.json".
func localOverridePath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

func (fc fileConfig) toConfig() *Config {
	bin := fc.BrowserPath
	if bin == "" {
		bin = fc.ChromedriverPath
	}

	// An absent label_mapping means the built-in rules; an explicit empty
	// list is kept and rejected by validate.
	labels := models.DefaultLabelRules()
	if fc.LabelMapping != nil {
		labels = *fc.LabelMapping
	}

	return &Config{
		Browser: BrowserConfig{
			Headless:             yes(fc.HeadlessMode),
			BrowserBin:           bin,
			Stealth:              yes(fc.Stealth),
			BlockedResourceTypes: fc.BlockedResources,
		},
		Scraper: ScraperConfig{
			URL: strings.TrimSpace(fc.WebURL),
			Selectors: Selectors{
				AddressInput: strOr(fc.Selectors.AddressInput, "#check-availability-input"),
				ResultItem:   strOr(fc.Selectors.ResultItem, ".results > li"),
				Heading:      strOr(fc.Selectors.Heading, "h3"),
			},
			NavigationTimeout:   intOr(fc.NavigationTimeoutSeconds, 60, time.Second),
			ElementTimeout:      intOr(fc.ElementTimeoutSeconds, 10, time.Second),
			SettleDelay:         intOr(fc.SettleDelayMs, 1000, time.Millisecond),
			HeadingPollAttempts: countOr(fc.HeadingPollAttempts, 100),
			HeadingPollInterval: intOr(fc.HeadingPollIntervalMs, 1000, time.Millisecond),
			AddressDelay:        intOr(fc.SecondsToWaitBetweenScrape, 5, time.Second),
			ErrorDelay:          intOr(fc.SecondsToWaitAfterError, 10, time.Second),
		},
		Run: RunConfig{
			InputFile:    fc.InputAddressTextFile,
			MaxAttempts:  countOr(fc.RetryCountWhenFailed, 3),
			AttemptDelay: intOr(fc.SecondsToWaitBetweenAttempts, 10, time.Second),
		},
		Output: OutputConfig{
			CSVPath: fc.OutputCSVFileLocation,
			TextDir: fc.OutputTextFilePath,
		},
		Log: LogConfig{
			Level:  strOr(strings.ToLower(fc.LogLevel), "info"),
			Format: strOr(strings.ToLower(fc.LogFormat), "text"),
		},
		Labels: labels,
	}
}

// applyEnv layers ADDRCHECK_* environment variables over the file values.
func applyEnv(cfg *Config) {
	cfg.Browser.Headless = envBoolOr("ADDRCHECK_HEADLESS", cfg.Browser.Headless)
	cfg.Browser.BrowserBin = envOr("ADDRCHECK_BROWSER_BIN", cfg.Browser.BrowserBin)
	cfg.Scraper.URL = envOr("ADDRCHECK_WEB_URL", cfg.Scraper.URL)
	cfg.Run.MaxAttempts = envIntOr("ADDRCHECK_RETRY_COUNT", cfg.Run.MaxAttempts)
	cfg.Log.Level = strings.ToLower(envOr("ADDRCHECK_LOG_LEVEL", cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(envOr("ADDRCHECK_LOG_FORMAT", cfg.Log.Format))
}

// yes reports whether a Y/N option is switched on.
func yes(v string) bool {
	return strings.TrimSpace(v) == "Y"
}

func strOr(v, fallback string) string {
	if strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func countOr(v *flexInt, fallback int) int {
	if v == nil {
		return fallback
	}
	return int(*v)
}

func intOr(v *flexInt, fallback int, unit time.Duration) time.Duration {
	return time.Duration(countOr(v, fallback)) * unit
}
