package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/use-agent/addrcheck/browser"
	"github.com/use-agent/addrcheck/classifier"
	"github.com/use-agent/addrcheck/config"
	"github.com/use-agent/addrcheck/exporter"
	"github.com/use-agent/addrcheck/runner"
	"github.com/use-agent/addrcheck/scraper"
)

var errMissingConfig = errors.New("input configuration is missing")

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "addrcheck <config.json>",
	Short: "Check service availability for a list of addresses",
	Long: "addrcheck types each address from an input list into a provider's availability " +
		"page, classifies the status message it shows, and writes an address,label table.",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errMissingConfig
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(flagLogConfig(config.LogConfig{Level: "info", Format: "text"}))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return run(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log_level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override log_format (text, json)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run wires the pipeline from cfg and executes it once. It returns an error
// when every attempt failed.
func run(ctx context.Context, path string) error {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	slog.Info("addrcheck starting",
		"url", cfg.Scraper.URL,
		"input", cfg.Run.InputFile,
		"output", cfg.Output.CSVPath,
		"headless", cfg.Browser.Headless,
		"maxAttempts", cfg.Run.MaxAttempts,
	)

	// ── 2. Build the scraper ────────────────────────────────────────
	cl := classifier.New(cfg.Labels)
	sc := scraper.New(cfg.Scraper, cl, scraper.NewAuditLog(cfg.Output.TextDir))
	batch := scraper.NewBatch(sc, cfg.Run.InputFile)

	// ── 3. Export to the CSV file, then echo the table ──────────────
	sink := exporter.Chain{
		exporter.CSV{Path: cfg.Output.CSVPath},
		exporter.Table{W: os.Stdout},
	}

	// ── 4. Run the attempt loop ─────────────────────────────────────
	out := runner.New(cfg.Run, browser.NewLauncher(cfg.Browser), batch, sink).Run(ctx)
	if !out.Success {
		return fmt.Errorf("run failed after %d attempts: %w", out.Attempts, out.Err)
	}

	logSummary(out.Records)
	slog.Info("addrcheck finished", "duration", out.Duration.Round(time.Millisecond), "csv", cfg.Output.CSVPath)
	return nil
}

// loadConfig loads path and applies the command-line logging overrides.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.Log = flagLogConfig(cfg.Log)
	initLogger(cfg.Log)
	return cfg, nil
}

func flagLogConfig(base config.LogConfig) config.LogConfig {
	if logLevel != "" {
		base.Level = logLevel
	}
	if logFormat != "" {
		base.Format = logFormat
	}
	return base
}
