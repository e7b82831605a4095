package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/use-agent/addrcheck/config"
	"github.com/use-agent/addrcheck/scraper"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <config.json>",
	Short: "Load and check a configuration without opening a browser",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errMissingConfig
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig(args[0])
		if err != nil {
			return err
		}

		addresses, err := scraper.ReadAddresses(cfg.Run.InputFile)
		addressCount := fmt.Sprint(len(addresses))
		if err != nil {
			addressCount = "unreadable: " + err.Error()
		}

		printSettings(cfg, addressCount)
		return nil
	},
}

func printSettings(cfg *config.Config, addressCount string) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Setting", "Value"})

	t.AppendRows([]table.Row{
		{"web_url", cfg.Scraper.URL},
		{"browser", valueOr(cfg.Browser.BrowserBin, "(auto)")},
		{"headless", cfg.Browser.Headless},
		{"stealth", cfg.Browser.Stealth},
		{"blocked_resources", valueOr(strings.Join(cfg.Browser.BlockedResourceTypes, ", "), "(none)")},
		{"input", cfg.Run.InputFile},
		{"addresses", addressCount},
		{"csv", cfg.Output.CSVPath},
		{"text_dir", cfg.Output.TextDir},
		{"attempts", cfg.Run.MaxAttempts},
		{"address_delay", cfg.Scraper.AddressDelay},
		{"error_delay", cfg.Scraper.ErrorDelay},
	})
	t.AppendSeparator()
	for _, r := range cfg.Labels {
		t.AppendRow(table.Row{"label " + r.Label, r.Text})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
