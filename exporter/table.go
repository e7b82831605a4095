package exporter

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/use-agent/addrcheck/models"
)

// Table renders the result table for a terminal.
type Table struct {
	W io.Writer
}

func (t Table) Export(records []models.ScrapeRecord) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(t.W)
	tw.AppendHeader(table.Row{"#", "Address", "Label", "Outcome"})

	for i, r := range records {
		tw.AppendRow(table.Row{i + 1, r.Address, r.Label, r.Outcome})
	}
	tw.AppendFooter(table.Row{"", "Total", len(records), ""})

	tw.SetStyle(table.StyleRounded)
	tw.Render()
	return nil
}
