package main

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/use-agent/addrcheck/models"
)

// labelCounts tallies records by label. Records without a label are
// counted under their outcome instead.
func labelCounts(records []models.ScrapeRecord) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		key := r.Label
		if key == "" {
			key = "(" + string(r.Outcome) + ")"
		}
		counts[key]++
	}
	return counts
}

func logSummary(records []models.ScrapeRecord) {
	counts := labelCounts(records)
	for _, label := range slices.Sorted(maps.Keys(counts)) {
		slog.Info("label summary", "label", label, "count", counts[label])
	}
}
