package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/use-agent/addrcheck/models"
)

// CSV writes the result table to Path with the header address,label,
// replacing any previous file.
type CSV struct {
	Path string
}

func (c CSV) Export(records []models.ScrapeRecord) error {
	if dir := filepath.Dir(c.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(c.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", c.Path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"address", "label"}); err != nil {
		f.Close()
		return err
	}
	for _, r := range records {
		if err := w.Write([]string{r.Address, r.Label}); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", c.Path, err)
	}
	return f.Close()
}
