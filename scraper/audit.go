package scraper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// separators would otherwise let an address name a file outside the
// audit directory.
var separators = strings.NewReplacer("/", "_", `\`, "_")

// AuditLog keeps one append-only text file per address holding the page
// text seen each time the address was checked.
type AuditLog struct {
	dir string
}

// NewAuditLog returns an AuditLog writing under dir. The directory is
// created on first write.
func NewAuditLog(dir string) *AuditLog {
	return &AuditLog{dir: dir}
}

// Path is the file the page text for address is appended to.
func (a *AuditLog) Path(address string) string {
	return filepath.Join(a.dir, separators.Replace(address)+".text")
}

// Append adds text, newline-terminated, to the address's file.
func (a *AuditLog) Append(address, text string) error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("create audit dir: %w", err)
	}
	f, err := os.OpenFile(a.Path(address), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
