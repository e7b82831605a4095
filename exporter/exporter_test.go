package exporter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/addrcheck/models"
)

var sample = []models.ScrapeRecord{
	{Address: "1 Main St, Boston", Label: "serviceable", Outcome: models.OutcomeMatched},
	{Address: "2 Oak Ave", Outcome: models.OutcomeUnmatched},
	models.FailedRecord("3 \"Elm\" Rd", errors.New("boom")),
}

func TestCSV_Export(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "result.csv")

	require.NoError(t, CSV{Path: path}.Export(sample))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	want := [][]string{
		{"address", "label"},
		{"1 Main St, Boston", "serviceable"},
		{"2 Oak Ave", ""},
		{"3 \"Elm\" Rd", ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestCSV_ExportEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.csv")
	require.NoError(t, CSV{Path: path}.Export(nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	if string(data) != "address,label\n" {
		t.Errorf("file = %q, want header only", data)
	}
}

func TestCSV_ExportOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.csv")
	require.NoError(t, CSV{Path: path}.Export(sample))
	require.NoError(t, CSV{Path: path}.Export(sample[:1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	if n := strings.Count(string(data), "\n"); n != 2 {
		t.Errorf("file has %d lines, want 2", n)
	}
}

func TestTable_Export(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table{W: &buf}.Export(sample))

	out := buf.String()
	for _, s := range []string{"ADDRESS", "LABEL", "1 Main St, Boston", "serviceable", "unmatched", "failed"} {
		if !strings.Contains(out, s) {
			t.Errorf("table output missing %q:\n%s", s, out)
		}
	}
}

type sinkFunc func([]models.ScrapeRecord) error

func (f sinkFunc) Export(r []models.ScrapeRecord) error { return f(r) }

func TestChain_Export(t *testing.T) {
	errA := errors.New("a failed")
	var calls []string

	c := Chain{
		sinkFunc(func([]models.ScrapeRecord) error { calls = append(calls, "a"); return errA }),
		sinkFunc(func([]models.ScrapeRecord) error { calls = append(calls, "b"); return nil }),
	}

	err := c.Export(sample)
	if !errors.Is(err, errA) {
		t.Errorf("err = %v, want errA", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}
