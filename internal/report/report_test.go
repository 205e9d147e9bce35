package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ironsheep/marker-drift/internal/analysis"
	apperrors "github.com/ironsheep/marker-drift/internal/errors"
)

var runStart = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func sampleResults() []analysis.QualityResult {
	return []analysis.QualityResult{
		{
			Quality: 0.1,
			Summary: analysis.Summary{Min: 0.5, Mean: 1.25, Median: 1, Max: 2.5, StdDev: 0.75},
			Missing: 3, Images: 2, AvgFileSize: 2048,
			Deltas: []float64{0.5, 1, 1, 2.5},
		},
		{
			Quality: 0.9,
			Images:  2, AvgFileSize: 10240,
			Deltas: []float64{0.125, 0.125},
			Summary: analysis.Summary{Min: 0.125, Mean: 0.125, Median: 0.125, Max: 0.125},
		},
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, sampleResults()); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}

	for _, col := range []string{"quality", "min", "mean", "median", "max", "missing"} {
		if !strings.Contains(lines[0], col) {
			t.Errorf("Header missing column %q: %s", col, lines[0])
		}
	}

	first := strings.Fields(lines[1])
	want := []string{"0.10", "0.50000", "1.25000", "1.00000", "2.50000", "0.75000", "3", "2", "2.0"}
	if strings.Join(first, " ") != strings.Join(want, " ") {
		t.Errorf("First row = %v, want %v", first, want)
	}

	if !strings.HasPrefix(strings.TrimSpace(lines[2]), "0.90") {
		t.Errorf("Second row should start with 0.90: %s", lines[2])
	}
}

func TestWriteTable_ReportsFailures(t *testing.T) {
	results := sampleResults()
	results[1].Failures = 2

	var buf bytes.Buffer
	if err := WriteTable(&buf, results); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	if !strings.Contains(buf.String(), "2 file/quality pairs skipped") {
		t.Errorf("Expected failure note, got:\n%s", buf.String())
	}
}

func TestSaveTable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")

	path, err := SaveTable(dir, runStart, sampleResults())
	if err != nil {
		t.Fatalf("SaveTable failed: %v", err)
	}

	if filepath.Base(path) != "summary_20240309_140507.txt" {
		t.Errorf("Unexpected file name %s", filepath.Base(path))
	}

	saved, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved table: %v", err)
	}
	var printed bytes.Buffer
	WriteTable(&printed, sampleResults())
	if string(saved) != printed.String() {
		t.Errorf("Saved table differs from printed table:\n%s\nvs\n%s", saved, printed.String())
	}
}

func TestSaveTable_BadDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := SaveTable(filepath.Join(blocker, "results"), runStart, sampleResults())
	if err == nil {
		t.Fatal("Expected error when output directory cannot be created")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeReport) {
		t.Errorf("Expected report error, got %v", err)
	}
}

func TestWriteHistograms(t *testing.T) {
	results := append(sampleResults(), analysis.QualityResult{Quality: 0.5})

	var buf bytes.Buffer
	if err := WriteHistograms(&buf, results); err != nil {
		t.Fatalf("WriteHistograms failed: %v", err)
	}
	out := buf.String()

	tests := []string{
		"quality 0.10 (4 deltas)",
		"quality 0.90 (2 deltas)",
		"all 2 deltas equal 0.12500 px",
		"quality 0.50 (0 deltas)",
		"no matched markers",
	}
	for _, want := range tests {
		if !strings.Contains(out, want) {
			t.Errorf("Histogram output missing %q:\n%s", want, out)
		}
	}
}

func TestSavePlot(t *testing.T) {
	dir := t.TempDir()
	records := []analysis.ScatterRecord{
		{Quality: 0.1, Mean: 1.5, Min: 0.5, Max: 3, Image: "b.arw"},
		{Quality: 0.1, Mean: 0.8, Min: 0.2, Max: 1.1, Image: "a.arw"},
		{Quality: 0.9, Mean: 0.1, Min: 0, Max: 0.2, Image: "a.arw"},
	}

	path, err := SavePlot(dir, runStart, records)
	if err != nil {
		t.Fatalf("SavePlot failed: %v", err)
	}
	if filepath.Base(path) != "scatter_20240309_140507.html" {
		t.Errorf("Unexpected file name %s", filepath.Base(path))
	}

	page, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read plot: %v", err)
	}
	for _, want := range []string{"<svg", "a.arw", "b.arw", "1.50000"} {
		if !strings.Contains(string(page), want) {
			t.Errorf("Plot page missing %q", want)
		}
	}
}

func TestSavePlot_NoRecords(t *testing.T) {
	dir := t.TempDir()

	path, err := SavePlot(dir, runStart, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if path != "" {
		t.Errorf("Expected empty path, got %s", path)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected no files written, found %d", len(entries))
	}
}

func TestSavePlot_ZeroDrift(t *testing.T) {
	records := []analysis.ScatterRecord{{Quality: 0.9, Image: "flat.arw"}}

	if _, err := SavePlot(t.TempDir(), runStart, records); err != nil {
		t.Fatalf("SavePlot with zero drift failed: %v", err)
	}
}

func TestImagePalette(t *testing.T) {
	records := []analysis.ScatterRecord{
		{Image: "c.arw"}, {Image: "a.arw"}, {Image: "c.arw"}, {Image: "b.arw"},
	}

	palette := imagePalette(records)
	if len(palette) != 3 {
		t.Fatalf("Expected 3 colours, got %d", len(palette))
	}
	if palette["a.arw"].Hex() == palette["b.arw"].Hex() || palette["b.arw"].Hex() == palette["c.arw"].Hex() {
		t.Error("Expected distinct colours per image")
	}

	again := imagePalette([]analysis.ScatterRecord{{Image: "b.arw"}, {Image: "a.arw"}, {Image: "c.arw"}})
	for name, c := range palette {
		if again[name].Hex() != c.Hex() {
			t.Errorf("Colour for %s depends on record order", name)
		}
	}
}
