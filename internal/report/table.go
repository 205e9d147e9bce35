package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ironsheep/marker-drift/internal/analysis"
	apperrors "github.com/ironsheep/marker-drift/internal/errors"
)

// TimestampFormat names output files after the run's start time.
const TimestampFormat = "20060102_150405"

const (
	tableHeader = "%7s  %10s  %10s  %10s  %10s  %10s  %7s  %6s  %8s\n"
	tableRow    = "%7.2f  %10.5f  %10.5f  %10.5f  %10.5f  %10.5f  %7d  %6d  %8.1f\n"
)

// WriteTable writes one row per quality level: quality (2 decimals),
// min/mean/median/max/stddev of the corner distances (5 decimals), missing
// markers, contributing images and average JPEG size in KiB.
func WriteTable(w io.Writer, results []analysis.QualityResult) error {
	if _, err := fmt.Fprintf(w, tableHeader,
		"quality", "min", "mean", "median", "max", "stddev", "missing", "images", "avg_kib"); err != nil {
		return err
	}

	for _, r := range results {
		if _, err := fmt.Fprintf(w, tableRow,
			r.Quality, r.Min, r.Mean, r.Median, r.Max, r.StdDev,
			r.Missing, r.Images, r.AvgFileSize/1024); err != nil {
			return err
		}
	}

	if failures := totalFailures(results); failures > 0 {
		if _, err := fmt.Fprintf(w, "\n%d file/quality pairs skipped because of errors\n", failures); err != nil {
			return err
		}
	}
	return nil
}

// SaveTable writes the table to dir/summary_<timestamp>.txt and returns the path.
func SaveTable(dir string, now time.Time, results []analysis.QualityResult) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperrors.NewReportError(dir, "failed to create output directory", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("summary_%s.txt", now.Format(TimestampFormat)))
	f, err := os.Create(path)
	if err != nil {
		return "", apperrors.NewReportError(path, "failed to create summary file", err)
	}

	if err := WriteTable(f, results); err != nil {
		f.Close()
		return "", apperrors.NewReportError(path, "failed to write summary", err)
	}
	if err := f.Close(); err != nil {
		return "", apperrors.NewReportError(path, "failed to close summary", err)
	}
	return path, nil
}

func totalFailures(results []analysis.QualityResult) int {
	total := 0
	for _, r := range results {
		total += r.Failures
	}
	return total
}
