package report

import (
	"fmt"
	"io"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/ironsheep/marker-drift/internal/analysis"
)

const (
	histogramBins  = 10
	histogramWidth = 40
)

// WriteHistograms prints the distribution of pooled corner distances for
// every quality level.
func WriteHistograms(w io.Writer, results []analysis.QualityResult) error {
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "\nquality %.2f (%d deltas)\n", r.Quality, len(r.Deltas)); err != nil {
			return err
		}

		switch {
		case len(r.Deltas) == 0:
			if _, err := fmt.Fprintln(w, "  no matched markers"); err != nil {
				return err
			}
		case r.Min == r.Max:
			// A single distinct value leaves the histogram with no range to bin.
			if _, err := fmt.Fprintf(w, "  all %d deltas equal %.5f px\n", len(r.Deltas), r.Min); err != nil {
				return err
			}
		default:
			hist := histogram.Hist(histogramBins, r.Deltas)
			if err := histogram.Fprint(w, hist, histogram.Linear(histogramWidth)); err != nil {
				return err
			}
		}
	}
	return nil
}
