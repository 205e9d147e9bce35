package analysis

import (
	"github.com/ironsheep/marker-drift/internal/detection"
	"github.com/ironsheep/marker-drift/internal/imaging"
)

// ComputeDeltas pairs the markers of a reference and a comparison set by
// identifier and returns the corner distances of every matched marker,
// in reference order, together with the number of reference markers that
// have no counterpart in the comparison set.
//
// When the comparison set holds an identifier more than once, the first
// occurrence is used.
func ComputeDeltas(reference, comparison detection.Set) ([]float64, int) {
	index := comparison.Index()

	deltas := make([]float64, 0, len(reference)*detection.CornerCount)
	missing := 0

	for _, ref := range reference {
		cmp, ok := index[ref.ID]
		if !ok {
			missing++
			continue
		}
		for i := 0; i < detection.CornerCount; i++ {
			deltas = append(deltas, imaging.Distance(ref.Corners[i], cmp.Corners[i]))
		}
	}

	return deltas, missing
}
