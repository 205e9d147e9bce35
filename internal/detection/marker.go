package detection

import (
	"sort"
	"strconv"

	"github.com/ironsheep/marker-drift/internal/imaging"
)

// CornerCount is the number of corners of every marker.
const CornerCount = 4

// Detection is one marker found in an image.
type Detection struct {
	// ID is the decoded marker identifier.
	ID int `json:"id"`

	// Corners are the marker corners in backend winding order.
	Corners [CornerCount]imaging.Point `json:"corners"`
}

// Set is the collection of markers found in one image.
type Set []Detection

// IDs returns the identifiers in set order, including duplicates.
func (s Set) IDs() []int {
	ids := make([]int, len(s))
	for i, d := range s {
		ids[i] = d.ID
	}
	return ids
}

// Index maps each identifier to its first detection in set order.
func (s Set) Index() map[int]Detection {
	index := make(map[int]Detection, len(s))
	for _, d := range s {
		if _, seen := index[d.ID]; !seen {
			index[d.ID] = d
		}
	}
	return index
}

// Duplicates returns the identifiers that occur more than once, sorted.
func (s Set) Duplicates() []int {
	counts := make(map[int]int, len(s))
	for _, d := range s {
		counts[d.ID]++
	}

	var dups []int
	for id, n := range counts {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Ints(dups)
	return dups
}

// SortedByID returns a copy of the set ordered by identifier. The sort is
// stable, so duplicates keep their relative order.
func (s Set) SortedByID() Set {
	sorted := make(Set, len(s))
	copy(sorted, s)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// Outlines converts the set into labelled quadrilaterals for imaging.Annotate.
func (s Set) Outlines() []imaging.Outline {
	outlines := make([]imaging.Outline, len(s))
	for i, d := range s {
		outlines[i] = imaging.Outline{Label: strconv.Itoa(d.ID), Corners: d.Corners}
	}
	return outlines
}
