package detection

import (
	"reflect"
	"testing"

	"github.com/ironsheep/marker-drift/internal/imaging"
)

// square returns a unit-sized marker with its top-left corner at (x, y).
func square(id int, x, y float64) Detection {
	return Detection{
		ID: id,
		Corners: [CornerCount]imaging.Point{
			{X: x, Y: y},
			{X: x + 1, Y: y},
			{X: x + 1, Y: y + 1},
			{X: x, Y: y + 1},
		},
	}
}

func TestSet_IDs(t *testing.T) {
	set := Set{square(3, 0, 0), square(1, 5, 5), square(3, 9, 9)}
	if got, want := set.IDs(), []int{3, 1, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
}

func TestSet_Index_FirstMatchWins(t *testing.T) {
	first := square(7, 0, 0)
	second := square(7, 100, 100)
	set := Set{first, square(2, 5, 5), second}

	index := set.Index()
	if len(index) != 2 {
		t.Fatalf("Index() has %d entries, want 2", len(index))
	}
	if index[7] != first {
		t.Errorf("Index()[7] = %+v, want first occurrence %+v", index[7], first)
	}
}

func TestSet_Duplicates(t *testing.T) {
	tests := []struct {
		name string
		set  Set
		want []int
	}{
		{"empty", Set{}, nil},
		{"unique", Set{square(1, 0, 0), square(2, 0, 0)}, nil},
		{"one duplicate", Set{square(1, 0, 0), square(2, 0, 0), square(1, 3, 3)}, []int{1}},
		{"sorted output", Set{square(9, 0, 0), square(4, 0, 0), square(9, 1, 1), square(4, 1, 1)}, []int{4, 9}},
		{"triplicate", Set{square(5, 0, 0), square(5, 1, 1), square(5, 2, 2)}, []int{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set.Duplicates(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Duplicates() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSet_SortedByID(t *testing.T) {
	set := Set{square(3, 0, 0), square(1, 0, 0), square(2, 0, 0)}
	sorted := set.SortedByID()

	if got, want := sorted.IDs(), []int{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("SortedByID().IDs() = %v, want %v", got, want)
	}
	if got, want := set.IDs(), []int{3, 1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("SortedByID modified the receiver: %v", got)
	}
}

// A well-behaved detection set never carries duplicate identifiers; the
// fixtures used throughout the analysis tests must satisfy that contract.
func TestSet_ContractNoDuplicates(t *testing.T) {
	sets := []Set{
		{},
		{square(1, 0, 0)},
		{square(1, 0, 0), square(2, 10, 10), square(3, 20, 20)},
	}
	for _, s := range sets {
		if dups := s.Duplicates(); len(dups) != 0 {
			t.Errorf("set %v reports duplicates %v", s.IDs(), dups)
		}
	}
}

func TestSet_Outlines(t *testing.T) {
	set := Set{square(12, 0, 0), square(4, 10, 10)}

	outlines := set.Outlines()
	if len(outlines) != 2 {
		t.Fatalf("Outlines() returned %d entries, want 2", len(outlines))
	}
	if outlines[0].Label != "12" || outlines[1].Label != "4" {
		t.Errorf("Labels = %q, %q; want 12, 4", outlines[0].Label, outlines[1].Label)
	}
	if outlines[1].Corners != set[1].Corners {
		t.Errorf("Corners not carried over: %v", outlines[1].Corners)
	}
}
