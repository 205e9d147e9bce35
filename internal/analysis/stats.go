package analysis

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a pool of corner distances in pixels.
type Summary struct {
	Min    float64 `json:"min"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`

	// StdDev is the population standard deviation.
	StdDev float64 `json:"std_dev"`
}

// Summarize computes the summary of deltas. An empty input yields a zero
// Summary. The input slice is not modified.
//
// The median of an even number of values is the mean of the two middle
// values.
func Summarize(deltas []float64) Summary {
	if len(deltas) == 0 {
		return Summary{}
	}

	data := stats.Float64Data(deltas)

	// The stats functions only fail on empty input, which is handled above.
	minimum, _ := stats.Min(data)
	maximum, _ := stats.Max(data)
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)

	// Summing equal values can round the mean just outside [min, max].
	mean = math.Min(math.Max(mean, minimum), maximum)

	return Summary{
		Min:    minimum,
		Mean:   mean,
		Median: median,
		Max:    maximum,
		StdDev: stat.PopStdDev(deltas, nil),
	}
}
