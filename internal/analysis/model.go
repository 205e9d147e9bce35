package analysis

import "github.com/ironsheep/marker-drift/internal/detection"

// QualityLevels returns the tested compression qualities, 0.1 through 0.9.
func QualityLevels() []float64 {
	levels := make([]float64, 0, 9)
	for i := 1; i <= 9; i++ {
		levels = append(levels, float64(i)/10)
	}
	return levels
}

// QualityResult summarizes one quality level over all files.
type QualityResult struct {
	Quality float64 `json:"quality"`
	Summary

	// Missing counts reference markers not found in the compressed images.
	Missing int `json:"missing"`

	// Images is the number of files that contributed to this level.
	Images int `json:"images"`

	// Failures is the number of files skipped at this level because of
	// conversion or detection errors.
	Failures int `json:"failures"`

	// AvgFileSize is the mean size in bytes of the compressed images.
	AvgFileSize float64 `json:"avg_file_size"`

	// Deltas is the pooled list of corner distances the summary was computed from.
	Deltas []float64 `json:"-"`
}

// ScatterRecord describes the drift of one file at one quality level.
type ScatterRecord struct {
	Quality float64 `json:"quality"`
	Mean    float64 `json:"mean"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Image   string  `json:"image"`
}

// Report is everything a run produces.
type Report struct {
	Results []QualityResult `json:"results"`
	Scatter []ScatterRecord `json:"scatter"`
}

// ImageDetections is passed to Options.OnDetections for every processed image.
type ImageDetections struct {
	// Source is the RAW file the image was converted from.
	Source string

	// Reference is true for the lossless reference image.
	Reference bool

	// Quality is the compression quality; zero for the reference.
	Quality float64

	Set detection.Set
}
