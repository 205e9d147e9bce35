package detection

import (
	"fmt"
	"image"
	"sync"

	apperrors "github.com/ironsheep/marker-drift/internal/errors"
	"github.com/ironsheep/marker-drift/internal/imaging"
	"github.com/ironsheep/marker-drift/internal/logger"
	"github.com/sirupsen/logrus"
)

// Backend is a marker detector operating on an intensity image.
type Backend interface {
	// DetectMarkers returns every marker found in gray.
	DetectMarkers(gray *image.Gray) ([]Detection, error)

	// Close releases any native resources held by the backend.
	Close() error
}

// Detector loads image files and runs a Backend on them.
//
// A Detector is created once per run and shared by every detection call.
// Calls into the backend are serialized, since the thread safety of the
// native detector is not guaranteed.
type Detector struct {
	backend Backend
	params  Params

	mu sync.Mutex
}

// NewDetector creates a detector around backend with the given parameters.
func NewDetector(backend Backend, params Params) (*Detector, error) {
	if backend == nil {
		return nil, fmt.Errorf("detection backend is nil")
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detector parameters: %w", err)
	}
	return &Detector{backend: backend, params: params}, nil
}

// Params returns the configuration the detector was built with.
func (d *Detector) Params() Params {
	return d.params
}

// Detect finds markers in the image file at path.
//
// Load and decode failures are returned as detection errors; they concern
// this one image only.
func (d *Detector) Detect(path string) (Set, error) {
	img, err := imaging.Load(path)
	if err != nil {
		return nil, apperrors.NewDetectionError(path, "failed to load image", err)
	}

	return d.DetectImage(path, img)
}

// DetectImage runs detection on an already decoded image. label identifies
// the image in errors and logs.
func (d *Detector) DetectImage(label string, img image.Image) (Set, error) {
	gray := imaging.Sharpen(imaging.ToGray(img), d.params.Sharpening)

	d.mu.Lock()
	found, err := d.backend.DetectMarkers(gray)
	d.mu.Unlock()
	if err != nil {
		return nil, apperrors.NewDetectionError(label, "marker detection failed", err)
	}

	set := Set(found)
	if dups := set.Duplicates(); len(dups) > 0 {
		logger.WithFields(logrus.Fields{
			"file":       label,
			"duplicates": dups,
		}).Warn("detector reported duplicate marker identifiers, first occurrence wins")
	}

	logger.WithFields(logrus.Fields{
		"file":    label,
		"markers": len(set),
	}).Debug("markers detected")

	return set, nil
}

// Close releases the backend.
func (d *Detector) Close() error {
	return d.backend.Close()
}
