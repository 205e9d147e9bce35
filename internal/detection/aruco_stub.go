//go:build !gocv
// +build !gocv

package detection

import (
	"errors"
	"image"
)

// ErrNoOpenCV is returned when the binary was built without OpenCV support.
var ErrNoOpenCV = errors.New("marker detection requires OpenCV: rebuild with -tags gocv")

// ArucoBackend is unavailable without the gocv build tag.
type ArucoBackend struct{}

// NewArucoBackend returns ErrNoOpenCV in builds without the gocv tag.
func NewArucoBackend(params Params) (*ArucoBackend, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return nil, ErrNoOpenCV
}

// DetectMarkers always fails in builds without the gocv tag.
func (b *ArucoBackend) DetectMarkers(gray *image.Gray) ([]Detection, error) {
	_ = gray
	return nil, ErrNoOpenCV
}

// Close does nothing.
func (b *ArucoBackend) Close() error {
	return nil
}
