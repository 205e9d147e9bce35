//go:build gocv
// +build gocv

package detection

import (
	"fmt"
	"image"

	"github.com/ironsheep/marker-drift/internal/imaging"
	"gocv.io/x/gocv"
)

// OpenCV cv::aruco::CornerRefineMethod values.
const (
	cornerRefineNone     = 0
	cornerRefineAprilTag = 3
)

// ArucoBackend detects AprilTag 36h11 markers with OpenCV's ArUco module.
type ArucoBackend struct {
	detector gocv.ArucoDetector
}

// NewArucoBackend builds the native detector once from params.
func NewArucoBackend(params Params) (*ArucoBackend, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	gocv.SetNumThreads(params.Threads)

	dictionary := gocv.GetPredefinedDictionary(gocv.ArucoDictAprilTag_36h11)

	arucoParams := gocv.NewArucoDetectorParameters()
	arucoParams.SetAprilTagQuadDecimate(float32(params.Decimate))
	arucoParams.SetAprilTagQuadSigma(float32(params.BlurSigma))
	if params.RefineEdges {
		arucoParams.SetCornerRefinementMethod(cornerRefineAprilTag)
	} else {
		arucoParams.SetCornerRefinementMethod(cornerRefineNone)
	}

	return &ArucoBackend{
		detector: gocv.NewArucoDetectorWithParams(dictionary, arucoParams),
	}, nil
}

// DetectMarkers runs the ArUco detector on a grayscale image.
func (b *ArucoBackend) DetectMarkers(gray *image.Gray) ([]Detection, error) {
	mat, err := gocv.ImageGrayToMatGray(gray)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image to Mat: %w", err)
	}
	defer mat.Close()

	corners, ids, _ := b.detector.DetectMarkers(mat)
	if len(corners) != len(ids) {
		return nil, fmt.Errorf("detector returned %d corner sets for %d ids", len(corners), len(ids))
	}

	detections := make([]Detection, 0, len(ids))
	for i, id := range ids {
		if len(corners[i]) != CornerCount {
			return nil, fmt.Errorf("marker %d has %d corners, want %d", id, len(corners[i]), CornerCount)
		}

		d := Detection{ID: id}
		for c, p := range corners[i] {
			d.Corners[c] = imaging.Point{X: float64(p.X), Y: float64(p.Y)}
		}
		detections = append(detections, d)
	}

	return detections, nil
}

// Close releases the native detector.
func (b *ArucoBackend) Close() error {
	return b.detector.Close()
}
