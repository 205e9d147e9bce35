// Package detection finds fiducial markers in image files and reports their
// corner geometry.
//
// The package has two layers:
//
//   - Backend: the marker detector proper. ArucoBackend wraps OpenCV's ArUco
//     module (via gocv) configured for the AprilTag 36h11 family. It is only
//     compiled with the "gocv" build tag, since it needs OpenCV installed:
//
//     go build -tags gocv ./...
//
//     Without the tag NewArucoBackend returns an error.
//
//   - Detector: the adapter used by the analysis driver. It loads the file,
//     converts it to single-channel intensity, applies the configured
//     sharpening and hands the result to the backend. A Detector is built
//     once per run and reused for every image.
//
// # Corner Order
//
// Each Detection carries exactly four corners in the order the backend
// reports them. The order is consistent across images, which is what lets
// the corners of the same marker in two images be paired index by index.
//
// # Identifiers
//
// Identifiers are expected to be unique within one Set. A backend that
// reports the same identifier twice violates that contract; Set.Duplicates
// exposes the offending identifiers so callers can log them, and lookups
// resolve to the first occurrence.
package detection
