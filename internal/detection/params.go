package detection

import "fmt"

// Params is the fixed detector configuration of a run.
//
// The values tune the detector itself; they do not control how many images
// this tool processes at once.
type Params struct {
	// Family is the marker family. Only "tag36h11" is supported.
	Family string

	// Decimate downsamples the image by this factor before quad detection.
	// 1.0 keeps full resolution, which matters when measuring sub-pixel drift.
	Decimate float64

	// BlurSigma is the Gaussian blur applied before quad detection, in pixels.
	// Zero disables it.
	BlurSigma float64

	// RefineEdges enables AprilTag-style corner refinement.
	RefineEdges bool

	// Sharpening is the unsharp-mask amount applied to the intensity image
	// before detection. Zero disables it.
	Sharpening float64

	// Threads is the number of threads the detector may use internally.
	Threads int
}

// FamilyTag36h11 is the AprilTag family the markers are printed from.
const FamilyTag36h11 = "tag36h11"

// DefaultParams returns the configuration used when nothing is overridden.
func DefaultParams() Params {
	return Params{
		Family:      FamilyTag36h11,
		Decimate:    1.0,
		BlurSigma:   0.0,
		RefineEdges: true,
		Sharpening:  0.25,
		Threads:     1,
	}
}

// Validate checks that the parameters are usable.
func (p Params) Validate() error {
	if p.Family != FamilyTag36h11 {
		return fmt.Errorf("unsupported marker family %q", p.Family)
	}
	if p.Decimate < 1 {
		return fmt.Errorf("decimate must be >= 1 (got %g)", p.Decimate)
	}
	if p.BlurSigma < 0 {
		return fmt.Errorf("blur sigma must be >= 0 (got %g)", p.BlurSigma)
	}
	if p.Sharpening < 0 {
		return fmt.Errorf("sharpening must be >= 0 (got %g)", p.Sharpening)
	}
	if p.Threads < 1 {
		return fmt.Errorf("threads must be >= 1 (got %d)", p.Threads)
	}
	return nil
}
