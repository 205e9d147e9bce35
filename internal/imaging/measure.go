package imaging

import (
	"fmt"
	"math"
)

// Point is a sub-pixel position in image coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// String formats the point with the precision used in corner dumps.
func (p Point) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", p.X, p.Y)
}

// Distance returns the Euclidean distance between two points in pixels.
//
// The result is never negative and is defined for all finite inputs.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
