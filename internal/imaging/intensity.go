package imaging

import (
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/effect"
)

// sharpenRadius is the unsharp-mask radius in pixels. Marker edges are one
// or two pixels wide after demosaicing, so a small radius is enough.
const sharpenRadius = 1.0

// ToGray converts an image to single-channel intensity.
//
// *image.Gray inputs are returned unchanged.
func ToGray(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}
	return toGray(effect.Grayscale(img))
}

// Sharpen applies an unsharp mask of the given amount to a grayscale image
// and returns a new grayscale image. An amount of zero or less returns the
// input unchanged.
func Sharpen(gray *image.Gray, amount float64) *image.Gray {
	if amount <= 0 {
		return gray
	}
	return toGray(effect.UnsharpMask(gray, sharpenRadius, amount))
}

// toGray copies a bild result, which is always RGBA, into a single-channel
// image with the same bounds.
func toGray(rgba *image.RGBA) *image.Gray {
	b := rgba.Bounds()
	gray := image.NewGray(b)
	draw.Draw(gray, b, rgba, b.Min, draw.Src)
	return gray
}
