package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/image/tiff"
)

// Load opens and decodes an image file.
//
// Supported formats are PNG, JPEG, GIF and TIFF. The image is not cached:
// every call reads the file again, so callers hold decoded pixels only for
// as long as they need them.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the contents are not a supported image format
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode decodes an image stream in any registered format.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// SaveLossless writes img as an uncompressed TIFF.
//
// The reference image must not lose any information relative to the decoded
// RAW data, so no compression or predictor is applied.
func SaveLossless(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := tiff.Encode(f, img, &tiff.Options{Compression: tiff.Uncompressed}); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode TIFF: %w", err)
	}
	return f.Close()
}

// SaveJPEG writes img as a baseline JPEG at the given encoder quality (1-100).
func SaveJPEG(img image.Image, path string, quality int) error {
	if quality < 1 || quality > 100 {
		return fmt.Errorf("JPEG quality %d outside 1-100", quality)
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return nil
}

// FileSize returns the size of a file on disk in bytes.
func FileSize(path string) (int64, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat file: %w", err)
	}
	return stat.Size(), nil
}
