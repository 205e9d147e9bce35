package convert

import (
	"context"
	"fmt"
	"math"

	apperrors "github.com/ironsheep/marker-drift/internal/errors"
	"github.com/ironsheep/marker-drift/internal/imaging"
)

// Converter produces reference and compressed images from RAW sources.
type Converter struct {
	decoder   Decoder
	workspace *Workspace
}

// NewConverter creates a converter writing into workspace.
func NewConverter(decoder Decoder, workspace *Workspace) *Converter {
	return &Converter{decoder: decoder, workspace: workspace}
}

// ToReference decodes source and writes it as a lossless TIFF, returning
// the written path.
func (c *Converter) ToReference(ctx context.Context, source string) (string, error) {
	img, err := c.decoder.Decode(ctx, source)
	if err != nil {
		return "", apperrors.NewConversionError(source, "failed to decode source", err)
	}

	path := c.workspace.ReferencePath(source)
	if err := imaging.SaveLossless(img, path); err != nil {
		return "", apperrors.NewConversionError(source, "failed to write reference image", err)
	}
	return path, nil
}

// ToCompressed decodes source and writes it as a JPEG at quality in [0, 1],
// returning the written path.
func (c *Converter) ToCompressed(ctx context.Context, source string, quality float64) (string, error) {
	jpegQuality, err := EncoderQuality(quality)
	if err != nil {
		return "", apperrors.NewConversionError(source, "invalid quality", err)
	}

	img, err := c.decoder.Decode(ctx, source)
	if err != nil {
		return "", apperrors.NewConversionError(source, "failed to decode source", err)
	}

	path := c.workspace.CompressedPath(source, quality)
	if err := imaging.SaveJPEG(img, path, jpegQuality); err != nil {
		return "", apperrors.NewConversionError(source, "failed to write compressed image", err)
	}
	return path, nil
}

// Release deletes a converted image unless the workspace is preserved.
func (c *Converter) Release(path string) {
	c.workspace.Release(path)
}

// EncoderQuality maps a quality in [0, 1] to the JPEG encoder's 1-100 scale.
// The result is clamped to at least 1 since the encoder has no quality 0.
func EncoderQuality(quality float64) (int, error) {
	if math.IsNaN(quality) || quality < 0 || quality > 1 {
		return 0, fmt.Errorf("quality %v outside [0, 1]", quality)
	}
	q := int(math.Round(quality * 100))
	if q < 1 {
		q = 1
	}
	return q, nil
}
