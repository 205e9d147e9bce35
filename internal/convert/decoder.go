package convert

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"strings"

	"github.com/ironsheep/marker-drift/internal/imaging"
	"golang.org/x/image/tiff"
)

// Decoder turns a source file into pixels.
type Decoder interface {
	Decode(ctx context.Context, path string) (image.Image, error)
}

// DcrawDecoder decodes camera RAW files by running dcraw.
type DcrawDecoder struct {
	// Binary is the dcraw executable; "dcraw" is looked up on PATH when empty.
	Binary string
}

// dcrawArgs writes to stdout (-c) a TIFF (-T) using the camera white balance (-w).
var dcrawArgs = []string{"-c", "-w", "-T"}

// Decode runs dcraw on path and decodes its TIFF output.
func (d DcrawDecoder) Decode(ctx context.Context, path string) (image.Image, error) {
	binary := d.Binary
	if binary == "" {
		binary = "dcraw"
	}

	args := append(append([]string{}, dcrawArgs...), path)
	cmd := exec.CommandContext(ctx, binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("dcraw failed: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("dcraw failed: %w", err)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("dcraw produced no output for %s", path)
	}

	img, err := tiff.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to decode dcraw output: %w", err)
	}
	return img, nil
}

// FileDecoder decodes sources that are already in a registered raster format.
type FileDecoder struct{}

// Decode loads path with the registered image decoders.
func (FileDecoder) Decode(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return imaging.Load(path)
}

// NewDecoder returns the decoder for a configured name: "dcraw" or "image".
func NewDecoder(name, dcrawBinary string) (Decoder, error) {
	switch name {
	case "", "dcraw":
		return DcrawDecoder{Binary: dcrawBinary}, nil
	case "image":
		return FileDecoder{}, nil
	default:
		return nil, fmt.Errorf("unknown decoder %q (want dcraw or image)", name)
	}
}
