package convert

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/ironsheep/marker-drift/internal/errors"
	"github.com/ironsheep/marker-drift/internal/logger"
)

// Workspace is the temporary directory holding one run's converted images.
type Workspace struct {
	dir      string
	preserve bool
}

// NewWorkspace creates a fresh temporary directory under parent (the system
// temp directory when parent is empty).
func NewWorkspace(parent string, preserve bool) (*Workspace, error) {
	dir, err := os.MkdirTemp(parent, "marker-drift-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return &Workspace{dir: dir, preserve: preserve}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Preserve reports whether converted images are kept after the run.
func (w *Workspace) Preserve() bool {
	return w.preserve
}

// ReferencePath is where the lossless reference of source is written.
func (w *Workspace) ReferencePath(source string) string {
	return filepath.Join(w.dir, stem(source)+"_ref.tiff")
}

// AnnotatedPath is where the reference of source is written with its
// detected markers drawn over it.
func (w *Workspace) AnnotatedPath(source string) string {
	return filepath.Join(w.dir, stem(source)+"_ref_markers.png")
}

// CompressedPath is where the JPEG of source at quality is written.
func (w *Workspace) CompressedPath(source string, quality float64) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s_q%02d.jpg", stem(source), int(math.Round(quality*100))))
}

// Release deletes a converted image unless the workspace is preserved.
// Failures are logged and otherwise ignored.
func (w *Workspace) Release(path string) {
	if w.preserve || path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.WithError(apperrors.NewCleanupError(path, err)).Warn("could not delete temporary image")
	}
}

// Close removes the workspace directory, or keeps it when preserving. It
// returns the kept directory, or "" when it was removed.
func (w *Workspace) Close() string {
	if w.preserve {
		return w.dir
	}
	if err := os.RemoveAll(w.dir); err != nil {
		logger.WithError(apperrors.NewCleanupError(w.dir, err)).Warn("could not delete workspace")
	}
	return ""
}

// Files lists the images currently in the workspace, sorted by name.
func (w *Workspace) Files() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, filepath.Join(w.dir, e.Name()))
		}
	}
	return files, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
