package analysis

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/ironsheep/marker-drift/internal/detection"
	"github.com/ironsheep/marker-drift/internal/logger"
	"github.com/sirupsen/logrus"
)

// Converter produces the images compared by the driver.
type Converter interface {
	ToReference(ctx context.Context, source string) (string, error)
	ToCompressed(ctx context.Context, source string, quality float64) (string, error)
	// Release disposes of a converted image once it has been measured.
	Release(path string)
}

// Detector finds markers in an image file.
type Detector interface {
	Detect(path string) (detection.Set, error)
}

// SizeFunc reports the size of a file in bytes.
type SizeFunc func(path string) (int64, error)

// Options controls a run.
type Options struct {
	// Qualities are the tested levels; QualityLevels() when empty.
	Qualities []float64

	// Workers is the number of files processed concurrently within one
	// quality level. Values below two mean sequential processing.
	Workers int

	// FileSize measures compressed outputs for the average size column.
	// The column is left at zero when nil.
	FileSize SizeFunc

	// OnDetections, when set, is called for every processed image. Calls
	// are serialized but their order is only guaranteed when Workers < 2.
	OnDetections func(ImageDetections)
}

// Driver runs the quality × file analysis.
type Driver struct {
	converter Converter
	detector  Detector
	opts      Options

	refs       *referenceCache
	callbackMu sync.Mutex
}

// NewDriver creates a driver. The detector is used for every image of the run.
func NewDriver(converter Converter, detector Detector, opts Options) *Driver {
	if len(opts.Qualities) == 0 {
		opts.Qualities = QualityLevels()
	}
	return &Driver{
		converter: converter,
		detector:  detector,
		opts:      opts,
		refs:      newReferenceCache(),
	}
}

// pairResult is the outcome of one file at one quality level.
type pairResult struct {
	source  string
	deltas  []float64
	missing int
	size    int64
	err     error
}

// Run processes files at every quality level and returns the report.
// It returns early with ctx.Err() when ctx is cancelled.
func (d *Driver) Run(ctx context.Context, files []string) (*Report, error) {
	report := &Report{
		Results: make([]QualityResult, 0, len(d.opts.Qualities)),
	}

	for _, quality := range d.opts.Qualities {
		logger.WithFields(logrus.Fields{
			"quality": quality,
			"files":   len(files),
		}).Info("processing quality level")

		pairs, err := d.processQuality(ctx, quality, files)
		if err != nil {
			return nil, err
		}

		result, scatter := fold(quality, pairs)
		report.Results = append(report.Results, result)
		report.Scatter = append(report.Scatter, scatter...)

		logger.WithFields(logrus.Fields{
			"quality":  quality,
			"deltas":   len(result.Deltas),
			"mean":     result.Mean,
			"missing":  result.Missing,
			"failures": result.Failures,
		}).Info("quality level done")
	}

	return report, nil
}

func (d *Driver) processQuality(ctx context.Context, quality float64, files []string) ([]pairResult, error) {
	results := make([]pairResult, len(files))

	if d.opts.Workers < 2 {
		for i, f := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = d.processPair(ctx, quality, f)
		}
		return results, nil
	}

	pool := NewWorkerPool(d.opts.Workers)
	pool.Start()
	defer pool.Close()

	for i, f := range files {
		if ctx.Err() != nil {
			break
		}
		i, f := i, f
		pool.Submit(func() {
			results[i] = d.processPair(ctx, quality, f)
		})
	}
	pool.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// processPair measures one file at one quality level.
func (d *Driver) processPair(ctx context.Context, quality float64, source string) pairResult {
	result := pairResult{source: source}

	reference, err := d.refs.get(source, func() (detection.Set, error) {
		return d.detectReference(ctx, source)
	})
	if err != nil {
		result.err = fmt.Errorf("reference: %w", err)
		return result
	}

	path, err := d.converter.ToCompressed(ctx, source, quality)
	if err != nil {
		result.err = err
		return result
	}
	defer d.converter.Release(path)

	if d.opts.FileSize != nil {
		if size, err := d.opts.FileSize(path); err == nil {
			result.size = size
		}
	}

	comparison, err := d.detector.Detect(path)
	if err != nil {
		result.err = err
		return result
	}
	d.notify(ImageDetections{Source: source, Quality: quality, Set: comparison})

	result.deltas, result.missing = ComputeDeltas(reference, comparison)

	logger.WithFields(logrus.Fields{
		"file":    filepath.Base(source),
		"quality": quality,
		"markers": len(comparison),
		"deltas":  len(result.deltas),
		"missing": result.missing,
	}).Debug("pair processed")

	return result
}

func (d *Driver) detectReference(ctx context.Context, source string) (detection.Set, error) {
	path, err := d.converter.ToReference(ctx, source)
	if err != nil {
		return nil, err
	}
	defer d.converter.Release(path)

	set, err := d.detector.Detect(path)
	if err != nil {
		return nil, err
	}
	d.notify(ImageDetections{Source: source, Reference: true, Set: set})

	logger.WithFields(logrus.Fields{
		"file":    filepath.Base(source),
		"markers": len(set),
	}).Info("reference detected")

	return set, nil
}

func (d *Driver) notify(images ImageDetections) {
	if d.opts.OnDetections == nil {
		return
	}
	d.callbackMu.Lock()
	defer d.callbackMu.Unlock()
	d.opts.OnDetections(images)
}

// fold combines the pair results of one quality level, in file order.
func fold(quality float64, pairs []pairResult) (QualityResult, []ScatterRecord) {
	result := QualityResult{Quality: quality, Deltas: []float64{}}
	var scatter []ScatterRecord
	var totalSize int64

	for _, p := range pairs {
		if p.err != nil {
			result.Failures++
			logger.WithError(p.err).WithFields(logrus.Fields{
				"file":    filepath.Base(p.source),
				"quality": quality,
			}).Warn("skipping file at this quality level")
			continue
		}

		result.Images++
		result.Missing += p.missing
		result.Deltas = append(result.Deltas, p.deltas...)
		totalSize += p.size

		if len(p.deltas) > 0 {
			s := Summarize(p.deltas)
			scatter = append(scatter, ScatterRecord{
				Quality: quality,
				Mean:    s.Mean,
				Min:     s.Min,
				Max:     s.Max,
				Image:   filepath.Base(p.source),
			})
		}
	}

	result.Summary = Summarize(result.Deltas)
	if result.Images > 0 {
		result.AvgFileSize = float64(totalSize) / float64(result.Images)
	}

	return result, scatter
}

// referenceCache computes the reference detection of each file once and
// shares it across quality levels. Failures are cached too.
type referenceCache struct {
	mu      sync.Mutex
	entries map[string]*referenceEntry
}

type referenceEntry struct {
	once sync.Once
	set  detection.Set
	err  error
}

func newReferenceCache() *referenceCache {
	return &referenceCache{entries: make(map[string]*referenceEntry)}
}

func (c *referenceCache) get(source string, compute func() (detection.Set, error)) (detection.Set, error) {
	c.mu.Lock()
	entry, ok := c.entries[source]
	if !ok {
		entry = &referenceEntry{}
		c.entries[source] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		entry.set, entry.err = compute()
	})
	return entry.set, entry.err
}
