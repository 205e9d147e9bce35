// Package imaging provides the raster plumbing shared by the conversion and
// detection adapters: loading image files, writing lossless and JPEG outputs,
// intensity conversion and sharpening, the corner distance metric, and
// drawing detected markers over an image for visual inspection.
//
// # Coordinate System
//
// Pixel coordinates are floating point with the origin at the top-left corner:
//   - X increases rightward
//   - Y increases downward
//
// Marker corners reported by the detector are sub-pixel positions, so Point
// uses float64 components rather than the integer image.Point.
//
// # Supported Formats
//
// Load decodes PNG, JPEG, GIF and TIFF. TIFF support comes from
// golang.org/x/image/tiff and covers the uncompressed reference images this
// tool writes as well as the TIFF stream produced by dcraw.
//
// # Thread Safety
//
// All functions are stateless and safe for concurrent use on different images.
package imaging
