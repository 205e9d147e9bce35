// Package convert turns RAW photographs into the images the analysis
// compares: a lossless reference and JPEGs at chosen qualities.
//
// # Decoders
//
// RAW decoding is delegated to a Decoder. DcrawDecoder runs the dcraw
// command line tool, which must be installed:
//   - Ubuntu/Debian: apt-get install dcraw
//   - macOS: brew install dcraw
//
// It asks dcraw for an 8-bit TIFF on stdout using the camera white balance
// and decodes that stream in-process. FileDecoder reads sources that are
// already raster images (TIFF, PNG, JPEG); it is what the tests use.
//
// # Temporary Files
//
// A Workspace is created once per run. Every converted image is written
// into it under a name derived from the source file, and released after it
// has been measured. With preservation enabled nothing is deleted and the
// workspace path is reported when the run ends.
//
// # Quality
//
// Compression quality is given in [0, 1] and mapped to the encoder's 1-100
// scale. Higher values mean higher fidelity and larger files; the tool
// measures that relationship rather than assuming it.
package convert
