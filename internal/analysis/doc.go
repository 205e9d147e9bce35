// Package analysis measures how marker corner positions drift when an image
// is JPEG-compressed.
//
// For every quality level and every source file the Driver converts the
// source to a lossless reference and to a JPEG, detects markers in both, and
// pairs the markers by identifier. Each matched marker contributes the four
// distances between its reference corners and its compressed corners; a
// reference marker with no counterpart counts as missing and contributes
// nothing. The distances of all files are pooled per quality level and
// summarized by Summarize.
//
// # Processing Order
//
// Quality levels are processed in ascending order and files in the order
// given. With Options.Workers above one, the files of a quality level are
// converted and detected concurrently, but their results are folded in file
// order, so the summary is the same as a sequential run.
//
// # Failures
//
// A file whose reference cannot be produced or detected is skipped at every
// quality level. A compressed image that cannot be produced or detected
// skips that one file/quality pair. Skipped pairs are logged, counted in
// QualityResult.Failures and contribute neither distances nor missing
// markers.
package analysis
