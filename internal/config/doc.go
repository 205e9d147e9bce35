// Package config resolves the run configuration from MARKER_DRIFT_*
// environment variables and the positional command-line arguments, and
// discovers the RAW files to process.
package config
