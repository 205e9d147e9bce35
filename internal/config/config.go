package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ironsheep/marker-drift/internal/detection"
	apperrors "github.com/ironsheep/marker-drift/internal/errors"
)

// Environment variables read by LoadFromEnv.
const (
	EnvSourceDir       = "MARKER_DRIFT_SOURCE_DIR"
	EnvOutputDir       = "MARKER_DRIFT_OUTPUT_DIR"
	EnvRawExtension    = "MARKER_DRIFT_RAW_EXT"
	EnvDcraw           = "MARKER_DRIFT_DCRAW"
	EnvDecoder         = "MARKER_DRIFT_DECODER"
	EnvWorkers         = "MARKER_DRIFT_WORKERS"
	EnvDecimate        = "MARKER_DRIFT_DECIMATE"
	EnvBlurSigma       = "MARKER_DRIFT_BLUR_SIGMA"
	EnvRefineEdges     = "MARKER_DRIFT_REFINE_EDGES"
	EnvSharpening      = "MARKER_DRIFT_SHARPENING"
	EnvDetectorThreads = "MARKER_DRIFT_DETECTOR_THREADS"
)

// Config is the resolved configuration of one run.
type Config struct {
	SourceDir    string
	OutputDir    string
	RawExtension string
	Dcraw        string
	Decoder      string
	Workers      int

	// Subset limits the run to the first N discovered files. Zero means all.
	Subset int

	Detector detection.Params
}

// LoadFromEnv reads the configuration from MARKER_DRIFT_* variables and validates it.
func LoadFromEnv() (*Config, error) {
	defaults := detection.DefaultParams()

	cfg := &Config{
		SourceDir:    strings.TrimSpace(os.Getenv(EnvSourceDir)),
		OutputDir:    getEnvOrDefault(EnvOutputDir, "results"),
		RawExtension: normalizeExtension(getEnvOrDefault(EnvRawExtension, ".arw")),
		Dcraw:        getEnvOrDefault(EnvDcraw, "dcraw"),
		Decoder:      strings.ToLower(getEnvOrDefault(EnvDecoder, "dcraw")),
		Workers:      int(parseIntOrDefault(EnvWorkers, 1)),
		Detector: detection.Params{
			Family:      defaults.Family,
			Decimate:    parseFloatOrDefault(EnvDecimate, defaults.Decimate),
			BlurSigma:   parseFloatOrDefault(EnvBlurSigma, defaults.BlurSigma),
			RefineEdges: parseBoolOrDefault(EnvRefineEdges, defaults.RefineEdges),
			Sharpening:  parseFloatOrDefault(EnvSharpening, defaults.Sharpening),
			Threads:     int(parseIntOrDefault(EnvDetectorThreads, int64(defaults.Threads))),
		},
	}

	if cfg.Workers < 1 {
		return nil, apperrors.NewSetupError(fmt.Sprintf("%s must be >= 1 (got %d)", EnvWorkers, cfg.Workers), nil)
	}
	if cfg.Decoder != "dcraw" && cfg.Decoder != "image" {
		return nil, apperrors.NewSetupError(fmt.Sprintf("invalid %s: %q", EnvDecoder, cfg.Decoder), nil)
	}
	if err := cfg.Detector.Validate(); err != nil {
		return nil, apperrors.NewSetupError("invalid detector configuration", err)
	}
	return cfg, nil
}

// ApplyArgs overrides the configuration with the positional command-line
// arguments: an optional subset size followed by an optional source directory.
func (c *Config) ApplyArgs(args []string) error {
	if len(args) > 2 {
		return apperrors.NewSetupError(fmt.Sprintf("too many arguments: %s", strings.Join(args, " ")), nil)
	}
	if len(args) >= 1 {
		n, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil || n < 1 {
			return apperrors.NewSetupError(fmt.Sprintf("subset size must be a positive integer (got %q)", args[0]), err)
		}
		c.Subset = n
	}
	if len(args) == 2 {
		c.SourceDir = strings.TrimSpace(args[1])
	}
	return nil
}

// Validate checks that a usable source directory has been resolved.
func (c *Config) Validate() error {
	if c.SourceDir == "" {
		return apperrors.NewSetupError(
			fmt.Sprintf("no source directory: pass it as the second argument or set %s", EnvSourceDir), nil)
	}
	info, err := os.Stat(c.SourceDir)
	if err != nil {
		return apperrors.NewSetupError(fmt.Sprintf("cannot access source directory %s", c.SourceDir), err)
	}
	if !info.IsDir() {
		return apperrors.NewSetupError(fmt.Sprintf("source path %s is not a directory", c.SourceDir), nil)
	}
	return nil
}

// DiscoverFiles lists the RAW files in the source directory, sorted by name,
// keeping only the first Subset entries when a subset is configured.
func (c *Config) DiscoverFiles() ([]string, error) {
	entries, err := os.ReadDir(c.SourceDir)
	if err != nil {
		return nil, apperrors.NewSetupError(fmt.Sprintf("cannot list source directory %s", c.SourceDir), err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), c.RawExtension) {
			files = append(files, filepath.Join(c.SourceDir, entry.Name()))
		}
	}

	if c.Subset > 0 && c.Subset < len(files) {
		files = files[:c.Subset]
	}
	return files, nil
}

func normalizeExtension(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}
