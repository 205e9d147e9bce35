package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ironsheep/marker-drift/internal/detection"
	apperrors "github.com/ironsheep/marker-drift/internal/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvSourceDir, EnvOutputDir, EnvRawExtension, EnvDcraw, EnvDecoder, EnvWorkers,
		EnvDecimate, EnvBlurSigma, EnvRefineEdges, EnvSharpening, EnvDetectorThreads,
	} {
		t.Setenv(key, "")
	}
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("raw"), 0644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if cfg.SourceDir != "" {
		t.Errorf("Expected empty source dir, got %q", cfg.SourceDir)
	}
	if cfg.OutputDir != "results" {
		t.Errorf("Expected output dir 'results', got %q", cfg.OutputDir)
	}
	if cfg.RawExtension != ".arw" {
		t.Errorf("Expected extension .arw, got %q", cfg.RawExtension)
	}
	if cfg.Decoder != "dcraw" || cfg.Dcraw != "dcraw" {
		t.Errorf("Unexpected decoder settings %q/%q", cfg.Decoder, cfg.Dcraw)
	}
	if cfg.Workers != 1 {
		t.Errorf("Expected 1 worker, got %d", cfg.Workers)
	}
	if !reflect.DeepEqual(cfg.Detector, detection.DefaultParams()) {
		t.Errorf("Expected default detector params, got %+v", cfg.Detector)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvSourceDir, " /data/raw ")
	t.Setenv(EnvOutputDir, "out")
	t.Setenv(EnvRawExtension, "CR2")
	t.Setenv(EnvDecoder, "IMAGE")
	t.Setenv(EnvWorkers, "4")
	t.Setenv(EnvDecimate, "2")
	t.Setenv(EnvBlurSigma, "0.8")
	t.Setenv(EnvRefineEdges, "false")
	t.Setenv(EnvSharpening, "0")
	t.Setenv(EnvDetectorThreads, "3")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if cfg.SourceDir != "/data/raw" {
		t.Errorf("Expected trimmed source dir, got %q", cfg.SourceDir)
	}
	if cfg.OutputDir != "out" || cfg.RawExtension != ".CR2" || cfg.Decoder != "image" || cfg.Workers != 4 {
		t.Errorf("Overrides not applied: %+v", cfg)
	}

	want := detection.Params{
		Family: detection.FamilyTag36h11, Decimate: 2, BlurSigma: 0.8,
		RefineEdges: false, Sharpening: 0, Threads: 3,
	}
	if cfg.Detector != want {
		t.Errorf("Detector params = %+v, want %+v", cfg.Detector, want)
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero workers", EnvWorkers, "0"},
		{"unknown decoder", EnvDecoder, "magick"},
		{"decimate below one", EnvDecimate, "0.5"},
		{"negative sharpening", EnvSharpening, "-1"},
		{"zero detector threads", EnvDetectorThreads, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadFromEnv()
			if err == nil {
				t.Fatal("Expected error")
			}
			if !apperrors.IsType(err, apperrors.ErrorTypeSetup) {
				t.Errorf("Expected setup error, got %v", err)
			}
		})
	}
}

func TestApplyArgs(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantSubset int
		wantDir    string
		wantErr    bool
	}{
		{"no arguments", nil, 0, "/env", false},
		{"subset only", []string{"3"}, 3, "/env", false},
		{"subset and directory", []string{"2", "/cli"}, 2, "/cli", false},
		{"zero subset", []string{"0"}, 0, "/env", true},
		{"non-numeric subset", []string{"all"}, 0, "/env", true},
		{"too many", []string{"1", "/a", "extra"}, 0, "/env", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{SourceDir: "/env"}

			err := cfg.ApplyArgs(tt.args)
			if tt.wantErr {
				if !apperrors.IsType(err, apperrors.ErrorTypeSetup) {
					t.Errorf("Expected setup error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyArgs failed: %v", err)
			}
			if cfg.Subset != tt.wantSubset || cfg.SourceDir != tt.wantDir {
				t.Errorf("Got subset=%d dir=%q, want %d %q", cfg.Subset, cfg.SourceDir, tt.wantSubset, tt.wantDir)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "plain.txt")

	tests := []struct {
		name    string
		source  string
		wantErr bool
	}{
		{"missing", "", true},
		{"nonexistent", filepath.Join(dir, "nope"), true},
		{"file not directory", filepath.Join(dir, "plain.txt"), true},
		{"directory", dir, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{SourceDir: tt.source}
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && apperrors.ExitCode(err) == 0 {
				t.Error("Expected non-zero exit code for setup error")
			}
		})
	}
}

func TestDiscoverFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "c.arw", "A.ARW", "b.Arw", "notes.txt", "d.jpg")
	if err := os.Mkdir(filepath.Join(dir, "sub.arw"), 0755); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{SourceDir: dir, RawExtension: ".arw"}
	files, err := cfg.DiscoverFiles()
	if err != nil {
		t.Fatalf("DiscoverFiles failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "A.ARW"),
		filepath.Join(dir, "b.Arw"),
		filepath.Join(dir, "c.arw"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("DiscoverFiles() = %v, want %v", files, want)
	}

	cfg.Subset = 2
	files, _ = cfg.DiscoverFiles()
	if !reflect.DeepEqual(files, want[:2]) {
		t.Errorf("With subset 2 got %v", files)
	}

	cfg.Subset = 10
	files, _ = cfg.DiscoverFiles()
	if len(files) != 3 {
		t.Errorf("Subset larger than file count should keep all files, got %d", len(files))
	}
}
