package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestDefaultConfig verifies the defaults validate and carry sane values.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Grid.Cols <= 0 || cfg.Grid.Rows <= 0 || cfg.Grid.CellSize <= 0 {
		t.Errorf("default grid %dx%d cell %d not positive",
			cfg.Grid.Cols, cfg.Grid.Rows, cfg.Grid.CellSize)
	}
	if cfg.Descriptor.Bins%2 != 0 {
		t.Errorf("default bin count %d is odd", cfg.Descriptor.Bins)
	}
	if cfg.Pyramid.OctaveLayers != 5 {
		t.Errorf("default octave layers = %d; want 5", cfg.Pyramid.OctaveLayers)
	}
}

// TestLoadConfigMissingFile verifies a missing file yields the defaults.
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Error("missing file should produce the default configuration")
	}
}

// TestLoadConfigOverrides verifies file values land on top of the defaults.
func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hogextract.yaml")
	data := `
grid:
  cols: 6
  rows: 4
pyramid:
  minWidth: 48
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Grid.Cols != 6 || cfg.Grid.Rows != 4 {
		t.Errorf("grid = %dx%d; want 6x4", cfg.Grid.Cols, cfg.Grid.Rows)
	}
	if cfg.Pyramid.MinWidth != 48 {
		t.Errorf("minWidth = %d; want 48", cfg.Pyramid.MinWidth)
	}
	// Unset fields keep their defaults.
	if cfg.Grid.CellSize != DefaultConfig().Grid.CellSize {
		t.Errorf("cellSize = %d; want default %d", cfg.Grid.CellSize, DefaultConfig().Grid.CellSize)
	}
}

// TestLoadConfigInvalidValues verifies values the extractor would reject are
// caught at load time.
func TestLoadConfigInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"ZeroCols", "grid:\n  cols: 0\n", "cell grid"},
		{"NegativeCellSize", "grid:\n  cellSize: -8\n", "cell size"},
		{"OddBins", "descriptor:\n  bins: 9\n", "bin count"},
		{"MinAboveMax", "pyramid:\n  minWidth: 512\n", "width range"},
		{"ZeroOctaves", "pyramid:\n  octaveLayers: 0\n", "octave layer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("LoadConfig error = %v; want mention of %q", err, tc.want)
			}
		})
	}
}

// TestSaveLoadRoundTrip verifies a saved configuration loads back equal.
func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grid.Cols = 10
	cfg.Output.LayerDumpDir = "layers"

	path := filepath.Join(t.TempDir(), "sub", "hogextract.yaml")
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}
