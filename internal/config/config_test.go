package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	if len(cfg.River.Banks) != 8 {
		t.Fatalf("expected 8 default bank contours, got %d", len(cfg.River.Banks))
	}
	if cfg.River.RiverIndex != 3 {
		t.Errorf("expected river index 3, got %d", cfg.River.RiverIndex)
	}
	if cfg.River.SplineStep != 2.0 {
		t.Errorf("expected spline step 2.0, got %v", cfg.River.SplineStep)
	}
	if err := cfg.River.Validate(); err != nil {
		t.Errorf("default river config should validate, got %v", err)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RiverConfig)
		wantErr bool
	}{
		{"valid", func(r *RiverConfig) {}, false},
		{"one contour", func(r *RiverConfig) { r.Banks = r.Banks[:1] }, true},
		{"river index at last contour", func(r *RiverConfig) { r.RiverIndex = len(r.Banks) - 1 }, true},
		{"river index negative", func(r *RiverConfig) { r.RiverIndex = -1 }, true},
		{"river index past end", func(r *RiverConfig) { r.RiverIndex = len(r.Banks) }, true},
		{"zero spline step", func(r *RiverConfig) { r.SplineStep = 0 }, true},
		{"two contours river index zero", func(r *RiverConfig) {
			r.Banks = r.Banks[:2]
			r.RiverIndex = 0
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			river := Default().River
			tt.mutate(&river)
			err := river.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected a validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080

river:
  spline_step: 1.5
  track_height: 0.5
  texture_tiles: 8
  river_index: 1
  banks:
    - {x_min: -6, x_max: -5, z_min: 1, z_max: 2}
    - {x_min: -2, x_max: -1.5, z_min: 0, z_max: 0.2}
    - {x_min: 1.5, x_max: 2, z_min: 0, z_max: 0.2}
    - {x_min: 5, x_max: 6, z_min: 1, z_max: 2}
  material: "materials/lava"
  shader: "water"

data:
  rails_file: "tracks.yaml"
  output_dir: "meshes"

logging:
  level: "debug"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if len(cfg.River.Banks) != 4 {
		t.Fatalf("expected 4 bank contours, got %d", len(cfg.River.Banks))
	}
	if cfg.River.RiverIndex != 1 {
		t.Errorf("expected river index 1, got %d", cfg.River.RiverIndex)
	}
	if cfg.River.Banks[0].XMin != -6 {
		t.Errorf("expected first contour x_min -6, got %v", cfg.River.Banks[0].XMin)
	}
	if cfg.River.Material != "materials/lava" {
		t.Errorf("expected material 'materials/lava', got %s", cfg.River.Material)
	}
	if cfg.Data.RailsFile != "tracks.yaml" {
		t.Errorf("expected rails file 'tracks.yaml', got %s", cfg.Data.RailsFile)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
river:
  river_index: not a number
  broken syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sub", "config.yaml")

	cfg := Default()
	cfg.River.RiverIndex = 2
	cfg.River.Banks = cfg.River.Banks[:5]

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.River.RiverIndex != 2 {
		t.Errorf("expected river index 2 after round trip, got %d", loaded.River.RiverIndex)
	}
	if len(loaded.River.Banks) != 5 {
		t.Errorf("expected 5 bank contours after round trip, got %d", len(loaded.River.Banks))
	}
}

func TestApplyFlags(t *testing.T) {
	*flagDebug = true
	*flagOut = "elsewhere"
	*flagWidth = 2560
	defer func() {
		*flagDebug = false
		*flagOut = ""
		*flagWidth = 0
	}()

	cfg := Default()
	applyFlags(cfg)

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Data.OutputDir != "elsewhere" {
		t.Errorf("expected output dir 'elsewhere', got %s", cfg.Data.OutputDir)
	}
	if cfg.Graphics.Width != 2560 {
		t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
	}
}
