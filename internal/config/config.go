// Package config handles tool configuration loading and management.
package config

import "fmt"

// Config holds all settings for the generator and the viewer.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	River    RiverConfig    `yaml:"river"`
	Data     DataConfig     `yaml:"data"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings for the viewer.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// DataConfig holds input/output file locations.
type DataConfig struct {
	RailsFile  string `yaml:"rails_file"`  // yaml rail set the generator reads
	RiversFile string `yaml:"rivers_file"` // persisted river records (rail name + seed)
	OutputDir  string `yaml:"output_dir"`  // where the OBJ sink writes meshes
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// BankContour is one cross-sectional offset range of the riverbank.
// Side offsets (X) are measured along the track normal, up offsets (Z)
// along the world up axis. Ranges with min > max are an authoring
// error; sampling does not guard against them.
type BankContour struct {
	XMin float32 `yaml:"x_min"`
	XMax float32 `yaml:"x_max"`
	ZMin float32 `yaml:"z_min"`
	ZMax float32 `yaml:"z_max"`
}

// RiverConfig drives river mesh generation. Banks are ordered left to
// right across the cross-section; RiverIndex names the contour whose
// right neighbour forms the far edge of the water surface.
type RiverConfig struct {
	SplineStep   float32       `yaml:"spline_step"`   // distance between rail samples
	TrackHeight  float32       `yaml:"track_height"`  // lift applied to every rail sample
	TextureTiles float32       `yaml:"texture_tiles"` // V tiling count along the whole loop
	RiverIndex   int           `yaml:"river_index"`
	Banks        []BankContour `yaml:"banks"`
	Material     string        `yaml:"material"`
	Shader       string        `yaml:"shader"`
	BankMaterial string        `yaml:"bank_material"`
	BankShader   string        `yaml:"bank_shader"`
}

// Validate checks the authoring invariants the mesh assembler relies on.
func (r *RiverConfig) Validate() error {
	if len(r.Banks) < 2 {
		return fmt.Errorf("river config needs at least 2 bank contours, got %d", len(r.Banks))
	}
	if r.RiverIndex < 0 || r.RiverIndex >= len(r.Banks)-1 {
		return fmt.Errorf("river index %d out of range for %d bank contours", r.RiverIndex, len(r.Banks))
	}
	if r.SplineStep <= 0 {
		return fmt.Errorf("spline step must be positive, got %v", r.SplineStep)
	}
	return nil
}

// Default returns a Config with sensible default values. The default
// bank profile is an 8-contour cross-section with the water surface
// between contours 3 and 4.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		River: RiverConfig{
			SplineStep:   2.0,
			TrackHeight:  0.3,
			TextureTiles: 16.0,
			RiverIndex:   3,
			Banks: []BankContour{
				{XMin: -14.0, XMax: -12.0, ZMin: 4.0, ZMax: 6.0},
				{XMin: -9.0, XMax: -7.0, ZMin: 1.5, ZMax: 2.5},
				{XMin: -5.0, XMax: -4.0, ZMin: 0.2, ZMax: 0.6},
				{XMin: -3.2, XMax: -2.8, ZMin: -0.2, ZMax: 0.0},
				{XMin: 2.8, XMax: 3.2, ZMin: -0.2, ZMax: 0.0},
				{XMin: 4.0, XMax: 5.0, ZMin: 0.2, ZMax: 0.6},
				{XMin: 7.0, XMax: 9.0, ZMin: 1.5, ZMax: 2.5},
				{XMin: 12.0, XMax: 14.0, ZMin: 4.0, ZMax: 6.0},
			},
			Material:     "materials/river",
			Shader:       "water",
			BankMaterial: "materials/ground",
			BankShader:   "textured_opaque",
		},
		Data: DataConfig{
			RailsFile:  "rails.yaml",
			RiversFile: "rivers.yaml",
			OutputDir:  "out",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
