// Package config handles voxelsmith configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Atlas   AtlasConfig   `yaml:"atlas"`
	Mesh    MeshConfig    `yaml:"mesh"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// AtlasConfig holds template packing settings.
type AtlasConfig struct {
	TargetResolution    int `yaml:"target_resolution"`     // Initial square canvas size
	MaxResolution       int `yaml:"max_resolution"`        // Packing gives up above this
	DefaultTextureWidth int `yaml:"default_texture_width"` // Base width for geometries without one
}

// MeshConfig holds mesh export settings.
type MeshConfig struct {
	UnitScale float64 `yaml:"unit_scale"` // Texels to mesh units
}

// OutputConfig holds where and how results are written.
type OutputConfig struct {
	Dir           string `yaml:"dir"`
	TextureFormat string `yaml:"texture_format"` // png or tga
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Atlas: AtlasConfig{
			TargetResolution:    128,
			MaxResolution:       4096,
			DefaultTextureWidth: 64,
		},
		Mesh: MeshConfig{
			UnitScale: 1.0 / 16,
		},
		Output: OutputConfig{
			Dir:           "out",
			TextureFormat: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
