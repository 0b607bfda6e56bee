package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/voxelsmith/internal/atlas"
	"github.com/Faultbox/voxelsmith/internal/logger"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "VoxelSmith")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "VoxelSmith")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "voxelsmith")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "voxelsmith")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Atlas.TargetResolution <= 0 {
		return fmt.Errorf("atlas.target_resolution must be positive, got %d", c.Atlas.TargetResolution)
	}
	if c.Atlas.MaxResolution > atlas.DefaultMaxResolution {
		return fmt.Errorf("atlas.max_resolution %d above the %d limit", c.Atlas.MaxResolution, atlas.DefaultMaxResolution)
	}
	if c.Atlas.MaxResolution < c.Atlas.TargetResolution {
		return fmt.Errorf("atlas.max_resolution %d below target %d", c.Atlas.MaxResolution, c.Atlas.TargetResolution)
	}
	if c.Atlas.DefaultTextureWidth <= 0 {
		return fmt.Errorf("atlas.default_texture_width must be positive, got %d", c.Atlas.DefaultTextureWidth)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Mesh.UnitScale <= 0 {
		return fmt.Errorf("mesh.unit_scale must be positive, got %g", c.Mesh.UnitScale)
	}
	switch c.Output.TextureFormat {
	case "png", "tga":
	default:
		return fmt.Errorf("output.texture_format must be png or tga, got %q", c.Output.TextureFormat)
	}
	return nil
}
