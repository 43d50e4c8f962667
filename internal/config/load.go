package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	return cli.Load()
}

// Load resolves the config file named by f (or found in the standard
// locations), then applies f on top.
func (f *Flags) Load() (*Config, error) {
	cfg := Default()

	configPath := *f.Config
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	f.apply(cfg)

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
		return filepath.Join(home, "Library", "Application Support", "Hello3D")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Hello3D")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "hello3d")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "hello3d")
	}
}

// loadFromFile merges a YAML file into cfg. Relative model and shader paths
// are resolved against the file's directory.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}

	base := filepath.Dir(path)
	for i := range cfg.Scene.Models {
		cfg.Scene.Models[i].Path = resolve(base, cfg.Scene.Models[i].Path)
		cfg.Scene.Models[i].Texture = resolve(base, cfg.Scene.Models[i].Texture)
	}
	cfg.Shaders.Vertex = resolve(base, cfg.Shaders.Vertex)
	cfg.Shaders.Fragment = resolve(base, cfg.Shaders.Fragment)
	return nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
