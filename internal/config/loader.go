package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EditorFile is the config file name looked up in each search location.
const EditorFile = "editor.yaml"

// LoadEditor loads the editor configuration.
// Search order: customPath -> ~/.trackforge/configs/editor.yaml -> ./configs/editor.yaml -> embedded default
//
// Files are decoded over the defaults, so a partial file only overrides the
// keys it sets.
func LoadEditor(customPath string) (EditorConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultEditorConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseEditor(data)
		if err != nil {
			return DefaultEditorConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(EditorFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseEditor(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", EditorFile)); err == nil {
		if cfg, err := parseEditor(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parseEditor(defaultEditorYAML)
	if err != nil {
		return DefaultEditorConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseEditor decodes YAML over the defaults and validates the result.
func parseEditor(data []byte) (EditorConfig, error) {
	cfg := DefaultEditorConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".trackforge", "configs", filename)
}
