// Package config loads StreakLedger defaults from a TOML or YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/bryan-cox/streakledger/internal/model"
)

// Config holds defaults that command-line flags may override.
type Config struct {
	DefaultSort    string `toml:"default_sort" yaml:"default_sort"`
	DefaultFormat  string `toml:"default_format" yaml:"default_format"`
	DoneStatus     string `toml:"done_status" yaml:"done_status"`
	ArchivedStatus string `toml:"archived_status" yaml:"archived_status"`
	StartDate      string `toml:"start_date" yaml:"start_date"`
	EndDate        string `toml:"end_date" yaml:"end_date"`
}

// knownKeys mirrors the struct tags above.
var knownKeys = map[string]bool{
	"default_sort":    true,
	"default_format":  true,
	"done_status":     true,
	"archived_status": true,
	"start_date":      true,
	"end_date":        true,
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultSort:    string(model.SortCurrentStreak),
		DefaultFormat:  "text",
		DoneStatus:     model.StatusDone,
		ArchivedStatus: model.StatusArchived,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/streakledger/config.toml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "streakledger", "config.toml")
}

// Load reads the config file at path on top of Default(). An empty path
// means DefaultPath(), which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("could not read config '%s': %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = decodeYAML(data, cfg)
	case ".toml", "":
		err = decodeTOML(data, cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q for '%s'", ext, path)
	}
	if err != nil {
		return nil, fmt.Errorf("could not parse config '%s': %w", path, err)
	}

	slog.Debug("loaded config", "path", path)
	return cfg, nil
}

func decodeTOML(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	for _, key := range md.Undecoded() {
		slog.Warn("ignoring unknown config key", "key", key.String())
	}
	return nil
}

func decodeYAML(data []byte, cfg *Config) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.MappingNode {
		for i := 0; i < len(root.Content); i += 2 {
			if key := root.Content[i].Value; !knownKeys[key] {
				slog.Warn("ignoring unknown config key", "key", key)
			}
		}
	}
	return root.Decode(cfg)
}
