package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound  = errors.New("configuration file not found")
	ErrEmptyFile     = errors.New("configuration file is empty")
	ErrInvalidYAML   = errors.New("invalid YAML syntax")
	ErrInvalidJSON   = errors.New("invalid JSON syntax")
	ErrUnknownPlugin = errors.New("unknown plugin")
	ErrNoConfigFiles = errors.New("no configuration files found")
)

// configFilePattern matches plugin configuration files anywhere under a
// configuration directory; doublestar provides the ** support.
const configFilePattern = "**/*-config.{yaml,yml,json}"

// LoadFile reads and validates one plugin configuration file. The format is
// chosen by extension: .yaml/.yml parse as YAML, anything else as JSON.
func LoadFile(path string) (*PluginConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	var cfg PluginConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w in %s: %v", ErrInvalidYAML, path, err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w in %s: %v", ErrInvalidJSON, path, err)
		}
	}

	if err := ValidateSchema(data, filepath.Ext(path)); err != nil {
		return nil, fmt.Errorf("schema validation failed for %s: %w", path, err)
	}

	cfg.Dir = filepath.Dir(path)
	assignResourceIDs(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return &cfg, nil
}

// Discover returns the plugin configuration files under dir (recursively,
// "*-config.yaml" and friends), in stable path order.
func Discover(dir string) ([]string, error) {
	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, configFilePattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan config dir %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoConfigFiles, dir)
	}
	sort.Strings(matches)

	paths := make([]string, 0, len(matches))
	for _, rel := range matches {
		paths = append(paths, filepath.Join(dir, rel))
	}
	return paths, nil
}

// LoadDir discovers and loads every plugin configuration file under dir.
func LoadDir(dir string) ([]*PluginConfig, error) {
	paths, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	configs := make([]*PluginConfig, 0, len(paths))
	for _, path := range paths {
		cfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// assignResourceIDs gives every resource without an explicit ID a uuid so
// diagnostics and the admin surface can refer to it.
func assignResourceIDs(cfg *PluginConfig) {
	for _, res := range cfg.Resources {
		if res.ID == "" {
			res.ID = uuid.New().String()
		}
	}
}
