package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/goccy/go-yaml"
)

type Config struct {
	Error           Error         `yaml:"error"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	AssetsDir       string        `yaml:"assets_dir"`

	// fileUseWarnings is the value from the config file, restored when the
	// client settings stop naming usewarnings.
	fileUseWarnings bool
}

type Error struct {
	UseWarnings bool `yaml:"usewarnings"`
}

const (
	ConfigFileName         = "sillycat.config.yaml"
	SettingsSection        = "SillyCat"
	DefaultUseWarnings     = false
	DefaultRefreshInterval = time.Second
	DefaultAssetsDirName   = "assets"
)

func Default() *Config {
	return &Config{
		Error:           Error{UseWarnings: DefaultUseWarnings},
		RefreshInterval: DefaultRefreshInterval,
	}
}

// NewWithDefaults reads the config file at the workspace root. A missing
// file yields the defaults.
func NewWithDefaults(workspacePath string) (*Config, error) {
	config := Default()
	if workspacePath == "" {
		return config, nil
	}
	f, err := os.ReadFile(filepath.Join(workspacePath, ConfigFileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err := yaml.Unmarshal(f, config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = DefaultRefreshInterval
	}
	config.fileUseWarnings = config.Error.UseWarnings
	return config, nil
}

// ResolveAssetsDir returns the configured assets directory, falling back to
// an assets directory next to the executable.
func (c *Config) ResolveAssetsDir() string {
	if c.AssetsDir != "" {
		return c.AssetsDir
	}
	exe, err := os.Executable()
	if err != nil {
		return DefaultAssetsDirName
	}
	return filepath.Join(filepath.Dir(exe), DefaultAssetsDirName)
}

// Settings mirrors the client side settings under the SillyCat section.
// The editor may send "error.usewarnings" either nested or as a flat
// dotted key.
type Settings struct {
	Error *struct {
		UseWarnings *bool `json:"usewarnings"`
	} `json:"error"`
	FlatUseWarnings *bool `json:"error.usewarnings"`
}

// ApplySettings merges client settings into the config. raw is either the
// full settings object containing the SillyCat section or the section
// itself. A SillyCat section without usewarnings restores the config file
// value. It reports whether anything changed.
func (c *Config) ApplySettings(raw json.RawMessage) (bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	section, hasSection := wrapped[SettingsSection]
	if hasSection {
		raw = section
		if string(raw) == "null" {
			raw = json.RawMessage("{}")
		}
	}

	var settings Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	useWarnings := settings.FlatUseWarnings
	if settings.Error != nil && settings.Error.UseWarnings != nil {
		useWarnings = settings.Error.UseWarnings
	}
	if useWarnings == nil && hasSection {
		useWarnings = &c.fileUseWarnings
	}
	if useWarnings == nil || *useWarnings == c.Error.UseWarnings {
		return false, nil
	}
	c.Error.UseWarnings = *useWarnings
	return true, nil
}

var (
	rootIdentifiers       = []string{ConfigFileName, ".git"}
	ErrIdentifierNotFound = errors.New("workspace identifier not found")
	ErrRootNotFound       = errors.New("workspace root not found")
	ErrInvalidConfig      = errors.New("invalid config file")
	ErrInvalidSettings    = errors.New("invalid settings")
)

func FindWorkspaceRoot(currentPath string) (string, error) {
	for _, id := range rootIdentifiers {
		path, err := findRootIDDir(currentPath, id)
		if errors.Is(err, ErrIdentifierNotFound) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrRootNotFound, err)
		}
		return path, nil
	}
	return "", ErrRootNotFound
}

func findRootIDDir(currentPath string, identifier string) (string, error) {
	dirEntries, err := os.ReadDir(currentPath)
	if err != nil {
		return "", err
	}
	found := slices.ContainsFunc(dirEntries, func(entry os.DirEntry) bool {
		return entry.Name() == identifier
	})
	if !found {
		parentDir := filepath.Dir(currentPath)
		if parentDir == currentPath {
			return "", ErrIdentifierNotFound
		}
		return findRootIDDir(parentDir, identifier)
	}
	return currentPath, nil
}
