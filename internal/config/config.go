package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the per-folder configuration file the tool requires.
const FileName = "config.json"

const (
	defaultTitle       = "Podcast"
	defaultDescription = "A podcast"
	defaultLink        = "https://example.com"
	defaultLanguage    = "en-us"
	defaultAuthor      = "Unknown"

	defaultDebounceMS = 500
)

// ErrNotFound reports a subfolder without a config.json file.
var ErrNotFound = errors.New("config file not found")

// Podcast holds the channel-level feed configuration.
type Podcast struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Link        string `json:"link" yaml:"link"`
	Language    string `json:"language" yaml:"language"`
	Author      string `json:"author" yaml:"author"`
	Image       string `json:"image" yaml:"image"`
}

// Defaults returns the channel configuration before any file is applied.
func Defaults() Podcast {
	return Podcast{
		Title:       defaultTitle,
		Description: defaultDescription,
		Link:        defaultLink,
		Language:    defaultLanguage,
		Author:      defaultAuthor,
	}
}

// Load resolves the channel configuration for a subfolder: baked-in
// defaults, then the optional global YAML defaults file named by
// PODFEED_DEFAULTS, then the subfolder's config.json. The JSON file is
// required; a missing one is reported as ErrNotFound. Keys present in
// the JSON win even when empty, matching the original contract that
// defaults apply only to absent keys.
func Load(dir string) (Podcast, error) {
	cfg := Defaults()

	if path := strings.TrimSpace(os.Getenv("PODFEED_DEFAULTS")); path != "" {
		if err := applyYAML(&cfg, path); err != nil {
			return Podcast{}, err
		}
	}

	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Podcast{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Podcast{}, fmt.Errorf("could not read config file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Podcast{}, fmt.Errorf("could not parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// applyYAML layers non-empty values from the global defaults file onto cfg.
func applyYAML(cfg *Podcast, path string) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return fmt.Errorf("could not read defaults file %s: %w", resolved, err)
	}

	var overrides Podcast
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("could not parse defaults file %s: %w", resolved, err)
	}

	if value := strings.TrimSpace(overrides.Title); value != "" {
		cfg.Title = value
	}
	if value := strings.TrimSpace(overrides.Description); value != "" {
		cfg.Description = value
	}
	if value := strings.TrimSpace(overrides.Link); value != "" {
		cfg.Link = value
	}
	if value := strings.TrimSpace(overrides.Language); value != "" {
		cfg.Language = value
	}
	if value := strings.TrimSpace(overrides.Author); value != "" {
		cfg.Author = value
	}
	if value := strings.TrimSpace(overrides.Image); value != "" {
		cfg.Image = value
	}

	return nil
}

// Debounce returns the duration to wait before regenerating the feed
// after file-system change events in watch mode.
func Debounce() time.Duration {
	value := strings.TrimSpace(os.Getenv("PODFEED_DEBOUNCE_MS"))
	if value == "" {
		return defaultDebounceMS * time.Millisecond
	}

	ms, err := strconv.Atoi(value)
	if err != nil || ms < 0 {
		return defaultDebounceMS * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}

func resolvePath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	return filepath.Abs(path)
}
