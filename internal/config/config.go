// Package config loads purse settings from a YAML or TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/roach88/purse/internal/persist"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Backends lists the accepted storage.backend values.
var Backends = []string{BackendSQLite, BackendFile, BackendMemory}

// Config holds every setting the CLI reads.
type Config struct {
	Storage Storage `yaml:"storage" toml:"storage"`
	Locale  string  `yaml:"locale" toml:"locale"`
	Log     Log     `yaml:"log" toml:"log"`
}

// Storage selects and configures the persistence adapter.
type Storage struct {
	Backend string `yaml:"backend" toml:"backend"`
	Path    string `yaml:"path" toml:"path"`
	Key     string `yaml:"key" toml:"key"`

	// SaveTimeout is a Go duration string ("5s"). Empty or "0" disables it.
	SaveTimeout string `yaml:"save_timeout" toml:"save_timeout"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Storage: Storage{
			Backend:     BackendSQLite,
			Path:        "purse.db",
			Key:         persist.DefaultKey,
			SaveTimeout: "5s",
		},
		Locale: "ru",
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over Default. An empty path or a missing file yields the
// defaults. The format is chosen by extension: .yaml, .yml or .toml.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("config %s: unsupported extension %q (want .yaml, .yml or .toml)", path, ext)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field and returns all problems joined.
func (c Config) Validate() error {
	var errs []error

	switch c.Storage.Backend {
	case BackendSQLite, BackendFile:
		if c.Storage.Path == "" {
			errs = append(errs, fmt.Errorf("storage.path is required for backend %q", c.Storage.Backend))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.backend %q: must be one of %s",
			c.Storage.Backend, strings.Join(Backends, ", ")))
	}
	if c.Storage.Key == "" {
		errs = append(errs, errors.New("storage.key must not be empty"))
	}
	if _, err := c.Storage.Timeout(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Tag(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if f := c.Log.Format; f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("log.format %q: must be text or json", f))
	}

	return errors.Join(errs...)
}

// Timeout parses SaveTimeout.
func (s Storage) Timeout() (time.Duration, error) {
	if s.SaveTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.SaveTimeout)
	if err != nil {
		return 0, fmt.Errorf("storage.save_timeout %q: %w", s.SaveTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("storage.save_timeout %q: must not be negative", s.SaveTimeout)
	}
	return d, nil
}

// Tag parses Locale as a BCP 47 tag.
func (c Config) Tag() (language.Tag, error) {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("locale %q: %w", c.Locale, err)
	}
	return tag, nil
}
