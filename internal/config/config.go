// Package config loads fiducial settings.
//
// Settings are layered, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/fiducial/config.toml
//  3. a .env file in the working directory, if present
//  4. FIDUCIAL_* environment variables
//  5. command-line flags, applied by the CLI
//
// The merged result is validated with struct tags before use.
package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/fiducial/pkg/cache"
	ferrors "github.com/matzehuels/fiducial/pkg/errors"
	"github.com/matzehuels/fiducial/pkg/pipeline"
)

// Config is the full settings tree.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Marker MarkerConfig `toml:"marker"`
	Label  LabelConfig  `toml:"label"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

type MarkerConfig struct {
	Mode   string `toml:"mode" validate:"oneof=simple dense"`
	Shape  string `toml:"shape" validate:"oneof=squares mixed"`
	Format string `toml:"format" validate:"oneof=png svg"`
	// Size is the output side in pixels; 0 keeps the native canvas.
	Size   int  `toml:"size" validate:"min=0,max=4096"`
	Binary bool `toml:"binary"`
	MaxKey int  `toml:"max_key" validate:"min=1,max=1000000"`
}

type LabelConfig struct {
	ShowCode   bool   `toml:"show_code"`
	ShowNumber bool   `toml:"show_number"`
	Font       string `toml:"font"`
}

type CacheConfig struct {
	Backend    string   `toml:"backend" validate:"oneof=none memory file redis mongo"`
	Dir        string   `toml:"dir"`
	Entries    int      `toml:"entries" validate:"min=0"`
	URL        string   `toml:"url" validate:"required_if=Backend redis,required_if=Backend mongo"`
	Prefix     string   `toml:"prefix"`
	Database   string   `toml:"database"`
	Collection string   `toml:"collection"`
	TTL        Duration `toml:"ttl" validate:"min=0"`
}

type ServerConfig struct {
	Addr            string   `toml:"addr" validate:"hostname_port"`
	ReadTimeout     Duration `toml:"read_timeout" validate:"gt=0"`
	WriteTimeout    Duration `toml:"write_timeout" validate:"gt=0"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" validate:"gt=0"`
	// Cache overrides [cache].backend for the server, which defaults to an
	// in-process LRU rather than the CLI's file cache.
	Cache string `toml:"cache" validate:"omitempty,oneof=none memory file redis mongo"`
}

// Duration is a time.Duration written as a string ("30s") in TOML.
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the standard library value.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Marker: MarkerConfig{
			Mode:   pipeline.DefaultMode,
			Shape:  pipeline.DefaultShape,
			Format: pipeline.DefaultFormat,
			MaxKey: 118,
		},
		Label: LabelConfig{ShowNumber: true},
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			Entries: cache.DefaultMemoryEntries,
			Prefix:  cache.DefaultPrefix,
			TTL:     Duration(cache.TTLArtifact),
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration(10 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
			Cache:           cache.BackendMemory,
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "fiducial", "config.toml"), nil
}

// Load builds the configuration. An explicit path must exist; the default
// path is optional.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "load .env")
	}

	cfg := Default()
	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.decodeFile(path, explicit); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// CacheFor returns the cache settings for the CLI, or for the server when
// server is true.
func (c *Config) CacheFor(server bool) cache.Config {
	backend := c.Cache.Backend
	if server && c.Server.Cache != "" {
		backend = c.Server.Cache
	}
	return cache.Config{
		Backend:    backend,
		Dir:        c.Cache.Dir,
		Entries:    c.Cache.Entries,
		URL:        c.Cache.URL,
		Prefix:     c.Cache.Prefix,
		Database:   c.Cache.Database,
		Collection: c.Cache.Collection,
	}
}

// PipelineOptions returns generation options carrying the configured
// defaults. The caller sets the key.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Mode:       c.Marker.Mode,
		Shape:      c.Marker.Shape,
		Format:     c.Marker.Format,
		Size:       c.Marker.Size,
		Binary:     c.Marker.Binary,
		MaxKey:     c.Marker.MaxKey,
		ShowCode:   c.Label.ShowCode,
		ShowNumber: c.Label.ShowNumber,
		Font:       c.Label.Font,
	}
}

// Encode writes c as TOML, used by "config show".
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
