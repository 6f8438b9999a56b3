package config

import (
	"strconv"
	"strings"
	"time"

	ferrors "github.com/matzehuels/fiducial/pkg/errors"
)

// EnvPrefix starts every recognised environment variable.
const EnvPrefix = "FIDUCIAL_"

type envBinding struct {
	name string
	set  func(c *Config, v string) error
}

func str(dst func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*dst(c) = v
		return nil
	}
}

func integer(dst func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}
}

func boolean(dst func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst(c) = b
		return nil
	}
}

func duration(dst func(*Config) *Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*dst(c) = Duration(d)
		return nil
	}
}

var envBindings = []envBinding{
	{"LOG_LEVEL", str(func(c *Config) *string { return &c.Log.Level })},
	{"MODE", str(func(c *Config) *string { return &c.Marker.Mode })},
	{"SHAPE", str(func(c *Config) *string { return &c.Marker.Shape })},
	{"FORMAT", str(func(c *Config) *string { return &c.Marker.Format })},
	{"SIZE", integer(func(c *Config) *int { return &c.Marker.Size })},
	{"BINARY", boolean(func(c *Config) *bool { return &c.Marker.Binary })},
	{"MAX_KEY", integer(func(c *Config) *int { return &c.Marker.MaxKey })},
	{"SHOW_CODE", boolean(func(c *Config) *bool { return &c.Label.ShowCode })},
	{"SHOW_NUMBER", boolean(func(c *Config) *bool { return &c.Label.ShowNumber })},
	{"FONT", str(func(c *Config) *string { return &c.Label.Font })},
	{"CACHE", str(func(c *Config) *string { return &c.Cache.Backend })},
	{"CACHE_DIR", str(func(c *Config) *string { return &c.Cache.Dir })},
	{"CACHE_ENTRIES", integer(func(c *Config) *int { return &c.Cache.Entries })},
	{"CACHE_URL", str(func(c *Config) *string { return &c.Cache.URL })},
	{"CACHE_PREFIX", str(func(c *Config) *string { return &c.Cache.Prefix })},
	{"CACHE_TTL", duration(func(c *Config) *Duration { return &c.Cache.TTL })},
	{"ADDR", str(func(c *Config) *string { return &c.Server.Addr })},
	{"SERVER_CACHE", str(func(c *Config) *string { return &c.Server.Cache })},
	{"READ_TIMEOUT", duration(func(c *Config) *Duration { return &c.Server.ReadTimeout })},
	{"WRITE_TIMEOUT", duration(func(c *Config) *Duration { return &c.Server.WriteTimeout })},
}

// ApplyEnv overrides fields from FIDUCIAL_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, b := range envBindings {
		v, ok := lookup(EnvPrefix + b.name)
		if !ok {
			continue
		}
		if err := b.set(c, strings.TrimSpace(v)); err != nil {
			return ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, b.name)
		}
	}
	return nil
}
