package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fiducial/internal/config"
	"github.com/matzehuels/fiducial/pkg/cache"
	"github.com/matzehuels/fiducial/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "fiducial"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is set by --config; empty uses the default location.
	ConfigPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the configuration once and applies its log level.
func (c *CLI) loadConfig() error {
	if c.cfg != nil {
		return nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return err
	}
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
		c.SetLogLevel(lvl)
	}
	c.cfg = cfg
	return nil
}

// config returns the loaded configuration, or the defaults before
// loadConfig has run.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. noCache swaps the
// configured backend for the null cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg := c.config()
	var store cache.Cache = cache.NewNullCache()
	if !noCache {
		opened, err := cache.Open(ctx, cfg.CacheFor(false))
		if err != nil {
			// An unreachable cache must not block generation.
			c.Logger.Warn("cache unavailable, continuing without", "backend", cfg.Cache.Backend, "err", err)
		} else {
			store = opened
		}
	}
	r := pipeline.NewRunner(store, nil, c.Logger)
	r.TTL = cfg.Cache.TTL.Std()
	return r, nil
}
