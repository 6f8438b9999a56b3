package cache

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists the accepted backend names.
func Backends() []string {
	return []string{BackendNone, BackendMemory, BackendFile, BackendRedis, BackendMongo}
}

// Config selects and configures a backend.
type Config struct {
	Backend string
	// Dir is the FileCache root; empty uses DefaultDir.
	Dir string
	// Entries bounds MemoryCache.
	Entries int
	// URL is the Redis or MongoDB connection string.
	URL string
	// Prefix scopes keys in Redis and Mongo; empty uses DefaultPrefix.
	Prefix string

	Database   string
	Collection string
}

// Open builds the configured cache. Remote backends are pinged before Open
// returns.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendMemory:
		c, err := NewMemoryCache(cfg.Entries)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendFile:
		dir := cfg.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		c, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		if cfg.URL == "" {
			return nil, fmt.Errorf("redis backend requires a url")
		}
		c, err := NewRedisCache(ctx, cfg.URL, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMongo:
		if cfg.URL == "" {
			return nil, fmt.Errorf("mongo backend requires a url")
		}
		c, err := NewMongoCache(ctx, cfg.URL, cfg.Database, cfg.Collection, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownBackend, cfg.Backend, strings.Join(Backends(), ", "))
	}
}
