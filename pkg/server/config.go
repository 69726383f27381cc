package server

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/phindler/fpdviz/pkg/cache"
	"github.com/phindler/fpdviz/pkg/session"
)

// Config is the server configuration, loadable from a TOML file.
//
// All fields have working defaults; a missing config file yields a
// memory-backed server on 127.0.0.1:8000 that accepts requests from the
// local Vite dev server.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Session SessionConfig `toml:"session"`
	Cache   CacheConfig   `toml:"cache"`
}

// ServerConfig controls the listener and CORS policy.
type ServerConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// SessionConfig selects and tunes the session backend.
type SessionConfig struct {
	// Backend is one of "memory", "file", "redis", or "mongo".
	Backend    string `toml:"backend"`
	TTLSeconds int    `toml:"ttl_seconds"`
	Capacity   int    `toml:"capacity"`

	// Dir is the storage directory for the file backend.
	Dir string `toml:"dir"`

	RedisURL      string `toml:"redis_url"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// CacheConfig controls the pipeline artifact cache.
type CacheConfig struct {
	Dir      string `toml:"dir"`
	Disabled bool   `toml:"disabled"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:        "127.0.0.1",
			Port:        8000,
			CORSOrigins: []string{"http://localhost:5173"},
		},
		Session: SessionConfig{
			Backend:    "memory",
			TTLSeconds: int(session.DefaultTTL / time.Second),
			Capacity:   session.DefaultCapacity,
		},
	}
}

// LoadConfig reads a TOML config file, layering it over the defaults.
// An empty path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Addr returns the host:port pair to listen on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// SessionTTL returns the configured session TTL as a duration.
func (c *Config) SessionTTL() time.Duration {
	if c.Session.TTLSeconds <= 0 {
		return session.DefaultTTL
	}
	return time.Duration(c.Session.TTLSeconds) * time.Second
}

// OpenStore constructs the configured session backend.
func (c *Config) OpenStore(ctx context.Context) (session.Store, error) {
	ttl := c.SessionTTL()
	switch c.Session.Backend {
	case "", "memory":
		return session.NewMemoryStore(session.MemoryConfig{
			TTL:      ttl,
			Capacity: c.Session.Capacity,
		}), nil
	case "file":
		return session.NewFileStore(c.Session.Dir, ttl)
	case "redis":
		return session.NewRedisStore(ctx, c.Session.RedisURL, ttl)
	case "mongo":
		return session.NewMongoStore(ctx, c.Session.MongoURI, c.Session.MongoDatabase, ttl)
	default:
		return nil, fmt.Errorf("unknown session backend: %q", c.Session.Backend)
	}
}

// OpenCache constructs the configured pipeline cache.
func (c *Config) OpenCache() (cache.Cache, error) {
	if c.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	dir := c.Cache.Dir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolve cache dir: %w", err)
		}
		dir = filepath.Join(base, "fpdviz")
	}
	return cache.NewFileCache(dir)
}
