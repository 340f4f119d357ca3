// Package config loads application configuration from TOML files.
//
// Every setting has a default, so an absent file or empty section is valid.
// Flags layered on top by the CLI override file values.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/modelviz/modelviz/pkg/derive"
	"github.com/modelviz/modelviz/pkg/errors"
	"github.com/modelviz/modelviz/pkg/layout"
)

// Backend names accepted in the cache and store sections.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"

	StoreBackendFile  = "file"
	StoreBackendMongo = "mongo"
)

// Duration wraps time.Duration with TOML text decoding ("30m", "24h").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Config is the full application configuration.
type Config struct {
	Derive DeriveConfig `toml:"derive"`
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// DeriveConfig configures graph derivation.
type DeriveConfig struct {
	RootLabel        string `toml:"root_label"`
	CollectionsField string `toml:"collections_field"`
}

// Options converts the section to derivation options.
func (c DeriveConfig) Options() derive.Options {
	return derive.Options{
		RootLabel:        c.RootLabel,
		CollectionsField: c.CollectionsField,
	}
}

// LayoutConfig configures layout spacing.
type LayoutConfig struct {
	NodeWidth       float64 `toml:"node_width"`
	NodeHeight      float64 `toml:"node_height"`
	HorizontalGap   float64 `toml:"horizontal_gap"`
	VerticalSpacing float64 `toml:"vertical_spacing"`
	CategoryWidth   float64 `toml:"category_width"`
}

// Spacing converts the section to a layout configuration.
// Zero values resolve to engine defaults.
func (c LayoutConfig) Spacing() layout.Config {
	return layout.Config{
		NodeWidth:       c.NodeWidth,
		NodeHeight:      c.NodeHeight,
		HorizontalGap:   c.HorizontalGap,
		VerticalSpacing: c.VerticalSpacing,
		CategoryWidth:   c.CategoryWidth,
	}
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend string   `toml:"backend"` // file, redis, none
	Dir     string   `toml:"dir"`     // file backend only; empty means XDG default
	TTL     Duration `toml:"ttl"`     // 0 means entries never expire

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// StoreConfig selects and configures the inspection store backend.
type StoreConfig struct {
	Backend string `toml:"backend"` // file, mongo
	Dir     string `toml:"dir"`     // file backend only; empty means XDG default

	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			Backend:   CacheBackendFile,
			TTL:       Duration(24 * time.Hour),
			RedisAddr: "localhost:6379",
		},
		Store: StoreConfig{
			Backend:       StoreBackendFile,
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "modelviz",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration(10 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(5 * time.Second),
		},
	}
}

// Load reads a TOML file over the defaults. An empty path returns defaults;
// a missing file is an error so typos in --config don't silently vanish.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks backend names and spacing values.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "", CacheBackendFile, CacheBackendRedis, CacheBackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend: %s", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case "", StoreBackendFile, StoreBackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend: %s", c.Store.Backend)
	}
	if err := c.Layout.Spacing().Validate(); err != nil {
		return err
	}
	if c.Derive.CollectionsField != "" {
		if err := errors.ValidateFieldName(c.Derive.CollectionsField); err != nil {
			return err
		}
	}
	return nil
}
