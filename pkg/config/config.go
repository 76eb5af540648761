// Package config loads cartpile settings from a TOML file.
//
// Every field has a default, so a file only needs the values it changes:
//
//	[cart]
//	capacity = 12
//
//	[cart.pile.region]
//	right_edge = 480
//
//	[store]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
// [Load] starts from [Default], overlays the file and validates the result.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cartpile/pkg/cart"
	"github.com/matzehuels/cartpile/pkg/errors"
	"github.com/matzehuels/cartpile/pkg/survival"
	"github.com/matzehuels/cartpile/pkg/ui"
)

const (
	appName  = "cartpile"
	fileName = "config.toml"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists the supported store backends.
var Backends = []string{BackendMemory, BackendFile, BackendRedis, BackendMongo}

// Config is the complete application configuration.
type Config struct {
	Cart     cart.Config     `toml:"cart"`
	Meter    survival.Config `toml:"meter"`
	UI       ui.Config       `toml:"ui"`
	Dialogue DialogueConfig  `toml:"dialogue"`
	Server   ServerConfig    `toml:"server"`
	Store    StoreConfig     `toml:"store"`
}

// DialogueConfig points at the dialogue catalog.
type DialogueConfig struct {
	// Path is a TOML catalog file. Empty means no lines, every lookup falls back.
	Path string `toml:"path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	MaxBodyBytes    int64         `toml:"max_body_bytes"`
}

// StoreConfig selects and configures the snapshot store.
type StoreConfig struct {
	Backend string        `toml:"backend"`
	TTL     time.Duration `toml:"ttl"` // zero keeps snapshots forever

	Dir string `toml:"dir"` // file backend; empty uses the XDG data dir

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Cart:  cart.DefaultConfig(),
		Meter: survival.DefaultConfig(),
		UI:    ui.DefaultConfig(),
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			MaxBodyBytes:    1 << 16,
		},
		Store: StoreConfig{
			Backend:         BackendMemory,
			RedisAddr:       "localhost:6379",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   appName,
			MongoCollection: "carts",
		},
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Cart.Validate(); err != nil {
		return err
	}
	if err := c.Meter.Validate(); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr must not be empty")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_body_bytes must be > 0")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server timeouts must be >= 0")
	}
	return c.Store.Validate()
}

// Validate checks the backend name and the settings it needs.
func (s StoreConfig) Validate() error {
	if !slices.Contains(Backends, s.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "store.backend %q is not one of %v", s.Backend, Backends)
	}
	if s.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "store.ttl must be >= 0")
	}
	switch s.Backend {
	case BackendRedis:
		if s.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.redis_addr is required for the redis backend")
		}
	case BackendMongo:
		if s.MongoURI == "" || s.MongoDatabase == "" || s.MongoCollection == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.mongo_uri, mongo_database and mongo_collection are required for the mongo backend")
		}
	}
	return nil
}

// Load reads path on top of the defaults. An empty path loads the file at
// [Path] if it exists and the defaults otherwise.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		if _, err := os.Stat(p); err != nil {
			return Default(), nil
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Path returns the config file location using the XDG standard
// (~/.config/cartpile/config.toml).
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// DataDir returns the directory for file-backed snapshots
// (~/.local/share/cartpile/carts).
func DataDir() (string, error) {
	if home := os.Getenv("XDG_DATA_HOME"); home != "" {
		return filepath.Join(home, appName, "carts"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName, "carts"), nil
}
