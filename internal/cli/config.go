package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/procflow/pkg/errors"
	"github.com/matzehuels/procflow/pkg/layout"
)

// Cache and store backends selectable in the config file.
const (
	backendFile   = "file"
	backendRedis  = "redis"
	backendNone   = "none"
	backendMemory = "memory"
	backendMongo  = "mongo"
)

// Environment variables that override config file values.
const (
	envRedisURL = "PROCFLOW_REDIS_URL"
	envMongoURI = "PROCFLOW_MONGO_URI"
	envAddr     = "PROCFLOW_ADDR"
)

// Config is the procflow.toml file:
//
//	[layout]
//	mode = "schematic"
//	transpose = false
//	width = 1024
//	height = 768
//
//	[cache]
//	backend = "redis"            # file (default), redis or none
//	redis_url = "redis://localhost:6379/0"
//	namespace = "team-a"
//
//	[server]
//	addr = ":8080"
//	store = "mongo"              # memory (default), file or mongo
//	mongo_uri = "mongodb://localhost:27017"
//	ttl = "24h"
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig holds default layout options. Command-line flags win.
type LayoutConfig struct {
	Mode      string  `toml:"mode"`
	Transpose bool    `toml:"transpose"`
	Width     float64 `toml:"width"`
	Height    float64 `toml:"height"`
}

// CacheConfig selects the pipeline cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisURL  string `toml:"redis_url"`
	Namespace string `toml:"namespace"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr     string   `toml:"addr"`
	Store    string   `toml:"store"`
	StoreDir string   `toml:"store_dir"`
	MongoURI string   `toml:"mongo_uri"`
	Database string   `toml:"database"`
	TTL      duration `toml:"ttl"`
}

// duration decodes TOML strings such as "90m" into a time.Duration.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// loadConfig reads the config file at path. An empty path falls back to
// the default location, and a missing default file yields the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, cfg.validateAndSetDefaults()
		}
		path = filepath.Join(dir, "config.toml")
	}

	meta, err := toml.DecodeFile(path, cfg)
	switch {
	case os.IsNotExist(err) && !explicit:
		// no config file is fine
	case os.IsNotExist(err):
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	default:
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q in %s", undecoded[0].String(), path)
		}
	}

	cfg.applyEnv()
	return cfg, cfg.validateAndSetDefaults()
}

// applyEnv overrides connection settings from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv(envRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv(envMongoURI); v != "" {
		c.Server.MongoURI = v
	}
	if v := os.Getenv(envAddr); v != "" {
		c.Server.Addr = v
	}
}

func (c *Config) validateAndSetDefaults() error {
	if c.Layout.Mode != "" {
		mode, err := layout.ParseMode(c.Layout.Mode)
		if err != nil {
			return err
		}
		c.Layout.Mode = string(mode)
	}

	switch c.Cache.Backend {
	case "":
		c.Cache.Backend = backendFile
	case backendFile, backendNone:
	case backendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires redis_url or %s", envRedisURL)
		}
		if err := errors.ValidateURL(c.Cache.RedisURL, "redis", "rediss"); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cache backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}

	switch c.Server.Store {
	case "":
		c.Server.Store = backendMemory
	case backendMemory, backendFile:
	case backendMongo:
		if c.Server.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store mongo requires mongo_uri or %s", envMongoURI)
		}
		if err := errors.ValidateURL(c.Server.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid store: %q (must be one of: memory, file, mongo)", c.Server.Store)
	}
	return nil
}

// configDir returns the config directory using XDG standard (~/.config/procflow/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
