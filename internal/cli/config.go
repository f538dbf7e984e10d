package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// envPrefix namespaces environment overrides, e.g. BIKEBUILDER_CATALOG.
const envPrefix = "BIKEBUILDER_"

// Config is the on-disk configuration (~/.config/bikebuilder/config.toml).
type Config struct {
	Catalog string       `toml:"catalog"` // catalog file: .json, .toml, .yaml
	Assets  string       `toml:"assets"`  // directory holding relative part images
	Source  SourceConfig `toml:"source"`
	Server  ServerConfig `toml:"server"`
	Cache   CacheConfig  `toml:"cache"`
	Render  RenderConfig `toml:"render"`
}

// SourceConfig selects a database catalog instead of a file.
type SourceConfig struct {
	Postgres   string `toml:"postgres"` // DSN; enables the Postgres source
	Table      string `toml:"table"`
	Mongo      string `toml:"mongo"` // URI; enables the MongoDB source
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type ServerConfig struct {
	Addr        string        `toml:"addr"`
	AssetBase   string        `toml:"asset_base"`
	SessionIdle time.Duration `toml:"session_idle"`
}

type CacheConfig struct {
	Disabled bool          `toml:"disabled"`
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url"`
	TTL      time.Duration `toml:"ttl"`
}

type RenderConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Format string `toml:"format"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080", SessionIdle: time.Hour},
		Cache:  CacheConfig{TTL: 24 * time.Hour},
		Render: RenderConfig{Width: 850, Height: 650, Format: "svg"},
	}
}

// configDir returns the config directory using XDG standard (~/.config/bikebuilder/).
func configDir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/bikebuilder/).
func cacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// loadConfig reads defaults, then the TOML file at path (the XDG location
// when empty; a missing default file is fine), then a .env file in the
// working directory, then BIKEBUILDER_* variables.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err == nil {
			path = filepath.Join(dir, "config.toml")
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("read .env: %w", err)
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overlays BIKEBUILDER_* variables onto cfg.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}
	str("CATALOG", &cfg.Catalog)
	str("ASSETS", &cfg.Assets)
	str("POSTGRES_DSN", &cfg.Source.Postgres)
	str("POSTGRES_TABLE", &cfg.Source.Table)
	str("MONGO_URI", &cfg.Source.Mongo)
	str("MONGO_DATABASE", &cfg.Source.Database)
	str("MONGO_COLLECTION", &cfg.Source.Collection)
	str("ADDR", &cfg.Server.Addr)
	str("ASSET_BASE", &cfg.Server.AssetBase)
	str("CACHE_DIR", &cfg.Cache.Dir)
	str("REDIS_URL", &cfg.Cache.RedisURL)
	str("FORMAT", &cfg.Render.Format)

	if v, ok := lookup(envPrefix + "CACHE_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sCACHE_TTL: %w", envPrefix, err)
		}
		cfg.Cache.TTL = d
	}
	if v, ok := lookup(envPrefix + "CACHE_DISABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sCACHE_DISABLED: %w", envPrefix, err)
		}
		cfg.Cache.Disabled = b
	}
	for name, dst := range map[string]*int{"WIDTH": &cfg.Render.Width, "HEIGHT": &cfg.Render.Height} {
		if v, ok := lookup(envPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, name, err)
			}
			*dst = n
		}
	}
	return nil
}
