package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Catalog struct {
		// Source is a catalog file path or "postgres".
		Source  string `yaml:"source"`
		Sheet   string `yaml:"sheet"`
		TTL     string `yaml:"ttl"`
		Refresh string `yaml:"refresh"`
	} `yaml:"catalog"`
	Bookmarks struct {
		// Backend is one of memory, file, sqlite, redis, postgres.
		Backend string `yaml:"backend"`
		Key     string `yaml:"key"`
		Dir     string `yaml:"dir"`
	} `yaml:"bookmarks"`
	Game struct {
		RetryDelay       string `yaml:"retry_delay"`
		RequeueMinOffset int    `yaml:"requeue_min_offset"`
		RequeueMaxOffset int    `yaml:"requeue_max_offset"`
		Seed             int64  `yaml:"seed"`
	} `yaml:"game"`
}

// CatalogFromPostgres is the catalog source value that reads quiz_items.
const CatalogFromPostgres = "postgres"

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.SQLite.Path = "data/quiz.db"
	cfg.Catalog.Source = "data/catalog.json"
	cfg.Catalog.TTL = "10m"
	cfg.Bookmarks.Backend = "sqlite"
	cfg.Bookmarks.Key = "businessEnglishChallengeSavedItems"
	cfg.Bookmarks.Dir = "data"
	cfg.Game.RetryDelay = "1.5s"
	cfg.Game.RequeueMinOffset = 10
	cfg.Game.RequeueMaxOffset = 14
	return cfg
}

// Load reads YAML config from path on top of Defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields Defaults.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	return cfg, err
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
