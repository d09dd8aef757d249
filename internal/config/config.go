package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type MongoCfg struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type BackfillCfg struct {
	Workers int `yaml:"workers"`
}

type Config struct {
	Env      string      `yaml:"env"`
	Mongo    MongoCfg    `yaml:"mongo"`
	Backfill BackfillCfg `yaml:"backfill"`
}

// Load reads an optional YAML file, then applies environment overrides.
// MONGODB_URI is the one required setting.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Env: "production",
		Mongo: MongoCfg{
			Database:   "joblink",
			Collection: "users",
		},
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	override := func(env string, apply func(string)) {
		if v := os.Getenv(env); v != "" {
			apply(v)
		}
	}

	override("APP_ENV", func(v string) { cfg.Env = v })
	override("MONGODB_URI", func(v string) { cfg.Mongo.URI = v })
	override("MONGODB_DB", func(v string) { cfg.Mongo.Database = v })
	override("MONGODB_COLLECTION", func(v string) { cfg.Mongo.Collection = v })
	override("BACKFILL_WORKERS", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Backfill.Workers = n
		}
	})

	if cfg.Mongo.URI == "" {
		return nil, errors.New("MONGODB_URI is required")
	}
	return cfg, nil
}
