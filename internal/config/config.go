package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds everything the catalog client, caches and frontends need.
type Config struct {
	BaseURL     string   `toml:"base_url"`
	MaxID       int      `toml:"max_id"`
	Timeout     Duration `toml:"timeout"`
	LogLevel    string   `toml:"log_level"`
	Parallelism int      `toml:"parallelism"`

	Cache struct {
		DBPath     string   `toml:"db_path"`
		NoPersist  bool     `toml:"no_persist"`
		GCInterval Duration `toml:"gc_interval"`
		L1Size     int      `toml:"l1_size"`
		L1TTL      Duration `toml:"l1_ttl"`
		L2TTL      Duration `toml:"l2_ttl"`
	} `toml:"cache"`

	Server struct {
		Port        int      `toml:"port"`
		CORSOrigins []string `toml:"cors_origins"`
		MaxSessions int      `toml:"max_sessions"`
	} `toml:"server"`
}

// Duration lets TOML files spell durations as "10s" or "2h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the settings used against the public catalog.
func DefaultConfig() *Config {
	cfg := &Config{
		BaseURL:     "https://pokeapi.co/api/v2/pokemon",
		MaxID:       1008,
		Timeout:     Duration{10 * time.Second},
		LogLevel:    "info",
		Parallelism: 4,
	}
	cfg.Cache.DBPath = ".badger"
	cfg.Cache.GCInterval = Duration{600 * time.Second}
	cfg.Cache.L1Size = 2000
	cfg.Cache.L1TTL = Duration{7200 * time.Second}
	cfg.Cache.L2TTL = Duration{86400 * time.Second}
	cfg.Server.Port = 8080
	cfg.Server.CORSOrigins = []string{"*"}
	cfg.Server.MaxSessions = 256
	return cfg
}

// Read loads a TOML file on top of DefaultConfig.
func Read(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every incoherent value at once.
func (c *Config) Validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, fmt.Errorf("base URL cannot be empty"))
	} else if parsed, err := url.Parse(c.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("invalid base URL: %w", err))
	} else if parsed.Host == "" {
		errs = append(errs, fmt.Errorf("base URL must include a host"))
	}
	if c.MaxID <= 0 {
		errs = append(errs, fmt.Errorf("max id must be greater than 0"))
	}
	if c.Timeout.Duration <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive"))
	}
	if c.Parallelism <= 0 {
		errs = append(errs, fmt.Errorf("parallelism must be greater than 0"))
	}
	if !c.Cache.NoPersist {
		if c.Cache.DBPath == "" {
			errs = append(errs, fmt.Errorf("db path can't be empty"))
		}
		if c.Cache.GCInterval.Duration <= 0 {
			errs = append(errs, fmt.Errorf("gc interval must be greater than 0"))
		}
		if c.Cache.L2TTL.Duration <= 0 {
			errs = append(errs, fmt.Errorf("l2 ttl must be greater than 0"))
		}
	}
	if c.Cache.L1Size <= 0 {
		errs = append(errs, fmt.Errorf("l1 size must be greater than 0"))
	}
	if c.Cache.L1TTL.Duration <= 0 {
		errs = append(errs, fmt.Errorf("l1 ttl must be greater than 0"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535"))
	}
	if c.Server.MaxSessions <= 0 {
		errs = append(errs, fmt.Errorf("max sessions must be greater than 0"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log level must be debug, info, warn, or error"))
	}
	return errors.Join(errs...)
}
