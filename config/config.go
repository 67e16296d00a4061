// Package config loads server settings from defaults, an optional YAML file,
// a .env file and the process environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"city-route/algo"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Graph sources.
const (
	SourceBuiltin = "builtin"
	SourceJSON    = "json"
	SourceOSM     = "osm"
	SourceDB      = "db"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Graph    GraphConfig    `yaml:"graph"`
	Search   SearchConfig   `yaml:"search"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static-dir"`
}

type DatabaseConfig struct {
	Host       string `yaml:"host"`        // DB_HOST
	Port       string `yaml:"port"`        // DB_PORT
	User       string `yaml:"user"`        // DB_USER
	Password   string `yaml:"password"`    // DB_PASSWORD
	Name       string `yaml:"name"`        // DB_NAME
	TimeZone   string `yaml:"timezone"`    // e.g. "UTC", "Asia/Shanghai"
	MaxRetries int    `yaml:"max-retries"` // connect attempts, 2s apart
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.TimeZone,
	)
}

type GraphConfig struct {
	// Source is one of builtin, json, osm, db.
	Source string `yaml:"source"`
	// Path is the map file for the json and osm sources.
	Path string `yaml:"path"`
	// Bidirectional adds the reverse of every edge that has none. OSM maps
	// decide this per way from the oneway tag and ignore it.
	Bidirectional bool `yaml:"bidirectional"`
}

type SearchConfig struct {
	Strategy      string        `yaml:"strategy"`
	MaxIterations int           `yaml:"max-iterations"`
	Timeout       time.Duration `yaml:"timeout"`
}

// Options converts the search settings into path finder options.
func (s SearchConfig) Options() ([]algo.Option, error) {
	strategy, err := algo.ParseStrategy(s.Strategy)
	if err != nil {
		return nil, err
	}
	return []algo.Option{
		algo.WithStrategy(strategy),
		algo.WithMaxIterations(s.MaxIterations),
		algo.WithTimeout(s.Timeout),
	}, nil
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt-secret"`
	TokenTTL  time.Duration `yaml:"token-ttl"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080", StaticDir: "./static"},
		Database: DatabaseConfig{
			Host:       "localhost",
			Port:       "5432",
			User:       "routeuser",
			Password:   "routepassword",
			Name:       "cityroute",
			TimeZone:   "UTC",
			MaxRetries: 30,
		},
		Graph:  GraphConfig{Source: SourceBuiltin},
		Search: SearchConfig{Strategy: "linear", MaxIterations: 100000, Timeout: 2 * time.Second},
		Auth:   AuthConfig{JWTSecret: "change-me-in-production", TokenTTL: 24 * time.Hour},
		Log:    LogConfig{Level: "info"},
	}
}

// Load builds the configuration. path may be empty or point to a missing
// file; both fall back to defaults. A .env file in the working directory is
// loaded if present and never overrides variables already set.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return cfg, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Addr, "SERVER_ADDR")
	setString(&c.Server.StaticDir, "STATIC_DIR")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Graph.Source, "GRAPH_SOURCE")
	setString(&c.Graph.Path, "GRAPH_PATH")
	setString(&c.Search.Strategy, "SEARCH_STRATEGY")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Log.Level, "LOG_LEVEL")

	if v := os.Getenv("GRAPH_BIDIRECTIONAL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("GRAPH_BIDIRECTIONAL: %w", err)
		}
		c.Graph.Bidirectional = b
	}
	if v := os.Getenv("SEARCH_MAX_ITERATIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SEARCH_MAX_ITERATIONS: %w", err)
		}
		c.Search.MaxIterations = n
	}
	if v := os.Getenv("SEARCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SEARCH_TIMEOUT: %w", err)
		}
		c.Search.Timeout = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Graph.Source {
	case SourceBuiltin, SourceDB:
	case SourceJSON, SourceOSM:
		if c.Graph.Path == "" {
			return fmt.Errorf("graph source %q needs a path", c.Graph.Source)
		}
	default:
		return fmt.Errorf("unknown graph source %q", c.Graph.Source)
	}
	if _, err := algo.ParseStrategy(c.Search.Strategy); err != nil {
		return err
	}
	if c.Search.MaxIterations < 0 {
		return fmt.Errorf("search max-iterations must be >= 0, got %d", c.Search.MaxIterations)
	}
	if c.Search.Timeout < 0 {
		return fmt.Errorf("search timeout must be >= 0, got %s", c.Search.Timeout)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth jwt-secret must not be empty")
	}
	return nil
}
