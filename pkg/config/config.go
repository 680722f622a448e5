// Package config loads engine settings from an optional TOML file with
// LINEAGEWEAVER_ environment variable overrides on top. Every knob has a
// default, so a zero-config run works.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds all settings for the engine, CLI and server.
type Config struct {
	Layout  LayoutConfig  `toml:"layout"`
	Kinship KinshipConfig `toml:"kinship"`
	Server  ServerConfig  `toml:"server"`
	Store   StoreConfig   `toml:"store"`
}

// LayoutConfig is the chart geometry. All values are page units.
type LayoutConfig struct {
	CardWidth         float64 `toml:"card_width"`         // width of one person card
	CardHeight        float64 `toml:"card_height"`        // height of one person card
	SpouseGap         float64 `toml:"spouse_gap"`         // gap between a couple's cards
	SiblingGap        float64 `toml:"sibling_gap"`        // gap between leaf siblings
	BranchGap         float64 `toml:"branch_gap"`         // gap before a sibling with descendants
	GenerationSpacing float64 `toml:"generation_spacing"` // vertical gap between generations
	FragmentGap       float64 `toml:"fragment_gap"`       // vertical gap between fragments
	AnchorX           float64 `toml:"anchor_x"`           // x the root generation centers on
	LineOffset        float64 `toml:"line_offset"`        // connector offset per extra line system
}

// KinshipConfig tunes the relationship classifier.
type KinshipConfig struct {
	// MaxDepth bounds ancestor walks. Deep multi-century trees may need a
	// higher cap to label 2nd/3rd great-grandparents.
	MaxDepth int `toml:"max_depth"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	RateLimit float64 `toml:"rate_limit"` // requests per second per client, 0 disables
	RateBurst int     `toml:"rate_burst"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// StoreConfig selects and parameterizes the dataset store backend.
type StoreConfig struct {
	Backend  string `toml:"backend"` // memory, file, sqlite, redis, mongo
	Path     string `toml:"path"`    // file and sqlite backends
	RedisURL string `toml:"redis_url"`
	MongoURI string `toml:"mongo_uri"`
	MongoDB  string `toml:"mongo_db"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			CardWidth:         180,
			CardHeight:        100,
			SpouseGap:         24,
			SiblingGap:        16,
			BranchGap:         48,
			GenerationSpacing: 80,
			FragmentGap:       120,
			AnchorX:           0,
			LineOffset:        8,
		},
		Kinship: KinshipConfig{MaxDepth: 4},
		Server: ServerConfig{
			Host:      "127.0.0.1",
			Port:      7420,
			RateLimit: 20,
			RateBurst: 40,
		},
		Store: StoreConfig{
			Backend:  "file",
			Path:     "lineage.json",
			RedisURL: "redis://localhost:6379/0",
			MongoURI: "mongodb://localhost:27017",
			MongoDB:  "lineageweaver",
		},
	}
}

// Load builds the effective configuration: defaults, then the TOML file at
// path when non-empty, then LINEAGEWEAVER_ environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.Layout.CardWidth <= 0 || c.Layout.CardHeight <= 0 {
		return fmt.Errorf("config: card dimensions must be positive, got %gx%g",
			c.Layout.CardWidth, c.Layout.CardHeight)
	}
	if c.Layout.SiblingGap < 0 || c.Layout.BranchGap < 0 || c.Layout.SpouseGap < 0 {
		return fmt.Errorf("config: gaps must be non-negative")
	}
	if c.Kinship.MaxDepth < 1 {
		return fmt.Errorf("config: kinship max_depth must be at least 1, got %d", c.Kinship.MaxDepth)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	switch c.Store.Backend {
	case "memory", "file", "sqlite", "redis", "mongo":
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Kinship.MaxDepth = envInt("LINEAGEWEAVER_KINSHIP_MAX_DEPTH", cfg.Kinship.MaxDepth)
	cfg.Server.Host = envString("LINEAGEWEAVER_SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = envInt("LINEAGEWEAVER_SERVER_PORT", cfg.Server.Port)
	cfg.Server.RateLimit = envFloat("LINEAGEWEAVER_SERVER_RATE_LIMIT", cfg.Server.RateLimit)
	cfg.Store.Backend = envString("LINEAGEWEAVER_STORE_BACKEND", cfg.Store.Backend)
	cfg.Store.Path = envString("LINEAGEWEAVER_STORE_PATH", cfg.Store.Path)
	cfg.Store.RedisURL = envString("LINEAGEWEAVER_REDIS_URL", cfg.Store.RedisURL)
	cfg.Store.MongoURI = envString("LINEAGEWEAVER_MONGO_URI", cfg.Store.MongoURI)
	cfg.Store.MongoDB = envString("LINEAGEWEAVER_MONGO_DB", cfg.Store.MongoDB)
	cfg.Layout.CardWidth = envFloat("LINEAGEWEAVER_LAYOUT_CARD_WIDTH", cfg.Layout.CardWidth)
	cfg.Layout.CardHeight = envFloat("LINEAGEWEAVER_LAYOUT_CARD_HEIGHT", cfg.Layout.CardHeight)
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
