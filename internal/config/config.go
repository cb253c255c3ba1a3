// Package config defines the top-level configuration for the tick bot and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by TICKBOT_* environment
// variables.
type Config struct {
	Engine   EngineConfig   `toml:"engine"`
	Feed     FeedConfig     `toml:"feed"`
	Replay   ReplayConfig   `toml:"replay"`
	Postgres PostgresConfig `toml:"postgres"`
	Redis    RedisConfig    `toml:"redis"`
	S3       S3Config       `toml:"s3"`
	Server   ServerConfig   `toml:"server"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// EngineConfig holds the instrument book and decide-path options.
type EngineConfig struct {
	// Parallel decides instruments concurrently. Decisions are independent,
	// so the output is identical either way.
	Parallel    bool                        `toml:"parallel"`
	Instruments map[string]InstrumentConfig `toml:"instruments"`
}

// InstrumentConfig selects and parameterizes the strategy for one symbol.
// Strategy is "static_band" or "adaptive"; only the matching parameter block
// is read.
type InstrumentConfig struct {
	Strategy      string `toml:"strategy"`
	PositionLimit int    `toml:"position_limit"`

	// static_band
	BuyPrice  int `toml:"buy_price"`
	SellPrice int `toml:"sell_price"`

	// adaptive
	MinProfit   int `toml:"min_profit"`
	MaxLoss     int `toml:"max_loss"`
	HistorySize int `toml:"history_size"`
}

// FeedConfig holds the host websocket connection parameters.
type FeedConfig struct {
	HostURL          string `toml:"host_url"`
	ReconnectSeconds int    `toml:"reconnect_seconds"`
}

// ReplayConfig selects which archived run to stream back through the engine.
type ReplayConfig struct {
	RunID string `toml:"run_id"`
}

// PostgresConfig holds PostgreSQL connection parameters for the tick store.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters for the record mirror.
type RedisConfig struct {
	Addr        string `toml:"addr"`
	Password    string `toml:"password"`
	DB          int    `toml:"db"`
	PoolSize    int    `toml:"pool_size"`
	MaxRetries  int    `toml:"max_retries"`
	TLSEnabled  bool   `toml:"tls_enabled"`
	RecentLimit int    `toml:"recent_limit"`
}

// S3Config holds S3-compatible object storage parameters for the archiver.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// ServerConfig holds the status HTTP API parameters.
type ServerConfig struct {
	Enabled bool   `toml:"enabled"`
	Port    int    `toml:"port"`
	APIKey  string `toml:"api_key"`
}

// Defaults returns a Config populated with the reference instrument book:
// AMETHYSTS on the static band, STARFRUIT on the adaptive lot tracker.
func Defaults() Config {
	return Config{
		Engine: EngineConfig{
			Parallel: false,
			Instruments: map[string]InstrumentConfig{
				"AMETHYSTS": {
					Strategy:      "static_band",
					PositionLimit: 20,
					BuyPrice:      9998,
					SellPrice:     10002,
				},
				"STARFRUIT": {
					Strategy:      "adaptive",
					PositionLimit: 20,
					MinProfit:     4,
					MaxLoss:       3,
					HistorySize:   10,
				},
			},
		},
		Feed: FeedConfig{
			HostURL:          "ws://localhost:9001/ticks",
			ReconnectSeconds: 2,
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "tickbot",
			User:          "tickbot",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			DB:          0,
			PoolSize:    20,
			MaxRetries:  3,
			RecentLimit: 200,
		},
		S3: S3Config{
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "tickbot-data",
			UseSSL:         false,
			ForcePathStyle: true,
		},
		Server: ServerConfig{
			Enabled: true,
			Port:    8000,
		},
		Mode:     "live",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"live":   true,
	"replay": true,
	"serve":  true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validStrategies enumerates the strategy names an instrument may select.
var validStrategies = map[string]bool{
	"static_band": true,
	"adaptive":    true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: live, replay, serve)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if len(c.Engine.Instruments) == 0 {
		errs = append(errs, "engine: at least one instrument must be configured")
	}
	for sym, inst := range c.Engine.Instruments {
		switch {
		case !validStrategies[inst.Strategy]:
			errs = append(errs, fmt.Sprintf("engine: instrument %s: unknown strategy %q (valid: static_band, adaptive)", sym, inst.Strategy))
		case inst.Strategy == "static_band":
			if inst.BuyPrice >= inst.SellPrice {
				errs = append(errs, fmt.Sprintf("engine: instrument %s: buy_price must be below sell_price", sym))
			}
		case inst.Strategy == "adaptive":
			if inst.MinProfit <= 0 {
				errs = append(errs, fmt.Sprintf("engine: instrument %s: min_profit must be positive", sym))
			}
			if inst.MaxLoss <= 0 {
				errs = append(errs, fmt.Sprintf("engine: instrument %s: max_loss must be positive", sym))
			}
			if inst.HistorySize < 2 {
				errs = append(errs, fmt.Sprintf("engine: instrument %s: history_size must be at least 2", sym))
			}
		}
		if inst.PositionLimit <= 0 {
			errs = append(errs, fmt.Sprintf("engine: instrument %s: position_limit must be positive", sym))
		}
	}

	switch strings.ToLower(c.Mode) {
	case "live":
		if c.Feed.HostURL == "" {
			errs = append(errs, "feed: host_url is required for live mode")
		}
	case "replay":
		if c.Replay.RunID == "" {
			errs = append(errs, "replay: run_id is required for replay mode")
		}
	}

	if c.Server.Enabled && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server: invalid port %d", c.Server.Port))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
