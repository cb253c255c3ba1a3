package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies TICKBOT_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known TICKBOT_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Feed ──
	setStr(&cfg.Feed.HostURL, "TICKBOT_FEED_HOST_URL")
	setInt(&cfg.Feed.ReconnectSeconds, "TICKBOT_FEED_RECONNECT_SECONDS")

	// ── Replay ──
	setStr(&cfg.Replay.RunID, "TICKBOT_REPLAY_RUN_ID")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "TICKBOT_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "TICKBOT_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "TICKBOT_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "TICKBOT_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "TICKBOT_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "TICKBOT_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "TICKBOT_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "TICKBOT_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "TICKBOT_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "TICKBOT_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "TICKBOT_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "TICKBOT_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "TICKBOT_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "TICKBOT_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "TICKBOT_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "TICKBOT_REDIS_TLS_ENABLED")
	setInt(&cfg.Redis.RecentLimit, "TICKBOT_REDIS_RECENT_LIMIT")

	// ── S3 ──
	setStr(&cfg.S3.Endpoint, "TICKBOT_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "TICKBOT_S3_REGION")
	setStr(&cfg.S3.Bucket, "TICKBOT_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "TICKBOT_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "TICKBOT_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "TICKBOT_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "TICKBOT_S3_FORCE_PATH_STYLE")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "TICKBOT_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "TICKBOT_SERVER_PORT")
	setStr(&cfg.Server.APIKey, "TICKBOT_SERVER_API_KEY")

	// ── Engine ──
	setBool(&cfg.Engine.Parallel, "TICKBOT_ENGINE_PARALLEL")

	// ── Top-level ──
	setStr(&cfg.Mode, "TICKBOT_MODE")
	setStr(&cfg.LogLevel, "TICKBOT_LOG_LEVEL")
}

// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
