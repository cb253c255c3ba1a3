package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown mode",
			mutate:  func(c *Config) { c.Mode = "backtest" },
			wantErr: "unknown mode",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.LogLevel = "trace" },
			wantErr: "unknown log_level",
		},
		{
			name:    "no instruments",
			mutate:  func(c *Config) { c.Engine.Instruments = nil },
			wantErr: "at least one instrument",
		},
		{
			name: "unknown strategy",
			mutate: func(c *Config) {
				c.Engine.Instruments["KELP"] = InstrumentConfig{Strategy: "hold", PositionLimit: 10}
			},
			wantErr: "unknown strategy",
		},
		{
			name: "inverted band",
			mutate: func(c *Config) {
				inst := c.Engine.Instruments["AMETHYSTS"]
				inst.BuyPrice, inst.SellPrice = 10002, 9998
				c.Engine.Instruments["AMETHYSTS"] = inst
			},
			wantErr: "buy_price must be below sell_price",
		},
		{
			name: "non-positive min_profit",
			mutate: func(c *Config) {
				inst := c.Engine.Instruments["STARFRUIT"]
				inst.MinProfit = 0
				c.Engine.Instruments["STARFRUIT"] = inst
			},
			wantErr: "min_profit must be positive",
		},
		{
			name: "history too small",
			mutate: func(c *Config) {
				inst := c.Engine.Instruments["STARFRUIT"]
				inst.HistorySize = 1
				c.Engine.Instruments["STARFRUIT"] = inst
			},
			wantErr: "history_size must be at least 2",
		},
		{
			name: "non-positive position limit",
			mutate: func(c *Config) {
				inst := c.Engine.Instruments["AMETHYSTS"]
				inst.PositionLimit = 0
				c.Engine.Instruments["AMETHYSTS"] = inst
			},
			wantErr: "position_limit must be positive",
		},
		{
			name:    "live mode without host url",
			mutate:  func(c *Config) { c.Feed.HostURL = "" },
			wantErr: "host_url is required",
		},
		{
			name: "replay mode without run id",
			mutate: func(c *Config) {
				c.Mode = "replay"
				c.Replay.RunID = ""
			},
			wantErr: "run_id is required",
		},
		{
			name:    "bad server port",
			mutate:  func(c *Config) { c.Server.Port = 99999 },
			wantErr: "invalid port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "backtest"
	cfg.LogLevel = "trace"
	cfg.Engine.Instruments = nil

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
	assert.Contains(t, err.Error(), "unknown log_level")
	assert.Contains(t, err.Error(), "at least one instrument")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode = "replay"
log_level = "debug"

[replay]
run_id = "2d2a4ce0-9d8a-4cb1-b6b2-0f5b6f3a7a01"

[engine]
parallel = true

[engine.instruments.AMETHYSTS]
strategy = "static_band"
position_limit = 15
buy_price = 9997
sell_price = 10003
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "replay", cfg.Mode)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Engine.Parallel)
	assert.Equal(t, "2d2a4ce0-9d8a-4cb1-b6b2-0f5b6f3a7a01", cfg.Replay.RunID)

	inst := cfg.Engine.Instruments["AMETHYSTS"]
	assert.Equal(t, 15, inst.PositionLimit)
	assert.Equal(t, 9997, inst.BuyPrice)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`mode = "live"`), 0o644))

	t.Setenv("TICKBOT_MODE", "serve")
	t.Setenv("TICKBOT_SERVER_PORT", "9100")
	t.Setenv("TICKBOT_REDIS_PASSWORD", "hunter2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "serve", cfg.Mode)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "hunter2", cfg.Redis.Password)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
