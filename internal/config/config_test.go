package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kitflip/internal/config"
	"kitflip/internal/domain/entity"
)

func TestLoadDefaults(t *testing.T) {
	rq := require.New(t)

	t.Setenv("MARKET_TOKEN", "secret")

	cfg, err := config.Load()
	rq.NoError(err)

	rq.Equal("kitflip", cfg.App.Name)
	rq.Equal("https://api2.prices.tf", cfg.Oracle.URL)
	rq.Equal(120*time.Hour, cfg.Oracle.StalenessWindow)
	rq.Equal(time.Millisecond, cfg.Oracle.RetryAfterUnit)
	rq.Equal(1, cfg.Oracle.AuthRefreshLimit)
	rq.Equal(5*time.Second, cfg.Oracle.AuthFailureCooldown)
	rq.Equal("secret", cfg.Market.Token)
	rq.Equal(time.Minute, cfg.Market.MinInterval)
	rq.Equal(time.Second, cfg.Market.RetryAfterUnit)
	rq.Equal("440", cfg.Market.AppID)
	rq.Equal(entity.FlipModeBoth, cfg.Flip.Mode)
	rq.Equal(4, cfg.Flip.Concurrency)
	rq.Zero(cfg.Flip.Interval)
	rq.False(cfg.Postgres.Enabled())
	rq.False(cfg.Bot.Enabled())
	rq.Empty(cfg.Postgres.MigrationFiles())
}

func TestLoadOverrides(t *testing.T) {
	rq := require.New(t)

	t.Setenv("MARKET_TOKEN", "secret")
	t.Setenv("FLIP_MODE", "refined")
	t.Setenv("FLIP_QUALITY", "Strange")
	t.Setenv("FLIP_INTERVAL", "30m")
	t.Setenv("PG_DSN", "postgres://kitflip@localhost:5432/kitflip")
	t.Setenv("PG_MIGRATIONS", "migrations/001_flip_results.sql, ,extra.sql")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("BOT_CHAT_ID", "42")

	cfg, err := config.Load()
	rq.NoError(err)

	rq.Equal(entity.FlipModeRefined, cfg.Flip.Mode)
	rq.Equal("Strange", cfg.Flip.Quality)
	rq.Equal(30*time.Minute, cfg.Flip.Interval)
	rq.True(cfg.Postgres.Enabled())
	rq.Equal([]string{"migrations/001_flip_results.sql", "extra.sql"}, cfg.Postgres.MigrationFiles())
	rq.True(cfg.Bot.Enabled())
	rq.Equal(int64(42), cfg.Bot.ChatID)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing market token", env: map[string]string{}},
		{name: "unknown mode", env: map[string]string{"MARKET_TOKEN": "x", "FLIP_MODE": "fast"}},
		{name: "zero concurrency", env: map[string]string{"MARKET_TOKEN": "x", "FLIP_CONCURRENCY": "0"}},
		{name: "bad duration", env: map[string]string{"MARKET_TOKEN": "x", "ORACLE_TIMEOUT": "soon"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("MARKET_TOKEN", "")

			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			require.Error(t, err)
		})
	}
}
