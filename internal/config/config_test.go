package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"centraldoconsumidor/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "REDIS_ADDR", "RATE_LIMIT", "RATE_LIMIT_WINDOW", "REPUTATION_CACHE_TTL", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 60, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 10*time.Minute, cfg.ReputationCacheTTL)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RATE_LIMIT", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("ADVISOR_PROVIDER", "Claude")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5, cfg.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 0, cfg.RedisDB, "invalid integers fall back to the default")
	assert.Equal(t, "claude", cfg.AdvisorProvider)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestValidate(t *testing.T) {
	cfg := &Config{RateLimit: 1, RateLimitWindow: time.Second}
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_DSN")

	cfg.DatabaseDSN = "host=localhost"
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	cfg.JWTSecret = "secret"
	assert.NoError(t, cfg.Validate())

	cfg.RateLimit = 0
	assert.Error(t, cfg.Validate())
}

func TestDefaultChannelTable(t *testing.T) {
	table := DefaultChannelTable()
	require.Len(t, table, 9)

	anatel, ok := table.Lookup(ChannelAnatel)
	require.True(t, ok)
	assert.Equal(t, models.ChannelEffectiveness{SuccessRate: 0.80, AvgTime: 60}, anatel)

	for name, eff := range table {
		assert.Zero(t, eff.Cost, "%s should be free", name)
	}

	// Each call returns an independent copy.
	table[ChannelProcon] = models.ChannelEffectiveness{}
	procon, _ := DefaultChannelTable().Lookup(ChannelProcon)
	assert.Equal(t, 0.75, procon.SuccessRate)
}

func TestAffinity(t *testing.T) {
	assert.Equal(t, 1.3, Affinity(models.CategoryTelecom, ChannelAnatel))
	assert.Equal(t, 1.4, Affinity(models.CategoryBanking, ChannelBancoCentral))
	assert.Equal(t, 1.2, Affinity(models.CategoryBanking, ChannelProcon))
	assert.Equal(t, 1.0, Affinity(models.CategoryRetail, ChannelProcon))
	assert.Equal(t, 1.0, Affinity(models.CategoryUnknown, ChannelAnatel))
}

func TestLoadChannelTable(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		table, err := LoadChannelTable("")
		require.NoError(t, err)
		assert.Equal(t, DefaultChannelTable(), table)
	})

	t.Run("file entries override and extend", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "channels.yaml")
		content := `channels:
  Procon:
    success_rate: 0.5
    avg_time_days: 20
  Consumidor.gov.br:
    success_rate: 0.8
    avg_time_days: 10
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		table, err := LoadChannelTable(path)
		require.NoError(t, err)

		assert.Equal(t, models.ChannelEffectiveness{SuccessRate: 0.5, AvgTime: 20}, table[ChannelProcon])
		assert.Equal(t, models.ChannelEffectiveness{SuccessRate: 0.8, AvgTime: 10}, table["Consumidor.gov.br"])
		assert.Equal(t, 0.80, table[ChannelAnatel].SuccessRate)
		assert.Len(t, table, 10)
	})

	t.Run("invalid success rate", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("channels:\n  Procon:\n    success_rate: 1.5\n"), 0o600))

		_, err := LoadChannelTable(path)
		assert.ErrorContains(t, err, "success_rate")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadChannelTable(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
