package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.Ledger.AllowNegativeStock)
	assert.Equal(t, 7, cfg.Ranking.RetentionDays)
	assert.Equal(t, []string{"total", "beauty", "fashion", "food"}, cfg.Ranking.Categories)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LEDGER_ALLOW_NEGATIVE_STOCK", "true")
	t.Setenv("RANKING_CATEGORIES", "beauty, k-pop ,")
	t.Setenv("RANKING_REFRESH_INTERVAL", "6h")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Ledger.AllowNegativeStock)
	assert.Equal(t, []string{"beauty", "k-pop"}, cfg.Ranking.Categories)
	assert.Equal(t, 6*time.Hour, cfg.Ranking.RefreshInterval)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_SecretoObligatorioEnProduccion(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "catalogo", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/catalogo?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
