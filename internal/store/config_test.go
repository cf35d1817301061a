package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	p := writeConfig(t, "mode: DRY_RUN\n")

	cfg, err := LoadConfig(p)
	require.NoError(t, err)

	assert.Equal(t, "STATIC", cfg.DataSource)
	assert.Equal(t, "https://open-api.bingx.com", cfg.BaseURL)
	assert.Equal(t, "BTC-USDT", cfg.Symbol)
	assert.Equal(t, "1h", cfg.Interval)
	assert.Equal(t, 100, cfg.CandleLimit)
	assert.Equal(t, 60, cfg.RetrySeconds)
	assert.Equal(t, 3, cfg.HTTP.MaxAttempts)
	assert.Equal(t, 1000, cfg.HTTP.RetryDelayMs)
	assert.Equal(t, 20, cfg.Indicators.BBWindow)
	assert.Equal(t, 2.0, cfg.Indicators.BBStdDev)
	assert.Equal(t, 14, cfg.Indicators.RSIPeriod)
	assert.Equal(t, 35.0, cfg.Indicators.RSIBuy)
	assert.Equal(t, 65.0, cfg.Indicators.RSISell)
	assert.Equal(t, "MARKET", cfg.Trading.OrderType)
	assert.Equal(t, ":8000", cfg.Web.Addr)
}

func TestLoadConfigOverrides(t *testing.T) {
	p := writeConfig(t, `
mode: LIVE
data_source: LIVE
symbol: ETH-USDT
interval: 15m
candle_limit: 200
trading:
  enabled: true
  quantity: 0.5
  order_type: LIMIT
`)

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "LIVE", cfg.Mode)
	assert.Equal(t, "ETH-USDT", cfg.Symbol)
	assert.Equal(t, "15m", cfg.Interval)
	assert.True(t, cfg.Trading.Enabled)
	assert.Equal(t, 0.5, cfg.Trading.Quantity)
	assert.Equal(t, "LIMIT", cfg.Trading.OrderType)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad mode", "mode: SOMETIMES\n"},
		{"bad data source", "data_source: GUESS\n"},
		{"bad interval", "interval: 7h\n"},
		{"candle limit below window", "candle_limit: 10\n"},
		{"bad order type", "trading:\n  order_type: STOP\n"},
		{"enabled trading without quantity", "trading:\n  enabled: true\n  quantity: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestIntervalDuration(t *testing.T) {
	d, err := IntervalDuration("1h")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, d)

	d, err = IntervalDuration("15m")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, d)

	_, err = IntervalDuration("13m")
	assert.Error(t, err)
}

func TestLoadCredentialsFromEnv(t *testing.T) {
	t.Setenv("BINGX_API_KEY", "k")
	t.Setenv("BINGX_API_SECRET", "s")

	creds := LoadCredentials()
	assert.True(t, creds.Complete())
	assert.Equal(t, "k", creds.Key)
	assert.Equal(t, "s", creds.Secret)
}

func TestLoadCredentialsIncompleteIsNotFatal(t *testing.T) {
	t.Setenv("BINGX_API_KEY", "")
	t.Setenv("BINGX_API_SECRET", "")

	creds := LoadCredentials()
	assert.False(t, creds.Complete())
}
