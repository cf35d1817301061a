package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"bingx-trading-bot/internal/types"
)

type Config struct {
	Mode         string `yaml:"mode"`          // DRY_RUN or LIVE
	DataSource   string `yaml:"data_source"`   // STATIC or LIVE
	BaseURL      string `yaml:"base_url"`
	Symbol       string `yaml:"symbol"`
	Interval     string `yaml:"interval"`
	CandleLimit  int    `yaml:"candle_limit"`
	RetrySeconds int    `yaml:"retry_seconds"` // sleep after an empty or failed fetch

	HTTP struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`
		MaxAttempts    int `yaml:"max_attempts"`
		RetryDelayMs   int `yaml:"retry_delay_ms"`
	} `yaml:"http"`

	Indicators struct {
		BBWindow  int     `yaml:"bb_window"`
		BBStdDev  float64 `yaml:"bb_stddev"`
		RSIPeriod int     `yaml:"rsi_period"`
		RSIBuy    float64 `yaml:"rsi_buy"`
		RSISell   float64 `yaml:"rsi_sell"`
	} `yaml:"indicators"`

	Trading struct {
		Enabled   bool    `yaml:"enabled"`
		Quantity  float64 `yaml:"quantity"`
		OrderType string  `yaml:"order_type"`
	} `yaml:"trading"`

	Web struct {
		Enabled bool   `yaml:"enabled"`
		Addr    string `yaml:"addr"`
	} `yaml:"web"`
}

// intervalDurations maps exchange candle intervals to their wall-clock
// length; this also defines the set of accepted interval strings.
var intervalDurations = map[string]time.Duration{
	"1m":  time.Minute,
	"3m":  3 * time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"30m": 30 * time.Minute,
	"1h":  time.Hour,
	"2h":  2 * time.Hour,
	"4h":  4 * time.Hour,
	"6h":  6 * time.Hour,
	"8h":  8 * time.Hour,
	"12h": 12 * time.Hour,
	"1d":  24 * time.Hour,
}

// IntervalDuration returns the cadence of one candle interval.
func IntervalDuration(interval string) (time.Duration, error) {
	d, ok := intervalDurations[interval]
	if !ok {
		return 0, fmt.Errorf("unknown candle interval %q", interval)
	}
	return d, nil
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.DataSource != "STATIC" && c.DataSource != "LIVE" {
		return fmt.Errorf("invalid data_source '%s': must be 'STATIC' or 'LIVE'", c.DataSource)
	}
	if c.Symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if _, err := IntervalDuration(c.Interval); err != nil {
		return err
	}
	// The band window plus one bar of price history is the minimum the
	// signal evaluator will act on.
	if c.CandleLimit < c.Indicators.BBWindow+1 {
		return fmt.Errorf("candle_limit %d too small for bb_window %d", c.CandleLimit, c.Indicators.BBWindow)
	}
	if c.Trading.OrderType != "MARKET" && c.Trading.OrderType != "LIMIT" {
		return fmt.Errorf("trading.order_type must be 'MARKET' or 'LIMIT', got '%s'", c.Trading.OrderType)
	}
	if c.Trading.Enabled && c.Trading.Quantity <= 0 {
		return fmt.Errorf("trading.quantity must be positive when trading is enabled")
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

func applyDefaults(c *Config) {
	if c.Mode == "" {
		c.Mode = "DRY_RUN"
	}
	if c.DataSource == "" {
		c.DataSource = "STATIC"
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://open-api.bingx.com"
	}
	if c.Symbol == "" {
		c.Symbol = "BTC-USDT"
	}
	if c.Interval == "" {
		c.Interval = "1h"
	}
	if c.CandleLimit == 0 {
		c.CandleLimit = 100
	}
	if c.RetrySeconds == 0 {
		c.RetrySeconds = 60
	}
	if c.HTTP.TimeoutSeconds == 0 {
		c.HTTP.TimeoutSeconds = 10
	}
	if c.HTTP.MaxAttempts == 0 {
		c.HTTP.MaxAttempts = 3
	}
	if c.HTTP.RetryDelayMs == 0 {
		c.HTTP.RetryDelayMs = 1000
	}
	if c.Indicators.BBWindow == 0 {
		c.Indicators.BBWindow = 20
	}
	if c.Indicators.BBStdDev == 0 {
		c.Indicators.BBStdDev = 2.0
	}
	if c.Indicators.RSIPeriod == 0 {
		c.Indicators.RSIPeriod = 14
	}
	if c.Indicators.RSIBuy == 0 {
		c.Indicators.RSIBuy = 35
	}
	if c.Indicators.RSISell == 0 {
		c.Indicators.RSISell = 65
	}
	if c.Trading.OrderType == "" {
		c.Trading.OrderType = "MARKET"
	}
	if c.Web.Addr == "" {
		c.Web.Addr = ":8000"
	}
}

// LoadCredentials reads API credentials from the environment, falling back
// to config.json when either variable is unset. An incomplete result is
// not an error: it leaves the client unauthenticated and signed calls
// are rejected at call time.
func LoadCredentials() types.Credentials {
	creds := types.Credentials{
		Key:    os.Getenv("BINGX_API_KEY"),
		Secret: os.Getenv("BINGX_API_SECRET"),
	}
	if creds.Complete() {
		return creds
	}

	b, err := os.ReadFile("config.json")
	if err != nil {
		return creds
	}
	var file struct {
		Key    string `json:"BINGX_API_KEY"`
		Secret string `json:"BINGX_API_SECRET"`
	}
	if err := json.Unmarshal(b, &file); err != nil {
		return creds
	}
	if creds.Key == "" {
		creds.Key = file.Key
	}
	if creds.Secret == "" {
		creds.Secret = file.Secret
	}
	return creds
}
