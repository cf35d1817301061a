package bingx

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"bingx-trading-bot/internal/types"
)

const klinesEndpoint = "/openApi/swap/v2/quote/klines"

type rawKline struct {
	Open   stringFloat `json:"open"`
	High   stringFloat `json:"high"`
	Low    stringFloat `json:"low"`
	Close  stringFloat `json:"close"`
	Volume stringFloat `json:"volume"`
	Time   int64       `json:"time"`
}

// RecentCandles fetches up to limit candles for symbol, oldest first.
// With a STATIC candle source it returns a synthetic random-walk series
// so the loop can run without exchange access.
func (c *Client) RecentCandles(ctx context.Context, symbol, interval string, limit int) ([]types.Candle, error) {
	if c.candleSource != "LIVE" {
		return staticCandles(limit), nil
	}

	data, err := c.call(ctx, http.MethodGet, klinesEndpoint, map[string]string{
		"symbol":   symbol,
		"interval": interval,
		"limit":    strconv.Itoa(limit),
	})
	if err != nil {
		return nil, err
	}

	var raw []rawKline
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode klines payload: %w", err)
	}

	candles := make([]types.Candle, 0, len(raw))
	for _, k := range raw {
		candles = append(candles, types.Candle{
			Ts:    k.Time,
			Open:  float64(k.Open),
			High:  float64(k.High),
			Low:   float64(k.Low),
			Close: float64(k.Close),
			Vol:   float64(k.Volume),
		})
	}

	// The exchange returns newest first; indicators need oldest first.
	for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
		candles[i], candles[j] = candles[j], candles[i]
	}

	return candles, nil
}

func staticCandles(n int) []types.Candle {
	cs := make([]types.Candle, 0, n)
	price := 40000.0
	now := time.Now().Unix()

	for i := 0; i < n; i++ {
		price += (rand.Float64() - 0.5) * 200
		h := price + rand.Float64()*80
		l := price - rand.Float64()*80
		cs = append(cs, types.Candle{
			Ts:    now - int64((n-i)*3600),
			Open:  price - 10,
			High:  h,
			Low:   l,
			Close: price,
			Vol:   rand.Float64() * 100,
		})
	}

	return cs
}
