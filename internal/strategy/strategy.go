package strategy

import (
	"fmt"
	"math"

	"bingx-trading-bot/internal/types"
)

// Evaluator turns a candle series plus its indicator snapshot into a
// trading signal.
type Evaluator interface {
	Evaluate(candles []types.Candle, snap types.IndicatorSnapshot) (types.Signal, string)
}

// BandBounce is a mean-reversion rule: buy when price closes below the
// lower Bollinger band while RSI is oversold, sell when it closes above
// the upper band while RSI is overbought, hold otherwise.
type BandBounce struct {
	RSIBuy  float64 // oversold threshold
	RSISell float64 // overbought threshold
	MinBars int     // bars required before any signal fires
}

var _ Evaluator = (*BandBounce)(nil)

func NewBandBounce(rsiBuy, rsiSell float64, minBars int) *BandBounce {
	if rsiBuy <= 0 {
		rsiBuy = 35
	}
	if rsiSell <= 0 {
		rsiSell = 65
	}
	if minBars <= 0 {
		minBars = 21
	}
	return &BandBounce{RSIBuy: rsiBuy, RSISell: rsiSell, MinBars: minBars}
}

// Evaluate is pure: same candles and snapshot always yield the same
// signal. Both band and RSI conditions must agree for a trade signal.
func (b *BandBounce) Evaluate(candles []types.Candle, snap types.IndicatorSnapshot) (types.Signal, string) {
	if len(candles) < b.MinBars {
		return types.SignalHold, fmt.Sprintf("insufficient history: %d of %d bars", len(candles), b.MinBars)
	}
	if math.IsNaN(snap.LowerBand) || math.IsNaN(snap.UpperBand) || math.IsNaN(snap.RSI) {
		return types.SignalHold, "indicators not ready"
	}

	close := candles[len(candles)-1].Close

	if close < snap.LowerBand && snap.RSI < b.RSIBuy {
		return types.SignalBuy, fmt.Sprintf("close %.2f below lower band %.2f with RSI %.1f < %.0f", close, snap.LowerBand, snap.RSI, b.RSIBuy)
	}
	if close > snap.UpperBand && snap.RSI > b.RSISell {
		return types.SignalSell, fmt.Sprintf("close %.2f above upper band %.2f with RSI %.1f > %.0f", close, snap.UpperBand, snap.RSI, b.RSISell)
	}

	return types.SignalHold, fmt.Sprintf("close %.2f within bands [%.2f, %.2f], RSI %.1f", close, snap.LowerBand, snap.UpperBand, snap.RSI)
}
