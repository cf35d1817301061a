package ta

import (
	"math"

	"bingx-trading-bot/internal/types"
)

// SMA returns the simple moving average of the last n values.
// Returns NaN when there is not enough data.
func SMA(values []float64, n int) float64 {
	if n <= 0 || len(values) < n {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values[len(values)-n:] {
		sum += v
	}
	return sum / float64(n)
}

// StdDev returns the population standard deviation of the last n values.
// Returns NaN when there is not enough data.
func StdDev(values []float64, n int) float64 {
	mean := SMA(values, n)
	if math.IsNaN(mean) {
		return math.NaN()
	}
	variance := 0.0
	for _, v := range values[len(values)-n:] {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(n))
}

// Bollinger returns the middle, upper and lower bands over the last n
// values with the bands k standard deviations away from the mean.
func Bollinger(values []float64, n int, k float64) (mid, upper, lower float64) {
	mid = SMA(values, n)
	sd := StdDev(values, n)
	if math.IsNaN(mid) || math.IsNaN(sd) {
		return math.NaN(), math.NaN(), math.NaN()
	}
	return mid, mid + k*sd, mid - k*sd
}

// RSI computes the relative strength index over the last period deltas
// using a simple average of gains and losses. Needs period+1 values;
// returns NaN otherwise. A window with no losses reads 100.
func RSI(values []float64, period int) float64 {
	if period <= 0 || len(values) < period+1 {
		return math.NaN()
	}
	window := values[len(values)-period-1:]
	var gains, losses float64
	for i := 1; i < len(window); i++ {
		d := window[i] - window[i-1]
		if d > 0 {
			gains += d
		} else {
			losses -= d
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// Snapshot evaluates the indicator set on the latest bar of a close
// series. Fields are NaN when the series is too short for the
// corresponding indicator.
func Snapshot(closes []float64, bbWindow int, bbStdDev float64, rsiPeriod int) types.IndicatorSnapshot {
	_, upper, lower := Bollinger(closes, bbWindow, bbStdDev)
	return types.IndicatorSnapshot{
		LowerBand: lower,
		UpperBand: upper,
		RSI:       RSI(closes, rsiPeriod),
	}
}

// BollingerSeries returns per-bar upper and lower bands aligned with the
// input; entries before the window fills are NaN.
func BollingerSeries(values []float64, n int, k float64) (upper, lower []float64) {
	upper = make([]float64, len(values))
	lower = make([]float64, len(values))
	for i := range values {
		_, u, l := Bollinger(values[:i+1], n, k)
		upper[i] = u
		lower[i] = l
	}
	return upper, lower
}

// RSISeries returns the per-bar RSI aligned with the input; entries
// before period+1 bars are NaN.
func RSISeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		out[i] = RSI(values[:i+1], period)
	}
	return out
}
