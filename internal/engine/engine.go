package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bingx-trading-bot/internal/interfaces"
	"bingx-trading-bot/internal/logger"
	"bingx-trading-bot/internal/store"
	"bingx-trading-bot/internal/strategy"
	"bingx-trading-bot/internal/ta"
	"bingx-trading-bot/internal/tradelog"
	"bingx-trading-bot/internal/types"
)

// ErrNoData marks a cycle where the exchange returned an empty candle
// set; the loop retries after the short delay instead of the full
// interval.
var ErrNoData = errors.New("engine: no candle data")

// Engine drives one symbol through the fetch-evaluate-act cycle.
type Engine struct {
	cfg  *store.Config
	ex   interfaces.Exchange
	eval strategy.Evaluator
}

var _ interfaces.Engine = (*Engine)(nil)

func New(cfg *store.Config, ex interfaces.Exchange, eval strategy.Evaluator) *Engine {
	return &Engine{cfg: cfg, ex: ex, eval: eval}
}

// Step runs a single decision cycle: fetch candles, compute indicators,
// evaluate the signal and submit at most one order.
func (e *Engine) Step(ctx context.Context) (*types.StepResult, error) {
	candles, err := e.ex.RecentCandles(ctx, e.cfg.Symbol, e.cfg.Interval, e.cfg.CandleLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	if len(candles) == 0 {
		return nil, ErrNoData
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	snap := ta.Snapshot(closes, e.cfg.Indicators.BBWindow, e.cfg.Indicators.BBStdDev, e.cfg.Indicators.RSIPeriod)

	signal, reason := e.eval.Evaluate(candles, snap)
	last := candles[len(candles)-1]

	logger.Decision(ctx, e.cfg.Symbol, string(signal), reason,
		"price", last.Close,
		"lower_band", snap.LowerBand,
		"upper_band", snap.UpperBand,
		"rsi", snap.RSI,
	)
	if err := tradelog.AppendDecision(tradelog.DecisionEntry{
		Symbol: e.cfg.Symbol,
		Signal: string(signal),
		Reason: reason,
		Price:  last.Close,
		Indicators: map[string]float64{
			"lower_band": snap.LowerBand,
			"upper_band": snap.UpperBand,
			"rsi":        snap.RSI,
		},
	}); err != nil {
		logger.Warn(ctx, "Failed to journal decision", "error", err)
	}

	result := &types.StepResult{
		Symbol: e.cfg.Symbol,
		Signal: signal,
		Price:  last.Close,
		Time:   time.Now().UnixMilli(),
		Reason: reason,
	}

	if signal == types.SignalHold {
		return result, nil
	}
	if e.cfg.Trading.Quantity <= 0 {
		logger.Debug(ctx, "No order quantity configured, signal not acted on", "signal", signal)
		return result, nil
	}

	resp, err := e.ex.PlaceOrder(ctx, types.OrderReq{
		Symbol: e.cfg.Symbol,
		Side:   string(signal),
		Qty:    e.cfg.Trading.Quantity,
		Type:   e.cfg.Trading.OrderType,
		Tag:    "SIGNAL",
	})
	if err != nil {
		return result, fmt.Errorf("place %s order: %w", signal, err)
	}

	result.Orders = append(result.Orders, resp)
	logger.Trade(ctx, e.cfg.Symbol, string(signal), e.cfg.Trading.Quantity, last.Close, resp.OrderID,
		"status", resp.Status,
	)
	if err := tradelog.Append(tradelog.Entry{
		Symbol:  e.cfg.Symbol,
		Side:    string(signal),
		OrderID: resp.OrderID,
		Status:  resp.Status,
		Reason:  reason,
		Qty:     e.cfg.Trading.Quantity,
		Price:   last.Close,
	}); err != nil {
		logger.Warn(ctx, "Failed to journal trade", "error", err)
	}

	return result, nil
}

// Run executes Step on a fixed cadence until ctx is cancelled. A failed
// or empty cycle retries after the short configured delay; a completed
// cycle sleeps for one full candle interval.
func Run(ctx context.Context, eng interfaces.Engine, cfg *store.Config) error {
	interval, err := store.IntervalDuration(cfg.Interval)
	if err != nil {
		return err
	}
	retry := time.Duration(cfg.RetrySeconds) * time.Second

	for {
		wait := interval
		if _, err := eng.Step(ctx); err != nil {
			if errors.Is(err, ErrNoData) {
				logger.Warn(ctx, "No candle data, retrying shortly", "retry_seconds", cfg.RetrySeconds)
			} else {
				logger.ErrorWithErr(ctx, "Cycle failed", err)
			}
			wait = retry
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
