package bingxobs

import (
	"context"

	"bingx-trading-bot/internal/interfaces"
	"bingx-trading-bot/internal/logger"
	"bingx-trading-bot/internal/trace"
	"bingx-trading-bot/internal/types"
)

// observableExchange wraps an Exchange with logging and tracing
type observableExchange struct {
	ex interfaces.Exchange
}

var _ interfaces.Exchange = (*observableExchange)(nil)

// Wrap wraps an exchange with observability middleware
func Wrap(ex interfaces.Exchange) interfaces.Exchange {
	return &observableExchange{ex: ex}
}

func (oe *observableExchange) RecentCandles(ctx context.Context, symbol, interval string, limit int) ([]types.Candle, error) {
	ctx, span := trace.StartSpan(ctx, "exchange.RecentCandles")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching candles", "symbol", symbol, "interval", interval, "limit", limit)

	candles, err := oe.ex.RecentCandles(ctx, symbol, interval, limit)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch candles", err, "symbol", symbol, "interval", interval)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Candles fetched", "symbol", symbol, "count", len(candles))
	return candles, nil
}

func (oe *observableExchange) Balance(ctx context.Context, account types.AccountType) (types.Balance, error) {
	ctx, span := trace.StartSpan(ctx, "exchange.Balance")
	defer span.End()

	bal, err := oe.ex.Balance(ctx, account)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch balance", err, "account", account)
		return types.Balance{}, err
	}

	logger.DebugSkip(ctx, 1, "Balance fetched", "account", account, "total", bal.Total, "available", bal.Available)
	return bal, nil
}

func (oe *observableExchange) Positions(ctx context.Context, account types.AccountType) ([]types.Position, error) {
	ctx, span := trace.StartSpan(ctx, "exchange.Positions")
	defer span.End()

	positions, err := oe.ex.Positions(ctx, account)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch positions", err, "account", account)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Positions fetched", "account", account, "count", len(positions))
	return positions, nil
}

func (oe *observableExchange) OrderHistory(ctx context.Context, limit int) ([]types.OrderRecord, error) {
	ctx, span := trace.StartSpan(ctx, "exchange.OrderHistory")
	defer span.End()

	records, err := oe.ex.OrderHistory(ctx, limit)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch order history", err, "limit", limit)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Order history fetched", "count", len(records))
	return records, nil
}

func (oe *observableExchange) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	ctx, span := trace.StartSpan(ctx, "exchange.PlaceOrder")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Placing order",
		"symbol", req.Symbol,
		"side", req.Side,
		"qty", req.Qty,
		"type", req.Type,
		"tag", req.Tag,
	)

	resp, err := oe.ex.PlaceOrder(ctx, req)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to place order", err,
			"symbol", req.Symbol,
			"side", req.Side,
			"qty", req.Qty,
		)
		return types.OrderResp{}, err
	}

	logger.InfoSkip(ctx, 1, "Order placed",
		"symbol", req.Symbol,
		"order_id", resp.OrderID,
		"status", resp.Status,
	)
	return resp, nil
}
