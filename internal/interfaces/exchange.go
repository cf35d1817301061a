package interfaces

import (
	"context"

	"bingx-trading-bot/internal/types"
)

type Exchange interface {
	RecentCandles(ctx context.Context, symbol, interval string, limit int) ([]types.Candle, error)
	Balance(ctx context.Context, account types.AccountType) (types.Balance, error)
	Positions(ctx context.Context, account types.AccountType) ([]types.Position, error)
	OrderHistory(ctx context.Context, limit int) ([]types.OrderRecord, error)
	PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error)
}
