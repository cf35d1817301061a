package bingx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"bingx-trading-bot/internal/types"
)

const (
	placeOrderEndpoint   = "/openApi/swap/v2/trade/order"
	orderHistoryEndpoint = "/openApi/contract/v1/allOrders"
)

// live reports whether real orders may leave the process. Submission is
// double-gated: the mode must be LIVE and trading must be explicitly
// enabled in config.
func (c *Client) live() bool {
	return c.mode == "LIVE" && c.tradingEnabled
}

// PlaceOrder submits an order through the same signed call path as every
// other authenticated request. Outside live mode it returns a simulated
// fill without touching the network.
func (c *Client) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	if req.Qty <= 0 {
		return types.OrderResp{}, fmt.Errorf("order quantity must be positive, got %v", req.Qty)
	}

	if !c.live() {
		return types.OrderResp{
			OrderID: fmt.Sprintf("SIM-%d", time.Now().UnixNano()),
			Status:  "SIMULATED",
			Message: "dry-run",
		}, nil
	}

	orderType := req.Type
	if orderType == "" {
		orderType = "MARKET"
	}
	params := map[string]string{
		"symbol":     req.Symbol,
		"side":       req.Side,
		"type":       orderType,
		"quantity":   strconv.FormatFloat(req.Qty, 'f', -1, 64),
		"recvWindow": "5000",
	}
	if orderType == "LIMIT" && req.Price > 0 {
		params["price"] = strconv.FormatFloat(req.Price, 'f', -1, 64)
	}

	data, err := c.call(ctx, http.MethodPost, placeOrderEndpoint, params)
	if err != nil {
		return types.OrderResp{}, err
	}

	var payload struct {
		Order struct {
			OrderID json.Number `json:"orderId"`
		} `json:"order"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return types.OrderResp{}, fmt.Errorf("decode order response: %w", err)
	}

	return types.OrderResp{
		OrderID: payload.Order.OrderID.String(),
		Status:  "PLACED",
		Message: "ok",
	}, nil
}

type rawOrder struct {
	OrderID          json.Number `json:"orderId"`
	Symbol           string      `json:"symbol"`
	Side             string      `json:"side"`
	Price            stringFloat `json:"price"`
	OrigQty          stringFloat `json:"origQty"`
	Status           string      `json:"status"`
	CreateTime       int64       `json:"createTime"`
	UnrealizedProfit stringFloat `json:"unrealizedProfit"`
}

// OrderHistory returns up to limit recent orders from the standard
// futures family as render-ready records.
func (c *Client) OrderHistory(ctx context.Context, limit int) ([]types.OrderRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	data, err := c.call(ctx, http.MethodGet, orderHistoryEndpoint, map[string]string{
		"limit": strconv.Itoa(limit),
	})
	if err != nil {
		return nil, err
	}

	var raw []rawOrder
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode order history: %w", err)
	}

	if len(raw) > limit {
		raw = raw[:limit]
	}

	records := make([]types.OrderRecord, 0, len(raw))
	for _, o := range raw {
		records = append(records, types.OrderRecord{
			OrderID:    o.OrderID.String(),
			Symbol:     o.Symbol,
			Side:       o.Side,
			Price:      float64(o.Price),
			Quantity:   float64(o.OrigQty),
			Status:     o.Status,
			CreateTime: o.CreateTime,
			Pnl:        float64(o.UnrealizedProfit),
		})
	}

	return records, nil
}
