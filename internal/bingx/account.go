package bingx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"bingx-trading-bot/internal/types"
)

const (
	perpetualBalanceEndpoint   = "/openApi/swap/v2/user/balance"
	perpetualPositionsEndpoint = "/openApi/swap/v2/user/positions"
	standardBalanceEndpoint    = "/openApi/contract/v1/balance"
	standardPositionsEndpoint  = "/openApi/contract/v1/allPosition"
)

// rawBalance covers the fields of both account families; the perpetual
// family reports availableMargin where standard reports available.
type rawBalance struct {
	Balance          stringFloat `json:"balance"`
	Available        stringFloat `json:"available"`
	AvailableMargin  stringFloat `json:"availableMargin"`
	UnrealizedProfit stringFloat `json:"unrealizedProfit"`
}

// Balance fetches and normalizes the account balance for one account
// type. The two families return structurally different payloads: the
// perpetual balance is nested under data.balance, the standard one is
// the first element of a list.
func (c *Client) Balance(ctx context.Context, account types.AccountType) (types.Balance, error) {
	switch account {
	case types.AccountPerpetual:
		data, err := c.call(ctx, http.MethodGet, perpetualBalanceEndpoint, nil)
		if err != nil {
			return types.Balance{}, err
		}
		var payload struct {
			Balance rawBalance `json:"balance"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return types.Balance{}, fmt.Errorf("decode perpetual balance: %w", err)
		}
		return types.Balance{
			Account:       account,
			Total:         float64(payload.Balance.Balance),
			Available:     float64(payload.Balance.AvailableMargin),
			UnrealizedPnl: float64(payload.Balance.UnrealizedProfit),
		}, nil

	case types.AccountStandard:
		data, err := c.call(ctx, http.MethodGet, standardBalanceEndpoint, nil)
		if err != nil {
			return types.Balance{}, err
		}
		var payload []rawBalance
		if err := json.Unmarshal(data, &payload); err != nil {
			return types.Balance{}, fmt.Errorf("decode standard balance: %w", err)
		}
		var first rawBalance
		if len(payload) > 0 {
			first = payload[0]
		}
		return types.Balance{
			Account:       account,
			Total:         float64(first.Balance),
			Available:     float64(first.Available),
			UnrealizedPnl: float64(first.UnrealizedProfit),
		}, nil

	default:
		return types.Balance{}, fmt.Errorf("unknown account type %q", account)
	}
}

type rawPosition struct {
	Symbol           string      `json:"symbol"`
	PositionSide     string      `json:"positionSide"`
	PositionAmt      stringFloat `json:"positionAmt"`
	EntryPrice       stringFloat `json:"entryPrice"`
	MarkPrice        stringFloat `json:"markPrice"`
	CurrentPrice     stringFloat `json:"currentPrice"`
	UnrealizedProfit stringFloat `json:"unrealizedProfit"`
	Leverage         stringFloat `json:"leverage"`
	Margin           stringFloat `json:"margin"`
}

// Positions fetches and normalizes the open positions of one account
// type. Zero-quantity entries are dropped before side derivation, and
// a missing side field falls back to the sign of the quantity.
func (c *Client) Positions(ctx context.Context, account types.AccountType) ([]types.Position, error) {
	var endpoint string
	switch account {
	case types.AccountPerpetual:
		endpoint = perpetualPositionsEndpoint
	case types.AccountStandard:
		endpoint = standardPositionsEndpoint
	default:
		return nil, fmt.Errorf("unknown account type %q", account)
	}

	data, err := c.call(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var raw []rawPosition
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s positions: %w", account, err)
	}

	positions := make([]types.Position, 0, len(raw))
	for _, p := range raw {
		if p.PositionAmt == 0 {
			continue
		}
		mark := float64(p.MarkPrice)
		if account == types.AccountStandard {
			mark = float64(p.CurrentPrice)
		}
		positions = append(positions, types.Position{
			Account:       account,
			Symbol:        p.Symbol,
			Side:          deriveSide(p.PositionSide, float64(p.PositionAmt)),
			Quantity:      float64(p.PositionAmt),
			EntryPrice:    float64(p.EntryPrice),
			MarkPrice:     mark,
			UnrealizedPnl: float64(p.UnrealizedProfit),
			Leverage:      float64(p.Leverage),
			Margin:        float64(p.Margin),
		})
	}

	return positions, nil
}

// deriveSide prefers the explicit side field; some account types omit
// it, in which case the sign of the quantity decides.
func deriveSide(explicit string, qty float64) types.Side {
	switch strings.ToUpper(strings.TrimSpace(explicit)) {
	case "LONG":
		return types.SideLong
	case "SHORT":
		return types.SideShort
	}
	if qty > 0 {
		return types.SideLong
	}
	return types.SideShort
}
