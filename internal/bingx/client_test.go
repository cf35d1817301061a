package bingx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bingx-trading-bot/internal/api"
	"bingx-trading-bot/internal/types"
)

func testCreds() types.Credentials {
	return types.Credentials{Key: "test-key", Secret: "test-secret"}
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(Params{
		BaseURL:      srv.URL,
		Credentials:  testCreds(),
		Mode:         "DRY_RUN",
		CandleSource: "LIVE",
		Retry:        api.RetryConfig{MaxAttempts: 3, Delay: time.Millisecond},
		HTTPClient:   srv.Client(),
	})
	return c, srv
}

// countingTransport fails every request and counts them; it proves a
// code path never reached the network.
type countingTransport struct {
	calls atomic.Int64
}

func (ct *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	ct.calls.Add(1)
	return nil, http.ErrHandlerTimeout
}

func TestCallRejectsMissingCredentials(t *testing.T) {
	ct := &countingTransport{}
	c := New(Params{
		Mode:         "DRY_RUN",
		CandleSource: "LIVE",
		Retry:        api.RetryConfig{MaxAttempts: 3, Delay: time.Millisecond},
		HTTPClient:   &http.Client{Transport: ct},
	})

	_, err := c.Balance(context.Background(), types.AccountPerpetual)
	require.ErrorIs(t, err, ErrUnauthenticated)
	assert.EqualValues(t, 0, ct.calls.Load(), "credential gate must fire before any network attempt")
}

func TestCallSignsAndAuthenticates(t *testing.T) {
	var gotKey string
	var gotQuery map[string][]string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-BX-APIKEY")
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"code":0,"msg":"","data":{"balance":{"balance":"100.5","availableMargin":"80.25","unrealizedProfit":"-1.5"}}}`))
	}))
	c.nowMillis = func() int64 { return 1700000000000 }

	bal, err := c.Balance(context.Background(), types.AccountPerpetual)
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "1700000000000", gotQuery["timestamp"][0])
	require.Len(t, gotQuery["signature"], 1)
	assert.Len(t, gotQuery["signature"][0], 64)

	assert.Equal(t, types.AccountPerpetual, bal.Account)
	assert.Equal(t, 100.5, bal.Total)
	assert.Equal(t, 80.25, bal.Available)
	assert.Equal(t, -1.5, bal.UnrealizedPnl)
}

func TestCallDoesNotRetryAPIErrors(t *testing.T) {
	var calls atomic.Int64
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"code":100413,"msg":"Invalid signature","data":null}`))
	}))

	_, err := c.Balance(context.Background(), types.AccountPerpetual)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.EqualValues(t, 100413, apiErr.Code)
	assert.Equal(t, "Invalid signature", apiErr.Message)
	assert.EqualValues(t, 1, calls.Load(), "application errors must not consume retry budget")
}

func TestCallRetriesMalformedBody(t *testing.T) {
	var calls atomic.Int64
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`<html>gateway error</html>`))
	}))

	_, err := c.Balance(context.Background(), types.AccountPerpetual)
	require.Error(t, err)
	assert.True(t, api.IsTransport(err))
	assert.False(t, api.IsTimeout(err))
	assert.EqualValues(t, 3, calls.Load())
}

func TestCallRecoversWithinBudget(t *testing.T) {
	var calls atomic.Int64
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.Write([]byte(`not json`))
			return
		}
		w.Write([]byte(`{"code":0,"msg":"","data":[]}`))
	}))

	positions, err := c.Positions(context.Background(), types.AccountPerpetual)
	require.NoError(t, err)
	assert.Empty(t, positions)
	assert.EqualValues(t, 3, calls.Load())
}

func TestStandardBalanceTakesFirstElement(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"msg":"","data":[{"balance":"42","available":"40","unrealizedProfit":"2"},{"balance":"999","available":"999","unrealizedProfit":"0"}]}`))
	}))

	bal, err := c.Balance(context.Background(), types.AccountStandard)
	require.NoError(t, err)
	assert.Equal(t, 42.0, bal.Total)
	assert.Equal(t, 40.0, bal.Available)
	assert.Equal(t, 2.0, bal.UnrealizedPnl)
}

func TestStandardBalanceEmptyList(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"msg":"","data":[]}`))
	}))

	bal, err := c.Balance(context.Background(), types.AccountStandard)
	require.NoError(t, err)
	assert.Zero(t, bal.Total)
	assert.Zero(t, bal.Available)
}

func TestPositionsFilterAndSideFallback(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"msg":"","data":[
			{"symbol":"BTC-USDT","positionSide":"LONG","positionAmt":"0.5","entryPrice":"40000","markPrice":"41000","unrealizedProfit":"500","leverage":"10","margin":"2000"},
			{"symbol":"ETH-USDT","positionSide":"","positionAmt":"-2","entryPrice":"2500","markPrice":"2400","unrealizedProfit":"200","leverage":"5","margin":"1000"},
			{"symbol":"XRP-USDT","positionSide":"LONG","positionAmt":"0","entryPrice":"0.5","markPrice":"0.5","unrealizedProfit":"0","leverage":"1","margin":"0"}
		]}`))
	}))

	positions, err := c.Positions(context.Background(), types.AccountPerpetual)
	require.NoError(t, err)
	require.Len(t, positions, 2, "zero-quantity positions must be dropped")

	assert.Equal(t, types.SideLong, positions[0].Side)
	assert.Equal(t, 41000.0, positions[0].MarkPrice)

	assert.Equal(t, types.SideShort, positions[1].Side, "missing side falls back to quantity sign")
	assert.Equal(t, -2.0, positions[1].Quantity)
}

func TestStandardPositionsUseCurrentPrice(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"msg":"","data":[
			{"symbol":"BTC-USDT","positionSide":"SHORT","positionAmt":"-1","entryPrice":"40000","currentPrice":"39000","unrealizedProfit":"1000","leverage":"10","margin":"4000"}
		]}`))
	}))

	positions, err := c.Positions(context.Background(), types.AccountStandard)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, 39000.0, positions[0].MarkPrice)
}

func TestRecentCandlesReversesToOldestFirst(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"msg":"","data":[
			{"open":"3","high":"3","low":"3","close":"3","volume":"1","time":3000},
			{"open":"2","high":"2","low":"2","close":"2","volume":"1","time":2000},
			{"open":"1","high":"1","low":"1","close":"1","volume":"1","time":1000}
		]}`))
	}))

	candles, err := c.RecentCandles(context.Background(), "BTC-USDT", "1h", 3)
	require.NoError(t, err)
	require.Len(t, candles, 3)
	assert.EqualValues(t, 1000, candles[0].Ts)
	assert.EqualValues(t, 3000, candles[2].Ts)
}

func TestRecentCandlesStaticSource(t *testing.T) {
	c := New(Params{Mode: "DRY_RUN", CandleSource: "STATIC"})

	candles, err := c.RecentCandles(context.Background(), "BTC-USDT", "1h", 50)
	require.NoError(t, err)
	assert.Len(t, candles, 50)
	for i := 1; i < len(candles); i++ {
		assert.GreaterOrEqual(t, candles[i].Ts, candles[i-1].Ts)
	}
}

func TestPlaceOrderSimulatedOutsideLive(t *testing.T) {
	ct := &countingTransport{}
	c := New(Params{
		Credentials:  testCreds(),
		Mode:         "DRY_RUN",
		CandleSource: "LIVE",
		HTTPClient:   &http.Client{Transport: ct},
	})

	resp, err := c.PlaceOrder(context.Background(), types.OrderReq{Symbol: "BTC-USDT", Side: "BUY", Qty: 0.001})
	require.NoError(t, err)
	assert.Equal(t, "SIMULATED", resp.Status)
	assert.Contains(t, resp.OrderID, "SIM-")
	assert.EqualValues(t, 0, ct.calls.Load())
}

func TestPlaceOrderLiveRequiresTradingEnabled(t *testing.T) {
	c := New(Params{
		Credentials:  testCreds(),
		Mode:         "LIVE",
		CandleSource: "LIVE",
	})

	resp, err := c.PlaceOrder(context.Background(), types.OrderReq{Symbol: "BTC-USDT", Side: "SELL", Qty: 1})
	require.NoError(t, err)
	assert.Equal(t, "SIMULATED", resp.Status, "LIVE mode without trading enabled still simulates")
}

func TestPlaceOrderRejectsNonPositiveQty(t *testing.T) {
	c := New(Params{Credentials: testCreds(), Mode: "DRY_RUN"})
	_, err := c.PlaceOrder(context.Background(), types.OrderReq{Symbol: "BTC-USDT", Side: "BUY", Qty: 0})
	require.Error(t, err)
}

func TestSetCredentials(t *testing.T) {
	c := New(Params{Mode: "DRY_RUN"})
	assert.False(t, c.Authenticated())

	c.SetCredentials(testCreds())
	assert.True(t, c.Authenticated())
}
