package types

// Credentials authenticate signed exchange calls. Both fields must be
// present; a partially filled credential leaves the client unauthenticated.
type Credentials struct {
	Key    string
	Secret string
}

func (c Credentials) Complete() bool { return c.Key != "" && c.Secret != "" }

type Candle struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64
}

// IndicatorSnapshot holds the indicator values for the most recent bar.
// Fields are NaN when the series is shorter than the indicator window.
type IndicatorSnapshot struct {
	LowerBand float64 `json:"lower_band"`
	UpperBand float64 `json:"upper_band"`
	RSI       float64 `json:"rsi"`
}

type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// AccountType selects the endpoint family and response shape on the
// exchange side. Everything downstream of normalization is type-agnostic.
type AccountType string

const (
	AccountPerpetual AccountType = "perpetual"
	AccountStandard  AccountType = "standard"
)

type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

type Balance struct {
	Account       AccountType `json:"account"`
	Total         float64     `json:"total"`
	Available     float64     `json:"available"`
	UnrealizedPnl float64     `json:"unrealized_pnl"`
}

type Position struct {
	Account       AccountType `json:"account"`
	Symbol        string      `json:"symbol"`
	Side          Side        `json:"side"`
	Quantity      float64     `json:"quantity"`
	EntryPrice    float64     `json:"entry_price"`
	MarkPrice     float64     `json:"mark_price"`
	UnrealizedPnl float64     `json:"unrealized_pnl"`
	Leverage      float64     `json:"leverage"`
	Margin        float64     `json:"margin"`
}

type SymbolStats struct {
	Pnl       float64 `json:"pnl"`
	Positions int     `json:"positions"`
	Long      int     `json:"long"`
	Short     int     `json:"short"`
}

// PortfolioSummary is derived on every request and never persisted.
type PortfolioSummary struct {
	TotalPnl         float64                 `json:"total_pnl"`
	TotalMargin      float64                 `json:"total_margin"`
	TotalPositions   int                     `json:"total_positions"`
	WinningCount     int                     `json:"winning_count"`
	LosingCount      int                     `json:"losing_count"`
	WinRate          float64                 `json:"win_rate"`
	PerpetualPnl     float64                 `json:"perpetual_pnl"`
	StandardPnl      float64                 `json:"standard_pnl"`
	PerpetualBalance float64                 `json:"perpetual_balance"`
	StandardBalance  float64                 `json:"standard_balance"`
	TotalBalance     float64                 `json:"total_balance"`
	Symbols          map[string]*SymbolStats `json:"symbols"`
}

type OrderReq struct {
	Symbol string
	Side   string
	Qty    float64
	Type   string // MARKET or LIMIT
	Price  float64
	Tag    string
}

type OrderResp struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type OrderRecord struct {
	OrderID    string  `json:"order_id"`
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"`
	Price      float64 `json:"price"`
	Quantity   float64 `json:"quantity"`
	Status     string  `json:"status"`
	CreateTime int64   `json:"create_time"`
	Pnl        float64 `json:"pnl"`
}

type StepResult struct {
	Symbol string      `json:"symbol"`
	Signal Signal      `json:"signal"`
	Price  float64     `json:"price"`
	Time   int64       `json:"time"`
	Orders []OrderResp `json:"orders"`
	Reason string      `json:"reason"`
}
