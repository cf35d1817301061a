package bingx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"bingx-trading-bot/internal/api"
	"bingx-trading-bot/internal/interfaces"
	"bingx-trading-bot/internal/types"
)

const apiKeyHeader = "X-BX-APIKEY"

type Params struct {
	BaseURL        string
	Credentials    types.Credentials
	Mode           string // DRY_RUN or LIVE
	TradingEnabled bool
	CandleSource   string // STATIC or LIVE
	Timeout        time.Duration
	Retry          api.RetryConfig
	HTTPClient     *http.Client // optional; tests inject httptest clients
}

// Client is the signed BingX REST client. The credential is an owned,
// swappable field so concurrent loop instances can each hold their own.
type Client struct {
	baseURL        string
	mode           string
	tradingEnabled bool
	candleSource   string
	http           *api.Client
	retry          api.RetryConfig

	mu    sync.RWMutex
	creds types.Credentials

	// Millisecond clock, overridable in tests.
	nowMillis func() int64
}

var _ interfaces.Exchange = (*Client)(nil)

func New(p Params) *Client {
	if p.BaseURL == "" {
		p.BaseURL = "https://open-api.bingx.com"
	}
	if p.Timeout == 0 {
		p.Timeout = 10 * time.Second
	}
	if p.Retry.MaxAttempts == 0 {
		p.Retry = api.DefaultRetryConfig()
	}

	opts := []api.ClientOption{api.WithTimeout(p.Timeout)}
	if p.HTTPClient != nil {
		opts = append(opts, api.WithHTTPClient(p.HTTPClient))
	}

	return &Client{
		baseURL:        strings.TrimRight(p.BaseURL, "/"),
		mode:           p.Mode,
		tradingEnabled: p.TradingEnabled,
		candleSource:   p.CandleSource,
		http:           api.NewClient(opts...),
		retry:          p.Retry,
		creds:          p.Credentials,
		nowMillis:      func() int64 { return time.Now().UnixMilli() },
	}
}

// SetCredentials replaces the credential for all subsequent calls.
func (c *Client) SetCredentials(creds types.Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = creds
}

func (c *Client) credentials() types.Credentials {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds
}

// Authenticated reports whether the client holds a complete credential.
func (c *Client) Authenticated() bool {
	return c.credentials().Complete()
}

// envelope is the exchange's uniform response wrapper; code 0 means the
// request was accepted at the application level.
type envelope struct {
	Code int64           `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// call executes one signed request. Transport and parse faults are
// retried within the fixed budget; a decoded envelope with a non-zero
// code escalates immediately as *APIError.
func (c *Client) call(ctx context.Context, method, endpoint string, params map[string]string) (json.RawMessage, error) {
	creds := c.credentials()
	if !creds.Complete() {
		return nil, ErrUnauthenticated
	}

	signed := make(map[string]string, len(params)+1)
	for k, v := range params {
		signed[k] = v
	}
	signed["timestamp"] = strconv.FormatInt(c.nowMillis(), 10)

	query, signature := Sign(signed, creds.Secret)
	url := c.baseURL + endpoint + "?" + query + "&signature=" + signature
	headers := map[string]string{apiKeyHeader: creds.Key}

	var env envelope
	attempt := func() error {
		req := api.NewRequest(method, url).WithContext(ctx)
		for k, v := range headers {
			req.WithHeader(k, v)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(resp.Body, &env); err != nil {
			return fmt.Errorf("decode %s response: %w", endpoint, err)
		}
		return nil
	}

	if err := api.Retry(endpoint, c.retry, attempt); err != nil {
		return nil, err
	}

	if env.Code != 0 {
		return nil, &APIError{Endpoint: endpoint, Code: env.Code, Message: env.Msg}
	}
	return env.Data, nil
}

// stringFloat decodes the exchange's numbers, which arrive as quoted
// decimal strings on most endpoints and bare numbers on a few.
type stringFloat float64

func (f *stringFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", s, err)
	}
	*f = stringFloat(v)
	return nil
}
