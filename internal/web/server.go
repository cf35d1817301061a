package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"bingx-trading-bot/internal/bingx"
	"bingx-trading-bot/internal/interfaces"
	"bingx-trading-bot/internal/logger"
	"bingx-trading-bot/internal/portfolio"
	"bingx-trading-bot/internal/store"
	"bingx-trading-bot/internal/types"
)

// Server exposes the read-only JSON API over the exchange client and
// portfolio aggregator.
type Server struct {
	cfg      *store.Config
	ex       interfaces.Exchange
	agg      *portfolio.Aggregator
	auth     func() bool
	setCreds func(types.Credentials)
	srv      *http.Server
}

func NewServer(cfg *store.Config, ex interfaces.Exchange, agg *portfolio.Aggregator, auth func() bool, setCreds func(types.Credentials)) *Server {
	s := &Server{cfg: cfg, ex: ex, agg: agg, auth: auth, setCreds: setCreds}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/balance/perpetual", s.balanceHandler(types.AccountPerpetual))
	mux.HandleFunc("/api/balance/standard", s.balanceHandler(types.AccountStandard))
	mux.HandleFunc("/api/positions/perpetual", s.positionsHandler(types.AccountPerpetual))
	mux.HandleFunc("/api/positions/standard", s.positionsHandler(types.AccountStandard))
	mux.HandleFunc("/api/stats/summary", s.handleSummary)
	mux.HandleFunc("/api/orders/history", s.handleOrderHistory)

	s.srv = &http.Server{
		Addr:         cfg.Web.Addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving the API until the listener fails or the
// server is shut down.
func (s *Server) ListenAndServe() error {
	logger.Info(context.Background(), "Web API listening", "addr", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStatus reports configuration plus a live connectivity probe: a
// perpetual balance call doubles as the exchange reachability check.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"mode":            s.cfg.Mode,
		"symbol":          s.cfg.Symbol,
		"interval":        s.cfg.Interval,
		"data_source":     s.cfg.DataSource,
		"trading_enabled": s.cfg.Trading.Enabled,
		"authenticated":   s.auth(),
		"connected":       false,
	}

	if s.auth() {
		if _, err := s.ex.Balance(r.Context(), types.AccountPerpetual); err != nil {
			status["connection_error"] = err.Error()
		} else {
			status["connected"] = true
		}
	}

	writeJSON(w, http.StatusOK, status)
}

// handleConfig swaps the API credential for all subsequent signed calls.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var body struct {
		APIKey    string `json:"api_key"`
		APISecret string `json:"api_secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	creds := types.Credentials{Key: body.APIKey, Secret: body.APISecret}
	if !creds.Complete() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "api_key and api_secret are required"})
		return
	}

	s.setCreds(creds)
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "authenticated": s.auth()})
}

func (s *Server) balanceHandler(account types.AccountType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bal, err := s.ex.Balance(r.Context(), account)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, bal)
	}
}

func (s *Server) positionsHandler(account types.AccountType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		positions, err := s.ex.Positions(r.Context(), account)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, positions)
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rep, err := s.agg.Report(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	errs := make([]string, 0, len(rep.Errors))
	for _, fe := range rep.Errors {
		errs = append(errs, fe.Error())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"summary": rep.Summary,
		"errors":  errs,
	})
}

func (s *Server) handleOrderHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	records, err := s.ex.OrderHistory(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, bingx.ErrUnauthenticated) {
		status = http.StatusUnauthorized
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
