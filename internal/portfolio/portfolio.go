package portfolio

import (
	"context"
	"errors"
	"fmt"

	"bingx-trading-bot/internal/bingx"
	"bingx-trading-bot/internal/interfaces"
	"bingx-trading-bot/internal/types"
)

// accountTypes is the fetch order for a full report.
var accountTypes = []types.AccountType{types.AccountPerpetual, types.AccountStandard}

// FetchError records a single failed fetch without aborting the report.
type FetchError struct {
	Account types.AccountType
	Op      string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Account, e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Report is the cross-account view: whatever fetches succeeded, plus the
// errors of those that did not.
type Report struct {
	Balances  map[types.AccountType]types.Balance
	Positions []types.Position
	Summary   types.PortfolioSummary
	Errors    []*FetchError
}

// Aggregator builds portfolio reports over both account families.
type Aggregator struct {
	ex interfaces.Exchange
}

func NewAggregator(ex interfaces.Exchange) *Aggregator {
	return &Aggregator{ex: ex}
}

// Report fetches balances and positions for every account type. A
// failure in one account is isolated in Report.Errors so the others
// still render; only a missing credential aborts the whole report.
func (a *Aggregator) Report(ctx context.Context) (*Report, error) {
	rep := &Report{Balances: make(map[types.AccountType]types.Balance)}

	for _, acct := range accountTypes {
		bal, err := a.ex.Balance(ctx, acct)
		if err != nil {
			if errors.Is(err, bingx.ErrUnauthenticated) {
				return nil, err
			}
			rep.Errors = append(rep.Errors, &FetchError{Account: acct, Op: "balance", Err: err})
		} else {
			rep.Balances[acct] = bal
		}

		positions, err := a.ex.Positions(ctx, acct)
		if err != nil {
			if errors.Is(err, bingx.ErrUnauthenticated) {
				return nil, err
			}
			rep.Errors = append(rep.Errors, &FetchError{Account: acct, Op: "positions", Err: err})
			continue
		}
		rep.Positions = append(rep.Positions, positions...)
	}

	rep.Summary = Summarize(rep.Balances, rep.Positions)
	return rep, nil
}

// Summarize is the pure aggregation step over already-normalized data.
// Win rate is the share of positions with positive unrealized PnL and
// reads 0 when there are no positions at all.
func Summarize(balances map[types.AccountType]types.Balance, positions []types.Position) types.PortfolioSummary {
	s := types.PortfolioSummary{
		Symbols: make(map[string]*types.SymbolStats),
	}

	for acct, bal := range balances {
		s.TotalBalance += bal.Total
		switch acct {
		case types.AccountPerpetual:
			s.PerpetualBalance = bal.Total
		case types.AccountStandard:
			s.StandardBalance = bal.Total
		}
	}

	for _, p := range positions {
		s.TotalPnl += p.UnrealizedPnl
		s.TotalMargin += p.Margin
		s.TotalPositions++

		if p.UnrealizedPnl > 0 {
			s.WinningCount++
		} else if p.UnrealizedPnl < 0 {
			s.LosingCount++
		}

		switch p.Account {
		case types.AccountPerpetual:
			s.PerpetualPnl += p.UnrealizedPnl
		case types.AccountStandard:
			s.StandardPnl += p.UnrealizedPnl
		}

		st := s.Symbols[p.Symbol]
		if st == nil {
			st = &types.SymbolStats{}
			s.Symbols[p.Symbol] = st
		}
		st.Pnl += p.UnrealizedPnl
		st.Positions++
		switch p.Side {
		case types.SideLong:
			st.Long++
		case types.SideShort:
			st.Short++
		}
	}

	if s.TotalPositions > 0 {
		s.WinRate = float64(s.WinningCount) / float64(s.TotalPositions) * 100
	}

	return s
}
