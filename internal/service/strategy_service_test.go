package service

import (
	"errors"
	"testing"

	"github.com/TRouxel/TradingDashboard/internal/models"
	"github.com/TRouxel/TradingDashboard/internal/xe"
	"go.uber.org/zap"
)

func simulate(t *testing.T, policy Policy, rows []models.IndicatorRow, n int, spread float64) *StrategyResult {
	t.Helper()
	results, err := NewStrategyService(zap.NewNop()).Simulate(policy, rows, []int{n}, spread)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	res, ok := results[n]
	if !ok {
		t.Fatalf("no result for holding period %d", n)
	}
	if len(res.EquityCurve) != len(rows) {
		t.Errorf("equity curve has %d points, want %d", len(res.EquityCurve), len(rows))
	}
	return res
}

func TestBuyOnDivergence_HoldsForPeriod(t *testing.T) {
	rows := rowsFromCloses(100, 100, 110, 120, 130)
	rows[1].RSIDivergence = models.DivergenceBullish

	res := simulate(t, PolicyBuyOnDivergence, rows, 2, 0)
	if len(res.Trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(res.Trades))
	}
	sell := res.Trades[1]
	if sell.Type != models.TradeTypeSell || !sell.Date.Equal(rows[3].Date) {
		t.Errorf("sell = %+v, want a sell on bar 3", sell)
	}
	// close[1+2]/close[1] - 1
	assertClose(t, "total return", res.Stats.TotalReturn, 20, 1e-9)
	assertClose(t, "pnl", *sell.PnlPercent, 20, 1e-9)
	assertClose(t, "buy & hold", res.Stats.BuyHoldReturn, 30, 1e-9)
	assertClose(t, "outperformance", res.Stats.Outperformance, -10, 1e-9)
	assertClose(t, "win rate", *res.Stats.WinRate, 100, 1e-9)
	assertClose(t, "avg win", *res.Stats.AvgWin, 20, 1e-9)
	if res.Stats.AvgLoss != nil {
		t.Errorf("avg loss = %v, want nil without losing trades", *res.Stats.AvgLoss)
	}
	if res.Stats.Sells != nil || res.Stats.Rebuys != nil {
		t.Error("hold-and-rebuy counters set for buy_on_divergence")
	}
}

func TestBuyOnDivergence_ForcedExitAtEnd(t *testing.T) {
	rows := rowsFromCloses(100, 100, 100, 95, 90)
	rows[3].RSIDivergence = models.DivergenceBullish

	res := simulate(t, PolicyBuyOnDivergence, rows, 10, 0)
	if len(res.Trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(res.Trades))
	}
	if last := res.Trades[1]; last.Type != models.TradeTypeSell || !last.Date.Equal(rows[4].Date) {
		t.Errorf("last trade = %+v, want a sell on the final bar", last)
	}
	if res.EquityCurve[4].InPosition {
		t.Error("still in position after the final bar")
	}
	assertClose(t, "avg loss", *res.Stats.AvgLoss, (90.0/95-1)*100, 1e-9)
	assertClose(t, "win rate", *res.Stats.WinRate, 0, 1e-9)
}

func TestBuyOnDivergence_NoSignalNoTrades(t *testing.T) {
	res := simulate(t, PolicyBuyOnDivergence, rowsFromCloses(100, 110, 120), 5, 0.2)
	if len(res.Trades) != 0 || res.Stats.WinRate != nil {
		t.Errorf("got %d trades and win rate %v, want none", len(res.Trades), res.Stats.WinRate)
	}
	assertClose(t, "total return", res.Stats.TotalReturn, 0, 1e-12)
}

func TestHoldAndRebuy_SpreadAndRebuy(t *testing.T) {
	rows := rowsFromCloses(100, 105, 110, 100, 95, 100)
	rows[2].RSIDivergence = models.DivergenceBearish

	res := simulate(t, PolicyHoldAndRebuy, rows, 2, 1)
	if len(res.Trades) != 3 {
		t.Fatalf("got %d trades, want 3", len(res.Trades))
	}
	assertClose(t, "entry price", res.Trades[0].Price, 100.5, 1e-9)
	assertClose(t, "exit price", res.Trades[1].Price, 110*0.995, 1e-9)
	if rebuy := res.Trades[2]; rebuy.Type != models.TradeTypeBuy || !rebuy.Date.Equal(rows[4].Date) {
		t.Errorf("rebuy = %+v, want a buy on bar 4", rebuy)
	}
	if *res.Stats.Sells != 1 || *res.Stats.Rebuys != 1 {
		t.Errorf("sells=%d rebuys=%d, want 1 and 1", *res.Stats.Sells, *res.Stats.Rebuys)
	}
	if res.Stats.WinRate != nil {
		t.Error("win rate set for hold_and_rebuy")
	}

	units := 100 / 100.5 * 109.45 / (95 * 1.005)
	assertClose(t, "final value", res.EquityCurve[5].PortfolioValue, units*100, 1e-9)
	assertClose(t, "total return", res.Stats.TotalReturn, units*100-100, 1e-9)
}

func TestHoldAndRebuy_NoForcedRebuy(t *testing.T) {
	rows := rowsFromCloses(100, 105, 110, 108)
	rows[2].RSIDivergence = models.DivergenceBearish

	res := simulate(t, PolicyHoldAndRebuy, rows, 30, 0)
	if *res.Stats.Rebuys != 0 || len(res.Trades) != 2 {
		t.Errorf("rebuys=%d trades=%d, want 0 and 2", *res.Stats.Rebuys, len(res.Trades))
	}
	if res.EquityCurve[3].InPosition {
		t.Error("rebought before the holding period elapsed")
	}
	assertClose(t, "total return", res.Stats.TotalReturn, 10, 1e-9)
}

func TestHoldAndRebuy_IgnoresDivergenceWhileOut(t *testing.T) {
	rows := rowsFromCloses(100, 105, 110, 108, 107)
	rows[2].RSIDivergence = models.DivergenceBearish
	rows[3].RSIDivergence = models.DivergenceBearish

	res := simulate(t, PolicyHoldAndRebuy, rows, 30, 0)
	if *res.Stats.Sells != 1 {
		t.Errorf("sells = %d, want 1", *res.Stats.Sells)
	}
}

func TestSimulate_InvalidInput(t *testing.T) {
	svc := NewStrategyService(zap.NewNop())
	rows := rowsFromCloses(100, 101)

	tests := []struct {
		name    string
		policy  Policy
		rows    []models.IndicatorRow
		periods []int
		spread  float64
		want    error
	}{
		{"unknown policy", Policy("martingale"), rows, []int{1}, 0, xe.ErrUnknownPolicy},
		{"no periods", PolicyHoldAndRebuy, rows, nil, 0, xe.ErrInvalidConfiguration},
		{"negative spread", PolicyHoldAndRebuy, rows, []int{1}, -0.1, xe.ErrInvalidParams},
		{"no rows", PolicyBuyOnDivergence, nil, []int{1}, 0, xe.ErrInsufficientHistory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Simulate(tt.policy, tt.rows, tt.periods, tt.spread); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy("hold_and_rebuy"); err != nil || p != PolicyHoldAndRebuy {
		t.Errorf("got %q, %v", p, err)
	}
	if _, err := ParsePolicy("HOLD"); !errors.Is(err, xe.ErrUnknownPolicy) {
		t.Errorf("got %v, want ErrUnknownPolicy", err)
	}
}

func TestSimulate_OneResultPerPeriod(t *testing.T) {
	rows := rowsFromCloses(100, 100, 110, 120, 130)
	rows[1].RSIDivergence = models.DivergenceBullish

	results, err := NewStrategyService(zap.NewNop()).Simulate(PolicyBuyOnDivergence, rows, []int{1, 2}, 0)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	assertClose(t, "N=1", results[1].Stats.TotalReturn, 10, 1e-9)
	assertClose(t, "N=2", results[2].Stats.TotalReturn, 20, 1e-9)
}
