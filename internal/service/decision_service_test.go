package service

import (
	"errors"
	"testing"

	"github.com/TRouxel/TradingDashboard/internal/models"
	"github.com/TRouxel/TradingDashboard/internal/xe"
	"go.uber.org/zap"
)

func TestScore_OversoldRSIAloneBuys(t *testing.T) {
	cfg := testConfig()
	row := rowsFromCloses(100)[0]
	row.RSI = f(28)

	svc := NewDecisionService(zap.NewNop())
	scores := svc.Score(&row, nil, cfg)
	// 2 × 1.2
	assertClose(t, "buy", scores.Buy, 2.4, 1e-9)
	assertClose(t, "sell", scores.Sell, 0, 0)

	rec := Decide(scores, cfg)
	if rec.Action != models.ActionBuy || rec.Conviction != 2 {
		t.Errorf("got %+v, want Buy with conviction 2", rec)
	}
}

func TestScore_RSIExitZoneNeedsStochastic(t *testing.T) {
	cfg := testConfig()
	row := rowsFromCloses(100)[0]
	row.RSI = f(35)

	svc := NewDecisionService(zap.NewNop())
	if got := svc.Score(&row, nil, cfg).Buy; got != 0 {
		t.Errorf("exit zone without stochastic confirmation: buy = %v, want 0", got)
	}
	row.StochK, row.StochD = f(40), f(30)
	assertClose(t, "buy with %K > %D", svc.Score(&row, nil, cfg).Buy, 2, 1e-9)
}

func TestDecide_TieIsNeutral(t *testing.T) {
	cfg := testConfig()
	cfg.IndividualWeights.DivergenceBearish = 2.4
	row := rowsFromCloses(100)[0]
	row.RSI = f(28)
	row.RSIDivergence = models.DivergenceBearish

	scores := NewDecisionService(zap.NewNop()).Score(&row, nil, cfg)
	assertClose(t, "buy", scores.Buy, 2.4, 1e-9)
	assertClose(t, "sell", scores.Sell, 2.4, 1e-9)

	rec := Decide(scores, cfg)
	if rec.Action != models.ActionNeutral || rec.Conviction != 2 {
		t.Errorf("got %+v, want Neutral with conviction 2", rec)
	}
}

func TestDecide_Thresholds(t *testing.T) {
	cfg := testConfig()
	tests := []struct {
		name   string
		scores Scores
		want   models.Recommendation
	}{
		{"below discounted threshold", Scores{Buy: 1.9}, models.Recommendation{Action: models.ActionNeutral, Conviction: 2}},
		{"at discounted threshold", Scores{Buy: 2.0}, models.Recommendation{Action: models.ActionBuy, Conviction: 2}},
		{"lead too small", Scores{Buy: 3, Sell: 2}, models.Recommendation{Action: models.ActionNeutral, Conviction: 3}},
		{"sell wins", Scores{Buy: 0.5, Sell: 3.6}, models.Recommendation{Action: models.ActionSell, Conviction: 4}},
		{"capped", Scores{Buy: 12}, models.Recommendation{Action: models.ActionBuy, Conviction: 5}},
		{"nothing", Scores{}, models.Recommendation{Action: models.ActionNeutral, Conviction: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.scores, cfg); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScore_ConvictionCappedAtMax(t *testing.T) {
	cfg := testConfig()
	row := rowsFromCloses(100)[0]
	row.RSI = f(28)
	row.StochK, row.StochD = f(10), f(5)
	row.MACD, row.MACDSignal, row.MACDHist = f(1), f(0.5), f(0.5)
	row.RSIDivergence = models.DivergenceBullish
	row.PatternDirection = models.DirectionBullish
	row.BBSignal = models.BBLowerTouch

	scores := NewDecisionService(zap.NewNop()).Score(&row, nil, cfg)
	// 2.4 + 1.5 + 1.5 + 2 + 1 + 1.5
	assertClose(t, "buy", scores.Buy, 9.9, 1e-9)
	if rec := Decide(scores, cfg); rec.Action != models.ActionBuy || rec.Conviction != cfg.Decision.MaxConviction {
		t.Errorf("got %+v, want Buy capped at %d", rec, cfg.Decision.MaxConviction)
	}
}

func TestScore_AgainstTrendPenalty(t *testing.T) {
	cfg := testConfig()
	row := rowsFromCloses(100)[0]
	row.RSI = f(28)
	row.Trend = models.TrendStrongBearish

	scores := NewDecisionService(zap.NewNop()).Score(&row, nil, cfg)
	// 2.4 × (1 - 0.3)，卖方得到 1 × 1.5 的趋势分
	assertClose(t, "buy", scores.Buy, 1.68, 1e-9)
	assertClose(t, "sell", scores.Sell, 1.5, 1e-9)
	if rec := Decide(scores, cfg); rec.Action != models.ActionNeutral {
		t.Errorf("got %+v, want Neutral", rec)
	}
}

func TestScore_ADXConfirmation(t *testing.T) {
	cfg := testConfig()
	row := rowsFromCloses(100)[0]
	row.RSI = f(28)
	row.Trend = models.TrendBullish
	row.ADX = f(30)

	scores := NewDecisionService(zap.NewNop()).Score(&row, nil, cfg)
	// (2.4 + 1) × 1.2
	assertClose(t, "buy", scores.Buy, 4.08, 1e-9)
}

func TestScore_CombinationBonus(t *testing.T) {
	cfg := testConfig()
	cfg.Decision.UseCombinations = true
	cfg.Decision.MinCombinationsForSignal = 1
	row := rowsFromCloses(100)[0]
	row.RSI = f(28)
	row.StochK = f(10)

	scores := NewDecisionService(zap.NewNop()).Score(&row, nil, cfg)
	// rsi_stoch_oversold 触发
	assertClose(t, "buy", scores.Buy, 3.4, 1e-9)
}

func TestAggregateWindow(t *testing.T) {
	rows := rowsFromCloses(100, 101, 102)
	rows[0].RSI, rows[1].RSI, rows[2].RSI = f(20), f(30), f(40)
	rows[0].StochK, rows[2].StochK = f(10), f(30)
	rows[0].PatternDirection = models.DirectionBullish
	rows[1].PatternDirection = models.DirectionBearish
	rows[0].RSIDivergence = models.DivergenceBullish
	rows[0].BBSignal = models.BBLowerTouch
	rows[2].BBSignal = models.BBUpperZone

	got := AggregateWindow(rows)
	assertClose(t, "mean rsi", *got.RSI, 30, 1e-9)
	assertClose(t, "mean %K", *got.StochK, 20, 1e-9)
	if got.StochD != nil {
		t.Errorf("StochD = %v, want nil when every value is missing", *got.StochD)
	}
	if got.PatternDirection != models.DirectionBearish {
		t.Errorf("pattern direction tie: got %q, want bearish", got.PatternDirection)
	}
	if got.RSIDivergence != models.DivergenceBullish {
		t.Errorf("divergence: got %q, want the most recent flag", got.RSIDivergence)
	}
	if got.BBSignal != models.BBLowerTouch {
		t.Errorf("bollinger: got %q, want the most recent touch", got.BBSignal)
	}
	if got.Close != 102 {
		t.Errorf("close = %v, want the last row's", got.Close)
	}
	if *rows[2].RSI != 40 {
		t.Error("AggregateWindow modified its input")
	}
}

func TestAggregateWindow_NoTouchKeepsLast(t *testing.T) {
	rows := rowsFromCloses(100, 101)
	rows[0].BBSignal = models.BBLowerZone
	rows[1].BBSignal = models.BBUpperZone
	if got := AggregateWindow(rows).BBSignal; got != models.BBUpperZone {
		t.Errorf("got %q, want the last row's signal", got)
	}
}

func TestClassify(t *testing.T) {
	svc := NewDecisionService(zap.NewNop())
	cfg := testConfig()

	if _, err := svc.Classify(nil, cfg); !errors.Is(err, xe.ErrInsufficientHistory) {
		t.Errorf("empty window: got %v, want ErrInsufficientHistory", err)
	}

	bad := testConfig()
	bad.Decision.MaxConviction = -1
	if _, err := svc.Classify(rowsFromCloses(100), bad); !errors.Is(err, xe.ErrInvalidConfiguration) {
		t.Errorf("bad config: got %v, want ErrInvalidConfiguration", err)
	}

	rows := rowsFromCloses(100, 99)
	rows[1].RSI = f(28)
	rec, err := svc.Classify(rows, cfg)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if rec.Action != models.ActionBuy {
		t.Errorf("got %+v, want Buy", rec)
	}
}

func TestClassifySeries_UsesTimeframe(t *testing.T) {
	svc := NewDecisionService(zap.NewNop())
	rows := rowsFromCloses(100, 99, 98)
	rows[0].RSI, rows[1].RSI, rows[2].RSI = f(20), f(50), f(50)

	cfg := testConfig()
	recs, err := svc.ClassifySeries(rows, cfg)
	if err != nil {
		t.Fatalf("ClassifySeries: %v", err)
	}
	if len(recs) != len(rows) {
		t.Fatalf("got %d recommendations, want %d", len(recs), len(rows))
	}
	if recs[0].Action != models.ActionBuy || recs[2].Action != models.ActionNeutral {
		t.Errorf("single-day: got %+v", recs)
	}

	// 三日均值 RSI = 40，超卖线放宽到 41
	cfg.SignalTimeframe = 3
	cfg.RSI.Oversold = 41
	recs, err = svc.ClassifySeries(rows, cfg)
	if err != nil {
		t.Fatalf("ClassifySeries: %v", err)
	}
	if recs[2].Action != models.ActionBuy {
		t.Errorf("three-day window: got %+v, want Buy from the averaged RSI", recs[2])
	}
}
