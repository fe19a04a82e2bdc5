package service

import (
	"math"
	"testing"
	"time"

	"github.com/TRouxel/TradingDashboard/internal/config"
	"github.com/TRouxel/TradingDashboard/internal/models"
	"go.uber.org/zap"
)

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.6f, want %.6f (diff=%.6f)", label, got, want, math.Abs(got-want))
	}
}

func f(v float64) *float64 { return &v }

func testConfig() *config.Analysis {
	a := config.DefaultAnalysis()
	return &a
}

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// rowsFromCloses 每天一根K线，其余字段为空
func rowsFromCloses(closes ...float64) []models.IndicatorRow {
	rows := make([]models.IndicatorRow, len(closes))
	for i, c := range closes {
		rows[i] = models.IndicatorRow{
			PriceBar: models.PriceBar{
				Date:  day0.AddDate(0, 0, i),
				Open:  c,
				High:  c,
				Low:   c,
				Close: c,
			},
			Trend:            models.TrendNeutral,
			BBSignal:         models.BBNeutral,
			PatternDirection: models.DirectionNeutral,
			RSIDivergence:    models.DivergenceNone,
		}
	}
	return rows
}

// syntheticBars 带趋势的正弦波动行情
func syntheticBars(n int) []models.PriceBar {
	bars := make([]models.PriceBar, n)
	for i := range bars {
		c := 100 + 12*math.Sin(float64(i)/7) + 4*math.Sin(float64(i)/2.3) + float64(i)*0.05
		open := c - 0.8*math.Cos(float64(i))
		bars[i] = models.PriceBar{
			Date:   day0.AddDate(0, 0, i),
			Open:   open,
			High:   math.Max(open, c) + 1,
			Low:    math.Min(open, c) - 1,
			Close:  c,
			Volume: 1000 + float64(i),
		}
	}
	return bars
}

func newIndicatorService() *IndicatorService {
	return NewIndicatorService(NewDivergenceService(zap.NewNop()), zap.NewNop())
}
