package service

import (
	"math"
	"testing"

	"github.com/TRouxel/TradingDashboard/internal/models"
	"go.uber.org/zap"
)

// vShape 两个低点：bar 20 收盘 100、RSI 25；bar 40 收盘 90、RSI 35
func vShape() (closes, rsi []float64) {
	n := 50
	closes = make([]float64, n)
	rsi = make([]float64, n)
	for i := range closes {
		switch {
		case i <= 30:
			closes[i] = 100 + math.Abs(float64(i-20))
		case i <= 40:
			closes[i] = 110 - 2*float64(i-30)
		default:
			closes[i] = 90 + float64(i-40)
		}
		rsi[i] = 50
	}
	rsi[20] = 25
	rsi[40] = 35
	return closes, rsi
}

func TestDetectFromSeries_BullishDivergence(t *testing.T) {
	closes, rsi := vShape()
	got := NewDivergenceService(zap.NewNop()).DetectFromSeries(closes, rsi, testConfig())

	if len(got) != len(closes) {
		t.Fatalf("got %d flags, want %d", len(got), len(closes))
	}
	if got[40] != models.DivergenceBullish {
		t.Errorf("bar 40: got %q, want bullish (lower low, higher RSI)", got[40])
	}
	for i, d := range got {
		if i != 40 && d != models.DivergenceNone {
			t.Errorf("bar %d: got %q, want none", i, d)
		}
	}
}

func TestDetectFromSeries_BearishDivergence(t *testing.T) {
	closes, rsi := vShape()
	// 镜像：高点抬高、RSI 走低
	for i := range closes {
		closes[i] = 300 - closes[i]
		rsi[i] = 100 - rsi[i]
	}
	got := NewDivergenceService(zap.NewNop()).DetectFromSeries(closes, rsi, testConfig())
	if got[40] != models.DivergenceBearish {
		t.Errorf("bar 40: got %q, want bearish", got[40])
	}
}

func TestDetectFromSeries_EdgesNeverFlagged(t *testing.T) {
	// 低点落在序列最后 5 根之内
	closes := make([]float64, 30)
	rsi := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + math.Abs(float64(i-10))
		rsi[i] = 50
	}
	closes[27] = 80
	rsi[10], rsi[27] = 20, 30

	got := NewDivergenceService(zap.NewNop()).DetectFromSeries(closes, rsi, testConfig())
	for _, i := range []int{0, 1, 2, 3, 4, 25, 26, 27, 28, 29} {
		if got[i] != models.DivergenceNone {
			t.Errorf("bar %d within 5 bars of an edge was flagged %q", i, got[i])
		}
	}
}

func TestDetectFromSeries_MissingRSI(t *testing.T) {
	closes, rsi := vShape()
	rsi[40] = math.NaN()
	got := NewDivergenceService(zap.NewNop()).DetectFromSeries(closes, rsi, testConfig())
	if got[40] != models.DivergenceNone {
		t.Errorf("bar 40 with missing RSI: got %q, want none", got[40])
	}

	got = NewDivergenceService(zap.NewNop()).DetectFromSeries(closes, rsi[:10], testConfig())
	for i, d := range got {
		if d != models.DivergenceNone {
			t.Fatalf("mismatched lengths flagged bar %d", i)
		}
	}
}

func TestDetect_ShortSeries(t *testing.T) {
	got, err := NewDivergenceService(zap.NewNop()).Detect(syntheticBars(10), testConfig())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("got %d flags, want 10", len(got))
	}
	for i, d := range got {
		if d != models.DivergenceNone {
			t.Errorf("bar %d: got %q, want none", i, d)
		}
	}
}

func TestLocalExtremum(t *testing.T) {
	closes, _ := vShape()
	tests := []struct {
		i        int
		min, max bool
	}{
		{20, true, false},
		{40, true, false},
		{30, false, true},
		{25, false, false},
	}
	for _, tt := range tests {
		if got := isLocalMin(closes, tt.i); got != tt.min {
			t.Errorf("isLocalMin(%d) = %v, want %v", tt.i, got, tt.min)
		}
		if got := isLocalMax(closes, tt.i); got != tt.max {
			t.Errorf("isLocalMax(%d) = %v, want %v", tt.i, got, tt.max)
		}
	}

	// 平台上的每一根都算极值
	flat := []float64{5, 4, 3, 3, 3, 3, 3, 3, 3, 4, 5}
	if !isLocalMin(flat, 5) || isLocalMax(flat, 5) {
		t.Error("plateau bar should be a local min only")
	}
}
