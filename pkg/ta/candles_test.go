package ta

import (
	"slices"
	"testing"
)

func TestRecognizePatterns_Engulfing(t *testing.T) {
	candles := []Candle{
		{Open: 105, High: 106, Low: 99, Close: 100},
		{Open: 99, High: 108, Low: 98, Close: 107},
	}
	got := RecognizePatterns(candles)
	if len(got) != len(candles) {
		t.Fatalf("got %d matches, want %d", len(got), len(candles))
	}
	if got[1].Name != "engulfing" || got[1].Value != 100 {
		t.Errorf("bar 1: got %+v, want bullish engulfing", got[1])
	}
}

func TestRecognizePatterns_BearishEngulfing(t *testing.T) {
	candles := []Candle{
		{Open: 100, High: 106, Low: 99, Close: 105},
		{Open: 106, High: 107, Low: 97, Close: 98},
	}
	got := RecognizePatterns(candles)
	if got[1].Name != "engulfing" || got[1].Value != -100 {
		t.Errorf("bar 1: got %+v, want bearish engulfing", got[1])
	}
}

// falling 五根下跌K线，作为锤子线的背景
func falling() []Candle {
	out := make([]Candle, 0, 6)
	for i := 0; i < 5; i++ {
		c := 110 - 2*float64(i)
		out = append(out, Candle{Open: c + 1, High: c + 1.5, Low: c - 0.5, Close: c})
	}
	return out
}

func TestRecognizePatterns_HammerNeedsDowntrend(t *testing.T) {
	shape := Candle{Open: 100.5, High: 101.2, Low: 98, Close: 101}

	down := append(falling(), shape)
	if got := RecognizePatterns(down)[5]; got.Name != "hammer" || got.Value != 100 {
		t.Errorf("after a decline: got %+v, want hammer", got)
	}

	up := make([]Candle, 0, 6)
	for i := 0; i < 5; i++ {
		c := 90 + 2*float64(i)
		up = append(up, Candle{Open: c - 1, High: c + 0.5, Low: c - 1.5, Close: c})
	}
	up = append(up, shape)
	if got := RecognizePatterns(up)[5]; got.Name != "hanging_man" || got.Value != -100 {
		t.Errorf("after an advance: got %+v, want hanging_man", got)
	}
}

func TestRecognizePatterns_Doji(t *testing.T) {
	tests := []struct {
		name   string
		candle Candle
		want   string
	}{
		{"zero range", Candle{Open: 100, High: 100, Low: 100, Close: 100}, "doji"},
		{"centred long legs", Candle{Open: 100, High: 102, Low: 98, Close: 100}, "rickshaw_man"},
		{"long lower shadow", Candle{Open: 102, High: 102.05, Low: 98, Close: 102}, "dragonfly_doji"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecognizePatterns([]Candle{tt.candle})[0]
			if got.Name != tt.want {
				t.Errorf("got %q, want %q", got.Name, tt.want)
			}
			if !IsNeutralPattern(got.Name) {
				t.Errorf("%q should be neutral", got.Name)
			}
		})
	}
}

func TestRecognizePatterns_NoMatch(t *testing.T) {
	got := RecognizePatterns([]Candle{{Open: 100, High: 101.5, Low: 99.8, Close: 101}})
	if got[0].Name != "" || got[0].Value != 0 {
		t.Errorf("got %+v, want no pattern", got[0])
	}
}

func TestRecognizePatterns_Empty(t *testing.T) {
	if got := RecognizePatterns(nil); len(got) != 0 {
		t.Errorf("got %d matches for empty input", len(got))
	}
}

func TestPatternLibrary(t *testing.T) {
	names := make([]string, 0, len(patternLibrary))
	for _, p := range patternLibrary {
		names = append(names, p.name)
	}
	for _, want := range []string{"engulfing", "hammer", "doji", "morning_star", "three_black_crows"} {
		if !slices.Contains(names, want) {
			t.Errorf("pattern library is missing %q", want)
		}
	}
	seen := map[string]bool{}
	for _, n := range names {
		if seen[n] {
			t.Errorf("duplicate pattern %q", n)
		}
		seen[n] = true
	}
	if IsNeutralPattern("engulfing") || IsNeutralPattern("hammer") {
		t.Error("directional patterns reported as neutral")
	}
}
