package feed

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/TRouxel/TradingDashboard/internal/models"
	"github.com/TRouxel/TradingDashboard/internal/xe"
)

func TestLoad_WithHeader(t *testing.T) {
	data := "\ufeffDate,Open,High,Low,Close,Volume\n" +
		"2024-01-02,100,102,99,101,1500\n" +
		"2024-01-03, 101, 103, 100, 102.5, 1800\n"

	bars, err := Load(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	want := models.PriceBar{
		Date:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		Open:   101,
		High:   103,
		Low:    100,
		Close:  102.5,
		Volume: 1800,
	}
	if bars[1] != want {
		t.Errorf("bar 1 = %+v, want %+v", bars[1], want)
	}
}

func TestLoad_WithoutHeaderOrVolume(t *testing.T) {
	data := "2024/01/02,100,102,99,101\n2024/01/03,101,103,100,102\n"
	bars, err := Load(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(bars) != 2 || bars[0].Volume != 0 {
		t.Errorf("got %+v", bars)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty", "", xe.ErrInsufficientHistory},
		{"header only", "date,open,high,low,close,volume\n", xe.ErrInsufficientHistory},
		{"bad number", "2024-01-02,100,abc,99,101,10\n", xe.ErrInvalidPriceSeries},
		{"bad date", "02.01.2024,100,102,99,101,10\n", xe.ErrInvalidPriceSeries},
		{"too few columns", "2024-01-02,100,102\n", xe.ErrInvalidPriceSeries},
		{"dates not increasing", "2024-01-03,100,102,99,101\n2024-01-02,100,102,99,101\n", xe.ErrInvalidPriceSeries},
		{"duplicate date", "2024-01-02,100,102,99,101\n2024-01-02,100,102,99,101\n", xe.ErrInvalidPriceSeries},
		{"high below low", "2024-01-02,100,98,99,101\n", xe.ErrInvalidPriceSeries},
		{"non-positive close", "2024-01-02,100,102,99,0\n", xe.ErrInvalidPriceSeries},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "AAPL.csv")
	if err := os.WriteFile(path, []byte("date,open,high,low,close\n2024-01-02,1,2,0.5,1.5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	bars, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(bars) != 1 || bars[0].Close != 1.5 {
		t.Errorf("got %+v", bars)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
