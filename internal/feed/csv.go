package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/TRouxel/TradingDashboard/internal/models"
	"github.com/TRouxel/TradingDashboard/internal/xe"
	"github.com/spf13/cast"
)

// 支持的日期格式
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// 列顺序：date,open,high,low,close,volume
const columns = 6

// LoadFile 读取 OHLCV CSV 文件
func LoadFile(path string) ([]models.PriceBar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open price file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load 解析 OHLCV CSV，首行为表头时跳过。成交量缺失按 0 处理，其余字段必须可解析。
func Load(r io.Reader) ([]models.PriceBar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	bars := make([]models.PriceBar, 0, 256)
	for line := 1; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", xe.ErrInvalidPriceSeries, line, err)
		}
		if line == 1 && isHeader(rec) {
			continue
		}
		if len(rec) < columns-1 {
			return nil, fmt.Errorf("%w: line %d: expected %d columns, got %d", xe.ErrInvalidPriceSeries, line, columns, len(rec))
		}

		bar, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", xe.ErrInvalidPriceSeries, line, err)
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: no bars", xe.ErrInsufficientHistory)
	}
	if err := Validate(bars); err != nil {
		return nil, err
	}
	return bars, nil
}

func isHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(rec[0]), "\ufeff"))
	return first == "date" || first == "timestamp" || first == "time"
}

func parseRecord(rec []string) (models.PriceBar, error) {
	date, err := parseDate(rec[0])
	if err != nil {
		return models.PriceBar{}, err
	}

	values := make([]float64, 4)
	for i := range values {
		v, err := cast.ToFloat64E(strings.TrimSpace(rec[i+1]))
		if err != nil {
			return models.PriceBar{}, fmt.Errorf("column %d: %w", i+2, err)
		}
		values[i] = v
	}

	volume := 0.0
	if len(rec) >= columns {
		volume = cast.ToFloat64(strings.TrimSpace(rec[5]))
	}

	return models.PriceBar{
		Date:   date,
		Open:   values[0],
		High:   values[1],
		Low:    values[2],
		Close:  values[3],
		Volume: volume,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "\ufeff")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

// Validate 校验价格序列：日期严格递增、价格为正、最高价不低于最低价
func Validate(bars []models.PriceBar) error {
	for i, b := range bars {
		day := b.Date.Format("2006-01-02")
		if b.Close <= 0 || b.Open <= 0 || b.High <= 0 || b.Low <= 0 {
			return fmt.Errorf("%w: non-positive price at %s", xe.ErrInvalidPriceSeries, day)
		}
		if b.High < b.Low {
			return fmt.Errorf("%w: high below low at %s", xe.ErrInvalidPriceSeries, day)
		}
		if i > 0 && !b.Date.After(bars[i-1].Date) {
			return fmt.Errorf("%w: dates not strictly increasing at %s", xe.ErrInvalidPriceSeries, day)
		}
	}
	return nil
}
