package service

import (
	"math"

	"github.com/TRouxel/TradingDashboard/internal/config"
	"github.com/TRouxel/TradingDashboard/internal/models"
	"github.com/TRouxel/TradingDashboard/pkg/ta"
	"go.uber.org/zap"
)

const (
	// extremumWindow 局部极值两侧各比较的K线数
	extremumWindow = 5
	// divergenceMinDistance 两个极值之间的最小间隔
	divergenceMinDistance = 5
)

// DivergenceService RSI背离检测
type DivergenceService struct {
	logger *zap.Logger
}

func NewDivergenceService(logger *zap.Logger) *DivergenceService {
	return &DivergenceService{logger: logger}
}

// Detect 计算 RSI 后检测背离，结果与输入等长
func (s *DivergenceService) Detect(bars []models.PriceBar, cfg *config.Analysis) ([]models.Divergence, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return s.DetectFromSeries(closes, ta.RSI(closes, cfg.RSI.Period), cfg), nil
}

// DetectFromSeries 在给定的收盘价和 RSI 序列上检测背离，RSI 缺失处为 NaN。
// 距离序列两端不足 extremumWindow 的K线永远不会被标记。
func (s *DivergenceService) DetectFromSeries(closes, rsi []float64, cfg *config.Analysis) []models.Divergence {
	n := len(closes)
	out := make([]models.Divergence, n)
	for i := range out {
		out[i] = models.DivergenceNone
	}
	if len(rsi) != n {
		s.logger.Warn("rsi length does not match closes", zap.Int("closes", n), zap.Int("rsi", len(rsi)))
		return out
	}

	maxDistance := 2 * cfg.Divergence.LookbackPeriod
	flagged := 0
	for i := extremumWindow; i < n-extremumWindow; i++ {
		if math.IsNaN(rsi[i]) {
			continue
		}
		if rsi[i] < cfg.Divergence.RSILowThreshold && isLocalMin(closes, i) {
			if j := previousExtremum(closes, i, maxDistance, isLocalMin); j >= 0 &&
				!math.IsNaN(rsi[j]) && closes[i] < closes[j] && rsi[i] > rsi[j] {
				out[i] = models.DivergenceBullish
				flagged++
				continue
			}
		}
		if rsi[i] > cfg.Divergence.RSIHighThreshold && isLocalMax(closes, i) {
			if j := previousExtremum(closes, i, maxDistance, isLocalMax); j >= 0 &&
				!math.IsNaN(rsi[j]) && closes[i] > closes[j] && rsi[i] < rsi[j] {
				out[i] = models.DivergenceBearish
				flagged++
			}
		}
	}

	s.logger.Debug("divergence scan finished", zap.Int("bars", n), zap.Int("flagged", flagged))
	return out
}

// previousExtremum 从 i-minDistance 向前找最近的一个极值点，找不到返回 -1
func previousExtremum(closes []float64, i, maxDistance int, isExtremum func([]float64, int) bool) int {
	stop := max(i-maxDistance, extremumWindow)
	for j := i - divergenceMinDistance; j >= stop; j-- {
		if isExtremum(closes, j) {
			return j
		}
	}
	return -1
}

// isLocalMin 前后各 extremumWindow 根内的最低收盘价，平局也算
func isLocalMin(closes []float64, i int) bool {
	return closes[i] <= ta.Lowest(closes[i-extremumWindow:i+extremumWindow+1])
}

func isLocalMax(closes []float64, i int) bool {
	return closes[i] >= ta.Highest(closes[i-extremumWindow:i+extremumWindow+1])
}
