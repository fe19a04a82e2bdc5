package service

import (
	"github.com/TRouxel/TradingDashboard/internal/config"
	"github.com/TRouxel/TradingDashboard/internal/models"
	"github.com/TRouxel/TradingDashboard/pkg/nostd"
	"github.com/TRouxel/TradingDashboard/pkg/ta"
	"go.uber.org/zap"
)

// IndicatorService 技术指标计算服务
type IndicatorService struct {
	logger            *zap.Logger
	divergenceService *DivergenceService
}

// NewIndicatorService 创建技术指标服务
func NewIndicatorService(divergenceService *DivergenceService, logger *zap.Logger) *IndicatorService {
	return &IndicatorService{
		logger:            logger,
		divergenceService: divergenceService,
	}
}

// BuildIndicators 计算全部技术指标，返回与输入等长的指标行。
// 数据不足回看窗口的K线对应字段为 nil，不会报错。
func (s *IndicatorService) BuildIndicators(bars []models.PriceBar, cfg *config.Analysis) ([]models.IndicatorRow, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := len(bars)
	rows := make([]models.IndicatorRow, n)
	if n == 0 {
		return rows, nil
	}
	if n < cfg.MinBars() {
		s.logger.Debug("series shorter than the longest lookback",
			zap.Int("bars", n), zap.Int("min_bars", cfg.MinBars()))
	}

	// 提取价格数据
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	candles := make([]ta.Candle, n)
	for i, b := range bars {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
		candles[i] = ta.Candle{Open: b.Open, High: b.High, Low: b.Low, Close: b.Close}
	}

	rsi := ta.RSI(closes, cfg.RSI.Period)
	stochK, stochD := ta.Stoch(highs, lows, closes, cfg.Stochastic.KPeriod, cfg.Stochastic.Smooth, cfg.Stochastic.DPeriod)
	bbUpper, bbMiddle, bbLower := ta.BBands(closes, cfg.Bollinger.Period, cfg.Bollinger.StdDev)

	ma := cfg.MovingAverages
	smaShort := ta.SMA(closes, ma.SMAShort)
	smaMedium := ta.SMA(closes, ma.SMAMedium)
	smaLong := ta.SMA(closes, ma.SMALong)
	emaFast := ta.EMA(closes, ma.EMAFast)
	emaSlow := ta.EMA(closes, ma.EMASlow)

	macd, macdSignal, macdHist := ta.MACD(closes, cfg.MACD.Fast, cfg.MACD.Slow, cfg.MACD.Signal)
	adx, diPlus, diMinus := ta.ADX(highs, lows, closes, cfg.ADX.Period)

	patterns := ta.RecognizePatterns(candles)
	divergences := s.divergenceService.DetectFromSeries(closes, rsi, cfg)

	for i := range rows {
		row := &rows[i]
		row.PriceBar = bars[i]

		row.RSI = nostd.FloatPtr(rsi[i])
		row.StochK = nostd.FloatPtr(stochK[i])
		row.StochD = nostd.FloatPtr(stochD[i])

		row.BBLower = nostd.FloatPtr(bbLower[i])
		row.BBMiddle = nostd.FloatPtr(bbMiddle[i])
		row.BBUpper = nostd.FloatPtr(bbUpper[i])
		row.BBBandwidth = nostd.FloatPtr(bbUpper[i] - bbLower[i])

		row.SMAShort = nostd.FloatPtr(smaShort[i])
		row.SMAMedium = nostd.FloatPtr(smaMedium[i])
		row.SMALong = nostd.FloatPtr(smaLong[i])
		row.EMAFast = nostd.FloatPtr(emaFast[i])
		row.EMASlow = nostd.FloatPtr(emaSlow[i])

		row.MACD = nostd.FloatPtr(macd[i])
		row.MACDSignal = nostd.FloatPtr(macdSignal[i])
		row.MACDHist = nostd.FloatPtr(macdHist[i])

		row.ADX = nostd.FloatPtr(adx[i])
		row.DIPlus = nostd.FloatPtr(diPlus[i])
		row.DIMinus = nostd.FloatPtr(diMinus[i])

		row.Pattern = patterns[i].Name
		row.PatternDirection = patternDirection(patterns[i])
		row.RSIDivergence = divergences[i]

		row.Trend = ClassifyTrend(row, cfg)
		row.BBSignal = ClassifyBollinger(row, cfg)
	}

	return rows, nil
}

// patternDirection 中性形态一律为 neutral，其余按数值符号
func patternDirection(m ta.PatternMatch) models.Direction {
	switch {
	case m.Name == "" || ta.IsNeutralPattern(m.Name):
		return models.DirectionNeutral
	case m.Value > 0:
		return models.DirectionBullish
	case m.Value < 0:
		return models.DirectionBearish
	default:
		return models.DirectionNeutral
	}
}

// ValidateRow 验证指标数据质量，返回问题列表
func (s *IndicatorService) ValidateRow(row *models.IndicatorRow) []string {
	issues := make([]string, 0)

	// 验证价格
	if row.Close <= 0 {
		issues = append(issues, "invalid close")
	}
	if row.Volume < 0 {
		issues = append(issues, "negative volume")
	}

	// 验证振荡指标范围
	inRange := func(name string, v *float64) {
		if v == nil {
			issues = append(issues, name+" missing")
			return
		}
		if *v < 0 || *v > 100 {
			issues = append(issues, name+" out of range")
		}
	}
	inRange("rsi", row.RSI)
	inRange("stochastic_k", row.StochK)
	inRange("stochastic_d", row.StochD)
	inRange("adx", row.ADX)

	// 验证布林带
	if row.BBLower != nil && row.BBUpper != nil && *row.BBLower > *row.BBUpper {
		issues = append(issues, "bollinger bands inverted")
	}
	if row.SMALong == nil {
		issues = append(issues, "sma_long missing")
	}
	if row.MACD == nil {
		issues = append(issues, "macd missing")
	}

	return issues
}
