package service

import (
	"github.com/TRouxel/TradingDashboard/internal/config"
	"github.com/TRouxel/TradingDashboard/internal/models"
)

// 回测用的单指标信号规则。比实时决策引擎宽松，目的是产生足够多的历史样本，
// 两套规则各自维护，不要合并。

const (
	rsiMomentumMidline = 50
	rsiMomentumStep    = 3
)

// SignalGenerator 根据当前和前一根K线给出信号及强度
type SignalGenerator struct {
	Name     string
	Generate func(row, prev *models.IndicatorRow, cfg *config.Analysis) (models.Signal, float64)
}

func (s *BacktestService) signalGenerators() []SignalGenerator {
	return []SignalGenerator{
		{"rsi", rsiSignal},
		{"stochastic", stochasticSignal},
		{"bollinger", bollingerSignal},
		{"macd", macdSignal},
		{"trend", trendSignal},
		{"adx", adxSignal},
		{"pattern", patternSignal},
		{"divergence", divergenceSignal},
		{"recommendation", s.recommendationSignal},
	}
}

func neutral() (models.Signal, float64) { return models.SignalNeutral, 0 }

// rsiSignal 极值区直接给信号，50 以下回升超过 3 点视为早期动能
func rsiSignal(r, p *models.IndicatorRow, c *config.Analysis) (models.Signal, float64) {
	w := c.SignalWeights
	if r.RSI == nil {
		return neutral()
	}
	rsi := *r.RSI
	switch {
	case rsi <= c.RSI.Oversold:
		return models.SignalBuy, w.RSIExtreme
	case rsi >= c.RSI.Overbought:
		return models.SignalSell, w.RSIExtreme
	}
	if p == nil || p.RSI == nil {
		return neutral()
	}
	switch {
	case rsi < rsiMomentumMidline && rsi-*p.RSI > rsiMomentumStep:
		return models.SignalBuy, w.RSIMomentum
	case rsi > rsiMomentumMidline && *p.RSI-rsi > rsiMomentumStep:
		return models.SignalSell, w.RSIMomentum
	}
	return neutral()
}

func stochasticSignal(r, p *models.IndicatorRow, c *config.Analysis) (models.Signal, float64) {
	w := c.SignalWeights
	switch {
	case stochAbove(r) && lt(r.StochK, c.Stochastic.Oversold):
		return models.SignalBuy, w.StochExtreme
	case stochBelow(r) && gt(r.StochK, c.Stochastic.Overbought):
		return models.SignalSell, w.StochExtreme
	case stochCrossUp(r, p):
		return models.SignalBuy, w.StochCross
	case stochCrossDown(r, p):
		return models.SignalSell, w.StochCross
	}
	return neutral()
}

func bollingerSignal(r, _ *models.IndicatorRow, c *config.Analysis) (models.Signal, float64) {
	w := c.SignalWeights
	switch r.BBSignal {
	case models.BBLowerTouch:
		return models.SignalBuy, w.BollingerTouch
	case models.BBLowerZone:
		return models.SignalBuy, w.BollingerZone
	case models.BBUpperTouch:
		return models.SignalSell, w.BollingerTouch
	case models.BBUpperZone:
		return models.SignalSell, w.BollingerZone
	}
	return neutral()
}

// macdSignal 交叉优先，其次是柱状图同向扩大
func macdSignal(r, p *models.IndicatorRow, c *config.Analysis) (models.Signal, float64) {
	w := c.SignalWeights
	switch {
	case macdCrossUp(r, p):
		return models.SignalBuy, w.MACDCross
	case macdCrossDown(r, p):
		return models.SignalSell, w.MACDCross
	case gt(r.MACDHist, 0) && histRising(r, p):
		return models.SignalBuy, w.MACDHistogram
	case lt(r.MACDHist, 0) && histFalling(r, p):
		return models.SignalSell, w.MACDHistogram
	}
	return neutral()
}

func trendSignal(r, _ *models.IndicatorRow, c *config.Analysis) (models.Signal, float64) {
	w := c.SignalWeights
	switch r.Trend {
	case models.TrendStrongBullish:
		return models.SignalBuy, w.TrendStrong
	case models.TrendBullish:
		return models.SignalBuy, w.TrendWeak
	case models.TrendStrongBearish:
		return models.SignalSell, w.TrendStrong
	case models.TrendBearish:
		return models.SignalSell, w.TrendWeak
	}
	return neutral()
}

func adxSignal(r, _ *models.IndicatorRow, c *config.Analysis) (models.Signal, float64) {
	if !gt(r.ADX, c.ADX.Weak) {
		return neutral()
	}
	switch {
	case diBullish(r):
		return models.SignalBuy, c.SignalWeights.ADXDirection
	case diBearish(r):
		return models.SignalSell, c.SignalWeights.ADXDirection
	}
	return neutral()
}

func patternSignal(r, _ *models.IndicatorRow, c *config.Analysis) (models.Signal, float64) {
	switch r.PatternDirection {
	case models.DirectionBullish:
		return models.SignalBuy, c.SignalWeights.Pattern
	case models.DirectionBearish:
		return models.SignalSell, c.SignalWeights.Pattern
	}
	return neutral()
}

func divergenceSignal(r, _ *models.IndicatorRow, c *config.Analysis) (models.Signal, float64) {
	switch r.RSIDivergence {
	case models.DivergenceBullish:
		return models.SignalBuy, c.SignalWeights.Divergence
	case models.DivergenceBearish:
		return models.SignalSell, c.SignalWeights.Divergence
	}
	return neutral()
}

// recommendationSignal 使用实时决策引擎（单日，不聚合），强度为权重乘以信心分数
func (s *BacktestService) recommendationSignal(r, p *models.IndicatorRow, c *config.Analysis) (models.Signal, float64) {
	rec := Decide(s.decisionService.Score(r, p, c), c)
	intensity := c.SignalWeights.Recommendation * float64(rec.Conviction)
	switch rec.Action {
	case models.ActionBuy:
		return models.SignalBuy, intensity
	case models.ActionSell:
		return models.SignalSell, intensity
	}
	return neutral()
}
