package service

import (
	"github.com/TRouxel/TradingDashboard/internal/config"
	"github.com/TRouxel/TradingDashboard/internal/models"
	"github.com/TRouxel/TradingDashboard/pkg/ta"
)

// Side 组合信号方向
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Signal 组合触发时对应的回测信号
func (s Side) Signal() models.Signal {
	if s == SideSell {
		return models.SignalSell
	}
	return models.SignalBuy
}

// Predicate 组合条件，prev 为前一根K线，可能为 nil
type Predicate func(row, prev *models.IndicatorRow, cfg *config.Analysis) bool

// CombinationDefinition 命名的组合信号
type CombinationDefinition struct {
	Name      string
	Side      Side
	Predicate Predicate
}

// Fires 缺少所需字段时返回 false
func (d CombinationDefinition) Fires(row, prev *models.IndicatorRow, cfg *config.Analysis) bool {
	if row == nil {
		return false
	}
	return d.Predicate(row, prev, cfg)
}

var combinationCatalog = []CombinationDefinition{
	// 买入
	{"divergence_bullish_stoch", SideBuy, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return r.RSIDivergence == models.DivergenceBullish && stochAbove(r)
	}},
	{"triple_confirm_buy", SideBuy, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return rsiExitOversold(r, p, c) && macdCrossUp(r, p) && r.Trend.IsBullish()
	}},
	{"rsi_stoch_oversold", SideBuy, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return lte(r.RSI, c.RSI.Oversold) && lt(r.StochK, c.Stochastic.Oversold)
	}},
	{"macd_cross_trend_buy", SideBuy, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return macdCrossUp(r, p) && r.Trend.IsBullish()
	}},
	{"bb_lower_rsi_low", SideBuy, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return bbLower(r) && lt(r.RSI, c.RSI.ExitOversoldMax)
	}},
	{"pattern_bullish_bb_low", SideBuy, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return r.PatternDirection == models.DirectionBullish && bbLower(r)
	}},
	{"pattern_bullish_rsi_low", SideBuy, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return r.PatternDirection == models.DirectionBullish && lt(r.RSI, c.RSI.ExitOversoldMax)
	}},
	{"stoch_cross_up_macd_rising", SideBuy, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return stochCrossUp(r, p) && histRising(r, p)
	}},
	{"adx_di_bullish_trend", SideBuy, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return gt(r.ADX, c.ADX.Strong) && diBullish(r) && r.Trend.IsBullish()
	}},
	{"golden_cross_macd_positive", SideBuy, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return above(r.SMAMedium, r.SMALong) && gt(r.MACD, 0)
	}},
	{"divergence_bullish_pattern", SideBuy, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return r.RSIDivergence == models.DivergenceBullish && r.PatternDirection == models.DirectionBullish
	}},
	{"squeeze_breakout_up", SideBuy, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return squeezeReleased(r, p) && r.BBMiddle != nil && r.Close > *r.BBMiddle
	}},
	{"rsi_exit_oversold_hist_rising", SideBuy, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return rsiExitOversold(r, p, c) && histRising(r, p)
	}},

	// 卖出
	{"divergence_bearish_stoch", SideSell, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return r.RSIDivergence == models.DivergenceBearish && stochBelow(r)
	}},
	{"triple_confirm_sell", SideSell, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return rsiExitOverbought(r, p, c) && macdCrossDown(r, p) && r.Trend.IsBearish()
	}},
	{"rsi_stoch_overbought", SideSell, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return gte(r.RSI, c.RSI.Overbought) && gt(r.StochK, c.Stochastic.Overbought)
	}},
	{"macd_cross_trend_sell", SideSell, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return macdCrossDown(r, p) && r.Trend.IsBearish()
	}},
	{"bb_upper_rsi_high", SideSell, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return bbUpper(r) && gt(r.RSI, c.RSI.ExitOverboughtMin)
	}},
	{"pattern_bearish_bb_high", SideSell, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return r.PatternDirection == models.DirectionBearish && bbUpper(r)
	}},
	{"pattern_bearish_rsi_high", SideSell, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return r.PatternDirection == models.DirectionBearish && gt(r.RSI, c.RSI.ExitOverboughtMin)
	}},
	{"stoch_cross_down_macd_falling", SideSell, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return stochCrossDown(r, p) && histFalling(r, p)
	}},
	{"adx_di_bearish_trend", SideSell, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return gt(r.ADX, c.ADX.Strong) && diBearish(r) && r.Trend.IsBearish()
	}},
	{"death_cross_macd_negative", SideSell, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return above(r.SMALong, r.SMAMedium) && lt(r.MACD, 0)
	}},
	{"divergence_bearish_pattern", SideSell, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return r.RSIDivergence == models.DivergenceBearish && r.PatternDirection == models.DirectionBearish
	}},
	{"squeeze_breakout_down", SideSell, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return squeezeReleased(r, p) && r.BBMiddle != nil && r.Close < *r.BBMiddle
	}},
	{"rsi_exit_overbought_hist_falling", SideSell, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return rsiExitOverbought(r, p, c) && histFalling(r, p)
	}},

	{"price_below_mas_macd_negative", SideSell, func(r, p *models.IndicatorRow, c *config.Analysis) bool {
		return above(r.SMAShort, &r.Close) && above(r.SMAMedium, &r.Close) && lt(r.MACD, 0)
	}},
}

// Combinations 返回组合目录的副本，顺序固定
func Combinations() []CombinationDefinition {
	return append([]CombinationDefinition(nil), combinationCatalog...)
}

// FiringCombinations 统计当前K线触发的买入/卖出组合数量
func FiringCombinations(row, prev *models.IndicatorRow, cfg *config.Analysis) (buys, sells int) {
	for _, d := range combinationCatalog {
		if !d.Fires(row, prev, cfg) {
			continue
		}
		if d.Side == SideBuy {
			buys++
		} else {
			sells++
		}
	}
	return buys, sells
}

func gt(v *float64, threshold float64) bool  { return v != nil && *v > threshold }
func gte(v *float64, threshold float64) bool { return v != nil && *v >= threshold }
func lt(v *float64, threshold float64) bool  { return v != nil && *v < threshold }
func lte(v *float64, threshold float64) bool { return v != nil && *v <= threshold }

// above a > b，任一缺失为 false
func above(a, b *float64) bool {
	return a != nil && b != nil && *a > *b
}

func between(v *float64, lo, hi float64) bool {
	return v != nil && *v >= lo && *v <= hi
}

func stochAbove(r *models.IndicatorRow) bool { return above(r.StochK, r.StochD) }
func stochBelow(r *models.IndicatorRow) bool { return above(r.StochD, r.StochK) }
func diBullish(r *models.IndicatorRow) bool  { return above(r.DIPlus, r.DIMinus) }
func diBearish(r *models.IndicatorRow) bool  { return above(r.DIMinus, r.DIPlus) }

func bbLower(r *models.IndicatorRow) bool {
	return r.BBSignal == models.BBLowerTouch || r.BBSignal == models.BBLowerZone
}

func bbUpper(r *models.IndicatorRow) bool {
	return r.BBSignal == models.BBUpperTouch || r.BBSignal == models.BBUpperZone
}

// crossed 需要本根和前一根的两条线都存在
func crossed(r, p *models.IndicatorRow, line, ref func(*models.IndicatorRow) *float64, up bool) bool {
	if p == nil {
		return false
	}
	a, b, pa, pb := line(r), ref(r), line(p), ref(p)
	if a == nil || b == nil || pa == nil || pb == nil {
		return false
	}
	if up {
		return ta.CrossedAbove(*pa, *pb, *a, *b)
	}
	return ta.CrossedBelow(*pa, *pb, *a, *b)
}

func macdLine(r *models.IndicatorRow) *float64   { return r.MACD }
func signalLine(r *models.IndicatorRow) *float64 { return r.MACDSignal }
func stochK(r *models.IndicatorRow) *float64     { return r.StochK }
func stochD(r *models.IndicatorRow) *float64     { return r.StochD }

func macdCrossUp(r, p *models.IndicatorRow) bool    { return crossed(r, p, macdLine, signalLine, true) }
func macdCrossDown(r, p *models.IndicatorRow) bool  { return crossed(r, p, macdLine, signalLine, false) }
func stochCrossUp(r, p *models.IndicatorRow) bool   { return crossed(r, p, stochK, stochD, true) }
func stochCrossDown(r, p *models.IndicatorRow) bool { return crossed(r, p, stochK, stochD, false) }

func histRising(r, p *models.IndicatorRow) bool {
	return p != nil && above(r.MACDHist, p.MACDHist)
}

func histFalling(r, p *models.IndicatorRow) bool {
	return p != nil && above(p.MACDHist, r.MACDHist)
}

// rsiExitOversold RSI 位于超卖退出区间且较前一根上升
func rsiExitOversold(r, p *models.IndicatorRow, c *config.Analysis) bool {
	return p != nil && between(r.RSI, c.RSI.ExitOversoldMin, c.RSI.ExitOversoldMax) && above(r.RSI, p.RSI)
}

// rsiExitOverbought RSI 位于超买退出区间且较前一根下降
func rsiExitOverbought(r, p *models.IndicatorRow, c *config.Analysis) bool {
	return p != nil && between(r.RSI, c.RSI.ExitOverboughtMin, c.RSI.ExitOverboughtMax) && above(p.RSI, r.RSI)
}

// squeezeReleased 前一根处于收口，本根已放开
func squeezeReleased(r, p *models.IndicatorRow) bool {
	return p != nil && p.BBSignal == models.BBSqueeze && r.BBSignal != models.BBSqueeze
}
