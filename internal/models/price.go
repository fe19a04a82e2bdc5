package models

import "time"

// PriceBar 单日K线
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Trend 趋势分类
type Trend string

const (
	TrendStrongBullish Trend = "strong_bullish"
	TrendBullish       Trend = "bullish"
	TrendNeutral       Trend = "neutral"
	TrendBearish       Trend = "bearish"
	TrendStrongBearish Trend = "strong_bearish"
)

func (t Trend) IsBullish() bool {
	return t == TrendBullish || t == TrendStrongBullish
}

func (t Trend) IsBearish() bool {
	return t == TrendBearish || t == TrendStrongBearish
}

// BBSignal 布林带位置分类
type BBSignal string

const (
	BBLowerTouch BBSignal = "lower_touch"
	BBLowerZone  BBSignal = "lower_zone"
	BBNeutral    BBSignal = "neutral"
	BBUpperZone  BBSignal = "upper_zone"
	BBUpperTouch BBSignal = "upper_touch"
	BBSqueeze    BBSignal = "squeeze"
)

// IsTouch 是否为触及上轨/下轨类信号
func (s BBSignal) IsTouch() bool {
	return s == BBLowerTouch || s == BBUpperTouch
}

// Direction 形态方向
type Direction string

const (
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
	DirectionNeutral Direction = "neutral"
)

// Divergence RSI背离标记
type Divergence string

const (
	DivergenceBullish Divergence = "bullish"
	DivergenceBearish Divergence = "bearish"
	DivergenceNone    Divergence = "none"
)

// IndicatorRow K线及其技术指标。数值指标在回看窗口不足时为 nil。
type IndicatorRow struct {
	PriceBar

	RSI    *float64 `json:"rsi"`
	StochK *float64 `json:"stochastic_k"`
	StochD *float64 `json:"stochastic_d"`

	BBLower     *float64 `json:"bb_lower"`
	BBMiddle    *float64 `json:"bb_middle"`
	BBUpper     *float64 `json:"bb_upper"`
	BBBandwidth *float64 `json:"bb_bandwidth"`

	SMAShort  *float64 `json:"sma_short"`
	SMAMedium *float64 `json:"sma_medium"`
	SMALong   *float64 `json:"sma_long"`
	EMAFast   *float64 `json:"ema_fast"`
	EMASlow   *float64 `json:"ema_slow"`

	MACD       *float64 `json:"macd"`
	MACDSignal *float64 `json:"macd_signal"`
	MACDHist   *float64 `json:"macd_histogram"`

	ADX     *float64 `json:"adx"`
	DIPlus  *float64 `json:"di_plus"`
	DIMinus *float64 `json:"di_minus"`

	Trend            Trend      `json:"trend"`
	BBSignal         BBSignal   `json:"bb_signal"`
	Pattern          string     `json:"pattern"`
	PatternDirection Direction  `json:"pattern_direction"`
	RSIDivergence    Divergence `json:"rsi_divergence"`
}
