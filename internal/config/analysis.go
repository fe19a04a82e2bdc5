package config

import "maps"

// Analysis 单次分析使用的参数集合，构造后只读
type Analysis struct {
	RSI                RSIConf            `json:"rsi"`
	Stochastic         StochasticConf     `json:"stochastic"`
	Bollinger          BollingerConf      `json:"bollinger"`
	MovingAverages     MovingAverageConf  `json:"moving_averages"`
	MACD               MACDConf           `json:"macd"`
	ADX                ADXConf            `json:"adx"`
	Trend              TrendConf          `json:"trend"`
	Divergence         DivergenceConf     `json:"divergence"`
	CombinationWeights map[string]float64 `json:"combination_weights" validate:"dive,gte=0"`
	IndividualWeights  IndividualWeights  `json:"individual_weights"`
	SignalWeights      SignalWeights      `json:"signal_weights"`
	Decision           DecisionConf       `json:"decision"`
	SignalTimeframe    int                `json:"signal_timeframe" validate:"gte=1"`
}

type RSIConf struct {
	Period            int     `json:"period" validate:"gte=2"`
	Oversold          float64 `json:"oversold" validate:"gte=0,lte=100"`
	Overbought        float64 `json:"overbought" validate:"gte=0,lte=100,gtfield=Oversold"`
	ExitOversoldMin   float64 `json:"exit_oversold_min" validate:"gte=0,lte=100"`
	ExitOversoldMax   float64 `json:"exit_oversold_max" validate:"gte=0,lte=100,gtefield=ExitOversoldMin"`
	ExitOverboughtMin float64 `json:"exit_overbought_min" validate:"gte=0,lte=100"`
	ExitOverboughtMax float64 `json:"exit_overbought_max" validate:"gte=0,lte=100,gtefield=ExitOverboughtMin"`
}

type StochasticConf struct {
	KPeriod    int     `json:"k_period" validate:"gte=1"`
	DPeriod    int     `json:"d_period" validate:"gte=1"`
	Smooth     int     `json:"smooth" validate:"gte=1"`
	Oversold   float64 `json:"oversold" validate:"gte=0,lte=100"`
	Overbought float64 `json:"overbought" validate:"gte=0,lte=100,gtfield=Oversold"`
}

type BollingerConf struct {
	Period           int     `json:"period" validate:"gte=2"`
	StdDev           float64 `json:"std_dev" validate:"gt=0"`
	SqueezeThreshold float64 `json:"squeeze_threshold" validate:"gte=0"`
}

type MovingAverageConf struct {
	SMAShort  int `json:"sma_short" validate:"gte=1"`
	SMAMedium int `json:"sma_medium" validate:"gte=1"`
	SMALong   int `json:"sma_long" validate:"gte=1"`
	EMAFast   int `json:"ema_fast" validate:"gte=1"`
	EMASlow   int `json:"ema_slow" validate:"gte=1"`
}

type MACDConf struct {
	Fast   int `json:"fast" validate:"gte=2"`
	Slow   int `json:"slow" validate:"gte=2,gtfield=Fast"`
	Signal int `json:"signal" validate:"gte=1"`
}

type ADXConf struct {
	Period     int     `json:"period" validate:"gte=2"`
	Weak       float64 `json:"weak" validate:"gte=0"`
	Strong     float64 `json:"strong" validate:"gte=0"`
	VeryStrong float64 `json:"very_strong" validate:"gte=0"`
}

// TrendWeights 趋势评分各子信号权重
type TrendWeights struct {
	PriceAboveSMAShort  float64 `json:"price_above_sma_short" validate:"gte=0"`
	PriceAboveSMAMedium float64 `json:"price_above_sma_medium" validate:"gte=0"`
	PriceAboveSMALong   float64 `json:"price_above_sma_long" validate:"gte=0"`
	MAAlignment         float64 `json:"ma_alignment" validate:"gte=0"`
	DIDirection         float64 `json:"di_direction" validate:"gte=0"`
}

type TrendConf struct {
	Weights         TrendWeights `json:"weights"`
	StrongThreshold float64      `json:"strong_threshold" validate:"gte=0,gtefield=WeakThreshold"`
	WeakThreshold   float64      `json:"weak_threshold" validate:"gte=0"`
}

type DivergenceConf struct {
	LookbackPeriod   int     `json:"lookback_period" validate:"gte=3"`
	RSILowThreshold  float64 `json:"rsi_low_threshold" validate:"gte=0,lte=100"`
	RSIHighThreshold float64 `json:"rsi_high_threshold" validate:"gte=0,lte=100"`
}

// IndividualWeights 实时决策引擎中各指标的权重
type IndividualWeights struct {
	RSIExitOversold      float64 `json:"rsi_exit_oversold" validate:"gte=0"`
	RSIExitOverbought    float64 `json:"rsi_exit_overbought" validate:"gte=0"`
	StochOversoldCross   float64 `json:"stoch_oversold_cross" validate:"gte=0"`
	StochOverboughtCross float64 `json:"stoch_overbought_cross" validate:"gte=0"`
	MACDBullishCross     float64 `json:"macd_bullish_cross" validate:"gte=0"`
	MACDBearishCross     float64 `json:"macd_bearish_cross" validate:"gte=0"`
	DivergenceBullish    float64 `json:"divergence_bullish" validate:"gte=0"`
	DivergenceBearish    float64 `json:"divergence_bearish" validate:"gte=0"`
	Pattern              float64 `json:"pattern" validate:"gte=0"`
	TrendBonus           float64 `json:"trend_bonus" validate:"gte=0"`
	ADXDirection         float64 `json:"adx_direction" validate:"gte=0"`
	BollingerTouch       float64 `json:"bollinger_touch" validate:"gte=0"`
	BollingerZone        float64 `json:"bollinger_zone" validate:"gte=0"`
}

// SignalWeights 回测信号强度
type SignalWeights struct {
	RSIExtreme     float64 `json:"rsi_extreme" validate:"gte=0"`
	RSIMomentum    float64 `json:"rsi_momentum" validate:"gte=0"`
	StochExtreme   float64 `json:"stoch_extreme" validate:"gte=0"`
	StochCross     float64 `json:"stoch_cross" validate:"gte=0"`
	BollingerTouch float64 `json:"bollinger_touch" validate:"gte=0"`
	BollingerZone  float64 `json:"bollinger_zone" validate:"gte=0"`
	MACDCross      float64 `json:"macd_cross" validate:"gte=0"`
	MACDHistogram  float64 `json:"macd_histogram" validate:"gte=0"`
	TrendStrong    float64 `json:"trend_strong" validate:"gte=0"`
	TrendWeak      float64 `json:"trend_weak" validate:"gte=0"`
	ADXDirection   float64 `json:"adx_direction" validate:"gte=0"`
	Pattern        float64 `json:"pattern" validate:"gte=0"`
	Divergence     float64 `json:"divergence" validate:"gte=0"`
	Recommendation float64 `json:"recommendation" validate:"gte=0"`
}

type DecisionConf struct {
	MinConvictionThreshold   float64 `json:"min_conviction_threshold" validate:"gte=0"`
	ConvictionDifference     float64 `json:"conviction_difference" validate:"gte=0"`
	AgainstTrendPenalty      float64 `json:"against_trend_penalty" validate:"gte=0,lte=1"`
	ADXConfirmationLevel     float64 `json:"adx_confirmation_level" validate:"gte=0"`
	ADXConfirmationBonus     float64 `json:"adx_confirmation_bonus" validate:"gte=1"`
	MaxConviction            int     `json:"max_conviction" validate:"gte=0"`
	UseCombinations          bool    `json:"use_combinations"`
	CombinationBonus         float64 `json:"combination_bonus" validate:"gte=0"`
	MinCombinationsForSignal int     `json:"min_combinations_for_signal" validate:"gte=1"`
}

// DefaultAnalysis 返回默认分析参数
func DefaultAnalysis() Analysis {
	return Analysis{
		RSI: RSIConf{
			Period:            14,
			Oversold:          30,
			Overbought:        70,
			ExitOversoldMin:   30,
			ExitOversoldMax:   40,
			ExitOverboughtMin: 60,
			ExitOverboughtMax: 70,
		},
		Stochastic: StochasticConf{
			KPeriod:    14,
			DPeriod:    3,
			Smooth:     3,
			Oversold:   20,
			Overbought: 80,
		},
		Bollinger: BollingerConf{
			Period:           20,
			StdDev:           2,
			SqueezeThreshold: 0.05,
		},
		MovingAverages: MovingAverageConf{
			SMAShort:  20,
			SMAMedium: 50,
			SMALong:   200,
			EMAFast:   12,
			EMASlow:   26,
		},
		MACD: MACDConf{Fast: 12, Slow: 26, Signal: 9},
		ADX: ADXConf{
			Period:     14,
			Weak:       20,
			Strong:     25,
			VeryStrong: 40,
		},
		Trend: TrendConf{
			Weights: TrendWeights{
				PriceAboveSMAShort:  1,
				PriceAboveSMAMedium: 1,
				PriceAboveSMALong:   1,
				MAAlignment:         1.5,
				DIDirection:         1,
			},
			StrongThreshold: 3.5,
			WeakThreshold:   1.5,
		},
		Divergence: DivergenceConf{
			LookbackPeriod:   14,
			RSILowThreshold:  40,
			RSIHighThreshold: 60,
		},
		CombinationWeights: DefaultCombinationWeights(),
		IndividualWeights: IndividualWeights{
			RSIExitOversold:      2,
			RSIExitOverbought:    2,
			StochOversoldCross:   1.5,
			StochOverboughtCross: 1.5,
			MACDBullishCross:     1.5,
			MACDBearishCross:     1.5,
			DivergenceBullish:    2,
			DivergenceBearish:    2,
			Pattern:              1,
			TrendBonus:           1,
			ADXDirection:         1,
			BollingerTouch:       1.5,
			BollingerZone:        0.75,
		},
		SignalWeights: SignalWeights{
			RSIExtreme:     2,
			RSIMomentum:    1,
			StochExtreme:   1.5,
			StochCross:     1,
			BollingerTouch: 1.5,
			BollingerZone:  0.75,
			MACDCross:      1.5,
			MACDHistogram:  0.75,
			TrendStrong:    1.5,
			TrendWeak:      1,
			ADXDirection:   1,
			Pattern:        1,
			Divergence:     2,
			Recommendation: 1,
		},
		Decision: DecisionConf{
			MinConvictionThreshold:   2.5,
			ConvictionDifference:     1,
			AgainstTrendPenalty:      0.3,
			ADXConfirmationLevel:     25,
			ADXConfirmationBonus:     1.2,
			MaxConviction:            5,
			UseCombinations:          false,
			CombinationBonus:         1,
			MinCombinationsForSignal: 2,
		},
		SignalTimeframe: 1,
	}
}

// DefaultCombinationWeights 组合信号默认权重，键为组合名称
func DefaultCombinationWeights() map[string]float64 {
	return map[string]float64{
		"divergence_bullish_stoch":      2.5,
		"triple_confirm_buy":            3,
		"rsi_stoch_oversold":            2,
		"macd_cross_trend_buy":          2,
		"bb_lower_rsi_low":              2,
		"pattern_bullish_bb_low":        1.5,
		"pattern_bullish_rsi_low":       1.5,
		"stoch_cross_up_macd_rising":    1.5,
		"adx_di_bullish_trend":          2,
		"golden_cross_macd_positive":    2.5,
		"divergence_bullish_pattern":    2.5,
		"squeeze_breakout_up":           2,
		"rsi_exit_oversold_hist_rising": 2,

		"divergence_bearish_stoch":         2.5,
		"triple_confirm_sell":              3,
		"rsi_stoch_overbought":             2,
		"macd_cross_trend_sell":            2,
		"bb_upper_rsi_high":                2,
		"pattern_bearish_bb_high":          1.5,
		"pattern_bearish_rsi_high":         1.5,
		"stoch_cross_down_macd_falling":    1.5,
		"adx_di_bearish_trend":             2,
		"death_cross_macd_negative":        2.5,
		"divergence_bearish_pattern":       2.5,
		"squeeze_breakout_down":            2,
		"rsi_exit_overbought_hist_falling": 2,

		"price_below_mas_macd_negative": 2,
	}
}

// Clone 深拷贝，调用方可在副本上修改后作为新的参数集合使用
func (a Analysis) Clone() Analysis {
	c := a
	c.CombinationWeights = maps.Clone(a.CombinationWeights)
	return c
}

// CombinationWeight 组合权重，未配置时为 0
func (a *Analysis) CombinationWeight(name string) float64 {
	return a.CombinationWeights[name]
}

// MinBars 所有指标都能产生数值所需的最少K线数
func (a *Analysis) MinBars() int {
	bars := 0
	for _, n := range []int{
		a.RSI.Period + 1,
		a.Stochastic.KPeriod + a.Stochastic.Smooth + a.Stochastic.DPeriod - 2,
		a.Bollinger.Period,
		a.MovingAverages.SMAShort,
		a.MovingAverages.SMAMedium,
		a.MovingAverages.SMALong,
		a.MovingAverages.EMASlow,
		a.MACD.Slow + a.MACD.Signal - 1,
		2 * a.ADX.Period,
	} {
		bars = max(bars, n)
	}
	return bars
}
