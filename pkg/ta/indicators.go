package ta

import (
	talib "github.com/markcheno/go-talib"
)

// 以下函数对 go-talib 做了一层包装：
// 1. 数据不足回看窗口时不调用 talib（talib 会越界），直接返回全 NaN
// 2. 回看窗口内 talib 输出的 0 统一替换为 NaN

func RSI(closes []float64, period int) []float64 {
	lookback := period
	if len(closes) <= lookback {
		return Missing(len(closes))
	}
	return Mask(talib.Rsi(closes, period), lookback)
}

func SMA(values []float64, period int) []float64 {
	lookback := period - 1
	if len(values) <= lookback {
		return Missing(len(values))
	}
	return Mask(talib.Sma(values, period), lookback)
}

func EMA(values []float64, period int) []float64 {
	lookback := period - 1
	if len(values) <= lookback {
		return Missing(len(values))
	}
	return Mask(talib.Ema(values, period), lookback)
}

// MACD 返回 MACD线、信号线、柱状图
func MACD(closes []float64, fast, slow, signal int) ([]float64, []float64, []float64) {
	lookback := (slow - 1) + (signal - 1)
	if len(closes) <= lookback {
		n := len(closes)
		return Missing(n), Missing(n), Missing(n)
	}
	macd, sig, hist := talib.Macd(closes, fast, slow, signal)
	return Mask(macd, lookback), Mask(sig, lookback), Mask(hist, lookback)
}

// BBands 返回上轨、中轨、下轨
func BBands(closes []float64, period int, stdDev float64) ([]float64, []float64, []float64) {
	lookback := period - 1
	if len(closes) <= lookback {
		n := len(closes)
		return Missing(n), Missing(n), Missing(n)
	}
	upper, middle, lower := talib.BBands(closes, period, stdDev, stdDev, talib.SMA)
	return Mask(upper, lookback), Mask(middle, lookback), Mask(lower, lookback)
}

// Stoch 慢速随机指标，返回 %K 和 %D，均使用 SMA 平滑
func Stoch(highs, lows, closes []float64, kPeriod, smooth, dPeriod int) ([]float64, []float64) {
	lookback := (kPeriod - 1) + (smooth - 1) + (dPeriod - 1)
	if len(closes) <= lookback {
		n := len(closes)
		return Missing(n), Missing(n)
	}
	k, d := talib.Stoch(highs, lows, closes, kPeriod, smooth, talib.SMA, dPeriod, talib.SMA)
	return Mask(k, lookback), Mask(d, lookback)
}

// ADX 返回 ADX、+DI、-DI
func ADX(highs, lows, closes []float64, period int) ([]float64, []float64, []float64) {
	n := len(closes)
	adxLookback := 2*period - 1
	diLookback := period

	adx := Missing(n)
	if n > adxLookback {
		adx = Mask(talib.Adx(highs, lows, closes, period), adxLookback)
	}
	plus, minus := Missing(n), Missing(n)
	if n > diLookback {
		plus = Mask(talib.PlusDI(highs, lows, closes, period), diLookback)
		minus = Mask(talib.MinusDI(highs, lows, closes, period), diLookback)
	}
	return adx, plus, minus
}
