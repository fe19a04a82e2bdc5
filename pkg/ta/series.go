package ta

import "math"

// CrossedAbove a 由下向上穿越 b
func CrossedAbove(prevA, prevB, a, b float64) bool {
	return a > b && prevA <= prevB
}

// CrossedBelow a 由上向下穿越 b
func CrossedBelow(prevA, prevB, a, b float64) bool {
	return a < b && prevA >= prevB
}

func LastValues[T any](s []T, size int) []T {
	if l := len(s); l > size {
		return s[l-size:]
	}
	return s
}

// Lowest 区间内的最低值
func Lowest(s []float64) float64 {
	minVal := math.Inf(1)
	for _, value := range s {
		if value < minVal {
			minVal = value
		}
	}
	return minVal
}

// Highest 区间内的最高值
func Highest(s []float64) float64 {
	maxVal := math.Inf(-1)
	for _, value := range s {
		if value > maxVal {
			maxVal = value
		}
	}
	return maxVal
}

// Mean 忽略 NaN 的均值，全部缺失时返回 NaN
func Mean(s []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range s {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Mask 返回副本，前 lookback 个值置为 NaN
func Mask(s []float64, lookback int) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		if i < lookback {
			out[i] = math.NaN()
		} else {
			out[i] = v
		}
	}
	return out
}

// Missing 长度为 n 的全 NaN 序列
func Missing(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
