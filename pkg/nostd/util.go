package nostd

import "math"

// Ptr 返回值的指针
func Ptr[T any](v T) *T {
	return &v
}

// FloatPtr 将 NaN/Inf 视为缺失值
func FloatPtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Deref 取指针的值，nil 时返回 def
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
