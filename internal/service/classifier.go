package service

import (
	"github.com/TRouxel/TradingDashboard/internal/config"
	"github.com/TRouxel/TradingDashboard/internal/models"
)

// 布林带位置分界，按 (close-lower)/(upper-lower) 计算
const (
	bbTouchLower = 0.05
	bbTouchUpper = 0.95
	bbZoneLower  = 0.20
	bbZoneUpper  = 0.80
)

// TrendScore 趋势加权得分，缺失的子信号不计分
func TrendScore(row *models.IndicatorRow, cfg *config.Analysis) float64 {
	w := cfg.Trend.Weights
	score := 0.0

	priceVs := func(ma *float64, weight float64) {
		if ma == nil {
			return
		}
		switch {
		case row.Close > *ma:
			score += weight
		case row.Close < *ma:
			score -= weight
		}
	}
	priceVs(row.SMAShort, w.PriceAboveSMAShort)
	priceVs(row.SMAMedium, w.PriceAboveSMAMedium)
	priceVs(row.SMALong, w.PriceAboveSMALong)

	// 均线排列
	if row.SMAShort != nil && row.SMAMedium != nil && row.SMALong != nil {
		s, m, l := *row.SMAShort, *row.SMAMedium, *row.SMALong
		switch {
		case s > m && m > l:
			score += w.MAAlignment
		case s < m && m < l:
			score -= w.MAAlignment
		}
	}

	if row.DIPlus != nil && row.DIMinus != nil {
		switch {
		case *row.DIPlus > *row.DIMinus:
			score += w.DIDirection
		case *row.DIPlus < *row.DIMinus:
			score -= w.DIDirection
		}
	}
	return score
}

// ClassifyTrend 根据趋势得分分类，强趋势还要求 ADX 高于 adx.strong
func ClassifyTrend(row *models.IndicatorRow, cfg *config.Analysis) models.Trend {
	score := TrendScore(row, cfg)
	strongADX := row.ADX != nil && *row.ADX > cfg.ADX.Strong

	switch {
	case score >= cfg.Trend.StrongThreshold && strongADX:
		return models.TrendStrongBullish
	case score >= cfg.Trend.WeakThreshold:
		return models.TrendBullish
	case score <= -cfg.Trend.StrongThreshold && strongADX:
		return models.TrendStrongBearish
	case score <= -cfg.Trend.WeakThreshold:
		return models.TrendBearish
	default:
		return models.TrendNeutral
	}
}

// ClassifyBollinger 布林带信号，收口优先于位置判断
func ClassifyBollinger(row *models.IndicatorRow, cfg *config.Analysis) models.BBSignal {
	if row.BBLower == nil || row.BBUpper == nil || row.BBMiddle == nil {
		return models.BBNeutral
	}
	lower, upper, middle := *row.BBLower, *row.BBUpper, *row.BBMiddle
	width := upper - lower

	if middle != 0 && width/middle < cfg.Bollinger.SqueezeThreshold {
		return models.BBSqueeze
	}
	if width <= 0 {
		return models.BBNeutral
	}

	position := (row.Close - lower) / width
	switch {
	case position <= bbTouchLower:
		return models.BBLowerTouch
	case position >= bbTouchUpper:
		return models.BBUpperTouch
	case position <= bbZoneLower:
		return models.BBLowerZone
	case position >= bbZoneUpper:
		return models.BBUpperZone
	default:
		return models.BBNeutral
	}
}
