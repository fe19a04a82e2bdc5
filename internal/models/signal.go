package models

import "time"

// Action 综合建议
type Action string

const (
	ActionBuy     Action = "Buy"
	ActionSell    Action = "Sell"
	ActionNeutral Action = "Neutral"
)

// Recommendation 建议及信心分数
type Recommendation struct {
	Action     Action `json:"recommendation"`
	Conviction int    `json:"conviction"`
}

// Signal 回测信号方向
type Signal string

const (
	SignalBuy     Signal = "buy"
	SignalSell    Signal = "sell"
	SignalNeutral Signal = "neutral"
)

// HorizonOutcome 单个持有期的评分
type HorizonOutcome struct {
	Horizon int      `json:"horizon"`
	Score   *float64 `json:"score"`
	Correct *bool    `json:"correct"`
}

// PerformanceRecord 单根K线的信号及各持有期结果，Outcomes 与回测的 horizons 顺序一致
type PerformanceRecord struct {
	Date      time.Time        `json:"date"`
	Signal    Signal           `json:"signal"`
	Intensity float64          `json:"intensity"`
	Outcomes  []HorizonOutcome `json:"outcomes"`
}

// Outcome 持有期 n 的评分，未回测该持有期时返回 false
func (r PerformanceRecord) Outcome(n int) (HorizonOutcome, bool) {
	for _, o := range r.Outcomes {
		if o.Horizon == n {
			return o, true
		}
	}
	return HorizonOutcome{}, false
}
