package models

import "time"

// TradeType 交易方向
type TradeType string

const (
	TradeTypeBuy  TradeType = "Buy"
	TradeTypeSell TradeType = "Sell"
)

// Trade 模拟策略的成交记录
type Trade struct {
	Date   time.Time `json:"date"`
	Type   TradeType `json:"type"`
	Price  float64   `json:"price"`  // 含点差的成交价
	Units  float64   `json:"units"`  // 成交数量
	Reason string    `json:"reason"` // 触发原因
	// PnlPercent 平仓盈亏百分比（仅卖出时有值）
	PnlPercent *float64 `json:"pnl_percent,omitempty"`
}

// EquityPoint 权益曲线上的一个点
type EquityPoint struct {
	Date           time.Time `json:"date"`
	PortfolioValue float64   `json:"portfolio_value"`
	InPosition     bool      `json:"in_position"`
	Close          float64   `json:"close"`
}
