package exchange

// Fill 模拟成交结果
type Fill struct {
	Price float64 `json:"price"` // 含点差的成交价
	Units float64 `json:"units"` // 成交数量
	// PnlPercent 卖出相对买入成交价的盈亏百分比，买入时为 0
	PnlPercent float64 `json:"pnl_percent"`
}
