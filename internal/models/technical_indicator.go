package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TechnicalIndicator 单日技术指标快照
type TechnicalIndicator struct {
	ID         string    `gorm:"primaryKey;type:varchar(26)" json:"id"`
	Ticker     string    `gorm:"type:varchar(20);not null;index:idx_ticker_date" json:"ticker"` // 标的代码
	Date       time.Time `gorm:"not null;index:idx_ticker_date" json:"date"`                   // 交易日
	Close      float64   `gorm:"type:decimal(20,8)" json:"close"`                              // 收盘价
	RSI        *float64  `gorm:"type:decimal(10,4)" json:"rsi"`                                // RSI
	StochK     *float64  `gorm:"type:decimal(10,4)" json:"stochastic_k"`                       // 随机指标%K
	StochD     *float64  `gorm:"type:decimal(10,4)" json:"stochastic_d"`                       // 随机指标%D
	MACD       *float64  `gorm:"type:decimal(20,8)" json:"macd"`                               // MACD
	MACDSignal *float64  `gorm:"type:decimal(20,8)" json:"macd_signal"`                        // MACD信号线
	MACDHist   *float64  `gorm:"type:decimal(20,8)" json:"macd_hist"`                          // MACD柱状图
	ADX        *float64  `gorm:"type:decimal(10,4)" json:"adx"`                                // ADX
	Trend      string    `gorm:"type:varchar(20)" json:"trend"`                                // 趋势分类
	BBSignal   string    `gorm:"type:varchar(20)" json:"bb_signal"`                            // 布林带信号
	Pattern    string    `gorm:"type:varchar(40)" json:"pattern"`                              // K线形态
	Divergence string    `gorm:"type:varchar(10)" json:"divergence"`                           // RSI背离

	Recommendation string `gorm:"type:varchar(10)" json:"recommendation"` // Buy/Sell/Neutral
	Conviction     int    `json:"conviction"`                             // 信心分数

	// 完整指标行（JSON格式）
	Row datatypes.JSON `gorm:"type:json" json:"row"`

	CalculatedAt time.Time      `gorm:"not null" json:"calculated_at"` // 计算时间
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (TechnicalIndicator) TableName() string {
	return "technical_indicators"
}
