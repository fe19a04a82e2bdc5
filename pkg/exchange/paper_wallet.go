package exchange

import (
	"errors"

	"go.uber.org/zap"
)

var (
	ErrAlreadyInPosition = errors.New("paper wallet already holds a position")
	ErrNoPosition        = errors.New("paper wallet has no position to sell")
	ErrInvalidPrice      = errors.New("price must be positive")
)

// PaperWallet 纸钱包（模拟交易），单一标的、全仓进出。
// 买入按卖一价（close × (1 + spread/200)），卖出按买一价（close × (1 - spread/200)）。
type PaperWallet struct {
	logger *zap.Logger

	spreadPct  float64 // 往返点差百分比
	cash       float64 // 现金
	units      float64 // 持仓数量
	entryPrice float64 // 最近一次买入成交价
}

// NewPaperWallet 创建纸钱包
func NewPaperWallet(initialBalance, spreadPct float64, logger *zap.Logger) *PaperWallet {
	return &PaperWallet{
		logger:    logger,
		spreadPct: spreadPct,
		cash:      initialBalance,
	}
}

// Ask 买入成交价
func (p *PaperWallet) Ask(price float64) float64 {
	return price * (1 + p.spreadPct/200)
}

// Bid 卖出成交价
func (p *PaperWallet) Bid(price float64) float64 {
	return price * (1 - p.spreadPct/200)
}

// InPosition 是否持仓
func (p *PaperWallet) InPosition() bool {
	return p.units > 0
}

// Value 按参考价（收盘价）计算的总权益
func (p *PaperWallet) Value(price float64) float64 {
	return p.cash + p.units*price
}

// Buy 用全部现金按卖一价买入
func (p *PaperWallet) Buy(price float64) (*Fill, error) {
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if p.InPosition() {
		return nil, ErrAlreadyInPosition
	}

	ask := p.Ask(price)
	p.units = p.cash / ask
	p.cash = 0
	p.entryPrice = ask

	p.logger.Debug("paper wallet: buy",
		zap.Float64("price", price),
		zap.Float64("ask", ask),
		zap.Float64("units", p.units))

	return &Fill{Price: ask, Units: p.units}, nil
}

// Sell 按买一价卖出全部持仓
func (p *PaperWallet) Sell(price float64) (*Fill, error) {
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if !p.InPosition() {
		return nil, ErrNoPosition
	}

	bid := p.Bid(price)
	units := p.units
	p.cash = units * bid
	p.units = 0
	pnl := (bid/p.entryPrice - 1) * 100

	p.logger.Debug("paper wallet: sell",
		zap.Float64("price", price),
		zap.Float64("bid", bid),
		zap.Float64("units", units),
		zap.Float64("pnl_percent", pnl))

	return &Fill{Price: bid, Units: units, PnlPercent: pnl}, nil
}
