package service

import (
	"fmt"
	"time"

	"github.com/TRouxel/TradingDashboard/internal/config"
	"github.com/TRouxel/TradingDashboard/internal/models"
	"github.com/TRouxel/TradingDashboard/internal/xe"
	"github.com/TRouxel/TradingDashboard/pkg/exchange"
	"github.com/TRouxel/TradingDashboard/pkg/nostd"
	"github.com/TRouxel/TradingDashboard/pkg/ta"
	"go.uber.org/zap"
)

// InitialCapital 模拟的初始资金
const InitialCapital = 100.0

// Policy 模拟策略
type Policy string

const (
	// PolicyHoldAndRebuy 首日买入，看跌背离卖出，N 天后买回
	PolicyHoldAndRebuy Policy = "hold_and_rebuy"
	// PolicyBuyOnDivergence 看涨背离买入，N 天后自动卖出
	PolicyBuyOnDivergence Policy = "buy_on_divergence"
)

// ParsePolicy 解析策略名称
func ParsePolicy(name string) (Policy, error) {
	switch p := Policy(name); p {
	case PolicyHoldAndRebuy, PolicyBuyOnDivergence:
		return p, nil
	}
	return "", fmt.Errorf("%w: %s", xe.ErrUnknownPolicy, name)
}

// StrategyStats 策略统计，胜率/平均盈亏仅背离买入策略有值，卖出/买回次数仅持有买回策略有值
type StrategyStats struct {
	TotalReturn    float64  `json:"total_return"`
	BuyHoldReturn  float64  `json:"buy_hold_return"`
	Outperformance float64  `json:"outperformance"`
	TradeCount     int      `json:"trade_count"`
	RoundTrips     int      `json:"round_trips"`
	WinRate        *float64 `json:"win_rate,omitempty"`
	AvgWin         *float64 `json:"avg_win,omitempty"`
	AvgLoss        *float64 `json:"avg_loss,omitempty"`
	Sells          *int     `json:"sells,omitempty"`
	Rebuys         *int     `json:"rebuys,omitempty"`
}

// StrategyResult 单个持有期的模拟结果
type StrategyResult struct {
	Policy        Policy               `json:"policy"`
	HoldingPeriod int                  `json:"holding_period"`
	EquityCurve   []models.EquityPoint `json:"equity_curve"`
	Trades        []models.Trade       `json:"trades"`
	Stats         StrategyStats        `json:"stats"`
}

// StrategyService 背离交易策略模拟
type StrategyService struct {
	logger *zap.Logger
}

func NewStrategyService(logger *zap.Logger) *StrategyService {
	return &StrategyService{logger: logger}
}

// Simulate 对每个持有期独立运行一次策略
func (s *StrategyService) Simulate(policy Policy, rows []models.IndicatorRow, holdingPeriods []int, spreadPct float64) (map[int]*StrategyResult, error) {
	if _, err := ParsePolicy(string(policy)); err != nil {
		return nil, err
	}
	if err := config.ValidateHorizons("holding_periods", holdingPeriods); err != nil {
		return nil, err
	}
	if spreadPct < 0 {
		return nil, fmt.Errorf("%w: spread_pct must be >= 0, got %v", xe.ErrInvalidParams, spreadPct)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no bars to simulate", xe.ErrInsufficientHistory)
	}

	results := make(map[int]*StrategyResult, len(holdingPeriods))
	for _, n := range holdingPeriods {
		sim := &simulation{
			rows:   rows,
			wallet: exchange.NewPaperWallet(InitialCapital, spreadPct, s.logger),
			result: &StrategyResult{Policy: policy, HoldingPeriod: n},
		}
		var err error
		switch policy {
		case PolicyHoldAndRebuy:
			err = sim.holdAndRebuy(n)
		case PolicyBuyOnDivergence:
			err = sim.buyOnDivergence(n)
		}
		if err != nil {
			return nil, fmt.Errorf("simulate %s with holding period %d: %w", policy, n, err)
		}
		sim.finish()
		results[n] = sim.result

		s.logger.Debug("strategy simulated",
			zap.String("policy", string(policy)),
			zap.Int("holding_period", n),
			zap.Int("trades", sim.result.Stats.TradeCount),
			zap.Float64("total_return", sim.result.Stats.TotalReturn))
	}
	return results, nil
}

type simulation struct {
	rows   []models.IndicatorRow
	wallet *exchange.PaperWallet
	result *StrategyResult

	sells, rebuys int
	pnls          []float64
}

func (m *simulation) buy(row *models.IndicatorRow, reason string) error {
	fill, err := m.wallet.Buy(row.Close)
	if err != nil {
		return err
	}
	m.result.Trades = append(m.result.Trades, models.Trade{
		Date:   row.Date,
		Type:   models.TradeTypeBuy,
		Price:  fill.Price,
		Units:  fill.Units,
		Reason: reason,
	})
	return nil
}

func (m *simulation) sell(row *models.IndicatorRow, reason string) error {
	fill, err := m.wallet.Sell(row.Close)
	if err != nil {
		return err
	}
	m.result.Trades = append(m.result.Trades, models.Trade{
		Date:       row.Date,
		Type:       models.TradeTypeSell,
		Price:      fill.Price,
		Units:      fill.Units,
		Reason:     reason,
		PnlPercent: nostd.Ptr(fill.PnlPercent),
	})
	m.pnls = append(m.pnls, fill.PnlPercent)
	return nil
}

func (m *simulation) mark(row *models.IndicatorRow) {
	m.result.EquityCurve = append(m.result.EquityCurve, models.EquityPoint{
		Date:           row.Date,
		PortfolioValue: m.wallet.Value(row.Close),
		InPosition:     m.wallet.InPosition(),
		Close:          row.Close,
	})
}

// holdAndRebuy 每根K线最多一次操作，先检查买回再检查卖出；序列结束时不强制买回
func (m *simulation) holdAndRebuy(holdingPeriod int) error {
	var rebuyAt time.Time
	pending := false

	for i := range m.rows {
		row := &m.rows[i]
		switch {
		case i == 0:
			if err := m.buy(row, "initial entry"); err != nil {
				return err
			}
		case pending && !row.Date.Before(rebuyAt):
			if err := m.buy(row, "rebuy after holding period"); err != nil {
				return err
			}
			pending = false
			m.rebuys++
		case m.wallet.InPosition() && row.RSIDivergence == models.DivergenceBearish:
			if err := m.sell(row, "bearish rsi divergence"); err != nil {
				return err
			}
			rebuyAt = row.Date.AddDate(0, 0, holdingPeriod)
			pending = true
			m.sells++
		}
		m.mark(row)
	}
	return nil
}

// buyOnDivergence 先检查到期卖出再检查买入；序列结束仍持仓则在最后一根强制卖出
func (m *simulation) buyOnDivergence(holdingPeriod int) error {
	var sellAt time.Time
	last := len(m.rows) - 1

	for i := range m.rows {
		row := &m.rows[i]
		switch {
		case m.wallet.InPosition() && !row.Date.Before(sellAt):
			if err := m.sell(row, "holding period elapsed"); err != nil {
				return err
			}
		case !m.wallet.InPosition() && row.RSIDivergence == models.DivergenceBullish:
			if err := m.buy(row, "bullish rsi divergence"); err != nil {
				return err
			}
			sellAt = row.Date.AddDate(0, 0, holdingPeriod)
		}
		if i == last && m.wallet.InPosition() {
			if err := m.sell(row, "end of series"); err != nil {
				return err
			}
		}
		m.mark(row)
	}
	return nil
}

func (m *simulation) finish() {
	first, last := m.rows[0], m.rows[len(m.rows)-1]
	stats := &m.result.Stats

	final := m.wallet.Value(last.Close)
	stats.TotalReturn = (final/InitialCapital - 1) * 100
	stats.BuyHoldReturn = (last.Close/first.Close - 1) * 100
	stats.Outperformance = stats.TotalReturn - stats.BuyHoldReturn
	stats.TradeCount = len(m.result.Trades)
	stats.RoundTrips = len(m.pnls)

	switch m.result.Policy {
	case PolicyHoldAndRebuy:
		stats.Sells = nostd.Ptr(m.sells)
		stats.Rebuys = nostd.Ptr(m.rebuys)
	case PolicyBuyOnDivergence:
		if len(m.pnls) == 0 {
			return
		}
		var wins, losses []float64
		for _, pnl := range m.pnls {
			if pnl > 0 {
				wins = append(wins, pnl)
			} else {
				losses = append(losses, pnl)
			}
		}
		stats.WinRate = nostd.Ptr(float64(len(wins)) / float64(len(m.pnls)) * 100)
		if len(wins) > 0 {
			stats.AvgWin = nostd.Ptr(ta.Mean(wins))
		}
		if len(losses) > 0 {
			stats.AvgLoss = nostd.Ptr(ta.Mean(losses))
		}
	}
}

