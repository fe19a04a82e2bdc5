package service

import (
	"fmt"
	"math"
	"slices"

	"github.com/TRouxel/TradingDashboard/internal/config"
	"github.com/TRouxel/TradingDashboard/internal/models"
	"github.com/TRouxel/TradingDashboard/internal/xe"
	"github.com/TRouxel/TradingDashboard/pkg/ta"
	"go.uber.org/zap"
)

const (
	// extremeRSIMultiplier RSI 进入超买/超卖区相对退出区的加成
	extremeRSIMultiplier = 1.2
	// strongTrendMultiplier 强趋势相对普通趋势的加成
	strongTrendMultiplier = 1.5
	// thresholdDiscount 有效门槛 = min_conviction_threshold × thresholdDiscount
	thresholdDiscount = 0.8
)

// DecisionService 综合决策引擎
type DecisionService struct {
	logger *zap.Logger
}

func NewDecisionService(logger *zap.Logger) *DecisionService {
	return &DecisionService{logger: logger}
}

// Scores 买卖双方的累计信心
type Scores struct {
	Buy  float64 `json:"buy"`
	Sell float64 `json:"sell"`
}

// Classify 对窗口最后一根K线给出建议。signal_timeframe > 1 时使用窗口末尾的
// signal_timeframe 根K线做聚合；窗口倒数第二根作为组合信号的前一根。
func (s *DecisionService) Classify(window []models.IndicatorRow, cfg *config.Analysis) (models.Recommendation, error) {
	if err := cfg.Validate(); err != nil {
		return models.Recommendation{}, err
	}
	if len(window) == 0 {
		return models.Recommendation{}, fmt.Errorf("%w: empty window", xe.ErrInsufficientHistory)
	}
	rec, _ := s.classify(window, cfg)
	return rec, nil
}

// ClassifySeries 按日期顺序对每根K线给出建议
func (s *DecisionService) ClassifySeries(rows []models.IndicatorRow, cfg *config.Analysis) ([]models.Recommendation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	out := make([]models.Recommendation, len(rows))
	for i := range rows {
		start := max(0, i-cfg.SignalTimeframe)
		out[i], _ = s.classify(rows[start:i+1], cfg)
	}
	return out, nil
}

func (s *DecisionService) classify(window []models.IndicatorRow, cfg *config.Analysis) (models.Recommendation, Scores) {
	var prev *models.IndicatorRow
	if len(window) > 1 {
		prev = &window[len(window)-2]
	}
	row := AggregateWindow(ta.LastValues(window, cfg.SignalTimeframe))
	scores := s.Score(&row, prev, cfg)
	return Decide(scores, cfg), scores
}

// Score 计算单根K线的买卖信心（含趋势惩罚与ADX加成）
func (s *DecisionService) Score(row, prev *models.IndicatorRow, cfg *config.Analysis) Scores {
	w := cfg.IndividualWeights
	buy, sell := 0.0, 0.0

	// 1. RSI：超卖/超买直接计分，退出区间需要随机指标方向确认
	if row.RSI != nil {
		rsi := *row.RSI
		switch {
		case rsi <= cfg.RSI.Oversold:
			buy += w.RSIExitOversold * extremeRSIMultiplier
		case rsi >= cfg.RSI.ExitOversoldMin && rsi <= cfg.RSI.ExitOversoldMax && stochAbove(row):
			buy += w.RSIExitOversold
		}
		switch {
		case rsi >= cfg.RSI.Overbought:
			sell += w.RSIExitOverbought * extremeRSIMultiplier
		case rsi >= cfg.RSI.ExitOverboughtMin && rsi <= cfg.RSI.ExitOverboughtMax && stochBelow(row):
			sell += w.RSIExitOverbought
		}
	} else {
		s.logger.Debug("rsi missing, rule skipped", zap.Time("date", row.Date))
	}

	// 2. 随机指标在极值区的交叉
	if stochAbove(row) && lt(row.StochK, cfg.Stochastic.Oversold) {
		buy += w.StochOversoldCross
	}
	if stochBelow(row) && gt(row.StochK, cfg.Stochastic.Overbought) {
		sell += w.StochOverboughtCross
	}

	// 3. MACD 与信号线，由柱状图符号确认
	if above(row.MACD, row.MACDSignal) && gt(row.MACDHist, 0) {
		buy += w.MACDBullishCross
	}
	if above(row.MACDSignal, row.MACD) && lt(row.MACDHist, 0) {
		sell += w.MACDBearishCross
	}

	// 4. RSI背离
	switch row.RSIDivergence {
	case models.DivergenceBullish:
		buy += w.DivergenceBullish
	case models.DivergenceBearish:
		sell += w.DivergenceBearish
	}

	// 5. K线形态
	switch row.PatternDirection {
	case models.DirectionBullish:
		buy += w.Pattern
	case models.DirectionBearish:
		sell += w.Pattern
	}

	// 6. 趋势
	switch row.Trend {
	case models.TrendStrongBullish:
		buy += w.TrendBonus * strongTrendMultiplier
	case models.TrendBullish:
		buy += w.TrendBonus
	case models.TrendStrongBearish:
		sell += w.TrendBonus * strongTrendMultiplier
	case models.TrendBearish:
		sell += w.TrendBonus
	}

	// 7. ADX 高于弱趋势阈值时看 DI 方向
	if gt(row.ADX, cfg.ADX.Weak) {
		if diBullish(row) {
			buy += w.ADXDirection
		} else if diBearish(row) {
			sell += w.ADXDirection
		}
	}

	// 8. 布林带
	switch row.BBSignal {
	case models.BBLowerTouch:
		buy += w.BollingerTouch
	case models.BBLowerZone:
		buy += w.BollingerZone
	case models.BBUpperTouch:
		sell += w.BollingerTouch
	case models.BBUpperZone:
		sell += w.BollingerZone
	}

	d := cfg.Decision
	if d.UseCombinations {
		buys, sells := FiringCombinations(row, prev, cfg)
		if buys >= d.MinCombinationsForSignal {
			buy += d.CombinationBonus
		}
		if sells >= d.MinCombinationsForSignal {
			sell += d.CombinationBonus
		}
	}

	// 逆强趋势的领先方打折
	if buy > sell && row.Trend == models.TrendStrongBearish {
		buy *= 1 - d.AgainstTrendPenalty
	} else if sell > buy && row.Trend == models.TrendStrongBullish {
		sell *= 1 - d.AgainstTrendPenalty
	}

	// ADX 确认顺势的领先方
	if gt(row.ADX, d.ADXConfirmationLevel) {
		if buy > sell && row.Trend.IsBullish() {
			buy *= d.ADXConfirmationBonus
		} else if sell > buy && row.Trend.IsBearish() {
			sell *= d.ADXConfirmationBonus
		}
	}

	return Scores{Buy: buy, Sell: sell}
}

// Decide 按有效门槛和领先幅度给出建议
func Decide(scores Scores, cfg *config.Analysis) models.Recommendation {
	d := cfg.Decision
	threshold := d.MinConvictionThreshold * thresholdDiscount

	switch {
	case scores.Buy >= threshold && scores.Buy > scores.Sell+d.ConvictionDifference:
		return models.Recommendation{Action: models.ActionBuy, Conviction: conviction(scores.Buy, d.MaxConviction)}
	case scores.Sell >= threshold && scores.Sell > scores.Buy+d.ConvictionDifference:
		return models.Recommendation{Action: models.ActionSell, Conviction: conviction(scores.Sell, d.MaxConviction)}
	default:
		return models.Recommendation{
			Action:     models.ActionNeutral,
			Conviction: conviction(math.Max(scores.Buy, scores.Sell), d.MaxConviction),
		}
	}
}

func conviction(total float64, maxConviction int) int {
	return min(int(math.Round(total)), maxConviction)
}

// AggregateWindow 多日聚合：RSI/随机指标取均值，形态方向取众数，
// 背离取最近一次标记，布林带取最近一次触轨。其余字段沿用最后一根。
func AggregateWindow(window []models.IndicatorRow) models.IndicatorRow {
	row := window[len(window)-1]
	if len(window) == 1 {
		return row
	}

	row.RSI = meanOf(window, func(r *models.IndicatorRow) *float64 { return r.RSI })
	row.StochK = meanOf(window, func(r *models.IndicatorRow) *float64 { return r.StochK })
	row.StochD = meanOf(window, func(r *models.IndicatorRow) *float64 { return r.StochD })
	row.PatternDirection = modeDirection(window)

	row.RSIDivergence = models.DivergenceNone
	for i := len(window) - 1; i >= 0; i-- {
		if d := window[i].RSIDivergence; d == models.DivergenceBullish || d == models.DivergenceBearish {
			row.RSIDivergence = d
			break
		}
	}

	for i := len(window) - 1; i >= 0; i-- {
		if window[i].BBSignal.IsTouch() {
			row.BBSignal = window[i].BBSignal
			break
		}
	}
	return row
}

func meanOf(window []models.IndicatorRow, field func(*models.IndicatorRow) *float64) *float64 {
	sum, n := 0.0, 0
	for i := range window {
		if v := field(&window[i]); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}

// modeDirection 非中性方向的众数，并列时取字典序第一个
func modeDirection(window []models.IndicatorRow) models.Direction {
	counts := make(map[models.Direction]int)
	for _, r := range window {
		if r.PatternDirection == models.DirectionBullish || r.PatternDirection == models.DirectionBearish {
			counts[r.PatternDirection]++
		}
	}
	if len(counts) == 0 {
		return models.DirectionNeutral
	}

	keys := make([]models.Direction, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best
}
