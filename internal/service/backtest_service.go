package service

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/TRouxel/TradingDashboard/internal/config"
	"github.com/TRouxel/TradingDashboard/internal/models"
	"github.com/TRouxel/TradingDashboard/internal/xe"
	"github.com/TRouxel/TradingDashboard/pkg/nostd"
	"go.uber.org/zap"
)

// BacktestService 指标与组合信号的历史表现回测
type BacktestService struct {
	logger          *zap.Logger
	decisionService *DecisionService
}

func NewBacktestService(decisionService *DecisionService, logger *zap.Logger) *BacktestService {
	return &BacktestService{
		logger:          logger,
		decisionService: decisionService,
	}
}

// BacktestResult 每个信号名称对应逐K线的表现记录
type BacktestResult struct {
	Horizons     []int                                 `json:"horizons"`
	Individual   map[string][]models.PerformanceRecord `json:"individual"`
	Combinations map[string][]models.PerformanceRecord `json:"combinations"`

	individualOrder []string
}

// Series 按名称查找单指标或组合的记录
func (r *BacktestResult) Series(name string) ([]models.PerformanceRecord, error) {
	if records, ok := r.Individual[name]; ok {
		return records, nil
	}
	if records, ok := r.Combinations[name]; ok {
		return records, nil
	}
	return nil, fmt.Errorf("%w: %s", xe.ErrUnknownSignal, name)
}

// IndividualNames 单指标名称，按生成器顺序
func (r *BacktestResult) IndividualNames() []string {
	return slices.Clone(r.individualOrder)
}

// Run 对指标序列回测全部单指标和组合信号
func (s *BacktestService) Run(rows []models.IndicatorRow, cfg *config.Analysis, horizons []int) (*BacktestResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := config.ValidateHorizons("horizons", horizons); err != nil {
		return nil, err
	}

	labels := forwardReturns(rows, horizons)
	result := &BacktestResult{
		Horizons:     slices.Clone(horizons),
		Individual:   make(map[string][]models.PerformanceRecord),
		Combinations: make(map[string][]models.PerformanceRecord),
	}

	for _, g := range s.signalGenerators() {
		records := make([]models.PerformanceRecord, len(rows))
		for i := range rows {
			row, prev := neighbours(rows, i)
			signal, intensity := g.Generate(row, prev, cfg)
			records[i] = scoreRecord(row, signal, intensity, horizons, labels[i])
		}
		result.Individual[g.Name] = records
		result.individualOrder = append(result.individualOrder, g.Name)
	}

	for _, d := range combinationCatalog {
		weight := cfg.CombinationWeight(d.Name)
		records := make([]models.PerformanceRecord, len(rows))
		for i := range rows {
			row, prev := neighbours(rows, i)
			signal := models.SignalNeutral
			if d.Fires(row, prev, cfg) {
				signal = d.Side.Signal()
			}
			records[i] = scoreRecord(row, signal, weight, horizons, labels[i])
		}
		result.Combinations[d.Name] = records
	}

	s.logger.Info("backtest finished",
		zap.Int("bars", len(rows)),
		zap.Ints("horizons", horizons),
		zap.Int("individual", len(result.Individual)),
		zap.Int("combinations", len(result.Combinations)))
	return result, nil
}

func neighbours(rows []models.IndicatorRow, i int) (row, prev *models.IndicatorRow) {
	row = &rows[i]
	if i > 0 {
		prev = &rows[i-1]
	}
	return row, prev
}

// forwardReturns 第 i 根K线在各持有期的前瞻收益 close[i+N]/close[i]-1，超出序列为 nil
func forwardReturns(rows []models.IndicatorRow, horizons []int) [][]*float64 {
	out := make([][]*float64, len(rows))
	for i := range rows {
		out[i] = make([]*float64, len(horizons))
		for h, n := range horizons {
			if i+n >= len(rows) || rows[i].Close == 0 {
				continue
			}
			out[i][h] = nostd.FloatPtr(rows[i+n].Close/rows[i].Close - 1)
		}
	}
	return out
}

// scoreRecord 中性信号或强度为 0 时得分为 0 且不判定对错；前瞻收益缺失时得分为 nil
func scoreRecord(row *models.IndicatorRow, signal models.Signal, intensity float64, horizons []int, labels []*float64) models.PerformanceRecord {
	record := models.PerformanceRecord{
		Date:      row.Date,
		Signal:    signal,
		Intensity: intensity,
		Outcomes:  make([]models.HorizonOutcome, len(horizons)),
	}
	for h, n := range horizons {
		outcome := models.HorizonOutcome{Horizon: n}
		switch {
		case signal == models.SignalNeutral || intensity <= 0:
			outcome.Score = nostd.Ptr(0.0)
		case labels[h] != nil:
			ret := *labels[h]
			correct := (signal == models.SignalBuy && ret > 0) || (signal == models.SignalSell && ret < 0)
			score := -intensity
			if correct {
				score = intensity
			}
			outcome.Score = &score
			outcome.Correct = &correct
		}
		record.Outcomes[h] = outcome
	}
	return record
}

// HorizonStats 单个持有期的统计
type HorizonStats struct {
	Horizon          int      `json:"horizon"`
	Correct          int      `json:"correct"`
	Wrong            int      `json:"wrong"`
	Accuracy         *float64 `json:"accuracy"`          // 百分比，无评分信号时为 nil
	CumulativeReturn float64  `json:"cumulative_return"` // 带符号强度得分之和
}

// SeriesSummary 某个信号的整体统计
type SeriesSummary struct {
	Name         string         `json:"name"`
	TotalSignals int            `json:"total_signals"`
	Horizons     []HorizonStats `json:"horizons"`
}

// SummarizeSeries 统计各持有期的准确率和累计得分
func SummarizeSeries(name string, records []models.PerformanceRecord, horizons []int) SeriesSummary {
	summary := SeriesSummary{Name: name, Horizons: make([]HorizonStats, len(horizons))}
	for _, r := range records {
		if r.Signal != models.SignalNeutral {
			summary.TotalSignals++
		}
	}
	for h, n := range horizons {
		stats := HorizonStats{Horizon: n}
		for _, r := range records {
			o, ok := r.Outcome(n)
			if !ok {
				continue
			}
			if o.Score != nil {
				stats.CumulativeReturn += *o.Score
			}
			if o.Correct == nil {
				continue
			}
			if *o.Correct {
				stats.Correct++
			} else {
				stats.Wrong++
			}
		}
		if total := stats.Correct + stats.Wrong; total > 0 {
			stats.Accuracy = nostd.Ptr(float64(stats.Correct) / float64(total) * 100)
		}
		summary.Horizons[h] = stats
	}
	return summary
}

// MeanAccuracy 各持有期准确率的均值，忽略 nil
func (s SeriesSummary) MeanAccuracy() *float64 {
	sum, n := 0.0, 0
	for _, h := range s.Horizons {
		if h.Accuracy != nil {
			sum += *h.Accuracy
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return nostd.Ptr(sum / float64(n))
}

// RankedCombination 组合信号排名
type RankedCombination struct {
	Name         string         `json:"name"`
	Side         Side           `json:"type"`
	Accuracy     *float64       `json:"accuracy"`
	TotalSignals int            `json:"total_signals"`
	PerHorizon   []HorizonStats `json:"per_horizon_stats"`
}

// RankCombinations 按平均准确率降序排列，相同时保持目录顺序，没有准确率的排在最后
func RankCombinations(result *BacktestResult, horizons []int) []RankedCombination {
	ranked := make([]RankedCombination, 0, len(combinationCatalog))
	for _, d := range combinationCatalog {
		records, ok := result.Combinations[d.Name]
		if !ok {
			continue
		}
		summary := SummarizeSeries(d.Name, records, horizons)
		ranked = append(ranked, RankedCombination{
			Name:         d.Name,
			Side:         d.Side,
			Accuracy:     summary.MeanAccuracy(),
			TotalSignals: summary.TotalSignals,
			PerHorizon:   summary.Horizons,
		})
	}

	slices.SortStableFunc(ranked, func(a, b RankedCombination) int {
		switch {
		case a.Accuracy == nil && b.Accuracy == nil:
			return 0
		case a.Accuracy == nil:
			return 1
		case b.Accuracy == nil:
			return -1
		}
		return cmp.Compare(*b.Accuracy, *a.Accuracy)
	})
	return ranked
}
