package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/TRouxel/TradingDashboard/internal/config"
	"github.com/TRouxel/TradingDashboard/internal/models"
	"github.com/TRouxel/TradingDashboard/internal/xe"
	"github.com/TRouxel/TradingDashboard/pkg/ta"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// recentSize 报告中附带的最近数据点数量
const recentSize = 10

// AnalysisService 单个标的的完整分析：指标、逐日建议和当日快照
type AnalysisService struct {
	logger *zap.Logger

	indicatorService *IndicatorService
	decisionService  *DecisionService
}

// NewAnalysisService 创建分析服务
func NewAnalysisService(indicatorService *IndicatorService, decisionService *DecisionService, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{
		logger:           logger,
		indicatorService: indicatorService,
		decisionService:  decisionService,
	}
}

// RecentSeries 最近几个交易日的关键序列
type RecentSeries struct {
	Dates    []time.Time `json:"dates"`
	Closes   []float64   `json:"closes"`
	RSI      []*float64  `json:"rsi"`
	MACDHist []*float64  `json:"macd_histogram"`
}

// AnalysisReport 分析结果
type AnalysisReport struct {
	Ticker          string                     `json:"ticker"`
	Rows            []models.IndicatorRow      `json:"rows"`
	Recommendations []models.Recommendation    `json:"recommendations"`
	Latest          models.IndicatorRow        `json:"latest"`
	Recommendation  models.Recommendation      `json:"recommendation"`
	Scores          Scores                     `json:"scores"`
	Recent          *RecentSeries              `json:"recent"`
	Issues          []string                   `json:"issues"` // 最新一根K线的数据质量问题
	Snapshot        *models.TechnicalIndicator `json:"-"`
}

// Analyze 计算指标并逐日给出建议，最后一根K线生成快照
func (s *AnalysisService) Analyze(ticker string, bars []models.PriceBar, cfg *config.Analysis) (*AnalysisReport, error) {
	s.logger.Info("analyzing", zap.String("ticker", ticker), zap.Int("bars", len(bars)))
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s has no bars", xe.ErrInsufficientHistory, ticker)
	}

	rows, err := s.indicatorService.BuildIndicators(bars, cfg)
	if err != nil {
		return nil, err
	}
	recs, err := s.decisionService.ClassifySeries(rows, cfg)
	if err != nil {
		return nil, err
	}

	last := len(rows) - 1
	report := &AnalysisReport{
		Ticker:          ticker,
		Rows:            rows,
		Recommendations: recs,
		Latest:          rows[last],
		Recommendation:  recs[last],
		Recent:          recentSeries(rows),
	}
	_, report.Scores = s.decisionService.classify(rows[max(0, last-cfg.SignalTimeframe):], cfg)

	// 验证数据质量
	report.Issues = s.indicatorService.ValidateRow(&report.Latest)
	if len(report.Issues) > 0 {
		s.logger.Warn("data quality issues",
			zap.String("ticker", ticker),
			zap.Time("date", report.Latest.Date),
			zap.Strings("issues", report.Issues))
	}

	report.Snapshot, err = NewSnapshot(ticker, &report.Latest, report.Recommendation)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func recentSeries(rows []models.IndicatorRow) *RecentSeries {
	tail := ta.LastValues(rows, recentSize)
	recent := &RecentSeries{
		Dates:    make([]time.Time, len(tail)),
		Closes:   make([]float64, len(tail)),
		RSI:      make([]*float64, len(tail)),
		MACDHist: make([]*float64, len(tail)),
	}
	for i, r := range tail {
		recent.Dates[i] = r.Date
		recent.Closes[i] = r.Close
		recent.RSI[i] = r.RSI
		recent.MACDHist[i] = r.MACDHist
	}
	return recent
}

// NewSnapshot 将单日指标行转换为可持久化的快照
func NewSnapshot(ticker string, row *models.IndicatorRow, rec models.Recommendation) (*models.TechnicalIndicator, error) {
	payload, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal indicator row: %w", err)
	}
	return &models.TechnicalIndicator{
		ID:             ulid.Make().String(),
		Ticker:         ticker,
		Date:           row.Date,
		Close:          row.Close,
		RSI:            row.RSI,
		StochK:         row.StochK,
		StochD:         row.StochD,
		MACD:           row.MACD,
		MACDSignal:     row.MACDSignal,
		MACDHist:       row.MACDHist,
		ADX:            row.ADX,
		Trend:          string(row.Trend),
		BBSignal:       string(row.BBSignal),
		Pattern:        row.Pattern,
		Divergence:     string(row.RSIDivergence),
		Recommendation: string(rec.Action),
		Conviction:     rec.Conviction,
		Row:            datatypes.JSON(payload),
		CalculatedAt:   time.Now(),
	}, nil
}
