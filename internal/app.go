package internal

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/TRouxel/TradingDashboard/internal/config"
	"github.com/TRouxel/TradingDashboard/internal/feed"
	"github.com/TRouxel/TradingDashboard/internal/models"
	"github.com/TRouxel/TradingDashboard/internal/service"
	"github.com/TRouxel/TradingDashboard/pkg/nostd"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Options 命令行传入的参数
type Options struct {
	ConfigPath string
	PricesPath string
	DBPath     string
	Ticker     string
	JSON       bool
	Out        io.Writer
}

type AppComponents struct {
	IndicatorService *service.IndicatorService
	DecisionService  *service.DecisionService
	AnalysisService  *service.AnalysisService
	BacktestService  *service.BacktestService
	StrategyService  *service.StrategyService

	// 未启用数据库时为 nil
	SnapshotService *service.SnapshotService
}

type DashboardApp struct {
	logger     *zap.Logger
	conf       *config.Config
	opts       Options
	components *AppComponents
}

// NewDashboardApp 加载配置、创建 logger 并初始化组件
func NewDashboardApp(opts Options) (*DashboardApp, error) {
	conf, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.DBPath != "" {
		conf.Database.Enabled = true
		conf.Database.Path = opts.DBPath
	}

	logger, err := NewLogger(conf.Log)
	if err != nil {
		return nil, err
	}

	components, err := InitializeApp(logger, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize app: %w", err)
	}

	if opts.Ticker == "" {
		opts.Ticker = tickerFromPath(opts.PricesPath)
	}
	return &DashboardApp{
		logger:     logger,
		conf:       conf,
		opts:       opts,
		components: components,
	}, nil
}

// GetComponents 获取应用组件
func (r *DashboardApp) GetComponents() *AppComponents {
	return r.components
}

func (r *DashboardApp) Close() {
	_ = r.logger.Sync()
}

// provideDatabase 打开 sqlite 并迁移快照表，未启用时返回 nil
func provideDatabase(conf *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	if !conf.Database.Enabled {
		return nil, nil
	}
	db, err := gorm.Open(sqlite.Open(conf.Database.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", conf.Database.Path, err)
	}
	if err := db.AutoMigrate(models.TechnicalIndicator{}); err != nil {
		return nil, fmt.Errorf("database auto migrate failed: %w", err)
	}
	logger.Info("snapshot database ready", zap.String("path", conf.Database.Path))
	return db, nil
}

func provideSnapshotService(db *gorm.DB, logger *zap.Logger) *service.SnapshotService {
	if db == nil {
		return nil
	}
	return service.NewSnapshotService(db, logger)
}

func (r *DashboardApp) loadBars() ([]models.PriceBar, error) {
	if r.opts.PricesPath == "" {
		return nil, fmt.Errorf("price file is required")
	}
	bars, err := feed.LoadFile(r.opts.PricesPath)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("price series loaded",
		zap.String("path", r.opts.PricesPath),
		zap.Int("bars", len(bars)),
		zap.Time("from", bars[0].Date),
		zap.Time("to", bars[len(bars)-1].Date))
	return bars, nil
}

func (r *DashboardApp) buildRows() ([]models.IndicatorRow, error) {
	bars, err := r.loadBars()
	if err != nil {
		return nil, err
	}
	return r.components.IndicatorService.BuildIndicators(bars, &r.conf.Analysis)
}

// Analyze 分析最新交易日，启用数据库时保存快照
func (r *DashboardApp) Analyze(ctx context.Context) error {
	bars, err := r.loadBars()
	if err != nil {
		return err
	}
	report, err := r.components.AnalysisService.Analyze(r.opts.Ticker, bars, &r.conf.Analysis)
	if err != nil {
		return err
	}

	if ss := r.components.SnapshotService; ss != nil {
		if err := ss.Save(ctx, report.Snapshot); err != nil {
			return err
		}
	}

	if r.opts.JSON {
		return writeJSON(r.opts.Out, report)
	}
	latest := report.Latest
	return render(r.opts.Out, analysisTemplate, map[string]interface{}{
		"ticker":     report.Ticker,
		"date":       latest.Date.Format("2006-01-02"),
		"close":      formatFloat(latest.Close),
		"rsi":        formatOptional(latest.RSI),
		"trend":      string(latest.Trend),
		"bb":         string(latest.BBSignal),
		"pattern":    nostd.Deref(nonEmpty(latest.Pattern), "-"),
		"divergence": string(latest.RSIDivergence),
		"buy":        formatFloat(report.Scores.Buy),
		"sell":       formatFloat(report.Scores.Sell),
		"action":     string(report.Recommendation.Action),
		"conviction": strconv.Itoa(report.Recommendation.Conviction),
		"max":        strconv.Itoa(r.conf.Analysis.Decision.MaxConviction),
	})
}

// Backtest 输出每个单指标的统计
func (r *DashboardApp) Backtest(ctx context.Context) error {
	rows, err := r.buildRows()
	if err != nil {
		return err
	}
	horizons := r.conf.Backtest.Horizons
	result, err := r.components.BacktestService.Run(rows, &r.conf.Analysis, horizons)
	if err != nil {
		return err
	}

	summaries := make([]service.SeriesSummary, 0, len(result.Individual))
	for _, name := range result.IndividualNames() {
		records, err := result.Series(name)
		if err != nil {
			return err
		}
		summaries = append(summaries, service.SummarizeSeries(name, records, horizons))
	}

	if r.opts.JSON {
		return writeJSON(r.opts.Out, summaries)
	}
	for _, s := range summaries {
		err := render(r.opts.Out, summaryTemplate, map[string]interface{}{
			"name":     s.Name,
			"signals":  strconv.Itoa(s.TotalSignals),
			"horizons": formatHorizons(s.Horizons),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Rank 按平均准确率输出组合信号排名
func (r *DashboardApp) Rank(ctx context.Context) error {
	rows, err := r.buildRows()
	if err != nil {
		return err
	}
	horizons := r.conf.Backtest.Horizons
	result, err := r.components.BacktestService.Run(rows, &r.conf.Analysis, horizons)
	if err != nil {
		return err
	}
	ranked := service.RankCombinations(result, horizons)

	if r.opts.JSON {
		return writeJSON(r.opts.Out, ranked)
	}
	for i, c := range ranked {
		err := render(r.opts.Out, rankingTemplate, map[string]interface{}{
			"rank":     strconv.Itoa(i + 1),
			"name":     c.Name,
			"side":     string(c.Side),
			"accuracy": formatOptional(c.Accuracy),
			"signals":  strconv.Itoa(c.TotalSignals),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Simulate 运行策略模拟，按持有期升序输出
func (r *DashboardApp) Simulate(ctx context.Context, policyName string) error {
	policy, err := service.ParsePolicy(policyName)
	if err != nil {
		return err
	}
	rows, err := r.buildRows()
	if err != nil {
		return err
	}
	sc := r.conf.Strategy
	results, err := r.components.StrategyService.Simulate(policy, rows, sc.HoldingPeriods, sc.SpreadPct)
	if err != nil {
		return err
	}

	periods := make([]int, 0, len(results))
	for n := range results {
		periods = append(periods, n)
	}
	slices.Sort(periods)

	if r.opts.JSON {
		ordered := make([]*service.StrategyResult, 0, len(periods))
		for _, n := range periods {
			ordered = append(ordered, results[n])
		}
		return writeJSON(r.opts.Out, ordered)
	}
	for _, n := range periods {
		res := results[n]
		err := render(r.opts.Out, strategyTemplate, map[string]interface{}{
			"policy": string(policy),
			"period": strconv.Itoa(n),
			"total":  formatFloat(res.Stats.TotalReturn),
			"bh":     formatFloat(res.Stats.BuyHoldReturn),
			"out":    formatFloat(res.Stats.Outperformance),
			"trades": strconv.Itoa(res.Stats.TradeCount),
			"extra":  strategyExtra(res.Stats),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func strategyExtra(stats service.StrategyStats) string {
	var parts []string
	if stats.Sells != nil {
		parts = append(parts, "sells="+strconv.Itoa(*stats.Sells))
	}
	if stats.Rebuys != nil {
		parts = append(parts, "rebuys="+strconv.Itoa(*stats.Rebuys))
	}
	if stats.WinRate != nil {
		parts = append(parts, "win_rate="+formatFloat(*stats.WinRate)+"%")
	}
	if stats.AvgWin != nil {
		parts = append(parts, "avg_win="+formatFloat(*stats.AvgWin)+"%")
	}
	if stats.AvgLoss != nil {
		parts = append(parts, "avg_loss="+formatFloat(*stats.AvgLoss)+"%")
	}
	return strings.Join(parts, " ")
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// tickerFromPath 未指定标的时使用文件名，如 prices/AAPL.csv -> AAPL
func tickerFromPath(path string) string {
	base := filepath.Base(path)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}
