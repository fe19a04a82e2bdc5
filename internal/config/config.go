package config

type Config struct {
	Log      LogConf      `json:"log"`
	Database DatabaseConf `json:"database"`
	Backtest BacktestConf `json:"backtest"`
	Strategy StrategyConf `json:"strategy"`
	Analysis Analysis     `json:"analysis"`
}

type LogConf struct {
	Level       string `json:"level"`       // debug/info/warn/error
	Development bool   `json:"development"` // 开发模式输出
}

type DatabaseConf struct {
	Enabled bool   `json:"enabled"` // 是否保存每日指标快照
	Path    string `json:"path"`    // sqlite 文件路径
}

type BacktestConf struct {
	Horizons []int `json:"horizons"` // 前瞻收益的交易日数，默认 1,2,5,10,20
}

type StrategyConf struct {
	HoldingPeriods []int   `json:"holding_periods"` // 持有/等待的自然日数
	SpreadPct      float64 `json:"spread_pct"`      // 往返点差百分比
}

// DefaultHorizons 默认回测持有期
var DefaultHorizons = []int{1, 2, 5, 10, 20}

// Default 返回默认配置
func Default() Config {
	return Config{
		Log: LogConf{Level: "info"},
		Database: DatabaseConf{
			Enabled: false,
			Path:    "dashboard.db",
		},
		Backtest: BacktestConf{
			Horizons: append([]int(nil), DefaultHorizons...),
		},
		Strategy: StrategyConf{
			HoldingPeriods: append([]int(nil), DefaultHorizons...),
			SpreadPct:      0.2,
		},
		Analysis: DefaultAnalysis(),
	}
}
