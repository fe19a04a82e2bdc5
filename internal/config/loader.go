package config

import (
	"fmt"

	"github.com/TRouxel/TradingDashboard/internal/xe"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Load 读取 yaml 配置并覆盖默认值，path 为空时返回默认配置
func Load(path string) (*Config, error) {
	conf := Default()
	if path == "" {
		return &conf, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	err := v.Unmarshal(&conf, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "json"
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := conf.Analysis.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateHorizons("backtest.horizons", conf.Backtest.Horizons); err != nil {
		return nil, err
	}
	if err := ValidateHorizons("strategy.holding_periods", conf.Strategy.HoldingPeriods); err != nil {
		return nil, err
	}
	if conf.Strategy.SpreadPct < 0 {
		return nil, fmt.Errorf("%w: strategy.spread_pct must be >= 0, got %v", xe.ErrInvalidConfiguration, conf.Strategy.SpreadPct)
	}
	return &conf, nil
}
