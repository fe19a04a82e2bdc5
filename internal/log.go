package internal

import (
	"fmt"

	"github.com/TRouxel/TradingDashboard/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger 根据日志配置创建 zap logger，日志输出到 stderr，stdout 留给结果
func NewLogger(conf config.LogConf) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if conf.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.OutputPaths = []string{"stderr"}

	if conf.Level != "" {
		level, err := zapcore.ParseLevel(conf.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", conf.Level, err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	return zc.Build()
}
