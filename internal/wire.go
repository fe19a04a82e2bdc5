//go:build wireinject
// +build wireinject

package internal

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/TRouxel/TradingDashboard/internal/config"
	"github.com/TRouxel/TradingDashboard/internal/service"
)

var (
	analysisSet = wire.NewSet(
		service.NewDivergenceService,
		service.NewIndicatorService,
		service.NewDecisionService,
		service.NewAnalysisService,
		service.NewBacktestService,
		service.NewStrategyService,
	)

	storageSet = wire.NewSet(
		provideDatabase,
		provideSnapshotService,
	)
)

// InitializeApp 初始化应用
func InitializeApp(logger *zap.Logger, conf *config.Config) (*AppComponents, error) {
	wire.Build(
		analysisSet,
		storageSet,
		wire.Struct(new(AppComponents), "*"),
	)
	return nil, nil
}
