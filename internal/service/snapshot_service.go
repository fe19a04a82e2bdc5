package service

import (
	"context"
	"fmt"

	"github.com/TRouxel/TradingDashboard/internal/models"
	"github.com/TRouxel/TradingDashboard/internal/repo"
	"github.com/go-orz/orz"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SnapshotService 指标快照的持久化
type SnapshotService struct {
	logger *zap.Logger

	*orz.Service
	*repo.TechnicalIndicatorRepo
}

// NewSnapshotService 创建快照服务
func NewSnapshotService(db *gorm.DB, logger *zap.Logger) *SnapshotService {
	return &SnapshotService{
		logger:                 logger,
		Service:                orz.NewService(db),
		TechnicalIndicatorRepo: repo.NewTechnicalIndicatorRepo(db),
	}
}

// Save 保存快照，同一标的同一交易日只保留最新一份
func (s *SnapshotService) Save(ctx context.Context, snapshot *models.TechnicalIndicator) error {
	err := s.Transaction(ctx, func(ctx context.Context) error {
		if err := s.TechnicalIndicatorRepo.DeleteByTickerAndDate(ctx, snapshot.Ticker, snapshot.Date); err != nil {
			return err
		}
		return s.TechnicalIndicatorRepo.Create(ctx, snapshot)
	})
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	s.logger.Info("snapshot saved",
		zap.String("ticker", snapshot.Ticker),
		zap.Time("date", snapshot.Date),
		zap.String("recommendation", snapshot.Recommendation),
		zap.Int("conviction", snapshot.Conviction))
	return nil
}

// Latest 标的最新快照
func (s *SnapshotService) Latest(ctx context.Context, ticker string) (models.TechnicalIndicator, error) {
	return s.TechnicalIndicatorRepo.FindLatestByTicker(ctx, ticker)
}
