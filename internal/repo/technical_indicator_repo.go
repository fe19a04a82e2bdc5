package repo

import (
	"context"
	"time"

	"github.com/TRouxel/TradingDashboard/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewTechnicalIndicatorRepo(db *gorm.DB) *TechnicalIndicatorRepo {
	return &TechnicalIndicatorRepo{
		Repository: orz.NewRepository[models.TechnicalIndicator, string](db),
	}
}

type TechnicalIndicatorRepo struct {
	orz.Repository[models.TechnicalIndicator, string]
}

// FindLatestByTicker 获取标的最新一天的指标快照
func (r TechnicalIndicatorRepo) FindLatestByTicker(ctx context.Context, ticker string) (m models.TechnicalIndicator, err error) {
	db := r.GetDB(ctx)
	err = db.Table(r.GetTableName()).
		Where("ticker = ?", ticker).
		Order("date DESC").
		First(&m).Error
	return m, err
}

// DeleteByTickerAndDate 删除同一交易日的旧快照，重复分析时先删后写
func (r TechnicalIndicatorRepo) DeleteByTickerAndDate(ctx context.Context, ticker string, date time.Time) error {
	db := r.GetDB(ctx)
	return db.Where("ticker = ? AND date = ?", ticker, date).
		Delete(&models.TechnicalIndicator{}).Error
}
