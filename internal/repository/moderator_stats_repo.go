package repository

import (
	"Inkwell/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ModeratorStatsRepo interface {
	Increment(ctx context.Context, moderatorID uint64, column string) error
	GetStats(ctx context.Context, moderatorID uint64) (*model.ModeratorStats, error)
}

type moderatorStatsRepoImpl struct {
	db *gorm.DB
}

func NewModeratorStatsRepo(db *gorm.DB) ModeratorStatsRepo {
	return &moderatorStatsRepoImpl{db: db}
}

// Increment 不存在则插入，存在则对应列 +1
func (s *moderatorStatsRepoImpl) Increment(ctx context.Context, moderatorID uint64, column string) error {
	now := time.Now()
	return s.db.WithContext(ctx).Model(&model.ModeratorStats{}).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "moderator_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				column:       gorm.Expr("moderator_stats." + column + " + 1"),
				"updated_at": now,
			}),
		}).
		Create(map[string]interface{}{
			"moderator_id": moderatorID,
			column:         1,
			"updated_at":   now,
		}).Error
}

func (s *moderatorStatsRepoImpl) GetStats(ctx context.Context, moderatorID uint64) (*model.ModeratorStats, error) {
	var stats model.ModeratorStats
	err := s.db.WithContext(ctx).Where("moderator_id = ?", moderatorID).First(&stats).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stats, nil
}
