package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/repository"
	"context"

	"github.com/jinzhu/copier"
)

type ModeratorStatsService interface {
	IncrementDecision(ctx context.Context, tx repository.Store, moderatorID uint64, kind model.TargetKind, approved bool) error
	IncrementReportHandled(ctx context.Context, tx repository.Store, moderatorID uint64) error
	GetStats(ctx context.Context, moderatorID uint64) (*dto.ModeratorStatsDTO, error)
}

type moderatorStatsServiceImpl struct {
	store repository.Store
}

func NewModeratorStatsService(store repository.Store) ModeratorStatsService {
	return &moderatorStatsServiceImpl{store: store}
}

// IncrementDecision 与审核结论处于同一事务
func (s *moderatorStatsServiceImpl) IncrementDecision(ctx context.Context, tx repository.Store, moderatorID uint64, kind model.TargetKind, approved bool) error {
	return tx.ModeratorStats().Increment(ctx, moderatorID, model.DecisionColumn(kind, approved))
}

func (s *moderatorStatsServiceImpl) IncrementReportHandled(ctx context.Context, tx repository.Store, moderatorID uint64) error {
	return tx.ModeratorStats().Increment(ctx, moderatorID, "total_reported_handled")
}

// GetStats 没有记录时返回全零
func (s *moderatorStatsServiceImpl) GetStats(ctx context.Context, moderatorID uint64) (*dto.ModeratorStatsDTO, error) {
	stats, err := s.store.ModeratorStats().GetStats(ctx, moderatorID)
	if err != nil {
		return nil, err
	}
	out := &dto.ModeratorStatsDTO{ModeratorID: moderatorID}
	if stats != nil {
		_ = copier.Copy(out, stats)
	}
	return out, nil
}
