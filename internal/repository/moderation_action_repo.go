package repository

import (
	"Inkwell/internal/model"
	"context"

	"gorm.io/gorm"
)

type ModerationActionRepo interface {
	CreateAction(ctx context.Context, action *model.ModerationAction) error
	ListByTarget(ctx context.Context, kind model.TargetKind, targetID uint64) ([]*model.ModerationAction, error)
}

type moderationActionRepoImpl struct {
	db *gorm.DB
}

func NewModerationActionRepo(db *gorm.DB) ModerationActionRepo {
	return &moderationActionRepoImpl{db: db}
}

func (s *moderationActionRepoImpl) CreateAction(ctx context.Context, action *model.ModerationAction) error {
	return s.db.WithContext(ctx).Create(action).Error
}

func (s *moderationActionRepoImpl) ListByTarget(ctx context.Context, kind model.TargetKind, targetID uint64) ([]*model.ModerationAction, error) {
	actions := make([]*model.ModerationAction, 0)
	err := s.db.WithContext(ctx).
		Where("target_kind = ? AND target_id = ?", kind, targetID).
		Order("id ASC").
		Find(&actions).Error
	if err != nil {
		return nil, err
	}
	return actions, nil
}
