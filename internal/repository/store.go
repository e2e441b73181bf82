package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store 聚合审核引擎需要的所有仓储，Transaction 内返回绑定同一事务的 Store
type Store interface {
	Stories() StoryRepo
	Chapters() ChapterRepo
	Reviews() ReviewRepo
	Authors() AuthorRepo
	ModeratorStats() ModeratorStatsRepo
	Actions() ModerationActionRepo
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type storeImpl struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &storeImpl{db: db}
}

func (s *storeImpl) Stories() StoryRepo {
	return NewStoryRepo(s.db)
}

func (s *storeImpl) Chapters() ChapterRepo {
	return NewChapterRepo(s.db)
}

func (s *storeImpl) Reviews() ReviewRepo {
	return NewReviewRepo(s.db)
}

func (s *storeImpl) Authors() AuthorRepo {
	return NewAuthorRepo(s.db)
}

func (s *storeImpl) ModeratorStats() ModeratorStatsRepo {
	return NewModeratorStatsRepo(s.db)
}

func (s *storeImpl) Actions() ModerationActionRepo {
	return NewModerationActionRepo(s.db)
}

// Transaction 在同一个数据库事务中执行 fn，fn 返回错误或 ctx 被取消时整体回滚
func (s *storeImpl) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fn(&storeImpl{db: tx}); err != nil {
			return err
		}
		return ctx.Err()
	})
}
