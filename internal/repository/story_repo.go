package repository

import (
	"Inkwell/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StoryRepo interface {
	CreateStory(ctx context.Context, story *model.Story) error
	GetStory(ctx context.Context, id uint64) (*model.Story, error)
	LockStory(ctx context.Context, id uint64) (*model.Story, error)
	UpdateStoryContent(ctx context.Context, story *model.Story) error
	TransitStatus(ctx context.Context, id uint64, from []model.ContentStatus, to model.ContentStatus, at time.Time) (bool, error)
	CountByAuthorStatus(ctx context.Context, authorID uint64, status model.ContentStatus, excludeID uint64) (int64, error)
	CountActivePublished(ctx context.Context, authorID uint64, excludeID uint64) (int64, error)
	MarkCompleted(ctx context.Context, id uint64, at time.Time) (bool, error)
	ListByAuthor(ctx context.Context, authorID uint64, offset, limit int) ([]*model.Story, error)
}

type storyRepoImpl struct {
	db *gorm.DB
}

func NewStoryRepo(db *gorm.DB) StoryRepo {
	return &storyRepoImpl{db: db}
}

func (s *storyRepoImpl) CreateStory(ctx context.Context, story *model.Story) error {
	return s.db.WithContext(ctx).Create(story).Error
}

func (s *storyRepoImpl) GetStory(ctx context.Context, id uint64) (*model.Story, error) {
	var story model.Story
	err := s.db.WithContext(ctx).First(&story, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &story, nil
}

// LockStory SELECT ... FOR UPDATE，章节的提交与编号都在作品行锁下串行执行
func (s *storyRepoImpl) LockStory(ctx context.Context, id uint64) (*model.Story, error) {
	var story model.Story
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&story, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &story, nil
}

func (s *storyRepoImpl) UpdateStoryContent(ctx context.Context, story *model.Story) error {
	return s.db.WithContext(ctx).Model(&model.Story{}).
		Where("id = ?", story.ID).
		Updates(map[string]interface{}{
			"title":      story.Title,
			"synopsis":   story.Synopsis,
			"language":   story.Language,
			"cover_url":  story.CoverURL,
			"updated_at": time.Now(),
		}).Error
}

// TransitStatus 以当前状态为条件更新 (CAS)，返回是否命中
func (s *storyRepoImpl) TransitStatus(ctx context.Context, id uint64, from []model.ContentStatus, to model.ContentStatus, at time.Time) (bool, error) {
	result := s.db.WithContext(ctx).Model(&model.Story{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(transitColumns(to, at))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *storyRepoImpl) CountByAuthorStatus(ctx context.Context, authorID uint64, status model.ContentStatus, excludeID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Story{}).
		Where("author_id = ? AND status = ? AND id <> ?", authorID, status, excludeID).
		Count(&count).Error
	return count, err
}

func (s *storyRepoImpl) CountActivePublished(ctx context.Context, authorID uint64, excludeID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Story{}).
		Where("author_id = ? AND status = ? AND is_completed = ? AND id <> ?", authorID, model.StatusPublished, false, excludeID).
		Count(&count).Error
	return count, err
}

func (s *storyRepoImpl) MarkCompleted(ctx context.Context, id uint64, at time.Time) (bool, error) {
	result := s.db.WithContext(ctx).Model(&model.Story{}).
		Where("id = ? AND status = ? AND is_completed = ?", id, model.StatusPublished, false).
		Updates(map[string]interface{}{
			"is_completed": true,
			"completed_at": at,
			"updated_at":   at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *storyRepoImpl) ListByAuthor(ctx context.Context, authorID uint64, offset, limit int) ([]*model.Story, error) {
	stories := make([]*model.Story, 0)
	err := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&stories).Error
	if err != nil {
		return nil, err
	}
	return stories, nil
}

// transitColumns 状态变更时需要同步的时间字段
func transitColumns(to model.ContentStatus, at time.Time) map[string]interface{} {
	cols := map[string]interface{}{
		"status":     to,
		"updated_at": at,
	}
	switch to {
	case model.StatusPending:
		cols["submitted_at"] = at
	case model.StatusPublished:
		cols["published_at"] = at
	}
	return cols
}
