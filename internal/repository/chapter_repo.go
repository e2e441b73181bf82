package repository

import (
	"Inkwell/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ChapterRepo interface {
	CreateChapter(ctx context.Context, chapter *model.Chapter) error
	GetChapter(ctx context.Context, id uint64) (*model.Chapter, error)
	UpdateChapterContent(ctx context.Context, chapter *model.Chapter) error
	TransitStatus(ctx context.Context, id uint64, from []model.ContentStatus, to model.ContentStatus, at time.Time) (bool, error)
	CountByStoryStatus(ctx context.Context, storyID uint64, status model.ContentStatus, excludeID uint64) (int64, error)
	MaxChapterNo(ctx context.Context, storyID uint64) (int, error)
	ListByStory(ctx context.Context, storyID uint64, statuses []model.ContentStatus) ([]*model.Chapter, error)
}

type chapterRepoImpl struct {
	db *gorm.DB
}

func NewChapterRepo(db *gorm.DB) ChapterRepo {
	return &chapterRepoImpl{db: db}
}

func (s *chapterRepoImpl) CreateChapter(ctx context.Context, chapter *model.Chapter) error {
	return s.db.WithContext(ctx).Create(chapter).Error
}

func (s *chapterRepoImpl) GetChapter(ctx context.Context, id uint64) (*model.Chapter, error) {
	var chapter model.Chapter
	err := s.db.WithContext(ctx).First(&chapter, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &chapter, nil
}

func (s *chapterRepoImpl) UpdateChapterContent(ctx context.Context, chapter *model.Chapter) error {
	return s.db.WithContext(ctx).Model(&model.Chapter{}).
		Where("id = ?", chapter.ID).
		Updates(map[string]interface{}{
			"title":       chapter.Title,
			"content_key": chapter.ContentKey,
			"word_count":  chapter.WordCount,
			"is_paid":     chapter.IsPaid,
			"price":       chapter.Price,
			"updated_at":  time.Now(),
		}).Error
}

func (s *chapterRepoImpl) TransitStatus(ctx context.Context, id uint64, from []model.ContentStatus, to model.ContentStatus, at time.Time) (bool, error) {
	result := s.db.WithContext(ctx).Model(&model.Chapter{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(transitColumns(to, at))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *chapterRepoImpl) CountByStoryStatus(ctx context.Context, storyID uint64, status model.ContentStatus, excludeID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Chapter{}).
		Where("story_id = ? AND status = ? AND id <> ?", storyID, status, excludeID).
		Count(&count).Error
	return count, err
}

// MaxChapterNo 包含已下架章节，保证编号永不复用
func (s *chapterRepoImpl) MaxChapterNo(ctx context.Context, storyID uint64) (int, error) {
	var maxNo *int
	err := s.db.WithContext(ctx).Model(&model.Chapter{}).
		Where("story_id = ?", storyID).
		Select("MAX(chapter_no)").
		Scan(&maxNo).Error
	if err != nil {
		return 0, err
	}
	if maxNo == nil {
		return 0, nil
	}
	return *maxNo, nil
}

func (s *chapterRepoImpl) ListByStory(ctx context.Context, storyID uint64, statuses []model.ContentStatus) ([]*model.Chapter, error) {
	chapters := make([]*model.Chapter, 0)
	q := s.db.WithContext(ctx).Where("story_id = ?", storyID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Order("chapter_no ASC").Find(&chapters).Error; err != nil {
		return nil, err
	}
	return chapters, nil
}
