package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/repository"
	"context"
	"fmt"
	log "log/slog"

	"github.com/google/uuid"
)

type ChapterService interface {
	CreateChapter(ctx context.Context, authorID uint64, storyID uint64, chapterDTO *dto.ChapterBaseDTO) (*dto.ChapterDTO, error)
	UpdateChapter(ctx context.Context, authorID uint64, chapterID uint64, chapterDTO *dto.ChapterBaseDTO) (*dto.ChapterDTO, error)
	GetChapter(ctx context.Context, viewer *Viewer, chapterID uint64) (*dto.ChapterDTO, error)
	ListChapters(ctx context.Context, viewer *Viewer, storyID uint64) ([]*dto.ChapterDTO, error)
}

type chapterServiceImpl struct {
	store    repository.Store
	contents ContentStore
	clock    Clock
}

func NewChapterService(store repository.Store, contents ContentStore, clock Clock) ChapterService {
	return &chapterServiceImpl{
		store:    store,
		contents: contents,
		clock:    clock,
	}
}

func contentKey(storyID uint64) string {
	return fmt.Sprintf("%s%d/%s.txt", consts.ChapterContentPrefix, storyID, uuid.NewString())
}

// CreateChapter 先写正文再落库，章节号在作品行锁下取 max+1
func (s *chapterServiceImpl) CreateChapter(ctx context.Context, authorID uint64, storyID uint64, chapterDTO *dto.ChapterBaseDTO) (*dto.ChapterDTO, error) {
	story, err := s.store.Stories().GetStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story == nil {
		return nil, ErrStoryNotFound
	}
	if story.AuthorID != authorID {
		return nil, UnauthorizedError
	}
	if story.Status == model.StatusRemoved {
		return nil, ErrInvalidTransition
	}

	key := contentKey(storyID)
	if err := s.contents.PutContent(ctx, key, chapterDTO.Content); err != nil {
		return nil, err
	}

	var chapter *model.Chapter
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		locked, err := tx.Stories().LockStory(ctx, storyID)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrStoryNotFound
		}
		if locked.Status == model.StatusRemoved {
			return ErrInvalidTransition
		}

		maxNo, err := tx.Chapters().MaxChapterNo(ctx, storyID)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		chapter = &model.Chapter{
			StoryID:    storyID,
			AuthorID:   authorID,
			ChapterNo:  maxNo + 1,
			Title:      chapterDTO.Title,
			ContentKey: key,
			WordCount:  util.WordCount(chapterDTO.Content),
			IsPaid:     chapterDTO.IsPaid,
			Price:      chapterPrice(chapterDTO),
			Status:     model.StatusDraft,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return tx.Chapters().CreateChapter(ctx, chapter)
	})
	if err != nil {
		s.dropContent(ctx, key)
		return nil, err
	}
	return ToChapterDTO(chapter), nil
}

// UpdateChapter 草稿与被拒章节可修改，正文换新 key 写入
func (s *chapterServiceImpl) UpdateChapter(ctx context.Context, authorID uint64, chapterID uint64, chapterDTO *dto.ChapterBaseDTO) (*dto.ChapterDTO, error) {
	current, err := s.store.Chapters().GetChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrChapterNotFound
	}
	if current.AuthorID != authorID {
		return nil, UnauthorizedError
	}
	if !chapterPolicy.editable(current.Status) {
		return nil, ErrInvalidTransition
	}

	key := contentKey(current.StoryID)
	if err := s.contents.PutContent(ctx, key, chapterDTO.Content); err != nil {
		return nil, err
	}

	var (
		updated *model.Chapter
		oldKey  string
	)
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Stories().LockStory(ctx, current.StoryID); err != nil {
			return err
		}
		chapter, err := tx.Chapters().GetChapter(ctx, chapterID)
		if err != nil {
			return err
		}
		if chapter == nil {
			return ErrChapterNotFound
		}
		if !chapterPolicy.editable(chapter.Status) {
			return ErrInvalidTransition
		}

		oldKey = chapter.ContentKey
		chapter.Title = chapterDTO.Title
		chapter.ContentKey = key
		chapter.WordCount = util.WordCount(chapterDTO.Content)
		chapter.IsPaid = chapterDTO.IsPaid
		chapter.Price = chapterPrice(chapterDTO)
		if err := tx.Chapters().UpdateChapterContent(ctx, chapter); err != nil {
			return err
		}
		updated, err = tx.Chapters().GetChapter(ctx, chapterID)
		return err
	})
	if err != nil {
		s.dropContent(ctx, key)
		return nil, err
	}
	s.dropContent(ctx, oldKey)
	return ToChapterDTO(updated), nil
}

// GetChapter 返回章节及正文
func (s *chapterServiceImpl) GetChapter(ctx context.Context, viewer *Viewer, chapterID uint64) (*dto.ChapterDTO, error) {
	chapter, err := s.store.Chapters().GetChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if chapter == nil || !canView(viewer, chapter) {
		return nil, ErrChapterNotFound
	}
	body, err := s.contents.GetContent(ctx, chapter.ContentKey)
	if err != nil {
		return nil, err
	}
	d := ToChapterDTO(chapter)
	d.Content = body
	return d, nil
}

// ListChapters 读者只能看到已发布章节
func (s *chapterServiceImpl) ListChapters(ctx context.Context, viewer *Viewer, storyID uint64) ([]*dto.ChapterDTO, error) {
	story, err := s.store.Stories().GetStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story == nil || !canView(viewer, story) {
		return nil, ErrStoryNotFound
	}

	var statuses []model.ContentStatus
	if viewer == nil || (!viewer.Moderator && viewer.UserID != story.AuthorID) {
		statuses = []model.ContentStatus{model.StatusPublished}
	}
	chapters, err := s.store.Chapters().ListByStory(ctx, storyID, statuses)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ChapterDTO, 0, len(chapters))
	for _, chapter := range chapters {
		out = append(out, ToChapterDTO(chapter))
	}
	return out, nil
}

func (s *chapterServiceImpl) dropContent(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.contents.DeleteContent(ctx, key); err != nil {
		log.WarnContext(ctx, "清理章节正文失败", "key", key, "err", err)
	}
}

func chapterPrice(chapterDTO *dto.ChapterBaseDTO) int {
	if !chapterDTO.IsPaid {
		return 0
	}
	return chapterDTO.Price
}
