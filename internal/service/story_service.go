package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/repository"
	"context"
	log "log/slog"
)

const defaultLanguage = "zh"

type StoryService interface {
	CreateStory(ctx context.Context, authorID uint64, storyDTO *dto.StoryBaseDTO) (*dto.StoryDTO, error)
	UpdateStory(ctx context.Context, authorID uint64, storyID uint64, storyDTO *dto.StoryBaseDTO) (*dto.StoryDTO, error)
	MarkComplete(ctx context.Context, authorID uint64, storyID uint64) error
	GetStory(ctx context.Context, viewer *Viewer, storyID uint64) (*dto.StoryDTO, error)
	ListMyStories(ctx context.Context, authorID uint64, page, pageSize int) (*dto.StoryListDTO, error)
}

type storyServiceImpl struct {
	store  repository.Store
	events EventPublisher
	clock  Clock
}

func NewStoryService(store repository.Store, events EventPublisher, clock Clock) StoryService {
	return &storyServiceImpl{
		store:  store,
		events: events,
		clock:  clock,
	}
}

// CreateStory 新作品以草稿状态创建
func (s *storyServiceImpl) CreateStory(ctx context.Context, authorID uint64, storyDTO *dto.StoryBaseDTO) (*dto.StoryDTO, error) {
	now := s.clock.Now()
	story := &model.Story{
		AuthorID:  authorID,
		Title:     storyDTO.Title,
		Synopsis:  storyDTO.Synopsis,
		Language:  storyDTO.Language,
		CoverURL:  storyDTO.CoverURL,
		Status:    model.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if story.Language == "" {
		story.Language = defaultLanguage
	}
	if err := s.store.Stories().CreateStory(ctx, story); err != nil {
		return nil, err
	}
	return ToStoryDTO(story), nil
}

// UpdateStory 仅草稿可编辑，审核中和已发布的作品不能改
func (s *storyServiceImpl) UpdateStory(ctx context.Context, authorID uint64, storyID uint64, storyDTO *dto.StoryBaseDTO) (*dto.StoryDTO, error) {
	var updated *model.Story
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		story, err := tx.Stories().LockStory(ctx, storyID)
		if err != nil {
			return err
		}
		if story == nil {
			return ErrStoryNotFound
		}
		if story.AuthorID != authorID {
			return UnauthorizedError
		}
		if !storyPolicy.editable(story.Status) {
			return ErrInvalidTransition
		}

		story.Title = storyDTO.Title
		story.Synopsis = storyDTO.Synopsis
		story.CoverURL = storyDTO.CoverURL
		if storyDTO.Language != "" {
			story.Language = storyDTO.Language
		}
		if err := tx.Stories().UpdateStoryContent(ctx, story); err != nil {
			return err
		}
		updated, err = tx.Stories().GetStory(ctx, storyID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToStoryDTO(updated), nil
}

// MarkComplete 完结后作者才能提交新作品
func (s *storyServiceImpl) MarkComplete(ctx context.Context, authorID uint64, storyID uint64) error {
	story, err := s.store.Stories().GetStory(ctx, storyID)
	if err != nil {
		return err
	}
	if story == nil {
		return ErrStoryNotFound
	}
	if story.AuthorID != authorID {
		return UnauthorizedError
	}

	ok, err := s.store.Stories().MarkCompleted(ctx, storyID, s.clock.Now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrStoryNotCompletable
	}

	if err := s.events.PublishLifecycle(ctx, model.KindStory, storyID, authorID, "completed", ""); err != nil {
		log.WarnContext(ctx, "投递完结事件失败", "story_id", storyID, "err", err)
	}
	return nil
}

// GetStory 读者只能看到已发布的作品
func (s *storyServiceImpl) GetStory(ctx context.Context, viewer *Viewer, storyID uint64) (*dto.StoryDTO, error) {
	story, err := s.store.Stories().GetStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story == nil || !canView(viewer, story) {
		return nil, ErrStoryNotFound
	}
	return ToStoryDTO(story), nil
}

func (s *storyServiceImpl) ListMyStories(ctx context.Context, authorID uint64, page, pageSize int) (*dto.StoryListDTO, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > consts.MaxPageSize {
		pageSize = consts.DefaultPageSize
	}
	stories, err := s.store.Stories().ListByAuthor(ctx, authorID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	out := &dto.StoryListDTO{Stories: make([]*dto.StoryDTO, 0, len(stories))}
	for _, story := range stories {
		out.Stories = append(out.Stories, ToStoryDTO(story))
	}
	out.Total = len(out.Stories)
	return out, nil
}

// canView 已发布内容对所有人可见，其余状态仅作者本人与审核员可见
func canView(viewer *Viewer, item model.ContentItem) bool {
	if item.GetStatus() == model.StatusPublished {
		return true
	}
	if viewer == nil {
		return false
	}
	return viewer.Moderator || viewer.UserID == item.GetAuthorID()
}
