package service

import (
	"Inkwell/internal/api/config"
	"Inkwell/internal/model"
	"Inkwell/internal/repository"
	"context"
	"time"
)

// 所属作品处于这些状态时章节不能提交
var parentBlocked = []model.ContentStatus{model.StatusDraft, model.StatusRejected, model.StatusRemoved}

// SubmissionGate 提交前置校验，只读不写，需在提交事务内调用
type SubmissionGate struct {
	clock           Clock
	storyCooldown   time.Duration
	chapterCooldown time.Duration
}

func NewSubmissionGate(cfg config.ModerationConfig, clock Clock) *SubmissionGate {
	return &SubmissionGate{
		clock:           clock,
		storyCooldown:   cfg.StoryCooldown(),
		chapterCooldown: cfg.ChapterCooldown(),
	}
}

// Check 返回 nil 表示允许，否则为 *GateDeniedError；按顺序检查，首个不通过即返回
func (g *SubmissionGate) Check(ctx context.Context, store repository.Store, authorID uint64, item model.ContentItem) error {
	switch v := item.(type) {
	case *model.Story:
		return g.checkStory(ctx, store, authorID, v)
	case *model.Chapter:
		return g.checkChapter(ctx, store, authorID, v)
	}
	return ErrParamInvalid
}

func (g *SubmissionGate) checkStory(ctx context.Context, store repository.Store, authorID uint64, story *model.Story) error {
	pending, err := store.Stories().CountByAuthorStatus(ctx, authorID, model.StatusPending, story.ID)
	if err != nil {
		return err
	}
	if pending > 0 {
		return &GateDeniedError{Reason: ReasonPendingLimit}
	}

	active, err := store.Stories().CountActivePublished(ctx, authorID, story.ID)
	if err != nil {
		return err
	}
	if active > 0 {
		return &GateDeniedError{Reason: ReasonActiveStoryLimit}
	}

	last, err := store.Reviews().GetLatestRejected(ctx, model.KindStory, story.ID)
	if err != nil {
		return err
	}
	return g.checkCooldown(last, g.storyCooldown)
}

func (g *SubmissionGate) checkChapter(ctx context.Context, store repository.Store, authorID uint64, chapter *model.Chapter) error {
	parent, err := store.Stories().GetStory(ctx, chapter.StoryID)
	if err != nil {
		return err
	}
	if parent == nil || containsStatus(parentBlocked, parent.Status) {
		return &GateDeniedError{Reason: ReasonParentState}
	}

	pending, err := store.Chapters().CountByStoryStatus(ctx, chapter.StoryID, model.StatusPending, chapter.ID)
	if err != nil {
		return err
	}
	if pending > 0 {
		return &GateDeniedError{Reason: ReasonPendingLimit}
	}

	// 章节冷却按作者最近一次被拒的章节计算
	last, err := store.Reviews().GetLatestRejectedByAuthor(ctx, authorID, model.KindChapter)
	if err != nil {
		return err
	}
	return g.checkCooldown(last, g.chapterCooldown)
}

// checkCooldown 从被拒记录的 created_at 起算
func (g *SubmissionGate) checkCooldown(last *model.ReviewRecord, cooldown time.Duration) error {
	if last == nil || cooldown <= 0 {
		return nil
	}
	retryAfter := last.CreatedAt.Add(cooldown)
	if g.clock.Now().Before(retryAfter) {
		return &GateDeniedError{Reason: ReasonCooldown, RetryAfter: &retryAfter}
	}
	return nil
}
