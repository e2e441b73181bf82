package service

import (
	"Inkwell/internal/model"
	"Inkwell/internal/repository"
	"context"
	"time"
)

// kindPolicy 作品与章节共用一套状态机，差异收敛在这里
type kindPolicy struct {
	kind           model.TargetKind
	allowed        []model.ContentStatus
	submittable    []model.ContentStatus
	rejectedStatus model.ContentStatus
	notFound       error
}

// 作品没有 rejected 状态，被拒后退回草稿
var storyPolicy = &kindPolicy{
	kind: model.KindStory,
	allowed: []model.ContentStatus{
		model.StatusDraft, model.StatusPending, model.StatusPublished, model.StatusHidden, model.StatusRemoved,
	},
	submittable:    []model.ContentStatus{model.StatusDraft},
	rejectedStatus: model.StatusDraft,
	notFound:       ErrStoryNotFound,
}

var chapterPolicy = &kindPolicy{
	kind: model.KindChapter,
	allowed: []model.ContentStatus{
		model.StatusDraft, model.StatusPending, model.StatusRejected, model.StatusPublished, model.StatusHidden, model.StatusRemoved,
	},
	submittable:    []model.ContentStatus{model.StatusDraft, model.StatusRejected},
	rejectedStatus: model.StatusRejected,
	notFound:       ErrChapterNotFound,
}

func policyFor(kind model.TargetKind) (*kindPolicy, error) {
	switch kind {
	case model.KindStory:
		return storyPolicy, nil
	case model.KindChapter:
		return chapterPolicy, nil
	}
	return nil, ErrParamInvalid
}

func containsStatus(list []model.ContentStatus, status model.ContentStatus) bool {
	for _, s := range list {
		if s == status {
			return true
		}
	}
	return false
}

func (p *kindPolicy) canSubmit(status model.ContentStatus) bool {
	return containsStatus(p.submittable, status)
}

// editable 草稿和被拒内容可以修改
func (p *kindPolicy) editable(status model.ContentStatus) bool {
	return p.canSubmit(status)
}

func (p *kindPolicy) load(ctx context.Context, store repository.Store, id uint64) (model.ContentItem, error) {
	switch p.kind {
	case model.KindStory:
		story, err := store.Stories().GetStory(ctx, id)
		if err != nil {
			return nil, err
		}
		if story == nil {
			return nil, p.notFound
		}
		return story, nil
	default:
		chapter, err := store.Chapters().GetChapter(ctx, id)
		if err != nil {
			return nil, err
		}
		if chapter == nil {
			return nil, p.notFound
		}
		return chapter, nil
	}
}

// lockForSubmit 作品按作者加锁，章节按所属作品加锁，锁内重新读取
func (p *kindPolicy) lockForSubmit(ctx context.Context, tx repository.Store, authorID uint64, id uint64) (model.ContentItem, error) {
	if p.kind == model.KindStory {
		if _, err := tx.Authors().LockAuthor(ctx, authorID); err != nil {
			return nil, err
		}
		return p.load(ctx, tx, id)
	}

	item, err := p.load(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	story, err := tx.Stories().LockStory(ctx, item.(*model.Chapter).StoryID)
	if err != nil {
		return nil, err
	}
	if story == nil {
		return nil, ErrStoryNotFound
	}
	return p.load(ctx, tx, id)
}

// transit 条件更新，from 不匹配时返回 false
func (p *kindPolicy) transit(ctx context.Context, tx repository.Store, id uint64, from []model.ContentStatus, to model.ContentStatus, at time.Time) (bool, error) {
	if !containsStatus(p.allowed, to) {
		return false, ErrInvalidTransition
	}
	if p.kind == model.KindStory {
		return tx.Stories().TransitStatus(ctx, id, from, to, at)
	}
	return tx.Chapters().TransitStatus(ctx, id, from, to, at)
}

func (p *kindPolicy) cooldown(storyCooldown, chapterCooldown time.Duration) time.Duration {
	if p.kind == model.KindStory {
		return storyCooldown
	}
	return chapterCooldown
}
