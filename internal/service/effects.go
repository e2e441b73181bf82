package service

import (
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/logger"
	"Inkwell/internal/pkg/metrics"
	"context"
	log "log/slog"
	"sync"
	"time"
)

// Effects 状态流转提交后的副作用，失败只记录不回滚
type Effects interface {
	Published(ctx context.Context, item model.ContentItem)
	Rejected(ctx context.Context, item model.ContentItem, note string)
	TakenDown(ctx context.Context, item model.ContentItem, action model.TakedownAction, note string)
}

type AsyncEffects struct {
	indexer  StoryIndexer
	counter  ViewCounter
	events   EventPublisher
	notifier Notifier
	clock    Clock
	wg       sync.WaitGroup
}

func NewEffects(indexer StoryIndexer, counter ViewCounter, events EventPublisher, notifier Notifier, clock Clock) *AsyncEffects {
	return &AsyncEffects{
		indexer:  indexer,
		counter:  counter,
		events:   events,
		notifier: notifier,
		clock:    clock,
	}
}

// Wait 等待已派发的副作用执行完毕，用于优雅退出
func (s *AsyncEffects) Wait() {
	s.wg.Wait()
}

func (s *AsyncEffects) Published(ctx context.Context, item model.ContentItem) {
	s.dispatch(ctx, func(ctx context.Context) {
		publishedAt := s.clock.Now()
		switch v := item.(type) {
		case *model.Story:
			s.run(ctx, "index_story", func() error { return s.indexer.IndexStory(ctx, v) })
			if v.PublishedAt != nil {
				publishedAt = *v.PublishedAt
			}
		case *model.Chapter:
			s.run(ctx, "init_view_counter", func() error {
				return s.counter.InitViewCounter(ctx, model.KindChapter, v.ID)
			})
			if v.PublishedAt != nil {
				publishedAt = *v.PublishedAt
			}
		}
		s.run(ctx, "notify_followers", func() error { return s.notifier.NotifyFollowers(ctx, item, publishedAt) })
		s.run(ctx, "notify_author", func() error { return s.notifier.NotifyAuthor(ctx, EventPublished, item, "") })
		s.lifecycle(ctx, item, EventPublished, "")
	})
}

func (s *AsyncEffects) Rejected(ctx context.Context, item model.ContentItem, note string) {
	s.dispatch(ctx, func(ctx context.Context) {
		s.run(ctx, "notify_author", func() error { return s.notifier.NotifyAuthor(ctx, EventRejected, item, note) })
		s.lifecycle(ctx, item, EventRejected, note)
	})
}

func (s *AsyncEffects) TakenDown(ctx context.Context, item model.ContentItem, action model.TakedownAction, note string) {
	event := EventHidden
	if action == model.ActionRemove {
		event = EventRemoved
	}
	s.dispatch(ctx, func(ctx context.Context) {
		switch item.Kind() {
		case model.KindStory:
			s.run(ctx, "delete_story_index", func() error { return s.indexer.DeleteStory(ctx, item.GetID()) })
		case model.KindChapter:
			// 隐藏的章节可能恢复，计数保留
			if action == model.ActionRemove {
				s.run(ctx, "drop_view_counter", func() error {
					return s.counter.DropViewCounter(ctx, model.KindChapter, item.GetID())
				})
			}
		}
		s.run(ctx, "notify_author", func() error { return s.notifier.NotifyAuthor(ctx, event, item, note) })
		s.lifecycle(ctx, item, event, note)
	})
}

func (s *AsyncEffects) lifecycle(ctx context.Context, item model.ContentItem, event string, note string) {
	s.run(ctx, "lifecycle_event", func() error {
		return s.events.PublishLifecycle(ctx, item.Kind(), item.GetID(), item.GetAuthorID(), event, note)
	})
}

func (s *AsyncEffects) dispatch(ctx context.Context, fn func(ctx context.Context)) {
	detached := logger.Detach(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.ErrorContext(detached, "副作用执行 panic", "panic", r)
			}
		}()
		fn(detached)
	}()
}

func (s *AsyncEffects) run(ctx context.Context, name string, fn func() error) {
	start := time.Now()
	if err := fn(); err != nil {
		metrics.RecordEffectFailure(name)
		log.ErrorContext(ctx, "副作用执行失败", "effect", name, "err", err)
		return
	}
	log.DebugContext(ctx, "副作用执行完成", "effect", name, "cost", time.Since(start))
}
