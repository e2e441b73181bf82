package service

import (
	"Inkwell/internal/model"
	"context"
	"time"
)

// Clock 可注入的时间源
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock 默认时间源
var SystemClock Clock = systemClock{}

// EventPublisher 审核事件出口 (Kafka)
type EventPublisher interface {
	DispatchScreening(ctx context.Context, record *model.ReviewRecord) error
	PublishContentPublished(ctx context.Context, item model.ContentItem, publishedAt time.Time) error
	PublishLifecycle(ctx context.Context, kind model.TargetKind, id uint64, authorID uint64, event string, note string) error
}

// StoryIndexer 作品检索索引 (Elasticsearch)
type StoryIndexer interface {
	IndexStory(ctx context.Context, story *model.Story) error
	DeleteStory(ctx context.Context, id uint64) error
}

// ViewCounter 阅读计数 (Redis)
type ViewCounter interface {
	InitViewCounter(ctx context.Context, kind model.TargetKind, id uint64) error
	DropViewCounter(ctx context.Context, kind model.TargetKind, id uint64) error
}

// ContentStore 章节正文存储 (MinIO)
type ContentStore interface {
	PutContent(ctx context.Context, key string, body string) error
	GetContent(ctx context.Context, key string) (string, error)
	DeleteContent(ctx context.Context, key string) error
}
