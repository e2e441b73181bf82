package kafka

import (
	"time"
)

const traceHeader = "trace_id"

// ScreeningEvent 新提交待 AI 预审
type ScreeningEvent struct {
	RecordID    uint64    `json:"record_id"`
	TargetKind  string    `json:"target_kind"`
	TargetID    uint64    `json:"target_id"`
	AuthorID    uint64    `json:"author_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// PublishedEvent 内容发布，关注者推送、付费解锁、周榜快照由下游消费
type PublishedEvent struct {
	Kind        string    `json:"kind"`
	ID          uint64    `json:"id"`
	StoryID     uint64    `json:"story_id"`
	AuthorID    uint64    `json:"author_id"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
}

// LifecycleEvent 状态流转事件
type LifecycleEvent struct {
	Kind     string    `json:"kind"`
	ID       uint64    `json:"id"`
	AuthorID uint64    `json:"author_id"`
	Event    string    `json:"event"`
	Note     string    `json:"note,omitempty"`
	At       time.Time `json:"at"`
}
