package model

// ContentStatus 作品/章节状态
type ContentStatus string

const (
	StatusDraft     ContentStatus = "draft"
	StatusPending   ContentStatus = "pending"
	StatusRejected  ContentStatus = "rejected"
	StatusPublished ContentStatus = "published"
	StatusHidden    ContentStatus = "hidden"
	StatusRemoved   ContentStatus = "removed"
)

// TargetKind 审核对象类型
type TargetKind string

const (
	KindStory   TargetKind = "story"
	KindChapter TargetKind = "chapter"
)

func (k TargetKind) Valid() bool {
	return k == KindStory || k == KindChapter
}

// ReviewStatus 审核记录状态
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// ReviewSource 审核来源
type ReviewSource string

const (
	SourceAI    ReviewSource = "ai"
	SourceHuman ReviewSource = "human"
)

// ContentItem 参与审核流转的内容 (作品或章节)
type ContentItem interface {
	Kind() TargetKind
	GetID() uint64
	GetAuthorID() uint64
	GetStatus() ContentStatus
	GetTitle() string
}
