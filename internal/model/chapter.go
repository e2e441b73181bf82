package model

import (
	"time"
)

type Chapter struct {
	ID          uint64        `gorm:"primaryKey" json:"id"`
	StoryID     uint64        `gorm:"not null;uniqueIndex:idx_story_chapter_no;index:idx_story_status" json:"story_id"`
	AuthorID    uint64        `gorm:"not null;index:idx_author_id" json:"author_id"`
	ChapterNo   int           `gorm:"not null;uniqueIndex:idx_story_chapter_no" json:"chapter_no"`
	Title       string        `gorm:"type:varchar(255);not null" json:"title"`
	ContentKey  string        `gorm:"type:varchar(512);not null" json:"content_key"` // 正文在对象存储中的 key
	WordCount   int           `gorm:"not null;default:0" json:"word_count"`
	IsPaid      bool          `gorm:"not null;default:false" json:"is_paid"`
	Price       int           `gorm:"not null;default:0" json:"price"`
	Status      ContentStatus `gorm:"type:varchar(16);not null;default:'draft';index:idx_story_status" json:"status"`
	SubmittedAt *time.Time    `json:"submitted_at"`
	PublishedAt *time.Time    `json:"published_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (Chapter) TableName() string {
	return "chapters"
}

func (c *Chapter) Kind() TargetKind         { return KindChapter }
func (c *Chapter) GetID() uint64            { return c.ID }
func (c *Chapter) GetAuthorID() uint64      { return c.AuthorID }
func (c *Chapter) GetStatus() ContentStatus { return c.Status }
func (c *Chapter) GetTitle() string         { return c.Title }
