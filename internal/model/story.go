package model

import (
	"time"
)

type Story struct {
	ID          uint64        `gorm:"primaryKey" json:"id"`
	AuthorID    uint64        `gorm:"not null;index:idx_author_status" json:"author_id"`
	Title       string        `gorm:"type:varchar(255);not null" json:"title"`
	Synopsis    string        `gorm:"type:text" json:"synopsis"`
	Language    string        `gorm:"type:varchar(16);not null;default:'zh'" json:"language"`
	CoverURL    *string       `gorm:"type:varchar(512)" json:"cover_url"`
	Status      ContentStatus `gorm:"type:varchar(16);not null;default:'draft';index:idx_author_status" json:"status"`
	IsCompleted bool          `gorm:"not null;default:false" json:"is_completed"`
	CompletedAt *time.Time    `json:"completed_at"`
	SubmittedAt *time.Time    `json:"submitted_at"`
	PublishedAt *time.Time    `json:"published_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (Story) TableName() string {
	return "stories"
}

func (s *Story) Kind() TargetKind         { return KindStory }
func (s *Story) GetID() uint64            { return s.ID }
func (s *Story) GetAuthorID() uint64      { return s.AuthorID }
func (s *Story) GetStatus() ContentStatus { return s.Status }
func (s *Story) GetTitle() string         { return s.Title }
