package es

import (
	"Inkwell/internal/model"
	"time"
)

// StoryES 已发布作品的检索文档
type StoryES struct {
	ID          uint64    `json:"id"`
	AuthorID    uint64    `json:"author_id"`
	Title       string    `json:"title"`
	Synopsis    string    `json:"synopsis"`
	Language    string    `json:"language"`
	CoverURL    string    `json:"cover_url"`
	IsCompleted bool      `json:"is_completed"`
	PublishedAt time.Time `json:"published_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewStoryES(story *model.Story) *StoryES {
	doc := &StoryES{
		ID:          story.ID,
		AuthorID:    story.AuthorID,
		Title:       story.Title,
		Synopsis:    story.Synopsis,
		Language:    story.Language,
		IsCompleted: story.IsCompleted,
		UpdatedAt:   story.UpdatedAt,
	}
	if story.CoverURL != nil {
		doc.CoverURL = *story.CoverURL
	}
	if story.PublishedAt != nil {
		doc.PublishedAt = *story.PublishedAt
	}
	return doc
}
