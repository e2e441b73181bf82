package dto

// StoryBaseDTO 创建/编辑作品
type StoryBaseDTO struct {
	Title    string  `json:"title" binding:"required" validate:"min=1,max=255"`
	Synopsis string  `json:"synopsis" validate:"max=2000"`
	Language string  `json:"language" validate:"omitempty,min=2,max=16"`
	CoverURL *string `json:"cover_url" validate:"omitempty,url,max=512"`
}

type StoryDTO struct {
	ID          uint64  `json:"id"`
	AuthorID    uint64  `json:"author_id"`
	Title       string  `json:"title"`
	Synopsis    string  `json:"synopsis"`
	Language    string  `json:"language"`
	CoverURL    *string `json:"cover_url"`
	Status      string  `json:"status"`
	IsCompleted bool    `json:"is_completed"`
	SubmittedAt *string `json:"submitted_at"`
	PublishedAt *string `json:"published_at"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type StoryListDTO struct {
	Stories []*StoryDTO `json:"stories"`
	Total   int         `json:"total"`
}
