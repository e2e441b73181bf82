package dto

// ChapterBaseDTO 创建/编辑章节，正文写入对象存储
type ChapterBaseDTO struct {
	Title   string `json:"title" binding:"required" validate:"min=1,max=255"`
	Content string `json:"content" binding:"required" validate:"min=1,max=200000"`
	IsPaid  bool   `json:"is_paid"`
	Price   int    `json:"price" validate:"min=0,max=100000"`
}

type ChapterDTO struct {
	ID          uint64  `json:"id"`
	StoryID     uint64  `json:"story_id"`
	AuthorID    uint64  `json:"author_id"`
	ChapterNo   int     `json:"chapter_no"`
	Title       string  `json:"title"`
	WordCount   int     `json:"word_count"`
	IsPaid      bool    `json:"is_paid"`
	Price       int     `json:"price"`
	Status      string  `json:"status"`
	Content     string  `json:"content,omitempty"`
	SubmittedAt *string `json:"submitted_at"`
	PublishedAt *string `json:"published_at"`
	CreatedAt   string  `json:"created_at"`
}
