package dto

// ReviewRecordDTO 审核台账
type ReviewRecordDTO struct {
	ID            uint64   `json:"id"`
	TargetKind    string   `json:"target_kind"`
	TargetID      uint64   `json:"target_id"`
	AuthorID      uint64   `json:"author_id"`
	Round         int      `json:"round"`
	AIScore       *float64 `json:"ai_score"`
	AINote        string   `json:"ai_note"`
	Violations    []string `json:"ai_violations"`
	Status        string   `json:"status"`
	Source        string   `json:"source"`
	ModeratorID   *uint64  `json:"moderator_id"`
	ModeratorNote string   `json:"moderator_note"`
	QueuedAt      *string  `json:"queued_at"`
	DecidedAt     *string  `json:"decided_at"`
	CreatedAt     string   `json:"created_at"`
}

// ReviewQueueDTO 审核队列分页
type ReviewQueueDTO struct {
	Records []*ReviewRecordDTO `json:"records"`
	LastID  uint64             `json:"last_id"`
	HasMore bool               `json:"has_more"`
}

// DecisionDTO 人工审核结论
type DecisionDTO struct {
	Verdict string `json:"verdict" binding:"required" validate:"oneof=approve reject"`
	Note    string `json:"note" validate:"max=1000"`
}

// TakedownDTO 下架请求
type TakedownDTO struct {
	Kind       string `json:"kind" binding:"required" validate:"oneof=story chapter"`
	TargetID   uint64 `json:"target_id" binding:"required" validate:"min=1"`
	Action     string `json:"action" binding:"required" validate:"oneof=hide remove"`
	Note       string `json:"note" validate:"max=1000"`
	FromReport bool   `json:"from_report"`
}

// ModeratorStatsDTO 审核员工作量
type ModeratorStatsDTO struct {
	ModeratorID           uint64 `json:"moderator_id"`
	TotalApprovedStories  int    `json:"total_approved_stories"`
	TotalRejectedStories  int    `json:"total_rejected_stories"`
	TotalApprovedChapters int    `json:"total_approved_chapters"`
	TotalRejectedChapters int    `json:"total_rejected_chapters"`
	TotalReportedHandled  int    `json:"total_reported_handled"`
}
