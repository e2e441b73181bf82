package model

import (
	"time"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
)

// ReviewRecord 审核台账，每一轮提交一条，终态后不可变
type ReviewRecord struct {
	ID            uint64         `gorm:"primaryKey" json:"id"`
	TargetKind    TargetKind     `gorm:"type:varchar(16);not null;index:idx_target,priority:1" json:"target_kind"`
	TargetID      uint64         `gorm:"not null;index:idx_target,priority:2" json:"target_id"`
	AuthorID      uint64         `gorm:"not null;index:idx_author_kind_status,priority:1" json:"author_id"`
	Round         int            `gorm:"not null;default:1" json:"round"`
	AIScore       *float64       `json:"ai_score"`
	AINote        string         `gorm:"type:text" json:"ai_note"`
	AIViolations  datatypes.JSON `json:"ai_violations"`
	Status        ReviewStatus   `gorm:"type:varchar(16);not null;default:'pending';index:idx_author_kind_status,priority:3;index:idx_status_queued" json:"status"`
	Source        ReviewSource   `gorm:"type:varchar(8);not null;default:'human'" json:"source"`
	ModeratorID   *uint64        `json:"moderator_id"`
	ModeratorNote string         `gorm:"type:text" json:"moderator_note"`
	QueuedAt      *time.Time     `gorm:"index:idx_status_queued" json:"queued_at"` // 进入人工队列的时间
	DecidedAt     *time.Time     `json:"decided_at"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
}

func (ReviewRecord) TableName() string {
	return "review_records"
}

// IsTerminal 是否已结案
func (r *ReviewRecord) IsTerminal() bool {
	return r.Status == ReviewApproved || r.Status == ReviewRejected
}

// InHumanQueue 是否已进入人工审核队列
func (r *ReviewRecord) InHumanQueue() bool {
	return r.Status == ReviewPending && r.QueuedAt != nil
}

// Violations 解析 AI 给出的违规项
func (r *ReviewRecord) Violations() []string {
	if len(r.AIViolations) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(r.AIViolations, &out); err != nil {
		return nil
	}
	return out
}

// ViolationsJSON 序列化违规项
func ViolationsJSON(violations []string) datatypes.JSON {
	if len(violations) == 0 {
		return nil
	}
	b, err := json.Marshal(violations)
	if err != nil {
		return nil
	}
	return b
}
