package model

import (
	"time"
)

type ModeratorStats struct {
	ModeratorID           uint64    `gorm:"primaryKey;autoIncrement:false" json:"moderator_id"`
	TotalApprovedStories  int       `gorm:"not null;default:0" json:"total_approved_stories"`
	TotalRejectedStories  int       `gorm:"not null;default:0" json:"total_rejected_stories"`
	TotalApprovedChapters int       `gorm:"not null;default:0" json:"total_approved_chapters"`
	TotalRejectedChapters int       `gorm:"not null;default:0" json:"total_rejected_chapters"`
	TotalReportedHandled  int       `gorm:"not null;default:0" json:"total_reported_handled"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (ModeratorStats) TableName() string {
	return "moderator_stats"
}

// DecisionColumn 根据对象类型和结论返回需要自增的列
func DecisionColumn(kind TargetKind, approved bool) string {
	switch {
	case kind == KindStory && approved:
		return "total_approved_stories"
	case kind == KindStory:
		return "total_rejected_stories"
	case approved:
		return "total_approved_chapters"
	default:
		return "total_rejected_chapters"
	}
}
