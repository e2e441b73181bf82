package model

import (
	"time"
)

// TakedownAction 下架操作
type TakedownAction string

const (
	ActionHide   TakedownAction = "hide"
	ActionRemove TakedownAction = "remove"
)

// ModerationAction 运营下架记录，不属于审核台账
type ModerationAction struct {
	ID          uint64         `gorm:"primaryKey" json:"id"`
	TargetKind  TargetKind     `gorm:"type:varchar(16);not null;index:idx_action_target,priority:1" json:"target_kind"`
	TargetID    uint64         `gorm:"not null;index:idx_action_target,priority:2" json:"target_id"`
	ModeratorID uint64         `gorm:"not null" json:"moderator_id"`
	Action      TakedownAction `gorm:"type:varchar(16);not null" json:"action"`
	Note        string         `gorm:"type:text" json:"note"`
	FromReport  bool           `gorm:"not null;default:false" json:"from_report"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (ModerationAction) TableName() string {
	return "moderation_actions"
}

// TargetStatus 下架后的状态
func (a TakedownAction) TargetStatus() ContentStatus {
	if a == ActionRemove {
		return StatusRemoved
	}
	return StatusHidden
}
