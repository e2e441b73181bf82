package model

import (
	"time"
)

type Author struct {
	ID         uint64    `gorm:"primaryKey" json:"id"` // 与用户 ID 一致
	PenName    string    `gorm:"type:varchar(64)" json:"pen_name"`
	Email      *string   `gorm:"type:varchar(255)" json:"email"`
	Restricted bool      `gorm:"not null;default:false" json:"restricted"`
	Rank       int       `gorm:"not null;default:0" json:"rank"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Author) TableName() string {
	return "authors"
}
