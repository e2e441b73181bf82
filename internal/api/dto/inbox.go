package dto

// InboxDTO 作者站内通知
type InboxDTO struct {
	ID         string `json:"id"`
	Event      string `json:"event"`       // published / rejected / hidden / removed
	TargetKind string `json:"target_kind"` // story / chapter
	TargetID   uint64 `json:"target_id"`
	Title      string `json:"title"`
	Note       string `json:"note"`
	IsRead     bool   `json:"is_read"`
	CreatedAt  string `json:"created_at"`
}

// InboxListDTO 通知列表与未读数
type InboxListDTO struct {
	Items       []*InboxDTO `json:"items"`
	UnreadCount int64       `json:"unread_count"`
}
