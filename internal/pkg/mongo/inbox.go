package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InboxModel 作者站内通知
type InboxModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID   uint64             `bson:"author_id" json:"authorId"`
	Event      string             `bson:"event" json:"event"`            // published / rejected / hidden / removed
	TargetKind string             `bson:"target_kind" json:"targetKind"` // story / chapter
	TargetID   uint64             `bson:"target_id" json:"targetId"`
	Title      string             `bson:"title" json:"title"`
	Note       string             `bson:"note" json:"note"`
	IsRead     bool               `bson:"is_read" json:"isRead"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
