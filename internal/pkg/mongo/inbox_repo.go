package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type InboxRepo interface {
	EnsureIndexes(ctx context.Context) error
	CreateNotification(ctx context.Context, msg *InboxModel) error
	GetNotificationList(ctx context.Context, authorID uint64, limit, offset int64) ([]*InboxModel, error)
	GetUnreadCount(ctx context.Context, authorID uint64) (int64, error)
	MarkAsRead(ctx context.Context, authorID uint64, id primitive.ObjectID) (bool, error)
	MarkAllAsRead(ctx context.Context, authorID uint64) error
}

type inboxRepoImpl struct {
	col *mongo.Collection
}

func NewInboxRepo(db *mongo.Database) InboxRepo {
	return &inboxRepoImpl{
		col: db.Collection("author_inbox"),
	}
}

func (s *inboxRepoImpl) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func (s *inboxRepoImpl) CreateNotification(ctx context.Context, msg *InboxModel) error {
	_, err := s.col.InsertOne(ctx, msg)
	return err
}

// GetNotificationList 按时间倒序分页
func (s *inboxRepoImpl) GetNotificationList(ctx context.Context, authorID uint64, limit, offset int64) ([]*InboxModel, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, bson.M{"author_id": authorID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*InboxModel
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *inboxRepoImpl) GetUnreadCount(ctx context.Context, authorID uint64) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"author_id": authorID, "is_read": false})
}

// MarkAsRead 只能标记自己的通知，返回是否命中
func (s *inboxRepoImpl) MarkAsRead(ctx context.Context, authorID uint64, id primitive.ObjectID) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "author_id": authorID},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *inboxRepoImpl) MarkAllAsRead(ctx context.Context, authorID uint64) error {
	_, err := s.col.UpdateMany(ctx,
		bson.M{"author_id": authorID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	return err
}
