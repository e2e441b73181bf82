package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/mongo"
	"Inkwell/internal/pkg/util"
	"context"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InboxService interface {
	ListInbox(ctx context.Context, authorID uint64, page, pageSize int) (*dto.InboxListDTO, error)
	MarkRead(ctx context.Context, authorID uint64, msgID string) error
	MarkAllRead(ctx context.Context, authorID uint64) error
}

type inboxServiceImpl struct {
	inboxRepo mongo.InboxRepo
}

func NewInboxService(inbox mongo.InboxRepo) InboxService {
	return &inboxServiceImpl{inboxRepo: inbox}
}

// ListInbox 通知列表，附带未读数
func (s *inboxServiceImpl) ListInbox(ctx context.Context, authorID uint64, page, pageSize int) (*dto.InboxListDTO, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > consts.MaxPageSize {
		pageSize = consts.DefaultPageSize
	}

	list, err := s.inboxRepo.GetNotificationList(ctx, authorID, int64(pageSize), int64((page-1)*pageSize))
	if err != nil {
		return nil, err
	}
	unread, err := s.inboxRepo.GetUnreadCount(ctx, authorID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.InboxDTO, 0, len(list))
	for _, m := range list {
		d := &dto.InboxDTO{}
		_ = copier.Copy(d, m)
		d.ID = m.ID.Hex()
		d.CreatedAt = util.FormatTime(m.CreatedAt)
		items = append(items, d)
	}
	return &dto.InboxListDTO{Items: items, UnreadCount: unread}, nil
}

// MarkRead 标记单条已读
func (s *inboxServiceImpl) MarkRead(ctx context.Context, authorID uint64, msgID string) error {
	objectID, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return ErrParamInvalid
	}
	ok, err := s.inboxRepo.MarkAsRead(ctx, authorID, objectID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoticeNotFound
	}
	return nil
}

// MarkAllRead 一键已读
func (s *inboxServiceImpl) MarkAllRead(ctx context.Context, authorID uint64) error {
	return s.inboxRepo.MarkAllAsRead(ctx, authorID)
}
