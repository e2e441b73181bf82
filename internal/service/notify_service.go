package service

import (
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/mail"
	"Inkwell/internal/pkg/mongo"
	"Inkwell/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"
)

// 通知事件
const (
	EventPublished = "published"
	EventRejected  = "rejected"
	EventHidden    = "hidden"
	EventRemoved   = "removed"
)

var noticeHeadlines = map[string]string{
	EventPublished: "您提交的内容已通过审核并发布。",
	EventRejected:  "您提交的内容未通过审核，请修改后重新提交。",
	EventHidden:    "您的内容已被暂时隐藏。",
	EventRemoved:   "您的内容已被下架。",
}

// MailSender 邮件通道
type MailSender interface {
	Enabled() bool
	Send(ctx context.Context, to []string, subject, html string) error
}

type Notifier interface {
	NotifyAuthor(ctx context.Context, event string, item model.ContentItem, note string) error
	NotifyFollowers(ctx context.Context, item model.ContentItem, publishedAt time.Time) error
}

type notifierImpl struct {
	store  repository.Store
	inbox  mongo.InboxRepo
	mailer MailSender
	events EventPublisher
	clock  Clock
}

func NewNotifier(store repository.Store, inbox mongo.InboxRepo, mailer MailSender, events EventPublisher, clock Clock) Notifier {
	return &notifierImpl{
		store:  store,
		inbox:  inbox,
		mailer: mailer,
		events: events,
		clock:  clock,
	}
}

// NotifyAuthor 写站内信，作者留了邮箱时同时发邮件
func (s *notifierImpl) NotifyAuthor(ctx context.Context, event string, item model.ContentItem, note string) error {
	var errs []error
	if err := s.inbox.CreateNotification(ctx, &mongo.InboxModel{
		AuthorID:   item.GetAuthorID(),
		Event:      event,
		TargetKind: string(item.Kind()),
		TargetID:   item.GetID(),
		Title:      item.GetTitle(),
		Note:       note,
		CreatedAt:  s.clock.Now(),
	}); err != nil {
		errs = append(errs, err)
	}

	if s.mailer != nil && s.mailer.Enabled() {
		if err := s.sendMail(ctx, event, item, note); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *notifierImpl) sendMail(ctx context.Context, event string, item model.ContentItem, note string) error {
	author, err := s.store.Authors().GetAuthor(ctx, item.GetAuthorID())
	if err != nil {
		return err
	}
	if author == nil || author.Email == nil || *author.Email == "" {
		return nil
	}
	html, err := mail.RenderNotice(&mail.Notice{
		PenName:  author.PenName,
		Headline: noticeHeadlines[event],
		Title:    item.GetTitle(),
		Note:     note,
	})
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, []string{*author.Email}, "【Inkwell】审核结果通知", html); err != nil {
		return err
	}
	log.InfoContext(ctx, "通知邮件已发送", "author_id", author.ID, "event", event)
	return nil
}

// NotifyFollowers 关注者推送由下游消费发布事件完成
func (s *notifierImpl) NotifyFollowers(ctx context.Context, item model.ContentItem, publishedAt time.Time) error {
	return s.events.PublishContentPublished(ctx, item, publishedAt)
}
