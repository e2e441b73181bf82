package repository

import (
	"Inkwell/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QueueFilter 人工审核队列查询条件
type QueueFilter struct {
	Kind     model.TargetKind
	Status   model.ReviewStatus
	LastID   uint64
	PageSize int
}

// ScreeningUpdate AI 预审结果，记录仍保持 pending
type ScreeningUpdate struct {
	Score      *float64
	Note       string
	Violations datatypes.JSON
	QueuedAt   *time.Time
}

// Resolution 审核记录结案
type Resolution struct {
	Status        model.ReviewStatus
	Source        model.ReviewSource
	ModeratorID   *uint64
	ModeratorNote string
	Score         *float64
	Note          string
	Violations    datatypes.JSON
	DecidedAt     time.Time
}

type ReviewRepo interface {
	CreateReview(ctx context.Context, record *model.ReviewRecord) error
	GetReview(ctx context.Context, id uint64) (*model.ReviewRecord, error)
	LockReview(ctx context.Context, id uint64) (*model.ReviewRecord, error)
	GetLatest(ctx context.Context, kind model.TargetKind, targetID uint64) (*model.ReviewRecord, error)
	GetLatestRejected(ctx context.Context, kind model.TargetKind, targetID uint64) (*model.ReviewRecord, error)
	GetLatestRejectedByAuthor(ctx context.Context, authorID uint64, kind model.TargetKind) (*model.ReviewRecord, error)
	ListByTarget(ctx context.Context, kind model.TargetKind, targetID uint64) ([]*model.ReviewRecord, error)
	CountByTarget(ctx context.Context, kind model.TargetKind, targetID uint64) (int64, error)
	RecordScreening(ctx context.Context, id uint64, update *ScreeningUpdate) (bool, error)
	Resolve(ctx context.Context, id uint64, res *Resolution) (bool, error)
	ListQueue(ctx context.Context, filter *QueueFilter) ([]*model.ReviewRecord, error)
	ListUnscreened(ctx context.Context, before time.Time, limit int) ([]*model.ReviewRecord, error)
	CountQueued(ctx context.Context, kind model.TargetKind) (int64, error)
}

type reviewRepoImpl struct {
	db *gorm.DB
}

func NewReviewRepo(db *gorm.DB) ReviewRepo {
	return &reviewRepoImpl{db: db}
}

func (s *reviewRepoImpl) CreateReview(ctx context.Context, record *model.ReviewRecord) error {
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *reviewRepoImpl) GetReview(ctx context.Context, id uint64) (*model.ReviewRecord, error) {
	return s.first(s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *reviewRepoImpl) LockReview(ctx context.Context, id uint64) (*model.ReviewRecord, error) {
	return s.first(s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

// GetLatest 当前记录即同一对象 id 最大的一条
func (s *reviewRepoImpl) GetLatest(ctx context.Context, kind model.TargetKind, targetID uint64) (*model.ReviewRecord, error) {
	return s.first(s.db.WithContext(ctx).
		Where("target_kind = ? AND target_id = ?", kind, targetID).
		Order("id DESC"))
}

func (s *reviewRepoImpl) GetLatestRejected(ctx context.Context, kind model.TargetKind, targetID uint64) (*model.ReviewRecord, error) {
	return s.first(s.db.WithContext(ctx).
		Where("target_kind = ? AND target_id = ? AND status = ?", kind, targetID, model.ReviewRejected).
		Order("id DESC"))
}

func (s *reviewRepoImpl) GetLatestRejectedByAuthor(ctx context.Context, authorID uint64, kind model.TargetKind) (*model.ReviewRecord, error) {
	return s.first(s.db.WithContext(ctx).
		Where("author_id = ? AND target_kind = ? AND status = ?", authorID, kind, model.ReviewRejected).
		Order("id DESC"))
}

func (s *reviewRepoImpl) ListByTarget(ctx context.Context, kind model.TargetKind, targetID uint64) ([]*model.ReviewRecord, error) {
	records := make([]*model.ReviewRecord, 0)
	err := s.db.WithContext(ctx).
		Where("target_kind = ? AND target_id = ?", kind, targetID).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *reviewRepoImpl) CountByTarget(ctx context.Context, kind model.TargetKind, targetID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ReviewRecord{}).
		Where("target_kind = ? AND target_id = ?", kind, targetID).
		Count(&count).Error
	return count, err
}

// RecordScreening 写入 AI 预审信息，仅对 pending 记录生效
func (s *reviewRepoImpl) RecordScreening(ctx context.Context, id uint64, update *ScreeningUpdate) (bool, error) {
	cols := map[string]interface{}{
		"ai_note": update.Note,
	}
	if update.Score != nil {
		cols["ai_score"] = *update.Score
	}
	if update.Violations != nil {
		cols["ai_violations"] = update.Violations
	}
	if update.QueuedAt != nil {
		cols["queued_at"] = *update.QueuedAt
	}
	result := s.db.WithContext(ctx).Model(&model.ReviewRecord{}).
		Where("id = ? AND status = ?", id, model.ReviewPending).
		Updates(cols)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Resolve 结案，条件更新保证同一条记录只能结案一次
func (s *reviewRepoImpl) Resolve(ctx context.Context, id uint64, res *Resolution) (bool, error) {
	cols := map[string]interface{}{
		"status":     res.Status,
		"source":     res.Source,
		"decided_at": res.DecidedAt,
	}
	if res.ModeratorID != nil {
		cols["moderator_id"] = *res.ModeratorID
		cols["moderator_note"] = res.ModeratorNote
	}
	if res.Score != nil {
		cols["ai_score"] = *res.Score
		cols["ai_note"] = res.Note
	}
	if res.Violations != nil {
		cols["ai_violations"] = res.Violations
	}
	result := s.db.WithContext(ctx).Model(&model.ReviewRecord{}).
		Where("id = ? AND status = ?", id, model.ReviewPending).
		Updates(cols)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListQueue 游标分页，pending 仅返回已进入人工队列的记录
func (s *reviewRepoImpl) ListQueue(ctx context.Context, filter *QueueFilter) ([]*model.ReviewRecord, error) {
	q := s.db.WithContext(ctx).Where("status = ?", filter.Status)
	if filter.Status == model.ReviewPending {
		q = q.Where("queued_at IS NOT NULL")
	}
	if filter.Kind != "" {
		q = q.Where("target_kind = ?", filter.Kind)
	}
	if filter.LastID > 0 {
		q = q.Where("id > ?", filter.LastID)
	}

	records := make([]*model.ReviewRecord, 0)
	if err := q.Order("id ASC").Limit(filter.PageSize).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListUnscreened 仍未拿到 AI 分数的 pending 记录，未入人工队列的排在前面
func (s *reviewRepoImpl) ListUnscreened(ctx context.Context, before time.Time, limit int) ([]*model.ReviewRecord, error) {
	records := make([]*model.ReviewRecord, 0)
	err := s.db.WithContext(ctx).
		Where("status = ? AND ai_score IS NULL AND created_at < ?", model.ReviewPending, before).
		Order("queued_at IS NULL DESC").
		Order("id ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *reviewRepoImpl) CountQueued(ctx context.Context, kind model.TargetKind) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ReviewRecord{}).
		Where("status = ? AND queued_at IS NOT NULL AND target_kind = ?", model.ReviewPending, kind).
		Count(&count).Error
	return count, err
}

func (s *reviewRepoImpl) first(q *gorm.DB) (*model.ReviewRecord, error) {
	var record model.ReviewRecord
	if err := q.First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
