package service

import (
	"Inkwell/internal/api/config"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/llm"
	"Inkwell/internal/pkg/metrics"
	"Inkwell/internal/pkg/processor"
	"Inkwell/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"
)

const screeningUnavailableNote = "AI screening unavailable"

// Viewer 查询审核历史的调用方
type Viewer struct {
	UserID    uint64
	Moderator bool
}

type ModerationService interface {
	Submit(ctx context.Context, authorID uint64, kind model.TargetKind, id uint64) (*model.ReviewRecord, error)
	Screen(ctx context.Context, recordID uint64) error
	ApplyAIVerdict(ctx context.Context, recordID uint64, res *processor.ScreenResult) (*model.ReviewRecord, error)
	Decide(ctx context.Context, moderatorID uint64, recordID uint64, approve bool, note string) (*model.ReviewRecord, error)
	Takedown(ctx context.Context, moderatorID uint64, kind model.TargetKind, id uint64, action model.TakedownAction, note string, fromReport bool) error
	GetHistory(ctx context.Context, viewer *Viewer, kind model.TargetKind, id uint64) ([]*model.ReviewRecord, error)
	ListQueue(ctx context.Context, filter *repository.QueueFilter) ([]*model.ReviewRecord, error)
	RescreenStale(ctx context.Context) (int, error)
	QueueSizes(ctx context.Context) (map[model.TargetKind]int64, error)
}

type moderationServiceImpl struct {
	store     repository.Store
	gate      *SubmissionGate
	screener  processor.PreScreener
	stats     ModeratorStatsService
	effects   Effects
	events    EventPublisher
	contents  ContentStore
	clock     Clock
	screening config.ScreeningConfig
}

func NewModerationService(
	store repository.Store,
	gate *SubmissionGate,
	screener processor.PreScreener,
	stats ModeratorStatsService,
	effects Effects,
	events EventPublisher,
	contents ContentStore,
	clock Clock,
	screening config.ScreeningConfig,
) ModerationService {
	if screening.MaxAttempts <= 0 {
		screening.MaxAttempts = 1
	}
	return &moderationServiceImpl{
		store:     store,
		gate:      gate,
		screener:  screener,
		stats:     stats,
		effects:   effects,
		events:    events,
		contents:  contents,
		clock:     clock,
		screening: screening,
	}
}

// Submit 提交审核：加锁、校验、状态置为 pending 并写入新一轮审核记录，整体在一个事务内完成
func (s *moderationServiceImpl) Submit(ctx context.Context, authorID uint64, kind model.TargetKind, id uint64) (*model.ReviewRecord, error) {
	policy, err := policyFor(kind)
	if err != nil {
		return nil, err
	}

	var record *model.ReviewRecord
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		item, err := policy.lockForSubmit(ctx, tx, authorID, id)
		if err != nil {
			return err
		}
		if item.GetAuthorID() != authorID {
			return UnauthorizedError
		}

		author, err := tx.Authors().GetAuthor(ctx, authorID)
		if err != nil {
			return err
		}
		if author != nil && author.Restricted {
			return ErrAuthorRestricted
		}

		if !policy.canSubmit(item.GetStatus()) {
			return ErrInvalidTransition
		}
		if err := s.gate.Check(ctx, tx, authorID, item); err != nil {
			return err
		}

		now := s.clock.Now()
		ok, err := policy.transit(ctx, tx, id, policy.submittable, model.StatusPending, now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}

		rounds, err := tx.Reviews().CountByTarget(ctx, kind, id)
		if err != nil {
			return err
		}
		record = &model.ReviewRecord{
			TargetKind: kind,
			TargetID:   id,
			AuthorID:   authorID,
			Round:      int(rounds) + 1,
			Status:     model.ReviewPending,
			Source:     model.SourceAI,
			CreatedAt:  now,
		}
		return tx.Reviews().CreateReview(ctx, record)
	})
	if err != nil {
		s.logSubmitFailure(ctx, kind, id, err)
		return nil, err
	}

	metrics.RecordSubmission(string(kind), "accepted")
	log.InfoContext(ctx, "提交审核成功", "kind", kind, "id", id, "record_id", record.ID, "round", record.Round)

	// 投递失败不影响提交结果，定时任务会补评
	if err := s.events.DispatchScreening(ctx, record); err != nil {
		log.WarnContext(ctx, "投递AI预审任务失败", "record_id", record.ID, "err", err)
	}
	return record, nil
}

func (s *moderationServiceImpl) logSubmitFailure(ctx context.Context, kind model.TargetKind, id uint64, err error) {
	var denied *GateDeniedError
	switch {
	case errors.As(err, &denied):
		metrics.RecordSubmission(string(kind), "denied")
		metrics.RecordGateDenied(string(kind), denied.Reason)
		log.InfoContext(ctx, "提交被拦截", "kind", kind, "id", id, "reason", denied.Reason)
	case isBusinessError(err):
		metrics.RecordSubmission(string(kind), "rejected")
		log.InfoContext(ctx, "提交失败", "kind", kind, "id", id, "err", err)
	default:
		metrics.RecordSubmission(string(kind), "error")
		log.ErrorContext(ctx, "提交审核异常", "kind", kind, "id", id, "err", err)
	}
}

// Screen 对一条 pending 记录做 AI 预审，评分服务不可用时转人工
func (s *moderationServiceImpl) Screen(ctx context.Context, recordID uint64) error {
	record, err := s.store.Reviews().GetReview(ctx, recordID)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrReviewNotFound
	}
	// 已结案或已评分的记录重复投递时直接忽略
	if record.Status != model.ReviewPending || record.AIScore != nil {
		return nil
	}

	req, err := s.buildScoreRequest(ctx, record)
	if err != nil {
		return err
	}

	res, err := s.screenWithRetry(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return s.queueForHumans(ctx, record, err)
	}

	_, err = s.ApplyAIVerdict(ctx, recordID, res)
	return err
}

func (s *moderationServiceImpl) buildScoreRequest(ctx context.Context, record *model.ReviewRecord) (*llm.ScoreRequest, error) {
	if record.TargetKind == model.KindStory {
		story, err := s.store.Stories().GetStory(ctx, record.TargetID)
		if err != nil {
			return nil, err
		}
		if story == nil {
			return nil, ErrStoryNotFound
		}
		return &llm.ScoreRequest{Title: story.Title, Body: story.Synopsis, Language: story.Language}, nil
	}

	chapter, err := s.store.Chapters().GetChapter(ctx, record.TargetID)
	if err != nil {
		return nil, err
	}
	if chapter == nil {
		return nil, ErrChapterNotFound
	}
	body, err := s.contents.GetContent(ctx, chapter.ContentKey)
	if err != nil {
		return nil, fmt.Errorf("load chapter %d content: %w", chapter.ID, err)
	}
	req := &llm.ScoreRequest{Title: chapter.Title, Body: body}
	if story, err := s.store.Stories().GetStory(ctx, chapter.StoryID); err == nil && story != nil {
		req.Language = story.Language
	}
	return req, nil
}

// screenWithRetry 单次尝试有超时，失败后指数退避
func (s *moderationServiceImpl) screenWithRetry(ctx context.Context, req *llm.ScoreRequest) (*processor.ScreenResult, error) {
	var lastErr error
	backoff := s.screening.Backoff()
	for attempt := 1; attempt <= s.screening.MaxAttempts; attempt++ {
		attemptCtx := ctx
		cancel := func() {}
		if timeout := s.screening.AttemptTimeout(); timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		}
		start := time.Now()
		res, err := s.screener.Screen(attemptCtx, req)
		cancel()
		metrics.RecordScorerCall(err == nil, time.Since(start))
		if err == nil {
			return res, nil
		}

		lastErr = err
		log.WarnContext(ctx, "AI预审调用失败", "attempt", attempt, "err", err)
		if attempt == s.screening.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, lastErr
}

// queueForHumans 记录保持 pending 并进入人工队列
func (s *moderationServiceImpl) queueForHumans(ctx context.Context, record *model.ReviewRecord, cause error) error {
	update := &repository.ScreeningUpdate{Note: screeningUnavailableNote}
	if record.QueuedAt == nil {
		now := s.clock.Now()
		update.QueuedAt = &now
	}
	if _, err := s.store.Reviews().RecordScreening(ctx, record.ID, update); err != nil {
		return err
	}
	log.WarnContext(ctx, "AI预审不可用，转人工审核", "record_id", record.ID, "err", cause)
	return fmt.Errorf("screen record %d: %w: %w", record.ID, ErrUpstreamUnavailable, cause)
}

// ApplyAIVerdict 落地预审结论，只作用于对象当前的 pending 记录
func (s *moderationServiceImpl) ApplyAIVerdict(ctx context.Context, recordID uint64, res *processor.ScreenResult) (*model.ReviewRecord, error) {
	if res == nil {
		return nil, ErrInvalidVerdict
	}

	var (
		record *model.ReviewRecord
		item   model.ContentItem
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		rec, err := s.lockCurrent(ctx, tx, recordID)
		if err != nil {
			return err
		}
		policy, err := policyFor(rec.TargetKind)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		score := res.Score
		violations := model.ViolationsJSON(res.Violations)
		switch res.Verdict {
		case processor.VerdictAutoApproved, processor.VerdictRejected:
			approved := res.Verdict == processor.VerdictAutoApproved
			status := model.ReviewRejected
			if approved {
				status = model.ReviewApproved
			}
			ok, err := tx.Reviews().Resolve(ctx, rec.ID, &repository.Resolution{
				Status:     status,
				Source:     model.SourceAI,
				Score:      &score,
				Note:       res.Note,
				Violations: violations,
				DecidedAt:  now,
			})
			if err != nil {
				return err
			}
			if !ok {
				return ErrReviewStale
			}
			if item, err = s.finishItem(ctx, tx, policy, rec.TargetID, approved, now); err != nil {
				return err
			}
			rec.Status = status
			rec.Source = model.SourceAI
			rec.DecidedAt = &now
		case processor.VerdictPendingManualReview:
			update := &repository.ScreeningUpdate{Score: &score, Note: res.Note, Violations: violations}
			if rec.QueuedAt == nil {
				update.QueuedAt = &now
			}
			ok, err := tx.Reviews().RecordScreening(ctx, rec.ID, update)
			if err != nil {
				return err
			}
			if !ok {
				return ErrReviewStale
			}
			if update.QueuedAt != nil {
				rec.QueuedAt = update.QueuedAt
			}
		default:
			return ErrInvalidVerdict
		}
		rec.AIScore = &score
		rec.AINote = res.Note
		rec.AIViolations = violations
		record = rec
		return nil
	})
	if err != nil {
		if !IsExpected(err) {
			log.ErrorContext(ctx, "落地AI预审结论失败", "record_id", recordID, "err", err)
		}
		return nil, err
	}

	metrics.RecordAIVerdict(string(record.TargetKind), string(res.Verdict))
	log.InfoContext(ctx, "AI预审结论已生效", "record_id", record.ID, "verdict", res.Verdict, "score", res.Score)
	s.dispatchOutcome(ctx, item, record.Status == model.ReviewApproved, res.Note)
	return record, nil
}

// Decide 审核员对人工队列中的记录给出结论
func (s *moderationServiceImpl) Decide(ctx context.Context, moderatorID uint64, recordID uint64, approve bool, note string) (*model.ReviewRecord, error) {
	var (
		record *model.ReviewRecord
		item   model.ContentItem
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		rec, err := s.lockCurrent(ctx, tx, recordID)
		if err != nil {
			return err
		}
		if !rec.InHumanQueue() {
			return ErrInvalidTransition
		}
		policy, err := policyFor(rec.TargetKind)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		status := model.ReviewRejected
		if approve {
			status = model.ReviewApproved
		}
		ok, err := tx.Reviews().Resolve(ctx, rec.ID, &repository.Resolution{
			Status:        status,
			Source:        model.SourceHuman,
			ModeratorID:   &moderatorID,
			ModeratorNote: note,
			DecidedAt:     now,
		})
		if err != nil {
			return err
		}
		if !ok {
			return ErrReviewStale
		}
		if item, err = s.finishItem(ctx, tx, policy, rec.TargetID, approve, now); err != nil {
			return err
		}
		if err := s.stats.IncrementDecision(ctx, tx, moderatorID, rec.TargetKind, approve); err != nil {
			return err
		}

		rec.Status = status
		rec.Source = model.SourceHuman
		rec.ModeratorID = &moderatorID
		rec.ModeratorNote = note
		rec.DecidedAt = &now
		record = rec
		return nil
	})
	if err != nil {
		if IsExpected(err) {
			log.InfoContext(ctx, "人工审核未生效", "record_id", recordID, "err", err)
		} else {
			log.ErrorContext(ctx, "人工审核失败", "record_id", recordID, "err", err)
		}
		return nil, err
	}

	metrics.RecordHumanDecision(string(record.TargetKind), approve)
	log.InfoContext(ctx, "人工审核完成", "record_id", record.ID, "moderator_id", moderatorID, "approve", approve)
	s.dispatchOutcome(ctx, item, approve, note)
	return record, nil
}

// lockCurrent 锁定记录并确认它仍是对象当前的 pending 记录
func (s *moderationServiceImpl) lockCurrent(ctx context.Context, tx repository.Store, recordID uint64) (*model.ReviewRecord, error) {
	rec, err := tx.Reviews().LockReview(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrReviewNotFound
	}
	if rec.Status != model.ReviewPending {
		return nil, ErrReviewStale
	}
	latest, err := tx.Reviews().GetLatest(ctx, rec.TargetKind, rec.TargetID)
	if err != nil {
		return nil, err
	}
	if latest == nil || latest.ID != rec.ID {
		return nil, ErrReviewStale
	}
	return rec, nil
}

// finishItem 对象从 pending 流转到结论对应的状态，返回流转后的快照
func (s *moderationServiceImpl) finishItem(ctx context.Context, tx repository.Store, policy *kindPolicy, id uint64, approved bool, at time.Time) (model.ContentItem, error) {
	to := policy.rejectedStatus
	if approved {
		to = model.StatusPublished
	}
	ok, err := policy.transit(ctx, tx, id, []model.ContentStatus{model.StatusPending}, to, at)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}
	return policy.load(ctx, tx, id)
}

func (s *moderationServiceImpl) dispatchOutcome(ctx context.Context, item model.ContentItem, approved bool, note string) {
	if item == nil {
		return
	}
	if approved {
		s.effects.Published(ctx, item)
		return
	}
	s.effects.Rejected(ctx, item, note)
}

// Takedown 已发布内容下架，不产生审核记录
func (s *moderationServiceImpl) Takedown(ctx context.Context, moderatorID uint64, kind model.TargetKind, id uint64, action model.TakedownAction, note string, fromReport bool) error {
	policy, err := policyFor(kind)
	if err != nil {
		return err
	}
	if action != model.ActionHide && action != model.ActionRemove {
		return ErrParamInvalid
	}

	var item model.ContentItem
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := policy.load(ctx, tx, id); err != nil {
			return err
		}
		now := s.clock.Now()
		ok, err := policy.transit(ctx, tx, id, []model.ContentStatus{model.StatusPublished}, action.TargetStatus(), now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		if err := tx.Actions().CreateAction(ctx, &model.ModerationAction{
			TargetKind:  kind,
			TargetID:    id,
			ModeratorID: moderatorID,
			Action:      action,
			Note:        note,
			FromReport:  fromReport,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		if fromReport {
			if err := s.stats.IncrementReportHandled(ctx, tx, moderatorID); err != nil {
				return err
			}
		}
		item, err = policy.load(ctx, tx, id)
		return err
	})
	if err != nil {
		if IsExpected(err) {
			log.InfoContext(ctx, "下架未生效", "kind", kind, "id", id, "err", err)
		} else {
			log.ErrorContext(ctx, "下架失败", "kind", kind, "id", id, "err", err)
		}
		return err
	}

	log.InfoContext(ctx, "内容已下架", "kind", kind, "id", id, "action", action, "moderator_id", moderatorID)
	s.effects.TakenDown(ctx, item, action, note)
	return nil
}

// GetHistory 按轮次返回对象的全部审核记录，作者只能查看自己的内容
func (s *moderationServiceImpl) GetHistory(ctx context.Context, viewer *Viewer, kind model.TargetKind, id uint64) ([]*model.ReviewRecord, error) {
	policy, err := policyFor(kind)
	if err != nil {
		return nil, err
	}
	item, err := policy.load(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	if viewer != nil && !viewer.Moderator && viewer.UserID != item.GetAuthorID() {
		return nil, UnauthorizedError
	}
	return s.store.Reviews().ListByTarget(ctx, kind, id)
}

// ListQueue 审核队列，默认只看待人工处理的记录
func (s *moderationServiceImpl) ListQueue(ctx context.Context, filter *repository.QueueFilter) ([]*model.ReviewRecord, error) {
	f := repository.QueueFilter{}
	if filter != nil {
		f = *filter
	}
	if f.Status == "" {
		f.Status = model.ReviewPending
	}
	switch f.Status {
	case model.ReviewPending, model.ReviewApproved, model.ReviewRejected:
	default:
		return nil, ErrParamInvalid
	}
	if f.Kind != "" && !f.Kind.Valid() {
		return nil, ErrParamInvalid
	}
	if f.PageSize <= 0 {
		f.PageSize = consts.DefaultPageSize
	}
	if f.PageSize > consts.MaxPageSize {
		f.PageSize = consts.MaxPageSize
	}
	return s.store.Reviews().ListQueue(ctx, &f)
}

// RescreenStale 补评长时间没有拿到 AI 分数的记录，返回成功处理的条数
func (s *moderationServiceImpl) RescreenStale(ctx context.Context) (int, error) {
	before := s.clock.Now().Add(-s.screening.StaleAfter())
	limit := s.screening.RescreenBatch
	if limit <= 0 {
		limit = consts.MaxPageSize
	}
	records, err := s.store.Reviews().ListUnscreened(ctx, before, limit)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, record := range records {
		if ctx.Err() != nil {
			return done, ctx.Err()
		}
		if err := s.Screen(ctx, record.ID); err != nil {
			log.WarnContext(ctx, "补评失败", "record_id", record.ID, "err", err)
			continue
		}
		done++
	}
	return done, nil
}

func (s *moderationServiceImpl) QueueSizes(ctx context.Context) (map[model.TargetKind]int64, error) {
	sizes := make(map[model.TargetKind]int64, 2)
	for _, kind := range []model.TargetKind{model.KindStory, model.KindChapter} {
		n, err := s.store.Reviews().CountQueued(ctx, kind)
		if err != nil {
			return nil, err
		}
		sizes[kind] = n
	}
	return sizes, nil
}

func isBusinessError(err error) bool {
	_, ok := LookupCode(err)
	return ok
}

// IsScreeningSettled 预审消息无需重试的错误
func IsScreeningSettled(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable) ||
		errors.Is(err, ErrReviewNotFound) ||
		errors.Is(err, ErrReviewStale) ||
		errors.Is(err, ErrStoryNotFound) ||
		errors.Is(err, ErrChapterNotFound)
}
