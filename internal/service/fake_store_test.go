package service

import (
	"Inkwell/internal/model"
	"Inkwell/internal/repository"
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// memData 内存版数据库，Transaction 时整体快照用于回滚
type memData struct {
	nextID   uint64
	stories  map[uint64]*model.Story
	chapters map[uint64]*model.Chapter
	reviews  map[uint64]*model.ReviewRecord
	authors  map[uint64]*model.Author
	stats    map[uint64]*model.ModeratorStats
	actions  []*model.ModerationAction
}

func newMemData() *memData {
	return &memData{
		stories:  map[uint64]*model.Story{},
		chapters: map[uint64]*model.Chapter{},
		reviews:  map[uint64]*model.ReviewRecord{},
		authors:  map[uint64]*model.Author{},
		stats:    map[uint64]*model.ModeratorStats{},
	}
}

func (d *memData) id() uint64 {
	d.nextID++
	return d.nextID
}

func (d *memData) clone() *memData {
	c := newMemData()
	c.nextID = d.nextID
	for k, v := range d.stories {
		cp := *v
		c.stories[k] = &cp
	}
	for k, v := range d.chapters {
		cp := *v
		c.chapters[k] = &cp
	}
	for k, v := range d.reviews {
		c.reviews[k] = copyReview(v)
	}
	for k, v := range d.authors {
		cp := *v
		c.authors[k] = &cp
	}
	for k, v := range d.stats {
		cp := *v
		c.stats[k] = &cp
	}
	for _, v := range d.actions {
		cp := *v
		c.actions = append(c.actions, &cp)
	}
	return c
}

func copyReview(r *model.ReviewRecord) *model.ReviewRecord {
	cp := *r
	if r.AIScore != nil {
		v := *r.AIScore
		cp.AIScore = &v
	}
	if r.ModeratorID != nil {
		v := *r.ModeratorID
		cp.ModeratorID = &v
	}
	if r.QueuedAt != nil {
		v := *r.QueuedAt
		cp.QueuedAt = &v
	}
	if r.DecidedAt != nil {
		v := *r.DecidedAt
		cp.DecidedAt = &v
	}
	return &cp
}

type memState struct {
	mu   sync.Mutex
	data *memData
	// 注入故障：仓储方法名 -> 错误
	failures map[string]error
}

// memStore 事务期间持有全局锁，模拟行锁串行化
type memStore struct {
	state *memState
	inTx  bool
}

func newMemStore() *memStore {
	return &memStore{state: &memState{data: newMemData(), failures: map[string]error{}}}
}

func (s *memStore) fail(op string, err error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	s.state.failures[op] = err
}

func (s *memStore) with(op string, fn func(d *memData) error) error {
	if !s.inTx {
		s.state.mu.Lock()
		defer s.state.mu.Unlock()
	}
	if err := s.state.failures[op]; err != nil {
		return err
	}
	return fn(s.state.data)
}

// snapshot 测试读取数据时使用
func (s *memStore) snapshot() *memData {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return s.state.data.clone()
}

func (s *memStore) Stories() repository.StoryRepo                 { return &memStoryRepo{s} }
func (s *memStore) Chapters() repository.ChapterRepo              { return &memChapterRepo{s} }
func (s *memStore) Reviews() repository.ReviewRepo                { return &memReviewRepo{s} }
func (s *memStore) Authors() repository.AuthorRepo                { return &memAuthorRepo{s} }
func (s *memStore) ModeratorStats() repository.ModeratorStatsRepo { return &memStatsRepo{s} }
func (s *memStore) Actions() repository.ModerationActionRepo      { return &memActionRepo{s} }

func (s *memStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	backup := s.state.data.clone()
	err := fn(&memStore{state: s.state, inTx: true})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.state.data = backup
	}
	return err
}

type memStoryRepo struct{ s *memStore }

func (r *memStoryRepo) CreateStory(_ context.Context, story *model.Story) error {
	return r.s.with("CreateStory", func(d *memData) error {
		story.ID = d.id()
		cp := *story
		d.stories[story.ID] = &cp
		return nil
	})
}

func (r *memStoryRepo) GetStory(_ context.Context, id uint64) (*model.Story, error) {
	var out *model.Story
	err := r.s.with("GetStory", func(d *memData) error {
		if v, ok := d.stories[id]; ok {
			cp := *v
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *memStoryRepo) LockStory(ctx context.Context, id uint64) (*model.Story, error) {
	return r.GetStory(ctx, id)
}

func (r *memStoryRepo) UpdateStoryContent(_ context.Context, story *model.Story) error {
	return r.s.with("UpdateStoryContent", func(d *memData) error {
		if v, ok := d.stories[story.ID]; ok {
			v.Title = story.Title
			v.Synopsis = story.Synopsis
			v.Language = story.Language
			v.CoverURL = story.CoverURL
		}
		return nil
	})
}

func applyTransit(status *model.ContentStatus, submittedAt, publishedAt **time.Time, updatedAt *time.Time, to model.ContentStatus, at time.Time) {
	*status = to
	*updatedAt = at
	switch to {
	case model.StatusPending:
		*submittedAt = &at
	case model.StatusPublished:
		*publishedAt = &at
	}
}

func (r *memStoryRepo) TransitStatus(_ context.Context, id uint64, from []model.ContentStatus, to model.ContentStatus, at time.Time) (bool, error) {
	var ok bool
	err := r.s.with("StoryTransitStatus", func(d *memData) error {
		v, found := d.stories[id]
		if !found || !containsStatus(from, v.Status) {
			return nil
		}
		applyTransit(&v.Status, &v.SubmittedAt, &v.PublishedAt, &v.UpdatedAt, to, at)
		ok = true
		return nil
	})
	return ok, err
}

func (r *memStoryRepo) CountByAuthorStatus(_ context.Context, authorID uint64, status model.ContentStatus, excludeID uint64) (int64, error) {
	var n int64
	err := r.s.with("CountByAuthorStatus", func(d *memData) error {
		for _, v := range d.stories {
			if v.AuthorID == authorID && v.Status == status && v.ID != excludeID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *memStoryRepo) CountActivePublished(_ context.Context, authorID uint64, excludeID uint64) (int64, error) {
	var n int64
	err := r.s.with("CountActivePublished", func(d *memData) error {
		for _, v := range d.stories {
			if v.AuthorID == authorID && v.Status == model.StatusPublished && !v.IsCompleted && v.ID != excludeID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *memStoryRepo) MarkCompleted(_ context.Context, id uint64, at time.Time) (bool, error) {
	var ok bool
	err := r.s.with("MarkCompleted", func(d *memData) error {
		v, found := d.stories[id]
		if !found || v.Status != model.StatusPublished || v.IsCompleted {
			return nil
		}
		v.IsCompleted = true
		v.CompletedAt = &at
		ok = true
		return nil
	})
	return ok, err
}

func (r *memStoryRepo) ListByAuthor(_ context.Context, authorID uint64, offset, limit int) ([]*model.Story, error) {
	out := make([]*model.Story, 0)
	err := r.s.with("ListByAuthor", func(d *memData) error {
		for _, v := range d.stories {
			if v.AuthorID == authorID {
				cp := *v
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if offset >= len(out) {
		return []*model.Story{}, err
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

type memChapterRepo struct{ s *memStore }

func (r *memChapterRepo) CreateChapter(_ context.Context, chapter *model.Chapter) error {
	return r.s.with("CreateChapter", func(d *memData) error {
		for _, v := range d.chapters {
			if v.StoryID == chapter.StoryID && v.ChapterNo == chapter.ChapterNo {
				return errors.New("duplicate chapter_no")
			}
		}
		chapter.ID = d.id()
		cp := *chapter
		d.chapters[chapter.ID] = &cp
		return nil
	})
}

func (r *memChapterRepo) GetChapter(_ context.Context, id uint64) (*model.Chapter, error) {
	var out *model.Chapter
	err := r.s.with("GetChapter", func(d *memData) error {
		if v, ok := d.chapters[id]; ok {
			cp := *v
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *memChapterRepo) UpdateChapterContent(_ context.Context, chapter *model.Chapter) error {
	return r.s.with("UpdateChapterContent", func(d *memData) error {
		if v, ok := d.chapters[chapter.ID]; ok {
			v.Title = chapter.Title
			v.ContentKey = chapter.ContentKey
			v.WordCount = chapter.WordCount
			v.IsPaid = chapter.IsPaid
			v.Price = chapter.Price
		}
		return nil
	})
}

func (r *memChapterRepo) TransitStatus(_ context.Context, id uint64, from []model.ContentStatus, to model.ContentStatus, at time.Time) (bool, error) {
	var ok bool
	err := r.s.with("ChapterTransitStatus", func(d *memData) error {
		v, found := d.chapters[id]
		if !found || !containsStatus(from, v.Status) {
			return nil
		}
		applyTransit(&v.Status, &v.SubmittedAt, &v.PublishedAt, &v.UpdatedAt, to, at)
		ok = true
		return nil
	})
	return ok, err
}

func (r *memChapterRepo) CountByStoryStatus(_ context.Context, storyID uint64, status model.ContentStatus, excludeID uint64) (int64, error) {
	var n int64
	err := r.s.with("CountByStoryStatus", func(d *memData) error {
		for _, v := range d.chapters {
			if v.StoryID == storyID && v.Status == status && v.ID != excludeID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *memChapterRepo) MaxChapterNo(_ context.Context, storyID uint64) (int, error) {
	var maxNo int
	err := r.s.with("MaxChapterNo", func(d *memData) error {
		for _, v := range d.chapters {
			if v.StoryID == storyID && v.ChapterNo > maxNo {
				maxNo = v.ChapterNo
			}
		}
		return nil
	})
	return maxNo, err
}

func (r *memChapterRepo) ListByStory(_ context.Context, storyID uint64, statuses []model.ContentStatus) ([]*model.Chapter, error) {
	out := make([]*model.Chapter, 0)
	err := r.s.with("ListByStory", func(d *memData) error {
		for _, v := range d.chapters {
			if v.StoryID != storyID {
				continue
			}
			if len(statuses) > 0 && !containsStatus(statuses, v.Status) {
				continue
			}
			cp := *v
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ChapterNo < out[j].ChapterNo })
	return out, err
}

type memReviewRepo struct{ s *memStore }

func (r *memReviewRepo) CreateReview(_ context.Context, record *model.ReviewRecord) error {
	return r.s.with("CreateReview", func(d *memData) error {
		record.ID = d.id()
		d.reviews[record.ID] = copyReview(record)
		return nil
	})
}

func (r *memReviewRepo) GetReview(_ context.Context, id uint64) (*model.ReviewRecord, error) {
	var out *model.ReviewRecord
	err := r.s.with("GetReview", func(d *memData) error {
		if v, ok := d.reviews[id]; ok {
			out = copyReview(v)
		}
		return nil
	})
	return out, err
}

func (r *memReviewRepo) LockReview(ctx context.Context, id uint64) (*model.ReviewRecord, error) {
	return r.GetReview(ctx, id)
}

// pick 按 id 倒序取第一条满足条件的记录
func (r *memReviewRepo) pick(op string, match func(v *model.ReviewRecord) bool) (*model.ReviewRecord, error) {
	var out *model.ReviewRecord
	err := r.s.with(op, func(d *memData) error {
		for _, v := range d.reviews {
			if match(v) && (out == nil || v.ID > out.ID) {
				out = v
			}
		}
		if out != nil {
			out = copyReview(out)
		}
		return nil
	})
	return out, err
}

func (r *memReviewRepo) GetLatest(_ context.Context, kind model.TargetKind, targetID uint64) (*model.ReviewRecord, error) {
	return r.pick("GetLatest", func(v *model.ReviewRecord) bool {
		return v.TargetKind == kind && v.TargetID == targetID
	})
}

func (r *memReviewRepo) GetLatestRejected(_ context.Context, kind model.TargetKind, targetID uint64) (*model.ReviewRecord, error) {
	return r.pick("GetLatestRejected", func(v *model.ReviewRecord) bool {
		return v.TargetKind == kind && v.TargetID == targetID && v.Status == model.ReviewRejected
	})
}

func (r *memReviewRepo) GetLatestRejectedByAuthor(_ context.Context, authorID uint64, kind model.TargetKind) (*model.ReviewRecord, error) {
	return r.pick("GetLatestRejectedByAuthor", func(v *model.ReviewRecord) bool {
		return v.AuthorID == authorID && v.TargetKind == kind && v.Status == model.ReviewRejected
	})
}

func (r *memReviewRepo) list(op string, match func(v *model.ReviewRecord) bool) ([]*model.ReviewRecord, error) {
	out := make([]*model.ReviewRecord, 0)
	err := r.s.with(op, func(d *memData) error {
		for _, v := range d.reviews {
			if match(v) {
				out = append(out, copyReview(v))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *memReviewRepo) ListByTarget(_ context.Context, kind model.TargetKind, targetID uint64) ([]*model.ReviewRecord, error) {
	return r.list("ListByTarget", func(v *model.ReviewRecord) bool {
		return v.TargetKind == kind && v.TargetID == targetID
	})
}

func (r *memReviewRepo) CountByTarget(ctx context.Context, kind model.TargetKind, targetID uint64) (int64, error) {
	list, err := r.ListByTarget(ctx, kind, targetID)
	return int64(len(list)), err
}

func (r *memReviewRepo) RecordScreening(_ context.Context, id uint64, update *repository.ScreeningUpdate) (bool, error) {
	var ok bool
	err := r.s.with("RecordScreening", func(d *memData) error {
		v, found := d.reviews[id]
		if !found || v.Status != model.ReviewPending {
			return nil
		}
		if update.Score != nil {
			score := *update.Score
			v.AIScore = &score
		}
		v.AINote = update.Note
		if update.Violations != nil {
			v.AIViolations = update.Violations
		}
		if update.QueuedAt != nil {
			at := *update.QueuedAt
			v.QueuedAt = &at
		}
		ok = true
		return nil
	})
	return ok, err
}

func (r *memReviewRepo) Resolve(_ context.Context, id uint64, res *repository.Resolution) (bool, error) {
	var ok bool
	err := r.s.with("Resolve", func(d *memData) error {
		v, found := d.reviews[id]
		if !found || v.Status != model.ReviewPending {
			return nil
		}
		v.Status = res.Status
		v.Source = res.Source
		at := res.DecidedAt
		v.DecidedAt = &at
		if res.ModeratorID != nil {
			mid := *res.ModeratorID
			v.ModeratorID = &mid
			v.ModeratorNote = res.ModeratorNote
		}
		if res.Score != nil {
			score := *res.Score
			v.AIScore = &score
			v.AINote = res.Note
		}
		if res.Violations != nil {
			v.AIViolations = res.Violations
		}
		ok = true
		return nil
	})
	return ok, err
}

func (r *memReviewRepo) ListQueue(_ context.Context, filter *repository.QueueFilter) ([]*model.ReviewRecord, error) {
	out, err := r.list("ListQueue", func(v *model.ReviewRecord) bool {
		if v.Status != filter.Status {
			return false
		}
		if filter.Status == model.ReviewPending && v.QueuedAt == nil {
			return false
		}
		if filter.Kind != "" && v.TargetKind != filter.Kind {
			return false
		}
		return v.ID > filter.LastID
	})
	if len(out) > filter.PageSize {
		out = out[:filter.PageSize]
	}
	return out, err
}

func (r *memReviewRepo) ListUnscreened(_ context.Context, before time.Time, limit int) ([]*model.ReviewRecord, error) {
	out, err := r.list("ListUnscreened", func(v *model.ReviewRecord) bool {
		return v.Status == model.ReviewPending && v.AIScore == nil && v.CreatedAt.Before(before)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].QueuedAt == nil && out[j].QueuedAt != nil })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *memReviewRepo) CountQueued(_ context.Context, kind model.TargetKind) (int64, error) {
	out, err := r.list("CountQueued", func(v *model.ReviewRecord) bool {
		return v.Status == model.ReviewPending && v.QueuedAt != nil && v.TargetKind == kind
	})
	return int64(len(out)), err
}

type memAuthorRepo struct{ s *memStore }

func (r *memAuthorRepo) GetAuthor(_ context.Context, id uint64) (*model.Author, error) {
	var out *model.Author
	err := r.s.with("GetAuthor", func(d *memData) error {
		if v, ok := d.authors[id]; ok {
			cp := *v
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *memAuthorRepo) LockAuthor(_ context.Context, id uint64) (*model.Author, error) {
	var out *model.Author
	err := r.s.with("LockAuthor", func(d *memData) error {
		v, ok := d.authors[id]
		if !ok {
			v = &model.Author{ID: id}
			d.authors[id] = v
		}
		cp := *v
		out = &cp
		return nil
	})
	return out, err
}

type memStatsRepo struct{ s *memStore }

func (r *memStatsRepo) Increment(_ context.Context, moderatorID uint64, column string) error {
	return r.s.with("Increment", func(d *memData) error {
		v, ok := d.stats[moderatorID]
		if !ok {
			v = &model.ModeratorStats{ModeratorID: moderatorID}
			d.stats[moderatorID] = v
		}
		switch column {
		case "total_approved_stories":
			v.TotalApprovedStories++
		case "total_rejected_stories":
			v.TotalRejectedStories++
		case "total_approved_chapters":
			v.TotalApprovedChapters++
		case "total_rejected_chapters":
			v.TotalRejectedChapters++
		case "total_reported_handled":
			v.TotalReportedHandled++
		default:
			return errors.New("unknown column " + column)
		}
		return nil
	})
}

func (r *memStatsRepo) GetStats(_ context.Context, moderatorID uint64) (*model.ModeratorStats, error) {
	var out *model.ModeratorStats
	err := r.s.with("GetStats", func(d *memData) error {
		if v, ok := d.stats[moderatorID]; ok {
			cp := *v
			out = &cp
		}
		return nil
	})
	return out, err
}

type memActionRepo struct{ s *memStore }

func (r *memActionRepo) CreateAction(_ context.Context, action *model.ModerationAction) error {
	return r.s.with("CreateAction", func(d *memData) error {
		action.ID = d.id()
		cp := *action
		d.actions = append(d.actions, &cp)
		return nil
	})
}

func (r *memActionRepo) ListByTarget(_ context.Context, kind model.TargetKind, targetID uint64) ([]*model.ModerationAction, error) {
	out := make([]*model.ModerationAction, 0)
	err := r.s.with("ListActions", func(d *memData) error {
		for _, v := range d.actions {
			if v.TargetKind == kind && v.TargetID == targetID {
				cp := *v
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}
