package service

import (
	"Inkwell/internal/api/config"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/llm"
	"Inkwell/internal/pkg/processor"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	onNow func()
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	now, hook := c.now, c.onNow
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
	return now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeScreener 按顺序返回预设结果
type fakeScreener struct {
	mu      sync.Mutex
	results []*processor.ScreenResult
	errs    []error
	calls   int
}

func scoreOf(score float64) *processor.ScreenResult {
	return &processor.ScreenResult{
		Verdict: processor.MapVerdict(score, false),
		Score:   score,
		Note:    "ai note",
	}
}

func (f *fakeScreener) Screen(_ context.Context, _ *llm.ScoreRequest) (*processor.ScreenResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.results) {
		return f.results[i], nil
	}
	if len(f.results) > 0 {
		return f.results[len(f.results)-1], nil
	}
	return nil, errors.New("scorer down")
}

type lifecycleCall struct {
	Kind  model.TargetKind
	ID    uint64
	Event string
}

type fakePublisher struct {
	mu          sync.Mutex
	dispatched  []uint64
	published   []uint64
	lifecycle   []lifecycleCall
	dispatchErr error
}

func (f *fakePublisher) DispatchScreening(_ context.Context, record *model.ReviewRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dispatched = append(f.dispatched, record.ID)
	return f.dispatchErr
}

func (f *fakePublisher) PublishContentPublished(_ context.Context, item model.ContentItem, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, item.GetID())
	return nil
}

func (f *fakePublisher) PublishLifecycle(_ context.Context, kind model.TargetKind, id uint64, _ uint64, event string, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lifecycle = append(f.lifecycle, lifecycleCall{Kind: kind, ID: id, Event: event})
	return nil
}

type notifyCall struct {
	Event string
	Kind  model.TargetKind
	ID    uint64
	Note  string
}

type fakeNotifier struct {
	mu        sync.Mutex
	author    []notifyCall
	followers []uint64
	err       error
}

func (f *fakeNotifier) NotifyAuthor(_ context.Context, event string, item model.ContentItem, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.author = append(f.author, notifyCall{Event: event, Kind: item.Kind(), ID: item.GetID(), Note: note})
	return f.err
}

func (f *fakeNotifier) NotifyFollowers(_ context.Context, item model.ContentItem, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followers = append(f.followers, item.GetID())
	return f.err
}

func (f *fakeNotifier) authorCalls() []notifyCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notifyCall(nil), f.author...)
}

type fakeIndexer struct {
	mu      sync.Mutex
	indexed []uint64
	deleted []uint64
}

func (f *fakeIndexer) IndexStory(_ context.Context, story *model.Story) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed = append(f.indexed, story.ID)
	return nil
}

func (f *fakeIndexer) DeleteStory(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCounter struct {
	mu      sync.Mutex
	inited  []uint64
	dropped []uint64
}

func (f *fakeCounter) InitViewCounter(_ context.Context, _ model.TargetKind, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inited = append(f.inited, id)
	return nil
}

func (f *fakeCounter) DropViewCounter(_ context.Context, _ model.TargetKind, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropped = append(f.dropped, id)
	return nil
}

type fakeContents struct {
	mu     sync.Mutex
	blobs  map[string]string
	getErr error
}

func newFakeContents() *fakeContents {
	return &fakeContents{blobs: map[string]string{}}
}

func (f *fakeContents) PutContent(_ context.Context, key string, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[key] = body
	return nil
}

func (f *fakeContents) GetContent(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", f.getErr
	}
	body, ok := f.blobs[key]
	if !ok {
		return "", errors.New("no such key")
	}
	return body, nil
}

func (f *fakeContents) DeleteContent(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blobs, key)
	return nil
}

// harness 组装审核引擎的全部依赖
type harness struct {
	store     *memStore
	clock     *fakeClock
	screener  *fakeScreener
	publisher *fakePublisher
	notifier  *fakeNotifier
	indexer   *fakeIndexer
	counter   *fakeCounter
	contents  *fakeContents
	effects   *AsyncEffects
	mod       ModerationService
	stories   StoryService
	chapters  ChapterService
	stats     ModeratorStatsService
}

func newHarness(t *testing.T, opts ...func(cfg *config.ModerationConfig)) *harness {
	t.Helper()
	h := &harness{
		store:     newMemStore(),
		clock:     newFakeClock(),
		screener:  &fakeScreener{},
		publisher: &fakePublisher{},
		notifier:  &fakeNotifier{},
		indexer:   &fakeIndexer{},
		counter:   &fakeCounter{},
		contents:  newFakeContents(),
	}
	cfg := config.ModerationConfig{
		StoryCooldownHours:   24,
		ChapterCooldownHours: 24,
		Screening: config.ScreeningConfig{
			MaxAttempts:           2,
			AttemptTimeoutSeconds: 1,
			BackoffMillis:         1,
			StaleAfterMinutes:     10,
			RescreenBatch:         10,
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	h.effects = NewEffects(h.indexer, h.counter, h.publisher, h.notifier, h.clock)
	h.stats = NewModeratorStatsService(h.store)
	h.mod = NewModerationService(h.store, NewSubmissionGate(cfg, h.clock), h.screener, h.stats, h.effects,
		h.publisher, h.contents, h.clock, cfg.Screening)
	h.stories = NewStoryService(h.store, h.publisher, h.clock)
	h.chapters = NewChapterService(h.store, h.contents, h.clock)
	return h
}

// seedStory 直接写入指定状态的作品
func (h *harness) seedStory(t *testing.T, authorID uint64, status model.ContentStatus) *model.Story {
	t.Helper()
	story := &model.Story{AuthorID: authorID, Title: "长夜", Synopsis: "一个关于守夜人的故事", Language: "zh", Status: status}
	require.NoError(t, h.store.Stories().CreateStory(context.Background(), story))
	return story
}

func (h *harness) seedChapter(t *testing.T, story *model.Story, status model.ContentStatus) *model.Chapter {
	t.Helper()
	ctx := context.Background()
	no, err := h.store.Chapters().MaxChapterNo(ctx, story.ID)
	require.NoError(t, err)
	key := contentKey(story.ID)
	require.NoError(t, h.contents.PutContent(ctx, key, "夜色很深。"))
	chapter := &model.Chapter{
		StoryID:    story.ID,
		AuthorID:   story.AuthorID,
		ChapterNo:  no + 1,
		Title:      "第一夜",
		ContentKey: key,
		Status:     status,
	}
	require.NoError(t, h.store.Chapters().CreateChapter(ctx, chapter))
	return chapter
}

func (h *harness) story(t *testing.T, id uint64) *model.Story {
	t.Helper()
	s, err := h.store.Stories().GetStory(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}

func (h *harness) chapter(t *testing.T, id uint64) *model.Chapter {
	t.Helper()
	c, err := h.store.Chapters().GetChapter(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}

func (h *harness) review(t *testing.T, id uint64) *model.ReviewRecord {
	t.Helper()
	r, err := h.store.Reviews().GetReview(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, r)
	return r
}
