package handler

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/repository"
	"Inkwell/internal/service"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModeration struct {
	service.ModerationService

	submitErr  error
	submitted  []uint64
	decided    []bool
	decideNote string
	queue      []*model.ReviewRecord
	filter     *repository.QueueFilter
	takedowns  []model.TakedownAction
	historyFor *service.Viewer
}

func (s *stubModeration) Submit(_ context.Context, authorID uint64, kind model.TargetKind, id uint64) (*model.ReviewRecord, error) {
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	s.submitted = append(s.submitted, id)
	return &model.ReviewRecord{ID: 7, TargetKind: kind, TargetID: id, AuthorID: authorID, Round: 1, Status: model.ReviewPending}, nil
}

func (s *stubModeration) Decide(_ context.Context, moderatorID uint64, recordID uint64, approve bool, note string) (*model.ReviewRecord, error) {
	s.decided = append(s.decided, approve)
	s.decideNote = note
	status := model.ReviewRejected
	if approve {
		status = model.ReviewApproved
	}
	return &model.ReviewRecord{ID: recordID, ModeratorID: &moderatorID, Status: status}, nil
}

func (s *stubModeration) ListQueue(_ context.Context, filter *repository.QueueFilter) ([]*model.ReviewRecord, error) {
	s.filter = filter
	return s.queue, nil
}

func (s *stubModeration) Takedown(_ context.Context, _ uint64, _ model.TargetKind, _ uint64, action model.TakedownAction, _ string, _ bool) error {
	s.takedowns = append(s.takedowns, action)
	return nil
}

func (s *stubModeration) GetHistory(_ context.Context, viewer *service.Viewer, _ model.TargetKind, _ uint64) ([]*model.ReviewRecord, error) {
	s.historyFor = viewer
	return nil, nil
}

type stubStats struct {
	service.ModeratorStatsService
}

func (stubStats) GetStats(_ context.Context, moderatorID uint64) (*dto.ModeratorStatsDTO, error) {
	return &dto.ModeratorStatsDTO{ModeratorID: moderatorID, TotalApprovedStories: 3}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

// identity 模拟鉴权中间件注入的身份
func identity(userID uint64, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(consts.UserIDKey, userID)
		c.Set(consts.RolesKey, roles)
		c.Next()
	}
}

func newTestRouter(mod *stubModeration, userID uint64, roles ...string) *gin.Engine {
	r := gin.New()
	r.Use(identity(userID, roles...))
	stories := NewStoryHandler(nil, mod)
	moderation := NewModerationHandler(mod, stubStats{})
	r.POST("/stories/:story_id/submit", stories.SubmitStory)
	r.GET("/stories/:story_id/reviews", stories.GetStoryReviews)
	r.GET("/moderation/queue", moderation.GetQueue)
	r.POST("/moderation/reviews/:review_id/decision", moderation.Decide)
	r.POST("/moderation/takedown", moderation.Takedown)
	r.GET("/moderation/stats", moderation.GetStats)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body any) dto.Response {
	t.Helper()
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	return doRawRequest(t, r, method, path, raw)
}

// doRawRequest 原样发送请求体，用于构造非法 JSON
func doRawRequest(t *testing.T, r *gin.Engine, method, path string, raw []byte) dto.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSubmitStory(t *testing.T) {
	mod := &stubModeration{}
	r := newTestRouter(mod, 1, consts.RoleAuthor)

	resp := doRequest(t, r, http.MethodPost, "/stories/42/submit", nil)
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, []uint64{42}, mod.submitted)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "story", data["target_kind"])
}

func TestSubmitStory_BadID(t *testing.T) {
	mod := &stubModeration{}
	r := newTestRouter(mod, 1, consts.RoleAuthor)

	resp := doRequest(t, r, http.MethodPost, "/stories/abc/submit", nil)
	assert.Equal(t, 400, resp.Code)
	assert.Empty(t, mod.submitted)
}

func TestSubmitStory_GateDenied(t *testing.T) {
	retry := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	mod := &stubModeration{submitErr: &service.GateDeniedError{Reason: service.ReasonCooldown, RetryAfter: &retry}}
	r := newTestRouter(mod, 1, consts.RoleAuthor)

	resp := doRequest(t, r, http.MethodPost, "/stories/42/submit", nil)
	assert.Equal(t, 429, resp.Code)
	data := resp.Data.(map[string]any)
	assert.Equal(t, service.ReasonCooldown, data["reason"])
	assert.NotEmpty(t, data["retry_after"])
}

func TestSubmitStory_Conflict(t *testing.T) {
	mod := &stubModeration{submitErr: service.ErrInvalidTransition}
	r := newTestRouter(mod, 1, consts.RoleAuthor)

	resp := doRequest(t, r, http.MethodPost, "/stories/42/submit", nil)
	assert.Equal(t, 409, resp.Code)
}

func TestDecide(t *testing.T) {
	mod := &stubModeration{}
	r := newTestRouter(mod, 9, consts.RoleContentMod)

	resp := doRequest(t, r, http.MethodPost, "/moderation/reviews/5/decision", gin.H{"verdict": "reject", "note": "涉及违规内容"})
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, []bool{false}, mod.decided)
	assert.Equal(t, "涉及违规内容", mod.decideNote)

	resp = doRequest(t, r, http.MethodPost, "/moderation/reviews/5/decision", gin.H{"verdict": "maybe"})
	assert.Equal(t, 400, resp.Code)
	assert.Len(t, mod.decided, 1)
}

func TestDecide_MalformedBody(t *testing.T) {
	mod := &stubModeration{}
	r := newTestRouter(mod, 9, consts.RoleContentMod)

	bodies := map[string]string{
		"truncated":  `{`,
		"empty":      ``,
		"wrong type": `{"verdict":5}`,
		"not object": `[1,2]`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			resp := doRawRequest(t, r, http.MethodPost, "/moderation/reviews/5/decision", []byte(body))
			assert.Equal(t, 400, resp.Code)
		})
	}
	assert.Empty(t, mod.decided)
}

func TestTakedown_MalformedBody(t *testing.T) {
	mod := &stubModeration{}
	r := newTestRouter(mod, 9, consts.RoleOpsMod)

	resp := doRawRequest(t, r, http.MethodPost, "/moderation/takedown", []byte(`{"target_id":"x"`))
	assert.Equal(t, 400, resp.Code)
	assert.Empty(t, mod.takedowns)
}

func TestGetQueue_Cursor(t *testing.T) {
	mod := &stubModeration{queue: []*model.ReviewRecord{
		{ID: 11, TargetKind: model.KindStory, Status: model.ReviewPending},
		{ID: 12, TargetKind: model.KindChapter, Status: model.ReviewPending},
	}}
	r := newTestRouter(mod, 9, consts.RoleContentMod)

	resp := doRequest(t, r, http.MethodGet, "/moderation/queue?kind=chapter&last_id=10&page_size=2", nil)
	assert.Equal(t, 200, resp.Code)
	require.NotNil(t, mod.filter)
	assert.Equal(t, model.KindChapter, mod.filter.Kind)
	assert.Equal(t, uint64(10), mod.filter.LastID)

	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(12), data["last_id"])
	assert.Equal(t, true, data["has_more"])
	assert.Len(t, data["records"], 2)
}

func TestTakedown(t *testing.T) {
	mod := &stubModeration{}
	r := newTestRouter(mod, 9, consts.RoleOpsMod)

	resp := doRequest(t, r, http.MethodPost, "/moderation/takedown", gin.H{"kind": "chapter", "target_id": 3, "action": "hide"})
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, []model.TakedownAction{model.ActionHide}, mod.takedowns)

	resp = doRequest(t, r, http.MethodPost, "/moderation/takedown", gin.H{"kind": "chapter", "target_id": 3, "action": "burn"})
	assert.Equal(t, 400, resp.Code)
	assert.Len(t, mod.takedowns, 1)
}

func TestGetStats(t *testing.T) {
	r := newTestRouter(&stubModeration{}, 9, consts.RoleContentMod)

	resp := doRequest(t, r, http.MethodGet, "/moderation/stats", nil)
	assert.Equal(t, 200, resp.Code)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(9), data["moderator_id"])
	assert.Equal(t, float64(3), data["total_approved_stories"])
}

func TestViewerOf_ModeratorRoles(t *testing.T) {
	mod := &stubModeration{}
	r := newTestRouter(mod, 9, consts.RoleOpsMod)
	doRequest(t, r, http.MethodGet, "/stories/1/reviews", nil)
	require.NotNil(t, mod.historyFor)
	assert.True(t, mod.historyFor.Moderator)

	r = newTestRouter(mod, 1, consts.RoleAuthor)
	doRequest(t, r, http.MethodGet, "/stories/1/reviews", nil)
	assert.False(t, mod.historyFor.Moderator)
	assert.Equal(t, uint64(1), mod.historyFor.UserID)
}
