package handler

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/repository"
	"Inkwell/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	moderationSvc service.ModerationService
	statsSvc      service.ModeratorStatsService
}

func NewModerationHandler(moderationSvc service.ModerationService, statsSvc service.ModeratorStatsService) *ModerationHandler {
	return &ModerationHandler{
		moderationSvc: moderationSvc,
		statsSvc:      statsSvc,
	}
}

// GetQueue 审核队列，按 id 游标翻页
func (s *ModerationHandler) GetQueue(c *gin.Context) {
	lastID, _ := strconv.ParseUint(c.DefaultQuery("last_id", "0"), 10, 64)
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(consts.DefaultPageSize)))
	if pageSize <= 0 {
		pageSize = consts.DefaultPageSize
	}
	pageSize = min(pageSize, consts.MaxPageSize)

	filter := &repository.QueueFilter{
		Kind:     model.TargetKind(c.Query("kind")),
		Status:   model.ReviewStatus(c.Query("status")),
		LastID:   lastID,
		PageSize: pageSize,
	}
	records, err := s.moderationSvc.ListQueue(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := &dto.ReviewQueueDTO{Records: service.ToReviewRecordDTOs(records), LastID: lastID}
	if n := len(records); n > 0 {
		out.LastID = records[n-1].ID
		out.HasMore = n >= pageSize
	}
	response.Success(c, out)
}

func (s *ModerationHandler) Decide(c *gin.Context) {
	moderatorID := c.GetUint64(consts.UserIDKey)
	reviewID, err := pathID(c, "review_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.DecisionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, service.ErrInvalidVerdict)
		return
	}

	record, err := s.moderationSvc.Decide(c.Request.Context(), moderatorID, reviewID, req.Verdict == "approve", req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, service.ToReviewRecordDTO(record))
}

func (s *ModerationHandler) Takedown(c *gin.Context) {
	moderatorID := c.GetUint64(consts.UserIDKey)

	var req dto.TakedownDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	err := s.moderationSvc.Takedown(c.Request.Context(), moderatorID, model.TargetKind(req.Kind), req.TargetID,
		model.TakedownAction(req.Action), req.Note, req.FromReport)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetStats 当前审核员的工作量
func (s *ModerationHandler) GetStats(c *gin.Context) {
	moderatorID := c.GetUint64(consts.UserIDKey)

	stats, err := s.statsSvc.GetStats(c.Request.Context(), moderatorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}
