package handler

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type StoryHandler struct {
	storySvc      service.StoryService
	moderationSvc service.ModerationService
}

func NewStoryHandler(storySvc service.StoryService, moderationSvc service.ModerationService) *StoryHandler {
	return &StoryHandler{
		storySvc:      storySvc,
		moderationSvc: moderationSvc,
	}
}

func (s *StoryHandler) CreateStory(c *gin.Context) {
	userID := c.GetUint64(consts.UserIDKey)

	var req dto.StoryBaseDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	story, err := s.storySvc.CreateStory(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, story)
}

func (s *StoryHandler) UpdateStory(c *gin.Context) {
	userID := c.GetUint64(consts.UserIDKey)
	storyID, err := pathID(c, "story_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.StoryBaseDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	story, err := s.storySvc.UpdateStory(c.Request.Context(), userID, storyID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, story)
}

// SubmitStory 提交或被拒后重新提交
func (s *StoryHandler) SubmitStory(c *gin.Context) {
	userID := c.GetUint64(consts.UserIDKey)
	storyID, err := pathID(c, "story_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	record, err := s.moderationSvc.Submit(c.Request.Context(), userID, model.KindStory, storyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, service.ToReviewRecordDTO(record))
}

func (s *StoryHandler) CompleteStory(c *gin.Context) {
	userID := c.GetUint64(consts.UserIDKey)
	storyID, err := pathID(c, "story_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := s.storySvc.MarkComplete(c.Request.Context(), userID, storyID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *StoryHandler) GetStory(c *gin.Context) {
	storyID, err := pathID(c, "story_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	story, err := s.storySvc.GetStory(c.Request.Context(), viewerOf(c), storyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, story)
}

func (s *StoryHandler) ListMyStories(c *gin.Context) {
	userID := c.GetUint64(consts.UserIDKey)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(consts.DefaultPageSize)))

	list, err := s.storySvc.ListMyStories(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// GetStoryReviews 作品的审核历史
func (s *StoryHandler) GetStoryReviews(c *gin.Context) {
	storyID, err := pathID(c, "story_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	records, err := s.moderationSvc.GetHistory(c.Request.Context(), viewerOf(c), model.KindStory, storyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, service.ToReviewRecordDTOs(records))
}
