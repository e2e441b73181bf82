package handler

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/service"

	"github.com/gin-gonic/gin"
)

type ChapterHandler struct {
	chapterSvc    service.ChapterService
	moderationSvc service.ModerationService
}

func NewChapterHandler(chapterSvc service.ChapterService, moderationSvc service.ModerationService) *ChapterHandler {
	return &ChapterHandler{
		chapterSvc:    chapterSvc,
		moderationSvc: moderationSvc,
	}
}

func (s *ChapterHandler) CreateChapter(c *gin.Context) {
	userID := c.GetUint64(consts.UserIDKey)
	storyID, err := pathID(c, "story_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.ChapterBaseDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	chapter, err := s.chapterSvc.CreateChapter(c.Request.Context(), userID, storyID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, chapter)
}

func (s *ChapterHandler) UpdateChapter(c *gin.Context) {
	userID := c.GetUint64(consts.UserIDKey)
	chapterID, err := pathID(c, "chapter_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.ChapterBaseDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	chapter, err := s.chapterSvc.UpdateChapter(c.Request.Context(), userID, chapterID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, chapter)
}

func (s *ChapterHandler) SubmitChapter(c *gin.Context) {
	userID := c.GetUint64(consts.UserIDKey)
	chapterID, err := pathID(c, "chapter_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	record, err := s.moderationSvc.Submit(c.Request.Context(), userID, model.KindChapter, chapterID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, service.ToReviewRecordDTO(record))
}

func (s *ChapterHandler) GetChapter(c *gin.Context) {
	chapterID, err := pathID(c, "chapter_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	chapter, err := s.chapterSvc.GetChapter(c.Request.Context(), viewerOf(c), chapterID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, chapter)
}

func (s *ChapterHandler) ListChapters(c *gin.Context) {
	storyID, err := pathID(c, "story_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	chapters, err := s.chapterSvc.ListChapters(c.Request.Context(), viewerOf(c), storyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, chapters)
}

func (s *ChapterHandler) GetChapterReviews(c *gin.Context) {
	chapterID, err := pathID(c, "chapter_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	records, err := s.moderationSvc.GetHistory(c.Request.Context(), viewerOf(c), model.KindChapter, chapterID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, service.ToReviewRecordDTOs(records))
}
