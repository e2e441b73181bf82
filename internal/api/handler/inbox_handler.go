package handler

import (
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type InboxHandler struct {
	inboxSvc service.InboxService
}

func NewInboxHandler(inboxSvc service.InboxService) *InboxHandler {
	return &InboxHandler{
		inboxSvc: inboxSvc,
	}
}

// GetInbox 通知列表
func (h *InboxHandler) GetInbox(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	userID := c.GetUint64(consts.UserIDKey)

	list, err := h.inboxSvc.ListInbox(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// MarkRead 标记单条已读
func (h *InboxHandler) MarkRead(c *gin.Context) {
	userID := c.GetUint64(consts.UserIDKey)
	if err := h.inboxSvc.MarkRead(c.Request.Context(), userID, c.Param("msg_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// MarkAllRead 一键已读
func (h *InboxHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetUint64(consts.UserIDKey)
	if err := h.inboxSvc.MarkAllRead(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
