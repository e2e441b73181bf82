package api

import (
	"Inkwell/internal/api/handler"
	"Inkwell/internal/api/middleware"
)

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	StoryHandler      *handler.StoryHandler
	ChapterHandler    *handler.ChapterHandler
	ModerationHandler *handler.ModerationHandler
	InboxHandler      *handler.InboxHandler
	Blacklist         middleware.BlacklistChecker
}
