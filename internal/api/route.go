package api

import (
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS & Metrics
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.MetricsMiddleware())
	logger.SetupGin(r)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.AuthMiddleware(group.Blacklist)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		storyGroup := apiGroup.Group("/stories")
		{
			// 游客可见已发布内容，作者和审核员可见全部
			authOptGroup := storyGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/:story_id", group.StoryHandler.GetStory)
				authOptGroup.GET("/:story_id/chapters", group.ChapterHandler.ListChapters)
			}

			authGroup := storyGroup.Group("")
			authGroup.Use(auth)
			{
				authGroup.GET("/me", group.StoryHandler.ListMyStories)
				authGroup.GET("/:story_id/reviews", group.StoryHandler.GetStoryReviews)
			}

			authorGroup := authGroup.Group("")
			authorGroup.Use(middleware.CheckRoles(consts.RoleAuthor))
			{
				authorGroup.POST("", group.StoryHandler.CreateStory)
				authorGroup.PUT("/:story_id", group.StoryHandler.UpdateStory)
				authorGroup.POST("/:story_id/submit", group.StoryHandler.SubmitStory)
				authorGroup.POST("/:story_id/complete", group.StoryHandler.CompleteStory)
				authorGroup.POST("/:story_id/chapters", group.ChapterHandler.CreateChapter)
			}
		}

		chapterGroup := apiGroup.Group("/chapters")
		{
			authOptGroup := chapterGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/:chapter_id", group.ChapterHandler.GetChapter)
			}

			authGroup := chapterGroup.Group("")
			authGroup.Use(auth)
			{
				authGroup.GET("/:chapter_id/reviews", group.ChapterHandler.GetChapterReviews)
			}

			authorGroup := authGroup.Group("")
			authorGroup.Use(middleware.CheckRoles(consts.RoleAuthor))
			{
				authorGroup.PUT("/:chapter_id", group.ChapterHandler.UpdateChapter)
				authorGroup.POST("/:chapter_id/submit", group.ChapterHandler.SubmitChapter)
			}
		}

		moderationGroup := apiGroup.Group("/moderation")
		moderationGroup.Use(auth)
		{
			reviewGroup := moderationGroup.Group("")
			reviewGroup.Use(middleware.CheckRoles(consts.RoleContentMod, consts.RoleAdmin))
			{
				reviewGroup.GET("/queue", group.ModerationHandler.GetQueue)
				reviewGroup.POST("/reviews/:review_id/decision", group.ModerationHandler.Decide)
			}

			opsGroup := moderationGroup.Group("")
			opsGroup.Use(middleware.CheckRoles(consts.RoleOpsMod, consts.RoleAdmin))
			{
				opsGroup.POST("/takedown", group.ModerationHandler.Takedown)
			}

			statsGroup := moderationGroup.Group("")
			statsGroup.Use(middleware.CheckRoles(consts.RoleContentMod, consts.RoleOpsMod, consts.RoleAdmin))
			{
				statsGroup.GET("/stats", group.ModerationHandler.GetStats)
			}
		}

		inboxGroup := apiGroup.Group("/inbox")
		inboxGroup.Use(auth)
		{
			inboxGroup.GET("", group.InboxHandler.GetInbox)
			inboxGroup.POST("/read/all", group.InboxHandler.MarkAllRead)
			inboxGroup.POST("/:msg_id/read", group.InboxHandler.MarkRead)
		}
	}

	return r
}
