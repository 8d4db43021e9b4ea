package api

import (
	"Echowall/internal/api/middleware"
	"Echowall/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		commentGroup := apiGroup.Group("/comments")
		commentGroup.Use(middleware.IdentityMiddleware())
		{
			commentGroup.GET("", group.CommentHandler.ListComments)
			commentGroup.GET("/:comment_id/replies", group.CommentHandler.ListReplies)
			commentGroup.POST("", group.CommentHandler.CreateComment)
			commentGroup.PUT("/:comment_id/like", group.CommentHandler.ToggleLike)
			commentGroup.DELETE("/:comment_id", group.CommentHandler.DeleteComment)
		}

		adminGroup := apiGroup.Group("/admin/comments")
		adminGroup.Use(middleware.AdminGuardMiddleware())
		{
			adminGroup.GET("", group.AdminCommentHandler.ListComments)
			adminGroup.GET("/stats", group.AdminCommentHandler.GetStats)
			adminGroup.GET("/:comment_id", group.AdminCommentHandler.GetComment)
			adminGroup.PUT("/audit", group.AdminCommentHandler.AuditComments)
			adminGroup.PUT("/:comment_id", group.AdminCommentHandler.UpdateComment)
			adminGroup.DELETE("/batch", group.AdminCommentHandler.BatchDeleteComments)
			adminGroup.DELETE("/:comment_id", group.AdminCommentHandler.DeleteComment)
		}
	}

	return r
}
