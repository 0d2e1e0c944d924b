package http

import "github.com/gin-gonic/gin"

func RegisterHeadlineRoutes(r *gin.Engine, handler *HeadlineHandler) {
	headlines := r.Group("/headlines")
	{
		headlines.POST("/", handler.CreateHeadline)
		headlines.GET("/", handler.ListHeadlines)
		headlines.GET("/search", handler.SearchHeadlines)
		headlines.GET("/:id", handler.GetHeadline)
		headlines.PUT("/:id", handler.UpdateHeadline)
		headlines.DELETE("/:id", handler.DeleteHeadline)
	}
}
