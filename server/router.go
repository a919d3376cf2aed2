package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpHandler "sentitube/interfaces/http"
	"sentitube/interfaces/middleware"
)

func InitiateRouter(analysisHandler httpHandler.IAnalysisHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "http://localhost:5173", "https://localhost:4200"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("api")
	api.Use(middleware.Auth())

	api.POST("/analysis", analysisHandler.Analyze)
	api.GET("/analysis/history", analysisHandler.GetHistory)
	api.GET("/analysis/:analysisId", analysisHandler.GetDetail)
	api.GET("/analysis/:analysisId/export", analysisHandler.ExportComments)
	api.GET("/analysis/videos/:videoId/comments", analysisHandler.GetComments)
	api.DELETE("/analysis/videos/:videoId", analysisHandler.Delete)

	return router
}
