package routes

import (
	"greenguard-be/config"
	"greenguard-be/controllers"
	"greenguard-be/middlewares"

	"github.com/gin-gonic/gin"
)

// ReportRoutes sets up the reporter-side submission routes
func ReportRoutes(r *gin.Engine) {
	limiter := middlewares.ReportRateLimiter(config.Load().DailyReportLimit)

	report := r.Group("/api/report")
	report.Use(middlewares.AuthMiddleware())
	{
		report.POST("/image", controllers.UploadImage)
		report.GET("/draft", controllers.GetDraft)
		report.POST("/stage", controllers.StageReport)
		report.POST("/confirm", limiter, controllers.ConfirmReport)
		report.POST("/cancel", controllers.CancelReport)
		report.POST("/submit", limiter, controllers.SubmitReport)
		report.POST("/reset", controllers.ResetDraft)
		report.GET("/mine", controllers.GetMyReports)
	}
}
