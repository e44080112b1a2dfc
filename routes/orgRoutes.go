package routes

import (
	"greenguard-be/controllers"
	"greenguard-be/middlewares"

	"github.com/gin-gonic/gin"
)

// OrgRoutes sets up the organization review routes
func OrgRoutes(r *gin.Engine) {
	org := r.Group("/api/org")
	org.Use(middlewares.OrgAuthMiddleware())
	{
		org.GET("/reports", controllers.GetAllReports)
		org.POST("/reports/:id/analyze", controllers.AnalyzeReport)
		org.POST("/reports/:id/accept", controllers.AcceptReport)
		org.POST("/reports/:id/reject", controllers.RejectReport)
		org.GET("/reports/:id/token", controllers.GetReportToken)
		org.GET("/reports/:id/qr", controllers.GetReportQR)
		org.POST("/verify", controllers.ConfirmToken)
	}
}
