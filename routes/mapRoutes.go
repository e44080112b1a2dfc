package routes

import (
	"greenguard-be/controllers"
	"greenguard-be/middlewares"

	"github.com/gin-gonic/gin"
)

// MapRoutes sets up the leaderboard and live-map read-side routes
func MapRoutes(r *gin.Engine) {
	r.GET("/api/leaderboard", controllers.GetLeaderboard)

	m := r.Group("/api/map")
	m.Use(middlewares.AuthMiddleware())
	{
		m.GET("/nearby", controllers.GetNearbyWaste)
	}
}
