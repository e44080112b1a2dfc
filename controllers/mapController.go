package controllers

import (
	"net/http"
	"strconv"

	"greenguard-be/models"
	"greenguard-be/services"
	"greenguard-be/store"

	"github.com/gin-gonic/gin"
)

// GetLeaderboard ranks all participants by accumulated greenUnits
func GetLeaderboard(c *gin.Context) {
	ranked := services.Rank(store.Get().LeaderboardEntries())
	c.JSON(http.StatusOK, gin.H{
		"leaderboard":  ranked,
		"participants": len(ranked),
	})
}

// GetNearbyWaste generates the simulated waste markers around the caller's
// position for the live map. Falls back to the simulated geolocation
// source when no coordinates are supplied.
func GetNearbyWaste(c *gin.Context) {
	initDeps()

	radius, _ := strconv.ParseFloat(c.DefaultQuery("radius", "700"), 64)
	count, _ := strconv.Atoi(c.DefaultQuery("count", "10"))
	if radius <= 0 || radius > 5000 {
		radius = 700
	}
	if count < 1 || count > 100 {
		count = 10
	}

	var center models.Location
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinates"})
			return
		}
		center = models.Location{Lat: lat, Lng: lng}
	} else {
		pos, err := geoSource.CurrentPosition(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, gin.H{
				"status": "Unable to get location: " + err.Error(),
				"items":  []models.WasteItem{},
			})
			return
		}
		center = pos
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Location acquired",
		"center": center,
		"items":  services.GenerateNearby(center, radius, count),
	})
}
