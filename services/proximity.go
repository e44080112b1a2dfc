package services

import (
	"math"
	"math/rand"

	"greenguard-be/models"
	"greenguard-be/utils"

	"github.com/google/uuid"
)

var nearbyDescriptions = []string{"Bottle", "Bag", "Can", "Food waste", "Mixed debris"}

// GenerateNearby produces count synthetic waste markers around center for
// the map view: bearing uniform in [0, 2π), distance uniform in
// [0, maxRadiusMeters] (linear, not area-uniform), type uniform over the
// waste-type set. Items are fresh on every call and never persisted.
func GenerateNearby(center models.Location, maxRadiusMeters float64, count int) []models.WasteItem {
	items := make([]models.WasteItem, 0, count)
	for i := 0; i < count; i++ {
		distance := rand.Float64() * maxRadiusMeters
		bearing := rand.Float64() * 2 * math.Pi
		pos := utils.Offset(center, distance, bearing)

		items = append(items, models.WasteItem{
			ID:             uuid.NewString(),
			Lat:            pos.Lat,
			Lng:            pos.Lng,
			Type:           models.WasteTypes[rand.Intn(len(models.WasteTypes))],
			Description:    nearbyDescriptions[rand.Intn(len(nearbyDescriptions))],
			DistanceMeters: int(math.Round(distance)),
		})
	}
	return items
}
