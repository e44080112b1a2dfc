package store

import (
	"log"
	"time"

	"greenguard-be/models"
)

// Seed loads the demo organization and mock accounts the application ships
// with. Passwords are all "greenguard" so the demo login flow works out of
// the box.
func (s *Store) Seed() {
	s.SetOrganization(&models.Organization{
		ID:    "org-1",
		Name:  "Clean Earth Foundation",
		Email: "contact@cleanearth.org",
	})

	seedUsers := []struct {
		name   string
		email  string
		avatar string
		units  int
	}{
		{"sriram", "sriram@greenguard.dev", "/assets/avatar1.png", 980},
		{"chandu", "chandu@greenguard.dev", "/assets/avatar2.png", 870},
		{"mahesh", "mahesh@greenguard.dev", "/assets/avatar3.png", 820},
		{"tilak", "tilak@greenguard.dev", "", 740},
		{"rohitha", "rohitha@greenguard.dev", "", 690},
		{"shiva", "shiva@greenguard.dev", "", 640},
	}

	base := time.Now().Add(-72 * time.Hour)
	for i, su := range seedUsers {
		user := &models.User{
			Name:       su.name,
			Email:      su.email,
			Password:   "greenguard",
			AvatarURL:  su.avatar,
			GreenUnits: su.units,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			UpdatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := user.HashPassword(); err != nil {
			log.Printf("Error hashing seed password for %s: %v", su.email, err)
			continue
		}
		if err := s.CreateUser(user); err != nil {
			log.Printf("Error seeding user %s: %v", su.email, err)
		}
	}

	// give the first user some review-ready history
	first, err := s.GetUserByEmail("sriram@greenguard.dev")
	if err != nil {
		return
	}
	demoReports := []*models.Report{
		{
			UserID:      first.ID,
			WasteType:   models.Plastic,
			Confidence:  92.5,
			Description: "Pile of bottles near the river bank",
			Location:    &models.Location{Lat: 34.0522, Lng: -118.2437},
			Status:      models.StatusPending,
			Timestamp:   base.Add(30 * time.Minute),
		},
		{
			UserID:      first.ID,
			WasteType:   models.Metal,
			Confidence:  81.0,
			Description: "Rusted cans by the trailhead",
			Location:    &models.Location{Lat: 34.0515, Lng: -118.2401},
			Status:      models.StatusPending,
			Timestamp:   base.Add(2 * time.Hour),
		},
	}
	for _, r := range demoReports {
		if err := s.CreateReportAndCredit(r, 0); err != nil {
			log.Printf("Error seeding report: %v", err)
		}
	}
}
