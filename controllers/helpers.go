package controllers

import (
	"sync"
	"time"

	"greenguard-be/config"
	"greenguard-be/models"
	"greenguard-be/services"
	"greenguard-be/store"
)

var (
	pipelines *services.PipelineManager
	verifier  *services.VerificationService
	geoSource services.GeolocationSource
	depsOnce  sync.Once
)

// initDeps wires the service layer lazily so config is read after main has
// loaded the environment.
func initDeps() {
	depsOnce.Do(func() {
		cfg := config.Load()
		classifier := services.NewClassifier(cfg)
		pipelines = services.NewPipelineManager(store.Get(), classifier, cfg.ClassifyDebounce)
		verifier = services.NewVerificationService(store.Get(), classifier, cfg.ReviewDelay)
		geoSource = services.NewSimulatedGeolocation(
			models.Location{Lat: 34.0522, Lng: -118.2437},
			5*time.Second,
		)
	})
}
