package services

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"greenguard-be/models"
)

// ErrGeolocationUnavailable is surfaced as status text; the map view
// degrades to "no location" rather than failing.
var ErrGeolocationUnavailable = errors.New("geolocation unavailable")

// GeolocationSource is the consumed positioning capability: a one-shot
// fix plus a continuous watch. The stop function returned by
// WatchPosition cancels the subscription; no update or error callback
// fires after stop returns.
type GeolocationSource interface {
	CurrentPosition(ctx context.Context) (models.Location, error)
	WatchPosition(onUpdate func(models.Location), onError func(error)) (stop func())
}

// SimulatedGeolocation emits small random walks around a base coordinate,
// standing in for a device's positioning hardware in the demo.
type SimulatedGeolocation struct {
	Base     models.Location
	Interval time.Duration

	mu  sync.Mutex
	pos *models.Location
}

func NewSimulatedGeolocation(base models.Location, interval time.Duration) *SimulatedGeolocation {
	return &SimulatedGeolocation{Base: base, Interval: interval}
}

// CurrentPosition returns the latest simulated fix
func (s *SimulatedGeolocation) CurrentPosition(_ context.Context) (models.Location, error) {
	return s.step(), nil
}

// WatchPosition emits a fix every interval until stop is called. The
// returned stop function blocks until the emitting goroutine has exited,
// so no callback can fire afterwards.
func (s *SimulatedGeolocation) WatchPosition(onUpdate func(models.Location), onError func(error)) func() {
	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()

		onUpdate(s.step())
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				onUpdate(s.step())
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			<-exited
		})
	}
}

// step advances the simulated random walk by a few meters
func (s *SimulatedGeolocation) step() models.Location {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pos == nil {
		p := s.Base
		s.pos = &p
		return p
	}
	s.pos.Lat += (rand.Float64() - 0.5) * 0.0002
	s.pos.Lng += (rand.Float64() - 0.5) * 0.0002
	return *s.pos
}

// NearbyUpdate is one emission of the live map feed: the current center
// and a freshly generated set of nearby waste markers.
type NearbyUpdate struct {
	Center models.Location    `json:"center"`
	Items  []models.WasteItem `json:"items"`
	Status string             `json:"status"`
}

// WatchNearby subscribes to a geolocation source and regenerates the
// nearby waste simulation on every position update. Position errors
// surface as a human-readable status with no items. The returned stop
// function cancels the underlying subscription.
func WatchNearby(src GeolocationSource, maxRadiusMeters float64, count int, onUpdate func(NearbyUpdate)) func() {
	return src.WatchPosition(
		func(pos models.Location) {
			onUpdate(NearbyUpdate{
				Center: pos,
				Items:  GenerateNearby(pos, maxRadiusMeters, count),
				Status: "Location acquired",
			})
		},
		func(err error) {
			onUpdate(NearbyUpdate{Status: "Unable to get location: " + err.Error()})
		},
	)
}
