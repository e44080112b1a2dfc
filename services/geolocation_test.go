package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"greenguard-be/models"
)

func TestSimulatedGeolocationFirstFixIsBase(t *testing.T) {
	base := models.Location{Lat: 34.0522, Lng: -118.2437}
	src := NewSimulatedGeolocation(base, time.Hour)

	pos, err := src.CurrentPosition(context.Background())
	if err != nil {
		t.Fatalf("CurrentPosition failed: %v", err)
	}
	if pos != base {
		t.Errorf("Expected the first fix to be the base coordinate, got %+v", pos)
	}
}

func TestWatchPositionStops(t *testing.T) {
	src := NewSimulatedGeolocation(models.Location{Lat: 1, Lng: 2}, 5*time.Millisecond)

	var mu sync.Mutex
	count := 0
	stop := src.WatchPosition(func(models.Location) {
		mu.Lock()
		count++
		mu.Unlock()
	}, nil)

	waitFor(t, "at least two position updates", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count >= 2
	})

	stop()
	mu.Lock()
	atStop := count
	mu.Unlock()

	// no update may fire after stop returns
	time.Sleep(30 * time.Millisecond)
	mu.Lock()
	after := count
	mu.Unlock()
	if after != atStop {
		t.Errorf("Expected no updates after stop, got %d more", after-atStop)
	}

	// stop is idempotent
	stop()
}

func TestWatchNearby(t *testing.T) {
	src := NewSimulatedGeolocation(models.Location{Lat: 34.0522, Lng: -118.2437}, 5*time.Millisecond)

	updates := make(chan NearbyUpdate, 16)
	stop := WatchNearby(src, 700, 10, func(u NearbyUpdate) {
		select {
		case updates <- u:
		default:
		}
	})
	defer stop()

	select {
	case u := <-updates:
		if u.Status != "Location acquired" {
			t.Errorf("Expected acquired status, got %q", u.Status)
		}
		if len(u.Items) != 10 {
			t.Errorf("Expected 10 nearby items, got %d", len(u.Items))
		}
		if u.Center.Lat == 0 && u.Center.Lng == 0 {
			t.Error("Expected the update to carry the watch position")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for a nearby update")
	}
}
