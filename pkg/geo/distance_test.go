package geo

import (
	"math"
	"testing"

	"github.com/nightjol/nightjol/pkg/domain"
)

func TestDistance(t *testing.T) {
	capeTown := domain.Coordinates{Lat: -33.9249, Lng: 18.4241}
	johannesburg := domain.Coordinates{Lat: -26.2041, Lng: 28.0473}
	durban := domain.Coordinates{Lat: -29.8587, Lng: 31.0218}

	t.Run("zero distance to self", func(t *testing.T) {
		if d := Distance(capeTown, capeTown); d != 0 {
			t.Errorf("expected 0, got %f", d)
		}
	})

	t.Run("cape town to johannesburg", func(t *testing.T) {
		d := Distance(capeTown, johannesburg)
		// Straight-line distance is roughly 1260 km.
		if d < 1250 || d > 1275 {
			t.Errorf("expected ~1260km, got %f", d)
		}
	})

	t.Run("johannesburg to durban", func(t *testing.T) {
		d := Distance(johannesburg, durban)
		if d < 480 || d > 510 {
			t.Errorf("expected ~495km, got %f", d)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		ab := Distance(capeTown, durban)
		ba := Distance(durban, capeTown)
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("expected symmetric distance, got %f and %f", ab, ba)
		}
	})

	t.Run("antipodal points near half circumference", func(t *testing.T) {
		a := domain.Coordinates{Lat: 0, Lng: 0}
		b := domain.Coordinates{Lat: 0, Lng: 180}
		d := Distance(a, b)
		if d < 20000 || d > 20050 {
			t.Errorf("expected ~20015km, got %f", d)
		}
	})
}
