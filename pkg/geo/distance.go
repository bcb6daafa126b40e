package geo

import (
	"math"

	"github.com/nightjol/nightjol/pkg/domain"
)

const earthRadiusKm = 6371

// Distance returns the great-circle distance between two points in
// kilometers, using the haversine formula. Both the radius filter and
// the distance sort go through here so that what passes the filter and
// how results are ordered can never disagree.
func Distance(a, b domain.Coordinates) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
