package service

import (
	"math"

	"github.com/viv5002ek/smart-attendance/module/attendance/domain"
)

const earthRadiusMeters = 6371000

// DistanceMeters returns the great-circle distance between two points
// using the haversine formula on a spherical earth. Sub-meter error at
// city scale is an accepted tradeoff of the spherical model.
func DistanceMeters(p1, p2 domain.GeoPoint) (float64, error) {
	if err := p1.Validate(); err != nil {
		return 0, err
	}
	if err := p2.Validate(); err != nil {
		return 0, err
	}

	dLat := toRad(p2.Lat - p1.Lat)
	dLon := toRad(p2.Lon - p1.Lon)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(p1.Lat))*math.Cos(toRad(p2.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)

	// rounding can push a just outside [0,1]; antipodal and coincident
	// points must not produce NaN
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}

	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a)), nil
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
