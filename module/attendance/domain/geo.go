package domain

import (
	"fmt"
	"math"
)

// GeoPoint is a position on the spherical earth model used by the
// distance and overlap calculations.
type GeoPoint struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v must be between -90 and 90", ErrInvalidInput, p.Lat)
	}
	if math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: longitude %v must be between -180 and 180", ErrInvalidInput, p.Lon)
	}
	return nil
}

// Circle is a disc of positional uncertainty around a GPS fix. The radius
// is always derived as measured accuracy plus a fixed margin, in meters.
type Circle struct {
	Center GeoPoint
	Radius float64
}

func (c Circle) Validate() error {
	if err := c.Center.Validate(); err != nil {
		return err
	}
	if math.IsNaN(c.Radius) || math.IsInf(c.Radius, 0) || c.Radius < 0 {
		return fmt.Errorf("%w: radius %v must be non-negative", ErrInvalidInput, c.Radius)
	}
	return nil
}

// Fix is a single GPS reading: a point, its reported accuracy, and
// whether the device was on the session's network when it was taken.
type Fix struct {
	Point            GeoPoint `json:"point"`
	AccuracyMeters   float64  `json:"accuracy_meters"`
	OnSessionNetwork bool     `json:"on_session_network"`
}

func (f Fix) Validate() error {
	if err := f.Point.Validate(); err != nil {
		return err
	}
	if math.IsNaN(f.AccuracyMeters) || math.IsInf(f.AccuracyMeters, 0) || f.AccuracyMeters < 0 {
		return fmt.Errorf("%w: accuracy %v must be non-negative", ErrInvalidInput, f.AccuracyMeters)
	}
	return nil
}
