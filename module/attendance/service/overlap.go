package service

import (
	"math"

	"github.com/viv5002ek/smart-attendance/module/attendance/domain"
)

// OverlapPercentage returns how much of the claimant circle's area lies
// inside the anchor circle, in [0,100]. The denominator is always the
// claimant's area: the question being answered is how much of the
// claimant's uncertainty disc plausibly sits inside the anchor's.
func OverlapPercentage(anchor, claimant domain.Circle) (float64, error) {
	if err := anchor.Validate(); err != nil {
		return 0, err
	}
	if err := claimant.Validate(); err != nil {
		return 0, err
	}

	d, err := DistanceMeters(anchor.Center, claimant.Center)
	if err != nil {
		return 0, err
	}
	r1, r2 := anchor.Radius, claimant.Radius

	// zero-radius circles reduce to a point-in-circle test; the lens
	// formula divides by d·r and is undefined for them
	if r2 == 0 {
		if d <= r1 {
			return 100, nil
		}
		return 0, nil
	}
	if r1 == 0 {
		return 0, nil
	}

	if d >= r1+r2 {
		return 0, nil
	}

	// one circle fully contains the other
	if d <= math.Abs(r1-r2) {
		if r2 <= r1 {
			return 100, nil
		}
		return clampPercent(r1 * r1 / (r2 * r2) * 100), nil
	}

	// lens overlap: two circular segments minus the triangle correction
	area1 := r1 * r1 * math.Acos(clampUnit((d*d+r1*r1-r2*r2)/(2*d*r1)))
	area2 := r2 * r2 * math.Acos(clampUnit((d*d+r2*r2-r1*r1)/(2*d*r2)))
	sq := (-d + r1 + r2) * (d + r1 - r2) * (d - r1 + r2) * (d + r1 + r2)
	if sq < 0 {
		sq = 0
	}
	area3 := 0.5 * math.Sqrt(sq)

	overlap := area1 + area2 - area3
	return clampPercent(overlap / (math.Pi * r2 * r2) * 100), nil
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
