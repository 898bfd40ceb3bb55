package service

import (
	"github.com/viv5002ek/smart-attendance/module/attendance/domain"
)

const (
	DefaultMinCoveragePercent      = 50.0
	DefaultAnchorMarginMeters      = 10.0
	DefaultClaimantMarginMeters    = 5.0
	DefaultDistanceThresholdMeters = 30.0
	sameNetworkDistanceLimitMeters = 50.0
)

// DecisionPolicy turns an anchor fix and a claimant fix into an
// attendance evaluation. The two implementations are alternatives
// picked per session, not fallbacks of each other.
type DecisionPolicy interface {
	Evaluate(anchor, claimant domain.Fix) (domain.Evaluation, error)
}

// CoveragePolicy builds an uncertainty circle around each fix
// (accuracy plus a fixed margin) and decides on the percentage of the
// claimant circle covered by the anchor circle.
type CoveragePolicy struct {
	MinCoveragePercent   float64
	AnchorMarginMeters   float64
	ClaimantMarginMeters float64
}

func NewCoveragePolicy() *CoveragePolicy {
	return &CoveragePolicy{
		MinCoveragePercent:   DefaultMinCoveragePercent,
		AnchorMarginMeters:   DefaultAnchorMarginMeters,
		ClaimantMarginMeters: DefaultClaimantMarginMeters,
	}
}

func (p *CoveragePolicy) Evaluate(anchor, claimant domain.Fix) (domain.Evaluation, error) {
	if err := anchor.Validate(); err != nil {
		return domain.Evaluation{}, err
	}
	if err := claimant.Validate(); err != nil {
		return domain.Evaluation{}, err
	}

	anchorCircle := domain.Circle{Center: anchor.Point, Radius: anchor.AccuracyMeters + p.AnchorMarginMeters}
	claimantCircle := domain.Circle{Center: claimant.Point, Radius: claimant.AccuracyMeters + p.ClaimantMarginMeters}

	d, err := DistanceMeters(anchor.Point, claimant.Point)
	if err != nil {
		return domain.Evaluation{}, err
	}

	coverage, err := OverlapPercentage(anchorCircle, claimantCircle)
	if err != nil {
		return domain.Evaluation{}, err
	}

	status := domain.StatusProxy
	if coverage >= p.MinCoveragePercent {
		status = domain.StatusPresent
	}
	return domain.Evaluation{DistanceMeters: d, CoveragePercent: coverage, Status: status}, nil
}

// DistancePolicy decides on raw distance alone, for readings whose
// accuracy circles are not meaningful (coarse network location). The
// same-network hint widens the acceptance window to 50 m; anything
// beyond 50 m is absent, and the band in between is left pending for
// manual review.
type DistancePolicy struct {
	ThresholdMeters float64
}

func NewDistancePolicy() *DistancePolicy {
	return &DistancePolicy{ThresholdMeters: DefaultDistanceThresholdMeters}
}

func (p *DistancePolicy) Evaluate(anchor, claimant domain.Fix) (domain.Evaluation, error) {
	if err := anchor.Validate(); err != nil {
		return domain.Evaluation{}, err
	}
	if err := claimant.Validate(); err != nil {
		return domain.Evaluation{}, err
	}

	d, err := DistanceMeters(anchor.Point, claimant.Point)
	if err != nil {
		return domain.Evaluation{}, err
	}

	var status domain.AttendanceStatus
	switch {
	case d <= p.ThresholdMeters:
		status = domain.StatusPresent
	case anchor.OnSessionNetwork && claimant.OnSessionNetwork && d <= sameNetworkDistanceLimitMeters:
		status = domain.StatusPresent
	case d > sameNetworkDistanceLimitMeters:
		status = domain.StatusAbsent
	default:
		status = domain.StatusPending
	}
	return domain.Evaluation{DistanceMeters: d, Status: status}, nil
}
