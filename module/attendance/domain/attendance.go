package domain

import "time"

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusProxy   AttendanceStatus = "proxy"
	StatusPending AttendanceStatus = "pending"
	StatusAbsent  AttendanceStatus = "absent"
)

type PolicyName string

const (
	PolicyCoverage PolicyName = "coverage"
	PolicyDistance PolicyName = "distance"
)

// Evaluation is the outcome of checking one claimant fix against a
// session anchor. CoveragePercent is 0 under the distance policy,
// which never builds uncertainty circles.
type Evaluation struct {
	DistanceMeters  float64          `json:"distance_meters"`
	CoveragePercent float64          `json:"coverage_percent"`
	Status          AttendanceStatus `json:"status"`
}

// Session is one attendance-taking window. The anchor fix is captured
// when the session is created and every claim is checked against it.
type Session struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Anchor    Fix        `json:"anchor"`
	Policy    PolicyName `json:"policy"`
	CreatedAt time.Time  `json:"created_at"`
}

type RosterEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AttendanceRecord struct {
	SessionID    string     `json:"session_id"`
	ClaimantID   string     `json:"claimant_id"`
	ClaimantName string     `json:"claimant_name"`
	Fix          Fix        `json:"fix"`
	Evaluation   Evaluation `json:"evaluation"`
	RecordedAt   time.Time  `json:"recorded_at"`
}

// DecisionAlert is published when a claim resolves to a non-present
// status, so reviewers can follow up.
type DecisionAlert struct {
	SessionID       string           `json:"session_id"`
	ClaimantID      string           `json:"claimant_id"`
	Status          AttendanceStatus `json:"status"`
	DistanceMeters  float64          `json:"distance_meters"`
	CoveragePercent float64          `json:"coverage_percent"`
	Timestamp       int64            `json:"timestamp"`
}
