package service

import (
	"context"
	"fmt"
	"time"

	"github.com/viv5002ek/smart-attendance/module/attendance/domain"
	"github.com/viv5002ek/smart-attendance/module/attendance/internal/repository/database"
	"github.com/viv5002ek/smart-attendance/module/attendance/internal/repository/publisher"
)

// Claim is one attendance submission against a session.
type Claim struct {
	SessionID  string
	ClaimantID string
	Fix        domain.Fix
	RecordedAt int64
}

// VerificationService runs a claim end to end: roster check, duplicate
// check, evaluation under the session's policy, persistence, and an
// alert for any non-present outcome worth reviewing.
type VerificationService struct {
	sessions database.SessionRepository
	rosters  database.RosterRepository
	records  database.AttendanceRepository
	alerts   publisher.AlertPublisher
	policies map[domain.PolicyName]DecisionPolicy
}

func NewVerificationService(
	sessions database.SessionRepository,
	rosters database.RosterRepository,
	records database.AttendanceRepository,
	alerts publisher.AlertPublisher,
	policies map[domain.PolicyName]DecisionPolicy,
) *VerificationService {
	return &VerificationService{
		sessions: sessions,
		rosters:  rosters,
		records:  records,
		alerts:   alerts,
		policies: policies,
	}
}

func (s *VerificationService) SubmitClaim(ctx context.Context, claim *Claim) (*domain.AttendanceRecord, error) {
	sess, err := s.sessions.Get(ctx, claim.SessionID)
	if err != nil {
		return nil, err
	}

	roster, err := s.rosters.List(ctx, claim.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	name, ok := LookupName(claim.ClaimantID, roster)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotOnRoster, claim.ClaimantID)
	}

	exists, err := s.records.Exists(ctx, claim.SessionID, claim.ClaimantID)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateClaim, claim.ClaimantID)
	}

	policy, ok := s.policies[sess.Policy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPolicy, sess.Policy)
	}

	eval, err := policy.Evaluate(sess.Anchor, claim.Fix)
	if err != nil {
		return nil, err
	}

	rec := &domain.AttendanceRecord{
		SessionID:    claim.SessionID,
		ClaimantID:   claim.ClaimantID,
		ClaimantName: name,
		Fix:          claim.Fix,
		Evaluation:   eval,
		RecordedAt:   time.Unix(claim.RecordedAt, 0),
	}
	if err := s.records.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("store record: %w", err)
	}

	if eval.Status == domain.StatusProxy || eval.Status == domain.StatusAbsent {
		alert := &domain.DecisionAlert{
			SessionID:       claim.SessionID,
			ClaimantID:      claim.ClaimantID,
			Status:          eval.Status,
			DistanceMeters:  eval.DistanceMeters,
			CoveragePercent: eval.CoveragePercent,
			Timestamp:       claim.RecordedAt,
		}
		if err := s.alerts.PublishAlert(ctx, alert); err != nil {
			return nil, fmt.Errorf("publish alert: %w", err)
		}
	}

	return rec, nil
}

func (s *VerificationService) Records(ctx context.Context, sessionID string) ([]domain.AttendanceRecord, error) {
	if _, err := s.sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.records.ListBySession(ctx, sessionID)
}
