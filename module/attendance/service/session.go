package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/viv5002ek/smart-attendance/module/attendance/domain"
	"github.com/viv5002ek/smart-attendance/module/attendance/internal/repository/database"
)

type SessionService struct {
	repo database.SessionRepository
}

func NewSessionService(repo database.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

// Create validates the anchor fix and policy name, assigns an id, and
// stores the session.
func (s *SessionService) Create(ctx context.Context, name string, anchor domain.Fix, policy domain.PolicyName) (*domain.Session, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: session name is required", domain.ErrInvalidInput)
	}
	if err := anchor.Validate(); err != nil {
		return nil, err
	}
	if policy != domain.PolicyCoverage && policy != domain.PolicyDistance {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPolicy, policy)
	}

	sess := &domain.Session{
		ID:        uuid.NewString(),
		Name:      name,
		Anchor:    anchor,
		Policy:    policy,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *SessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	return s.repo.Get(ctx, id)
}
