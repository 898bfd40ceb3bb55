package database

import (
	"context"

	"github.com/viv5002ek/smart-attendance/module/attendance/domain"
)

type SessionRepository interface {
	Insert(ctx context.Context, sess *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
}

type RosterRepository interface {
	Replace(ctx context.Context, sessionID string, entries []domain.RosterEntry) error
	List(ctx context.Context, sessionID string) ([]domain.RosterEntry, error)
}

type AttendanceRepository interface {
	Insert(ctx context.Context, rec *domain.AttendanceRecord) error
	Exists(ctx context.Context, sessionID, claimantID string) (bool, error)
	ListBySession(ctx context.Context, sessionID string) ([]domain.AttendanceRecord, error)
}
