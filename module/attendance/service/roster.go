package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/viv5002ek/smart-attendance/module/attendance/domain"
	"github.com/viv5002ek/smart-attendance/module/attendance/internal/repository/database"
)

// IsMember reports whether id appears on the roster. Matching is exact
// after trimming whitespace, ignoring case; no fuzzy matching.
func IsMember(id string, roster []domain.RosterEntry) bool {
	_, ok := LookupName(id, roster)
	return ok
}

// LookupName returns the roster name for id, with the same matching
// rule as IsMember.
func LookupName(id string, roster []domain.RosterEntry) (string, bool) {
	want := strings.TrimSpace(id)
	for _, entry := range roster {
		if strings.EqualFold(strings.TrimSpace(entry.ID), want) {
			return entry.Name, true
		}
	}
	return "", false
}

type RosterService struct {
	repo database.RosterRepository
}

func NewRosterService(repo database.RosterRepository) *RosterService {
	return &RosterService{repo: repo}
}

// Replace swaps the whole roster of a session for the given entries.
func (s *RosterService) Replace(ctx context.Context, sessionID string, entries []domain.RosterEntry) error {
	for i, entry := range entries {
		if strings.TrimSpace(entry.ID) == "" {
			return fmt.Errorf("%w: roster entry %d has an empty id", domain.ErrInvalidInput, i)
		}
	}
	return s.repo.Replace(ctx, sessionID, entries)
}

func (s *RosterService) List(ctx context.Context, sessionID string) ([]domain.RosterEntry, error) {
	return s.repo.List(ctx, sessionID)
}
