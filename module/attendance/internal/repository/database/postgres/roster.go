package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/viv5002ek/smart-attendance/module/attendance/domain"
	"github.com/viv5002ek/smart-attendance/module/attendance/internal/repository/database"
)

var _ database.RosterRepository = (*RosterRepo)(nil)

type RosterRepo struct {
	db *sql.DB
}

func NewRosterRepo(db *sql.DB) *RosterRepo {
	return &RosterRepo{db: db}
}

// Replace swaps the session's roster atomically: uploads are full
// replacements, never merges.
func (r *RosterRepo) Replace(ctx context.Context, sessionID string, entries []domain.RosterEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM roster_entries WHERE session_id = $1`, sessionID,
	); err != nil {
		return fmt.Errorf("clear roster: %w", err)
	}

	for _, entry := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO roster_entries (session_id, claimant_id, claimant_name) VALUES ($1, $2, $3)`,
			sessionID, entry.ID, entry.Name,
		); err != nil {
			return fmt.Errorf("insert roster entry: %w", err)
		}
	}

	return tx.Commit()
}

func (r *RosterRepo) List(ctx context.Context, sessionID string) ([]domain.RosterEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT claimant_id, claimant_name FROM roster_entries WHERE session_id = $1 ORDER BY claimant_id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.RosterEntry
	for rows.Next() {
		var entry domain.RosterEntry
		if err := rows.Scan(&entry.ID, &entry.Name); err != nil {
			return nil, err
		}
		results = append(results, entry)
	}
	return results, rows.Err()
}
