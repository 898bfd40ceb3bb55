package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/viv5002ek/smart-attendance/module/attendance/domain"
	"github.com/viv5002ek/smart-attendance/module/attendance/internal/repository/database"
)

var _ database.SessionRepository = (*SessionRepo)(nil)

type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) Insert(ctx context.Context, sess *domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, name, policy, anchor_latitude, anchor_longitude, anchor_accuracy, anchor_on_network, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sess.ID, sess.Name, string(sess.Policy),
		sess.Anchor.Point.Lat, sess.Anchor.Point.Lon, sess.Anchor.AccuracyMeters, sess.Anchor.OnSessionNetwork,
		sess.CreatedAt,
	)
	return err
}

func (r *SessionRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, policy, anchor_latitude, anchor_longitude, anchor_accuracy, anchor_on_network, created_at FROM sessions WHERE id = $1`,
		id,
	)

	var sess domain.Session
	var policy string
	err := row.Scan(&sess.ID, &sess.Name, &policy,
		&sess.Anchor.Point.Lat, &sess.Anchor.Point.Lon, &sess.Anchor.AccuracyMeters, &sess.Anchor.OnSessionNetwork,
		&sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	sess.Policy = domain.PolicyName(policy)
	return &sess, nil
}
