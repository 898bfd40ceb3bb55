package postgres

import (
	"context"
	"database/sql"

	"github.com/viv5002ek/smart-attendance/module/attendance/domain"
	"github.com/viv5002ek/smart-attendance/module/attendance/internal/repository/database"
)

var _ database.AttendanceRepository = (*AttendanceRepo)(nil)

type AttendanceRepo struct {
	db *sql.DB
}

func NewAttendanceRepo(db *sql.DB) *AttendanceRepo {
	return &AttendanceRepo{db: db}
}

func (r *AttendanceRepo) Insert(ctx context.Context, rec *domain.AttendanceRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attendance_records (session_id, claimant_id, claimant_name, latitude, longitude, accuracy, on_network, distance_meters, coverage_percent, status, recorded_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.SessionID, rec.ClaimantID, rec.ClaimantName,
		rec.Fix.Point.Lat, rec.Fix.Point.Lon, rec.Fix.AccuracyMeters, rec.Fix.OnSessionNetwork,
		rec.Evaluation.DistanceMeters, rec.Evaluation.CoveragePercent, string(rec.Evaluation.Status),
		rec.RecordedAt,
	)
	return err
}

func (r *AttendanceRepo) Exists(ctx context.Context, sessionID, claimantID string) (bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM attendance_records WHERE session_id = $1 AND claimant_id = $2)`,
		sessionID, claimantID,
	)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *AttendanceRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.AttendanceRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT session_id, claimant_id, claimant_name, latitude, longitude, accuracy, on_network, distance_meters, coverage_percent, status, recorded_at FROM attendance_records WHERE session_id = $1 ORDER BY recorded_at ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.AttendanceRecord
	for rows.Next() {
		var rec domain.AttendanceRecord
		var status string
		if err := rows.Scan(&rec.SessionID, &rec.ClaimantID, &rec.ClaimantName,
			&rec.Fix.Point.Lat, &rec.Fix.Point.Lon, &rec.Fix.AccuracyMeters, &rec.Fix.OnSessionNetwork,
			&rec.Evaluation.DistanceMeters, &rec.Evaluation.CoveragePercent, &status,
			&rec.RecordedAt); err != nil {
			return nil, err
		}
		rec.Evaluation.Status = domain.AttendanceStatus(status)
		results = append(results, rec)
	}
	return results, rows.Err()
}
