package repository

import (
	"context"
	"database/sql"
)

// AttendanceRepo handles signed attendance rows.
type AttendanceRepo struct {
	db *sql.DB
}

func NewAttendanceRepo(db *sql.DB) *AttendanceRepo { return &AttendanceRepo{db: db} }

func (r *AttendanceRepo) Insert(ctx context.Context, a Attendance) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO attendance(id, training_id, name, id_number, signature, signed_at)
	VALUES(?, ?, ?, ?, ?, ?);
	`, a.ID, a.TrainingID, a.Name, a.IDNumber, a.Signature, a.SignedAt)
	return err
}

func (r *AttendanceRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attendance WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListByTraining returns signers in signing order.
func (r *AttendanceRepo) ListByTraining(ctx context.Context, trainingID string) ([]Attendance, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, training_id, name, id_number, signature, signed_at
	FROM attendance WHERE training_id = ? ORDER BY signed_at, id`, trainingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Attendance
	for rows.Next() {
		var a Attendance
		if err := rows.Scan(&a.ID, &a.TrainingID, &a.Name, &a.IDNumber, &a.Signature, &a.SignedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountByTraining returns signer counts keyed by training ID.
func (r *AttendanceRepo) CountByTraining(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT training_id, COUNT(*) FROM attendance GROUP BY training_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}
