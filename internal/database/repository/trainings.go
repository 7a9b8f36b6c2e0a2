package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// TrainingRepo handles trainings.
type TrainingRepo struct {
	db *sql.DB
}

func NewTrainingRepo(db *sql.DB) *TrainingRepo { return &TrainingRepo{db: db} }

func (r *TrainingRepo) Insert(ctx context.Context, t Training) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO trainings(id, type, name, date, hours, attendee, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?);
	`, t.ID, t.Type, t.Name, t.Date, t.Hours, t.Attendee, t.CreatedAt)
	return err
}

// Delete removes a training; its attendance rows cascade. It reports whether a row was removed.
func (r *TrainingRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trainings WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *TrainingRepo) List(ctx context.Context, f TrainingFilters) ([]Training, error) {
	var where []string
	var args []interface{}

	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, f.Type)
	}
	if !f.From.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		where = append(where, "date < ?")
		args = append(args, f.To)
	}

	query := "SELECT id, type, name, date, hours, attendee, created_at FROM trainings"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Training
	for rows.Next() {
		t, err := scanTraining(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Get returns nil, nil when the training does not exist.
func (r *TrainingRepo) Get(ctx context.Context, id string) (*Training, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, type, name, date, hours, attendee, created_at FROM trainings WHERE id = ?`, id)
	t, err := scanTraining(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTraining(row scanner) (Training, error) {
	var t Training
	if err := row.Scan(&t.ID, &t.Type, &t.Name, &t.Date, &t.Hours, &t.Attendee, &t.CreatedAt); err != nil {
		return Training{}, err
	}
	return t, nil
}
