package repository

import (
	"context"
	"database/sql"
)

// TrainingTypeRepo handles the training-type catalog.
type TrainingTypeRepo struct {
	db *sql.DB
}

func NewTrainingTypeRepo(db *sql.DB) *TrainingTypeRepo {
	return &TrainingTypeRepo{db: db}
}

func (r *TrainingTypeRepo) Upsert(ctx context.Context, t TrainingType) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO training_types(id, name, sort_order)
	VALUES (?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 sort_order=excluded.sort_order;
	`, t.ID, t.Name, t.SortOrder)
	return err
}

func (r *TrainingTypeRepo) List(ctx context.Context) ([]TrainingType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, sort_order FROM training_types ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TrainingType
	for rows.Next() {
		var t TrainingType
		if err := rows.Scan(&t.ID, &t.Name, &t.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
