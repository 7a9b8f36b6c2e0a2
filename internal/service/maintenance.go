package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/trainlog/internal/database"
)

// Resetter wipes all register data.
type Resetter interface {
	Reset(ctx context.Context) error
}

// MaintenanceService houses destructive actions on the sqlite backend.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes trainings and attendance. The schema and the training-type
// catalog are kept so the app can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		for _, t := range []string{"attendance", "trainings"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
