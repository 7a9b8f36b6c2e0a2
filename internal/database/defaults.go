package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jask/trainlog/internal/database/repository"
)

// DefaultTrainingTypes is the catalog offered on a fresh register.
var DefaultTrainingTypes = []string{
	"Induction",
	"Occupational Safety",
	"First Aid",
	"Fire Prevention",
	"Technical",
	"Quality",
	"Environment",
	"Soft Skills",
}

// DefaultTrainingTypeRecords returns the default catalog with stable IDs.
func DefaultTrainingTypeRecords() []repository.TrainingType {
	out := make([]repository.TrainingType, 0, len(DefaultTrainingTypes))
	for idx, name := range DefaultTrainingTypes {
		out = append(out, repository.TrainingType{
			ID:        uuid.NewSHA1(uuid.NameSpaceOID, []byte("training-type:"+name)).String(),
			Name:      name,
			SortOrder: idx,
		})
	}
	return out
}

// SeedDefaults ensures the training-type catalog exists for new databases.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	types := repository.NewTrainingTypeRepo(db)
	existing, err := types.List(ctx)
	if err == nil && len(existing) > 0 {
		return nil
	}
	for _, tt := range DefaultTrainingTypeRecords() {
		if err := types.Upsert(ctx, tt); err != nil {
			return err
		}
	}
	return nil
}
