package service

import (
	"context"

	"github.com/jask/trainlog/internal/database/repository"
)

// TrainingStore persists trainings. Delete must also remove the training's
// attendance.
type TrainingStore interface {
	Insert(ctx context.Context, t repository.Training) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, f repository.TrainingFilters) ([]repository.Training, error)
	Get(ctx context.Context, id string) (*repository.Training, error)
}

// AttendanceStore persists signed attendance.
type AttendanceStore interface {
	Insert(ctx context.Context, a repository.Attendance) error
	Delete(ctx context.Context, id string) (bool, error)
	ListByTraining(ctx context.Context, trainingID string) ([]repository.Attendance, error)
	CountByTraining(ctx context.Context) (map[string]int, error)
}

// TypeCatalog lists the allowed training types.
type TypeCatalog interface {
	List(ctx context.Context) ([]repository.TrainingType, error)
}

var (
	_ TrainingStore   = (*repository.TrainingRepo)(nil)
	_ AttendanceStore = (*repository.AttendanceRepo)(nil)
	_ TypeCatalog     = (*repository.TrainingTypeRepo)(nil)
)
