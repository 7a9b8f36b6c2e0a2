package testdata

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/trainlog/internal/database"
	"github.com/jask/trainlog/internal/database/repository"
	"github.com/jask/trainlog/internal/service"
	"github.com/jask/trainlog/internal/signature"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	db, err := database.Prepare(ctx, filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	reg := &service.RegisterService{
		Trainings:  repository.NewTrainingRepo(db),
		Attendance: repository.NewAttendanceRepo(db),
		Types:      repository.NewTrainingTypeRepo(db),
	}

	n, err := Seed(ctx, reg, 4, 42)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	list, err := reg.ListTrainings(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 4)
	for _, tr := range list {
		require.GreaterOrEqual(t, tr.Signers, 2)
		signers, err := reg.ListAttendance(ctx, tr.ID)
		require.NoError(t, err)
		art, err := signature.ParseDataURI(signers[0].Signature)
		require.NoError(t, err)
		require.Equal(t, 400, art.Width)
	}
}
