package testdata

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/jask/trainlog/internal/service"
	"github.com/jask/trainlog/internal/signature"
)

var (
	sampleTrainings = []struct{ Type, Name string }{
		{"Induction", "Site induction"},
		{"Occupational Safety", "Working at heights"},
		{"First Aid", "CPR and AED basics"},
		{"Fire Prevention", "Extinguisher handling"},
		{"Technical", "Forklift operation"},
		{"Quality", "Nonconformity reporting"},
		{"Environment", "Waste segregation"},
		{"Soft Skills", "Effective handovers"},
	}
	sampleNames = []string{
		"Ana Pérez", "Luis Gómez", "María Fernández", "Jorge Ruiz", "Lucía Martín",
		"Pablo Sánchez", "Elena Torres", "Diego Romero", "Carmen Navarro", "Raúl Molina",
	}
	sampleTrainers = []string{"Laura Vidal", "Miguel Ortega", "Sofía Castro"}
)

// Seed adds n sample trainings, each signed by a few attendees whose
// signatures are drawn on a pad. The same seed yields the same trainings
// and signers; only IDs differ.
func Seed(ctx context.Context, reg *service.RegisterService, n int, seed int64) (int, error) {
	rnd := rand.New(rand.NewSource(seed))
	layout := reg.DateFormat
	if layout == "" {
		layout = "2006-01-02"
	}
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	added := 0
	for i := 0; i < n; i++ {
		sample := sampleTrainings[rnd.Intn(len(sampleTrainings))]
		t, err := reg.AddTraining(ctx, service.TrainingInput{
			Type:     sample.Type,
			Name:     sample.Name,
			Date:     start.AddDate(0, 0, rnd.Intn(120)).Format(layout),
			Hours:    strconv.FormatFloat(float64(1+rnd.Intn(8))/2, 'f', -1, 64),
			Attendee: sampleTrainers[rnd.Intn(len(sampleTrainers))],
		})
		if err != nil {
			return added, err
		}
		added++

		for j, idx := range rnd.Perm(len(sampleNames))[:2+rnd.Intn(4)] {
			uri, err := scribble(rnd)
			if err != nil {
				return added, err
			}
			_, err = reg.RecordAttendance(ctx, t.ID, service.AttendanceInput{
				Name:      sampleNames[idx],
				IDNumber:  fmt.Sprintf("%08d", 10000000+idx*7919+j),
				Signature: uri,
			})
			if err != nil {
				return added, err
			}
		}
	}
	return added, nil
}

// scribble draws a random cursive-like stroke and returns it as a data URI.
func scribble(rnd *rand.Rand) (string, error) {
	pad := signature.New(signature.DefaultOptions())
	if err := pad.Resize(400); err != nil {
		return "", err
	}
	x, y := 20.0, 100.0
	pad.PointerDown(signature.Point{X: x, Y: y})
	for x < 360 {
		x += 6 + rnd.Float64()*14
		y = 60 + rnd.Float64()*80
		pad.PointerMove(signature.Point{X: x, Y: y})
	}
	pad.PointerUp()
	art, err := pad.Export()
	if err != nil {
		return "", err
	}
	return art.DataURI(), nil
}
