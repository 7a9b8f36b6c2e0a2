package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"
)

// legacyTraining is one entry of the browser register's "trainings" array.
type legacyTraining struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Name     string  `json:"name"`
	Date     string  `json:"date"`
	Hours    float64 `json:"hours"`
	Attendee string  `json:"attendee"`
}

// ImportResult summarizes an import.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []error
}

// ImportService loads trainings exported from the browser register.
type ImportService struct {
	Register *RegisterService
}

// ImportJSON reads a JSON array of trainings. Entries whose ID already exists
// are skipped; invalid entries are reported in Errors and do not stop the import.
func (s *ImportService) ImportJSON(ctx context.Context, r io.Reader) (ImportResult, error) {
	var entries []legacyTraining
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return ImportResult{}, fmt.Errorf("decode trainings: %w", err)
	}

	var res ImportResult
	reg := s.Register
	for i, e := range entries {
		if e.ID != "" {
			existing, err := reg.Trainings.Get(ctx, e.ID)
			if err != nil {
				return res, fmt.Errorf("lookup training %s: %w", e.ID, err)
			}
			if existing != nil {
				res.Skipped++
				continue
			}
		}
		date, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("entry %d: %w: %q", i, ErrInvalidDate, e.Date))
			continue
		}
		t, err := reg.ValidateTraining(ctx, TrainingInput{
			Type:     e.Type,
			Name:     e.Name,
			Date:     date.Format(reg.dateFormat()),
			Hours:    strconv.FormatFloat(e.Hours, 'f', -1, 64),
			Attendee: e.Attendee,
		})
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		t.ID = e.ID
		if t.ID == "" {
			t.ID = reg.newID()
		}
		t.CreatedAt = reg.now()
		if err := reg.Trainings.Insert(ctx, t); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("entry %d: insert: %w", i, err))
			continue
		}
		res.Imported++
	}
	return res, nil
}
