// Package kvstore keeps the whole training register as one JSON document in a
// single gdata key/value slot.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/quasilyte/gdata/v2"

	"github.com/jask/trainlog/internal/database"
	"github.com/jask/trainlog/internal/database/repository"
)

const (
	registerObject   = "trainings"
	registerProperty = "register"
	dateLayout       = "2006-01-02"
)

// Slot is the subset of gdata.Manager the store needs.
type Slot interface {
	ObjectPropExists(objectKey, propKey string) bool
	LoadObjectProp(objectKey, propKey string) ([]byte, error)
	SaveObjectProp(objectKey, propKey string, data []byte) error
}

var _ Slot = (*gdata.Manager)(nil)

type trainingDoc struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Date      string    `json:"date"`
	Hours     float64   `json:"hours"`
	Attendee  string    `json:"attendee"`
	CreatedAt time.Time `json:"createdAt"`
}

type attendanceDoc struct {
	ID         string    `json:"id"`
	TrainingID string    `json:"trainingId"`
	Name       string    `json:"name"`
	IDNumber   string    `json:"idNumber"`
	Signature  string    `json:"signature"`
	Timestamp  time.Time `json:"timestamp"`
}

type document struct {
	Trainings  []trainingDoc   `json:"trainings"`
	Attendance []attendanceDoc `json:"attendance"`
}

// Store is a register persisted in one slot. Every mutation rewrites the slot.
type Store struct {
	mu   sync.Mutex
	slot Slot
	doc  document
}

// Open opens the per-user gdata storage for appName.
func Open(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open gdata %s: %w", appName, err)
	}
	return New(m), nil
}

// New loads the register from slot. A missing or unreadable slot starts an
// empty register.
func New(slot Slot) *Store {
	s := &Store{slot: slot}
	if !slot.ObjectPropExists(registerObject, registerProperty) {
		return s
	}
	data, err := slot.LoadObjectProp(registerObject, registerProperty)
	if err != nil {
		log.Printf("[kvstore] load register: %v; starting empty", err)
		return s
	}
	if err := json.Unmarshal(data, &s.doc); err != nil {
		log.Printf("[kvstore] could not parse register: %v; starting empty", err)
		s.doc = document{}
	}
	return s
}

// commit saves next and makes it the live register. On error the live
// register is left as it was. next must not share backing arrays with s.doc.
func (s *Store) commit(next document) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode register: %w", err)
	}
	if err := s.slot.SaveObjectProp(registerObject, registerProperty, data); err != nil {
		return fmt.Errorf("save register: %w", err)
	}
	s.doc = next
	return nil
}

// Reset wipes every training and attendance record.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(document{})
}

// Trainings returns the training view of the store.
func (s *Store) Trainings() *Trainings { return &Trainings{s: s} }

// Attendance returns the attendance view of the store.
func (s *Store) Attendance() *Attendance { return &Attendance{s: s} }

// Types returns the fixed training-type catalog.
func (s *Store) Types() Types { return Types{} }

// Trainings implements the training store over the slot.
type Trainings struct{ s *Store }

func (t *Trainings) Insert(ctx context.Context, tr repository.Training) error {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.doc.Trainings {
		if d.ID == tr.ID {
			return fmt.Errorf("training %s already exists", tr.ID)
		}
	}
	next := document{
		Trainings: append(slices.Clip(s.doc.Trainings), trainingDoc{
			ID:        tr.ID,
			Type:      tr.Type,
			Name:      tr.Name,
			Date:      tr.Date.Format(dateLayout),
			Hours:     tr.Hours,
			Attendee:  tr.Attendee,
			CreatedAt: tr.CreatedAt,
		}),
		Attendance: s.doc.Attendance,
	}
	return s.commit(next)
}

// Delete removes a training and its attendance.
func (t *Trainings) Delete(ctx context.Context, id string) (bool, error) {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.ContainsFunc(s.doc.Trainings, func(d trainingDoc) bool { return d.ID == id }) {
		return false, nil
	}
	next := document{
		Trainings: slices.DeleteFunc(slices.Clone(s.doc.Trainings), func(d trainingDoc) bool { return d.ID == id }),
		Attendance: slices.DeleteFunc(slices.Clone(s.doc.Attendance), func(a attendanceDoc) bool {
			return a.TrainingID == id
		}),
	}
	return true, s.commit(next)
}

func (t *Trainings) List(ctx context.Context, f repository.TrainingFilters) ([]repository.Training, error) {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []repository.Training
	for _, d := range s.doc.Trainings {
		tr, err := d.record()
		if err != nil {
			return nil, err
		}
		if f.Match(tr) {
			out = append(out, tr)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Get returns nil, nil when the training does not exist.
func (t *Trainings) Get(ctx context.Context, id string) (*repository.Training, error) {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.doc.Trainings {
		if d.ID == id {
			tr, err := d.record()
			if err != nil {
				return nil, err
			}
			return &tr, nil
		}
	}
	return nil, nil
}

func (d trainingDoc) record() (repository.Training, error) {
	date, err := time.Parse(dateLayout, d.Date)
	if err != nil {
		return repository.Training{}, fmt.Errorf("training %s: bad date %q: %w", d.ID, d.Date, err)
	}
	return repository.Training{
		ID:        d.ID,
		Type:      d.Type,
		Name:      d.Name,
		Date:      date,
		Hours:     d.Hours,
		Attendee:  d.Attendee,
		CreatedAt: d.CreatedAt,
	}, nil
}

// Attendance implements the attendance store over the slot.
type Attendance struct{ s *Store }

func (a *Attendance) Insert(ctx context.Context, rec repository.Attendance) error {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	known := false
	for _, d := range s.doc.Trainings {
		if d.ID == rec.TrainingID {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("training %s does not exist", rec.TrainingID)
	}
	for _, d := range s.doc.Attendance {
		if d.TrainingID == rec.TrainingID && d.IDNumber == rec.IDNumber {
			return fmt.Errorf("id number %s already signed training %s", rec.IDNumber, rec.TrainingID)
		}
	}
	next := document{
		Trainings: s.doc.Trainings,
		Attendance: append(slices.Clip(s.doc.Attendance), attendanceDoc{
			ID:         rec.ID,
			TrainingID: rec.TrainingID,
			Name:       rec.Name,
			IDNumber:   rec.IDNumber,
			Signature:  rec.Signature,
			Timestamp:  rec.SignedAt,
		}),
	}
	return s.commit(next)
}

func (a *Attendance) Delete(ctx context.Context, id string) (bool, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.doc.Attendance, func(d attendanceDoc) bool { return d.ID == id })
	if i < 0 {
		return false, nil
	}
	next := document{
		Trainings:  s.doc.Trainings,
		Attendance: slices.Delete(slices.Clone(s.doc.Attendance), i, i+1),
	}
	return true, s.commit(next)
}

func (a *Attendance) ListByTraining(ctx context.Context, trainingID string) ([]repository.Attendance, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []repository.Attendance
	for _, d := range s.doc.Attendance {
		if d.TrainingID != trainingID {
			continue
		}
		out = append(out, repository.Attendance{
			ID:         d.ID,
			TrainingID: d.TrainingID,
			Name:       d.Name,
			IDNumber:   d.IDNumber,
			Signature:  d.Signature,
			SignedAt:   d.Timestamp,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SignedAt.Before(out[j].SignedAt) })
	return out, nil
}

func (a *Attendance) CountByTraining(ctx context.Context) (map[string]int, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]int{}
	for _, d := range s.doc.Attendance {
		out[d.TrainingID]++
	}
	return out, nil
}

// Types serves the default training-type catalog.
type Types struct{}

func (Types) List(ctx context.Context) ([]repository.TrainingType, error) {
	return database.DefaultTrainingTypeRecords(), nil
}
