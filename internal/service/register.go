package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jask/trainlog/internal/database"
	"github.com/jask/trainlog/internal/database/repository"
	"github.com/jask/trainlog/internal/signature"
)

var (
	ErrIncomplete        = errors.New("all fields are required")
	ErrInvalidHours      = errors.New("hours must be a positive number")
	ErrUnknownType       = errors.New("unknown training type")
	ErrInvalidDate       = errors.New("invalid date")
	ErrNotFound          = errors.New("not found")
	ErrSignatureRequired = errors.New("please complete all fields and provide your signature")
	ErrDuplicateAttendee = errors.New("this ID number already signed this training")
)

// similarNameThreshold is the Levenshtein similarity above which a new signer
// name is reported as resembling an existing one.
const similarNameThreshold = 0.8

// TrainingInput is the raw content of the new-training form.
type TrainingInput struct {
	Type     string
	Name     string
	Date     string
	Hours    string
	Attendee string
}

// AttendanceInput is the raw content of the attendee form. Signature is the
// exported data URI, empty when nothing was signed.
type AttendanceInput struct {
	Name      string
	IDNumber  string
	Signature string
}

// AttendanceResult is a recorded signature plus names it resembles.
type AttendanceResult struct {
	Attendance   repository.Attendance
	SimilarNames []string
}

// TrainingSummary is a list row.
type TrainingSummary struct {
	repository.Training
	Signers int
}

// RegisterService validates and records trainings and their attendance.
type RegisterService struct {
	Trainings  TrainingStore
	Attendance AttendanceStore
	Types      TypeCatalog
	DateFormat string

	Now   func() time.Time
	NewID func() string
}

func (s *RegisterService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC().Truncate(time.Second)
	}
	return database.Now()
}

func (s *RegisterService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *RegisterService) dateFormat() string {
	if s.DateFormat == "" {
		return "2006-01-02"
	}
	return s.DateFormat
}

// TrainingTypes returns catalog names in display order.
func (s *RegisterService) TrainingTypes(ctx context.Context) ([]string, error) {
	types, err := s.Types.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list training types: %w", err)
	}
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, t.Name)
	}
	return out, nil
}

// ValidateTraining checks a form and returns the record it describes, without an ID.
func (s *RegisterService) ValidateTraining(ctx context.Context, in TrainingInput) (repository.Training, error) {
	in.Type = strings.TrimSpace(in.Type)
	in.Name = strings.TrimSpace(in.Name)
	in.Date = strings.TrimSpace(in.Date)
	in.Hours = strings.TrimSpace(in.Hours)
	in.Attendee = strings.TrimSpace(in.Attendee)
	if in.Type == "" || in.Name == "" || in.Date == "" || in.Hours == "" || in.Attendee == "" {
		return repository.Training{}, ErrIncomplete
	}
	hours, err := strconv.ParseFloat(strings.ReplaceAll(in.Hours, ",", "."), 64)
	if err != nil || hours <= 0 {
		return repository.Training{}, ErrInvalidHours
	}
	date, err := time.Parse(s.dateFormat(), in.Date)
	if err != nil {
		return repository.Training{}, fmt.Errorf("%w: %q does not match %s", ErrInvalidDate, in.Date, s.dateFormat())
	}
	types, err := s.TrainingTypes(ctx)
	if err != nil {
		return repository.Training{}, err
	}
	known := false
	for _, name := range types {
		if strings.EqualFold(name, in.Type) {
			in.Type = name
			known = true
			break
		}
	}
	if !known {
		return repository.Training{}, fmt.Errorf("%w: %s", ErrUnknownType, in.Type)
	}
	return repository.Training{
		Type:     in.Type,
		Name:     in.Name,
		Date:     date,
		Hours:    hours,
		Attendee: in.Attendee,
	}, nil
}

// AddTraining validates and stores a new training.
func (s *RegisterService) AddTraining(ctx context.Context, in TrainingInput) (repository.Training, error) {
	t, err := s.ValidateTraining(ctx, in)
	if err != nil {
		return repository.Training{}, err
	}
	t.ID = s.newID()
	t.CreatedAt = s.now()
	if err := s.Trainings.Insert(ctx, t); err != nil {
		return repository.Training{}, fmt.Errorf("insert training: %w", err)
	}
	log.Printf("[register] added training %s (%s)", t.ID, t.Name)
	return t, nil
}

// DeleteTraining removes a training and its attendance.
func (s *RegisterService) DeleteTraining(ctx context.Context, id string) error {
	removed, err := s.Trainings.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete training: %w", err)
	}
	if !removed {
		return fmt.Errorf("training %s: %w", id, ErrNotFound)
	}
	log.Printf("[register] deleted training %s", id)
	return nil
}

// GetTraining returns ErrNotFound for unknown IDs.
func (s *RegisterService) GetTraining(ctx context.Context, id string) (repository.Training, error) {
	t, err := s.Trainings.Get(ctx, id)
	if err != nil {
		return repository.Training{}, fmt.Errorf("get training: %w", err)
	}
	if t == nil {
		return repository.Training{}, fmt.Errorf("training %s: %w", id, ErrNotFound)
	}
	return *t, nil
}

// ListTrainings returns trainings newest first, narrowed by a fuzzy query when
// one is given.
func (s *RegisterService) ListTrainings(ctx context.Context, query string) ([]TrainingSummary, error) {
	list, err := s.Trainings.List(ctx, repository.TrainingFilters{})
	if err != nil {
		return nil, fmt.Errorf("list trainings: %w", err)
	}
	counts, err := s.Attendance.CountByTraining(ctx)
	if err != nil {
		return nil, fmt.Errorf("count attendance: %w", err)
	}
	out := make([]TrainingSummary, 0, len(list))
	for _, t := range list {
		if !FuzzyMatch(query, t.Name, t.Type, t.Attendee) {
			continue
		}
		out = append(out, TrainingSummary{Training: t, Signers: counts[t.ID]})
	}
	return out, nil
}

// RecordAttendance stores a signer for a training. The signature must be a
// non-empty PNG data URI as produced by the signature pad.
func (s *RegisterService) RecordAttendance(ctx context.Context, trainingID string, in AttendanceInput) (AttendanceResult, error) {
	name := strings.TrimSpace(in.Name)
	idNumber := strings.TrimSpace(in.IDNumber)
	if name == "" || idNumber == "" || in.Signature == "" {
		return AttendanceResult{}, ErrSignatureRequired
	}
	if _, err := signature.ParseDataURI(in.Signature); err != nil {
		return AttendanceResult{}, fmt.Errorf("signature: %w", err)
	}
	if _, err := s.GetTraining(ctx, trainingID); err != nil {
		return AttendanceResult{}, err
	}
	existing, err := s.Attendance.ListByTraining(ctx, trainingID)
	if err != nil {
		return AttendanceResult{}, fmt.Errorf("list attendance: %w", err)
	}
	for _, a := range existing {
		if strings.EqualFold(a.IDNumber, idNumber) {
			return AttendanceResult{}, fmt.Errorf("%w (%s)", ErrDuplicateAttendee, idNumber)
		}
	}

	rec := repository.Attendance{
		ID:         s.newID(),
		TrainingID: trainingID,
		Name:       name,
		IDNumber:   idNumber,
		Signature:  in.Signature,
		SignedAt:   s.now(),
	}
	if err := s.Attendance.Insert(ctx, rec); err != nil {
		return AttendanceResult{}, fmt.Errorf("insert attendance: %w", err)
	}
	return AttendanceResult{Attendance: rec, SimilarNames: SimilarNames(name, existing, similarNameThreshold)}, nil
}

// ListAttendance returns the signers of a training in signing order.
func (s *RegisterService) ListAttendance(ctx context.Context, trainingID string) ([]repository.Attendance, error) {
	list, err := s.Attendance.ListByTraining(ctx, trainingID)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return list, nil
}

// DeleteAttendance removes one signer.
func (s *RegisterService) DeleteAttendance(ctx context.Context, id string) error {
	removed, err := s.Attendance.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	if !removed {
		return fmt.Errorf("attendance %s: %w", id, ErrNotFound)
	}
	return nil
}
