package repository

import "time"

// TrainingType represents a training_types row.
type TrainingType struct {
	ID        string
	Name      string
	SortOrder int
}

// Training represents a trainings row.
type Training struct {
	ID        string
	Type      string
	Name      string
	Date      time.Time
	Hours     float64
	Attendee  string
	CreatedAt time.Time
}

// Attendance represents a signed attendance row. Signature holds a PNG data URI.
type Attendance struct {
	ID         string
	TrainingID string
	Name       string
	IDNumber   string
	Signature  string
	SignedAt   time.Time
}

// TrainingFilters defines list filters.
type TrainingFilters struct {
	Type string
	From time.Time // inclusive; zero = unbounded
	To   time.Time // exclusive; zero = unbounded
}

// Match reports whether t passes the filters.
func (f TrainingFilters) Match(t Training) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if !f.From.IsZero() && t.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !t.Date.Before(f.To) {
		return false
	}
	return true
}
