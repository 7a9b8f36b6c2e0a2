package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

type registerYAML struct {
	ExportedAt time.Time      `yaml:"exported_at"`
	Trainings  []trainingYAML `yaml:"trainings"`
}

type trainingYAML struct {
	ID         string           `yaml:"id"`
	Type       string           `yaml:"type"`
	Name       string           `yaml:"name"`
	Date       string           `yaml:"date"`
	Hours      float64          `yaml:"hours"`
	Attendee   string           `yaml:"attendee"`
	Attendance []attendanceYAML `yaml:"attendance,omitempty"`
}

type attendanceYAML struct {
	Name      string    `yaml:"name"`
	IDNumber  string    `yaml:"id_number"`
	SignedAt  time.Time `yaml:"signed_at"`
	Signature string    `yaml:"signature,omitempty"`
}

// ExportService dumps the register.
type ExportService struct {
	Register *RegisterService
	// IncludeSignatures embeds the signature data URIs.
	IncludeSignatures bool
}

// WriteYAML writes every training with its attendance as YAML.
func (s *ExportService) WriteYAML(ctx context.Context, w io.Writer) error {
	list, err := s.Register.ListTrainings(ctx, "")
	if err != nil {
		return err
	}
	doc := registerYAML{ExportedAt: s.Register.now(), Trainings: make([]trainingYAML, 0, len(list))}
	for _, t := range list {
		ty := trainingYAML{
			ID:       t.ID,
			Type:     t.Type,
			Name:     t.Name,
			Date:     t.Date.Format("2006-01-02"),
			Hours:    t.Hours,
			Attendee: t.Attendee,
		}
		signers, err := s.Register.ListAttendance(ctx, t.ID)
		if err != nil {
			return err
		}
		for _, a := range signers {
			ay := attendanceYAML{Name: a.Name, IDNumber: a.IDNumber, SignedAt: a.SignedAt}
			if s.IncludeSignatures {
				ay.Signature = a.Signature
			}
			ty.Attendance = append(ty.Attendance, ay)
		}
		doc.Trainings = append(doc.Trainings, ty)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode register: %w", err)
	}
	return enc.Close()
}
