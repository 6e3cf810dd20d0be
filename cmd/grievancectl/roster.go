package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/campus-transit/grievance-service/internal/domain"
)

// Roster is an offline fixture of staff and grievances.
type Roster struct {
	Staff      []RosterStaff     `yaml:"staff" validate:"dive"`
	Grievances []RosterGrievance `yaml:"grievances" validate:"dive"`
}

// RosterStaff is one staff entry. A missing max_capacity uses the default.
type RosterStaff struct {
	ID                string   `yaml:"id" validate:"required"`
	Name              string   `yaml:"name"`
	Role              string   `yaml:"role" validate:"required"`
	CurrentWorkload   int      `yaml:"current_workload" validate:"gte=0"`
	MaxCapacity       *int     `yaml:"max_capacity"`
	Specializations   []string `yaml:"specializations"`
	PerformanceRating float64  `yaml:"performance_rating"`
}

// RosterGrievance is one grievance entry.
type RosterGrievance struct {
	ID       string `yaml:"id" validate:"required"`
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
	Priority string `yaml:"priority"`
}

var rosterValidate = validator.New()

// LoadRoster reads and validates a YAML roster file.
func LoadRoster(path string) (*Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()
	return DecodeRoster(f)
}

// DecodeRoster parses a roster from r.
func DecodeRoster(r io.Reader) (*Roster, error) {
	var roster Roster
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&roster); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	if err := rosterValidate.Struct(&roster); err != nil {
		return nil, fmt.Errorf("invalid roster: %w", err)
	}
	seen := map[string]struct{}{}
	for _, s := range roster.Staff {
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("invalid roster: duplicate staff id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return &roster, nil
}

// StaffMembers converts roster entries in file order.
func (r *Roster) StaffMembers() []domain.StaffMember {
	out := make([]domain.StaffMember, 0, len(r.Staff))
	for _, s := range r.Staff {
		capacity := domain.DefaultMaxCapacity
		if s.MaxCapacity != nil {
			capacity = *s.MaxCapacity
		}
		name := s.Name
		if name == "" {
			name = s.ID
		}
		out = append(out, domain.StaffMember{
			ID:                s.ID,
			Name:              name,
			Role:              domain.StaffRole(s.Role),
			CurrentWorkload:   s.CurrentWorkload,
			MaxCapacity:       capacity,
			Specializations:   s.Specializations,
			PerformanceRating: s.PerformanceRating,
			Active:            true,
		})
	}
	return out
}

// GrievanceItems converts roster entries in file order.
func (r *Roster) GrievanceItems() []domain.Grievance {
	out := make([]domain.Grievance, 0, len(r.Grievances))
	for _, g := range r.Grievances {
		out = append(out, domain.Grievance{
			ID:       g.ID,
			Title:    g.Title,
			Category: g.Category,
			Priority: domain.GrievancePriority(g.Priority),
			Status:   domain.GrievanceStatusOpen,
		})
	}
	return out
}
