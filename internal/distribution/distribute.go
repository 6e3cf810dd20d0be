package distribution

import (
	"slices"

	"github.com/campus-transit/grievance-service/internal/domain"
)

// Result is the outcome of one distribution run. It is never persisted.
type Result struct {
	Strategy Strategy
	// Buckets maps staff ID to the grievances it received, in decision order.
	Buckets map[string][]domain.Grievance
	// Assignments holds one entry per input grievance, in input order.
	Assignments []Assignment
}

// Total returns the number of assigned grievances.
func (r *Result) Total() int {
	if r == nil {
		return 0
	}
	return len(r.Assignments)
}

// StaffIDs returns the staff that received at least one grievance, sorted.
func (r *Result) StaffIDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.Buckets))
	for id := range r.Buckets {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Distribute assigns every grievance to exactly one staff member using s.
//
// An empty roster fails with ErrNoEligibleStaff. An empty grievance list
// yields an empty Result. Inputs are not modified.
func Distribute(grievances []domain.Grievance, staff []domain.StaffMember, s Strategy) (*Result, error) {
	distributor, err := ForStrategy(s)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Strategy:    s,
		Buckets:     map[string][]domain.Grievance{},
		Assignments: []Assignment{},
	}
	if len(staff) == 0 {
		return result, ErrNoEligibleStaff
	}
	if len(grievances) == 0 {
		return result, nil
	}

	assignments, err := distributor.Assign(slices.Clone(grievances), slices.Clone(staff))
	if err != nil {
		return result, err
	}

	for _, a := range assignments {
		result.Buckets[a.StaffID] = append(result.Buckets[a.StaffID], a.Grievance)
	}
	slices.SortStableFunc(assignments, func(a, b Assignment) int {
		return a.position - b.position
	})
	result.Assignments = assignments
	return result, nil
}
