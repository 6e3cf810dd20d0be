package distribution

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/campus-transit/grievance-service/internal/domain"
)

// PriorityBased sorts grievances by priority (urgent first) and staff by load
// ratio (least loaded first), then deals the sorted grievances round-robin
// over the sorted staff. Urgent items are interleaved across the least loaded
// members rather than all going to the single least loaded one.
//
// Both sorts are stable, so equal keys keep their input order and the output
// is deterministic. Capacity is not used to filter staff.
type PriorityBased struct{}

var _ Distributor = (*PriorityBased)(nil)

// NewPriorityBased creates the priority-based strategy.
func NewPriorityBased() *PriorityBased {
	return &PriorityBased{}
}

// Assign implements Distributor.
func (p *PriorityBased) Assign(grievances []domain.Grievance, staff []domain.StaffMember) ([]Assignment, error) {
	if len(staff) == 0 {
		return nil, ErrNoEligibleStaff
	}

	sortedStaff := slices.Clone(staff)
	slices.SortStableFunc(sortedStaff, func(a, b domain.StaffMember) int {
		return cmp.Compare(a.WorkloadRatio(), b.WorkloadRatio())
	})

	order := make([]int, len(grievances))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(grievances[b].Priority.Rank(), grievances[a].Priority.Rank())
	})

	assignments := make([]Assignment, 0, len(grievances))
	for i, gi := range order {
		member := sortedStaff[i%len(sortedStaff)]
		assignments = append(assignments, Assignment{
			Grievance: grievances[gi],
			StaffID:   member.ID,
			Reason: fmt.Sprintf("priority %s routed by load: %.0f%% of capacity",
				priorityLabel(grievances[gi].Priority), loadLabel(member)),
			position: gi,
		})
	}
	return assignments, nil
}

func priorityLabel(p domain.GrievancePriority) string {
	if p == "" {
		return "unset"
	}
	return string(p)
}

func loadLabel(member domain.StaffMember) float64 {
	if member.MaxCapacity <= 0 {
		return 100
	}
	return member.WorkloadPercentage()
}
