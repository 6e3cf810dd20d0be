package distribution

import (
	"fmt"

	"github.com/campus-transit/grievance-service/internal/domain"
)

// CategoryBased routes each grievance to the least loaded staff member who is
// specialised in its category and under capacity. When nobody qualifies the
// grievance goes to the least loaded member of the whole roster, even if that
// member is over capacity. Ties go to the first member encountered.
//
// Workloads are read as given; grievances assigned earlier in the same batch
// do not count towards later decisions.
type CategoryBased struct{}

var _ Distributor = (*CategoryBased)(nil)

// NewCategoryBased creates the category-based strategy.
func NewCategoryBased() *CategoryBased {
	return &CategoryBased{}
}

// Assign implements Distributor.
func (c *CategoryBased) Assign(grievances []domain.Grievance, staff []domain.StaffMember) ([]Assignment, error) {
	if len(staff) == 0 {
		return nil, ErrNoEligibleStaff
	}

	fallback := 0
	for i := 1; i < len(staff); i++ {
		if staff[i].CurrentWorkload < staff[fallback].CurrentWorkload {
			fallback = i
		}
	}

	assignments := make([]Assignment, 0, len(grievances))
	for i, g := range grievances {
		best := -1
		for j, member := range staff {
			if !member.HasSpecialization(g.Category) || !member.UnderCapacity() {
				continue
			}
			if best < 0 || member.CurrentWorkload < staff[best].CurrentWorkload {
				best = j
			}
		}

		a := Assignment{Grievance: g, position: i}
		if best >= 0 {
			a.StaffID = staff[best].ID
			a.Reason = fmt.Sprintf("specialised in %s with %d open assignments", g.Category, staff[best].CurrentWorkload)
		} else {
			a.StaffID = staff[fallback].ID
			a.Reason = fmt.Sprintf("no available %s specialist; least loaded staff member", categoryLabel(g.Category))
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}

func categoryLabel(category string) string {
	if category == "" {
		return "uncategorised"
	}
	return category
}
