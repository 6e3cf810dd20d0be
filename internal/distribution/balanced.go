package distribution

import (
	"fmt"

	"github.com/campus-transit/grievance-service/internal/domain"
)

// Balanced spreads grievances round-robin over staff who are under capacity.
//
// Eligible staff keep their roster order and loads are not re-evaluated while
// the batch is being distributed, so a member who was nearly full at the start
// receives the same share as an idle one.
type Balanced struct{}

var _ Distributor = (*Balanced)(nil)

// NewBalanced creates the balanced strategy.
func NewBalanced() *Balanced {
	return &Balanced{}
}

// Assign implements Distributor.
func (b *Balanced) Assign(grievances []domain.Grievance, staff []domain.StaffMember) ([]Assignment, error) {
	eligible := make([]domain.StaffMember, 0, len(staff))
	for _, member := range staff {
		if member.UnderCapacity() {
			eligible = append(eligible, member)
		}
	}
	if len(eligible) == 0 {
		return nil, ErrNoEligibleStaff
	}

	assignments := make([]Assignment, 0, len(grievances))
	for i, g := range grievances {
		idx := i % len(eligible)
		assignments = append(assignments, Assignment{
			Grievance: g,
			StaffID:   eligible[idx].ID,
			Reason:    fmt.Sprintf("balanced round-robin: slot %d of %d eligible staff", idx+1, len(eligible)),
			position:  i,
		})
	}
	return assignments, nil
}
