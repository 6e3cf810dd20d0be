package distribution

import (
	"fmt"
	"strings"

	"github.com/campus-transit/grievance-service/internal/domain"
)

// Strategy names a distribution algorithm.
type Strategy string

const (
	StrategyBalanced      Strategy = "balanced"
	StrategyPriorityBased Strategy = "priority_based"
	StrategyCategoryBased Strategy = "category_based"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(strings.TrimSpace(strings.ToLower(name)))
	switch s {
	case StrategyBalanced, StrategyPriorityBased, StrategyCategoryBased:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Assignment pairs one grievance with the staff member chosen for it.
type Assignment struct {
	Grievance domain.Grievance
	StaffID   string
	Reason    string

	position int
}

// Distributor computes assignments for a batch of grievances.
//
// Implementations return one Assignment per grievance, in the order they were
// decided. Staff and grievances must not be modified.
type Distributor interface {
	Assign(grievances []domain.Grievance, staff []domain.StaffMember) ([]Assignment, error)
}

// ForStrategy returns the Distributor implementing s.
func ForStrategy(s Strategy) (Distributor, error) {
	switch s {
	case StrategyBalanced:
		return NewBalanced(), nil
	case StrategyPriorityBased:
		return NewPriorityBased(), nil
	case StrategyCategoryBased:
		return NewCategoryBased(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}
