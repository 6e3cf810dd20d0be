package domain

import (
	"math"
	"time"
)

// StaffRole enumerates admin console roles.
type StaffRole string

const (
	StaffRoleSuperAdmin       StaffRole = "super_admin"
	StaffRoleOperationsAdmin  StaffRole = "operations_admin"
	StaffRoleTransportManager StaffRole = "transport_manager"
	StaffRoleFinanceAdmin     StaffRole = "finance_admin"
	StaffRoleDataEntry        StaffRole = "data_entry"
)

// DefaultMaxCapacity is applied when a staff record carries no capacity.
const DefaultMaxCapacity = 25

// IsValid reports whether the role is one of the known admin roles.
func (r StaffRole) IsValid() bool {
	switch r {
	case StaffRoleSuperAdmin, StaffRoleOperationsAdmin, StaffRoleTransportManager, StaffRoleFinanceAdmin, StaffRoleDataEntry:
		return true
	}
	return false
}

// StaffMember models an admin user who can own grievances.
// CurrentWorkload may exceed MaxCapacity.
type StaffMember struct {
	ID                string
	Name              string
	Email             string
	PasswordHash      string
	Role              StaffRole
	CurrentWorkload   int
	MaxCapacity       int
	Specializations   []string
	PerformanceRating float64
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// WorkloadRatio returns CurrentWorkload/MaxCapacity. A non-positive
// capacity yields +Inf.
func (s StaffMember) WorkloadRatio() float64 {
	if s.MaxCapacity <= 0 {
		return math.Inf(1)
	}
	return float64(s.CurrentWorkload) / float64(s.MaxCapacity)
}

// WorkloadPercentage is WorkloadRatio scaled to 0-100 (unbounded above).
func (s StaffMember) WorkloadPercentage() float64 {
	return s.WorkloadRatio() * 100
}

// UnderCapacity reports whether the staff member can take more work.
func (s StaffMember) UnderCapacity() bool {
	return s.CurrentWorkload < s.MaxCapacity
}

// HasSpecialization reports whether category is one of the staff member's tags.
func (s StaffMember) HasSpecialization(category string) bool {
	for _, spec := range s.Specializations {
		if spec == category {
			return true
		}
	}
	return false
}
