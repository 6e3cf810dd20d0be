package domain

import "time"

// GrievanceStatus enumerates lifecycle states for grievances.
type GrievanceStatus string

const (
	GrievanceStatusOpen       GrievanceStatus = "open"
	GrievanceStatusInProgress GrievanceStatus = "in_progress"
	GrievanceStatusResolved   GrievanceStatus = "resolved"
	GrievanceStatusClosed     GrievanceStatus = "closed"
)

// GrievancePriority enumerates urgency.
type GrievancePriority string

const (
	GrievancePriorityLow    GrievancePriority = "low"
	GrievancePriorityMedium GrievancePriority = "medium"
	GrievancePriorityHigh   GrievancePriority = "high"
	GrievancePriorityUrgent GrievancePriority = "urgent"
)

// Rank orders priorities for distribution; unknown values rank lowest.
func (p GrievancePriority) Rank() int {
	switch p {
	case GrievancePriorityUrgent:
		return 4
	case GrievancePriorityHigh:
		return 3
	case GrievancePriorityMedium:
		return 2
	case GrievancePriorityLow:
		return 1
	}
	return 0
}

// IsValid reports whether the priority is known.
func (p GrievancePriority) IsValid() bool {
	return p.Rank() > 0
}

// Common grievance categories raised by students.
const (
	CategoryComplaint      = "complaint"
	CategorySuggestion     = "suggestion"
	CategoryTechnicalIssue = "technical_issue"
	CategoryRouteIssue     = "route_issue"
	CategoryDriverBehavior = "driver_behavior"
	CategoryPayment        = "payment"
)

// Grievance is a student-raised issue awaiting an owner.
type Grievance struct {
	ID                     string
	StudentID              string
	Title                  string
	Category               string
	Priority               GrievancePriority
	Status                 GrievanceStatus
	AssignedTo             *string
	ExpectedResolutionDate *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// IsAssigned reports whether the grievance already has an owner.
func (g Grievance) IsAssigned() bool {
	return g.AssignedTo != nil && *g.AssignedTo != ""
}
