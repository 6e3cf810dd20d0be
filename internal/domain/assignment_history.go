package domain

import "time"

// AssignmentHistory is an immutable audit entry for an assignment.
type AssignmentHistory struct {
	ID               string
	GrievanceID      string
	AssignedBy       string
	AssignedTo       string
	PreviousAssignee *string
	Reason           string
	Notes            string
	CreatedAt        time.Time
}
