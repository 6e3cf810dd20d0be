package events

import (
	"time"

	"github.com/campus-transit/grievance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventGrievanceAssigned EventType = "grievance_assigned"
)

// Actor identifies the staff member who caused an event.
type Actor struct {
	StaffID string           `json:"staff_id"`
	Role    domain.StaffRole `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	GrievanceID string    `json:"grievance_id"`
	Actor       Actor     `json:"actor"`
	Timestamp   time.Time `json:"timestamp"`
	Payload     any       `json:"payload"`
}

// GrievanceAssignedPayload payload.
type GrievanceAssignedPayload struct {
	StudentID        string                   `json:"student_id"`
	Title            string                   `json:"title"`
	AssigneeID       string                   `json:"assignee_id"`
	AssigneeName     string                   `json:"assignee_name"`
	PreviousAssignee *string                  `json:"previous_assignee,omitempty"`
	Priority         domain.GrievancePriority `json:"priority"`
	Strategy         string                   `json:"strategy,omitempty"`
	Reason           string                   `json:"reason,omitempty"`
}
