package domain

import "time"

// ActivityLog captures auditable admin actions.
type ActivityLog struct {
	ID         string
	ActorID    string
	ActorRole  StaffRole
	Action     string
	EntityType string
	EntityID   string
	Metadata   map[string]any
	CreatedAt  time.Time
}
