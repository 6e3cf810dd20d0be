package domain

import "time"

// RecipientType identifies who a notification is addressed to.
type RecipientType string

const (
	RecipientStudent RecipientType = "student"
	RecipientAdmin   RecipientType = "admin"
)

// Notification is an in-app message shown to students or admins.
type Notification struct {
	ID            string
	RecipientType RecipientType
	RecipientID   string
	Title         string
	Message       string
	GrievanceID   *string
	Read          bool
	CreatedAt     time.Time
}
