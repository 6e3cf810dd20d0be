package dto

import (
	"time"

	"github.com/campus-transit/grievance-service/internal/domain"
)

// StaffLoginRequest payload.
type StaffLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// StaffResponse is the public view of a staff member.
type StaffResponse struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Role            domain.StaffRole `json:"role"`
	MaxCapacity     int              `json:"max_capacity"`
	Specializations []string         `json:"specializations"`
}

// NewStaffResponse maps a staff member without credentials.
func NewStaffResponse(s *domain.StaffMember) StaffResponse {
	specs := s.Specializations
	if specs == nil {
		specs = []string{}
	}
	return StaffResponse{
		ID:              s.ID,
		Name:            s.Name,
		Email:           s.Email,
		Role:            s.Role,
		MaxCapacity:     s.MaxCapacity,
		Specializations: specs,
	}
}
