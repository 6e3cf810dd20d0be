package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-transit/grievance-service/internal/api/dto"
	"github.com/campus-transit/grievance-service/internal/domain"
	apperrors "github.com/campus-transit/grievance-service/pkg/util"
)

// StaffAuthenticator logs staff in.
type StaffAuthenticator interface {
	LoginStaff(ctx context.Context, email, password string) (*domain.StaffMember, string, time.Time, error)
}

// AuthHandler exposes staff login.
type AuthHandler struct {
	auth StaffAuthenticator
}

// NewAuthHandler constructs handler.
func NewAuthHandler(auth StaffAuthenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login handles POST /auth/staff/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	staff, token, exp, err := h.auth.LoginStaff(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"staff": dto.NewStaffResponse(staff),
			"auth":  dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}
