package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/campus-transit/grievance-service/internal/auth"
	"github.com/campus-transit/grievance-service/internal/config"
	"github.com/campus-transit/grievance-service/internal/domain"
	"github.com/campus-transit/grievance-service/internal/repository"
	apperrors "github.com/campus-transit/grievance-service/pkg/util"
)

// AuthService coordinates staff login and account creation.
type AuthService struct {
	staff           repository.StaffRepository
	tokenMgr        *auth.TokenManager
	bcryptCost      int
	defaultCapacity int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, staff repository.StaffRepository) *AuthService {
	return &AuthService{
		staff:           staff,
		tokenMgr:        auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost:      cfg.Auth.BcryptCost,
		defaultCapacity: cfg.Assignment.DefaultCapacity,
	}
}

// LoginStaff authenticates staff and returns role-bearing token.
func (s *AuthService) LoginStaff(ctx context.Context, email, password string) (*domain.StaffMember, string, time.Time, error) {
	staff, err := s.staff.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if !staff.Active {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("staff inactive")
	}
	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(staff.ID, staff.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return staff, token, exp, nil
}

// RegisterStaffInput describes a new admin account.
type RegisterStaffInput struct {
	Name            string           `validate:"required,max=200"`
	Email           string           `validate:"required,email"`
	Password        string           `validate:"required,min=8"`
	Role            domain.StaffRole `validate:"required"`
	MaxCapacity     int              `validate:"gte=0"`
	Specializations []string         `validate:"dive,required"`
}

// RegisterStaff creates an active staff account.
func (s *AuthService) RegisterStaff(ctx context.Context, in RegisterStaffInput) (*domain.StaffMember, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if !in.Role.IsValid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": in.Role})
	}
	if _, err := s.staff.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": in.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	capacity := in.MaxCapacity
	if capacity <= 0 {
		capacity = s.defaultCapacity
	}
	staff := &domain.StaffMember{
		Name:            in.Name,
		Email:           strings.ToLower(in.Email),
		PasswordHash:    hash,
		Role:            in.Role,
		MaxCapacity:     capacity,
		Specializations: in.Specializations,
		Active:          true,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
