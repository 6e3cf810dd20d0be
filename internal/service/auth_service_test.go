package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-transit/grievance-service/internal/config"
	"github.com/campus-transit/grievance-service/internal/domain"
	apperrors "github.com/campus-transit/grievance-service/pkg/util"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeStaffRepo) {
	t.Helper()
	cfg := config.Config{
		Auth:       config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 10, BcryptCost: 4},
		Assignment: testAssignmentConfig(),
	}
	repo := &fakeStaffRepo{}
	return NewAuthService(cfg, repo), repo
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, repo := newAuthFixture(t)
	ctx := context.Background()

	staff, err := svc.RegisterStaff(ctx, RegisterStaffInput{
		Name:            "Asha Rao",
		Email:           "Asha@college.edu",
		Password:        "correct-horse",
		Role:            domain.StaffRoleOperationsAdmin,
		Specializations: []string{domain.CategoryRouteIssue},
	})
	require.NoError(t, err)
	assert.Equal(t, 25, staff.MaxCapacity)
	assert.Equal(t, "asha@college.edu", staff.Email)
	assert.NotEqual(t, "correct-horse", repo.created[0].PasswordHash)

	logged, token, _, err := svc.LoginStaff(ctx, "asha@college.edu", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, staff.ID, logged.ID)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.StaffRoleOperationsAdmin, claims.Role)

	_, _, _, err = svc.LoginStaff(ctx, "asha@college.edu", "wrong")
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))
	_, _, _, err = svc.LoginStaff(ctx, "nobody@college.edu", "x")
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))

	_, err = svc.RegisterStaff(ctx, RegisterStaffInput{
		Name: "Dup", Email: "asha@college.edu", Password: "another-pass", Role: domain.StaffRoleDataEntry,
	})
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc, _ := newAuthFixture(t)
	_, err := svc.RegisterStaff(context.Background(), RegisterStaffInput{Name: "x", Email: "bad", Password: "short", Role: "janitor"})
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err))

	_, err = svc.RegisterStaff(context.Background(), RegisterStaffInput{Name: "x", Email: "x@college.edu", Password: "long-enough", Role: "janitor"})
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err))
}

func TestAuthService_InactiveStaffCannotLogin(t *testing.T) {
	svc, repo := newAuthFixture(t)
	staff, err := svc.RegisterStaff(context.Background(), RegisterStaffInput{
		Name: "Old", Email: "old@college.edu", Password: "long-enough", Role: domain.StaffRoleDataEntry,
	})
	require.NoError(t, err)
	repo.staff[0].Active = false

	_, _, _, err = svc.LoginStaff(context.Background(), staff.Email, "long-enough")
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))
}
