package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-transit/grievance-service/internal/domain"
	apperrors "github.com/campus-transit/grievance-service/pkg/util"
)

// AssignerRoles may assign grievances to staff.
var AssignerRoles = []domain.StaffRole{domain.StaffRoleSuperAdmin, domain.StaffRoleOperationsAdmin}

// CanAssign reports whether role may assign grievances.
func CanAssign(role domain.StaffRole) bool {
	for _, r := range AssignerRoles {
		if r == role {
			return true
		}
	}
	return false
}

// RequireStaffRole ensures the staff principal has one of the allowed roles.
// With no roles listed any authenticated staff member passes.
func RequireStaffRole(allowed ...domain.StaffRole) fiber.Handler {
	allowedSet := make(map[domain.StaffRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Staff == nil {
			return apperrors.NewUnauthorized("staff authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Staff.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
