package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-transit/grievance-service/internal/api/dto"
	"github.com/campus-transit/grievance-service/internal/auth"
	"github.com/campus-transit/grievance-service/internal/domain"
	"github.com/campus-transit/grievance-service/internal/service"
	apperrors "github.com/campus-transit/grievance-service/pkg/util"
)

// AssignmentAPI is the subset of *service.AssignmentService used over HTTP.
type AssignmentAPI interface {
	BulkAssign(ctx context.Context, actor *domain.StaffMember, in service.BulkAssignInput) (*service.BatchResult, error)
	PreviewDistribution(ctx context.Context, grievanceIDs []string, strategy string) (*service.DistributionPreview, error)
	Recommendations(ctx context.Context, limit int) ([]service.GrievanceRecommendation, error)
	WorkloadSummary(ctx context.Context) ([]service.StaffWorkload, error)
	ListUnassigned(ctx context.Context, page, pageSize int) (*service.UnassignedPage, error)
	History(ctx context.Context, grievanceID string) ([]domain.AssignmentHistory, error)
}

// AssignmentHandler serves the admin grievance assignment endpoints.
type AssignmentHandler struct {
	service AssignmentAPI
}

// NewAssignmentHandler constructs handler.
func NewAssignmentHandler(svc AssignmentAPI) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// ListUnassigned handles GET /admin/grievances/unassigned.
func (h *AssignmentHandler) ListUnassigned(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 0)

	result, err := h.service.ListUnassigned(c.UserContext(), page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.NewGrievanceSummaries(result.Items),
		"meta": fiber.Map{"page": result.Page, "page_size": result.PageSize, "total": result.Total},
	})
}

// Assign handles POST /admin/grievances/assign.
func (h *AssignmentHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff authentication required")
	}
	var req dto.BulkAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.service.BulkAssign(c.UserContext(), principal.Staff, req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// Preview handles POST /admin/grievances/distribution/preview.
func (h *AssignmentHandler) Preview(c *fiber.Ctx) error {
	var req dto.DistributionPreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	preview, err := h.service.PreviewDistribution(c.UserContext(), req.GrievanceIDs, req.Strategy)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDistributionPreviewResponse(preview)})
}

// Recommendations handles GET /admin/grievances/recommendations.
func (h *AssignmentHandler) Recommendations(c *fiber.Ctx) error {
	limit := parseInt(c.Query("limit"), 0)
	recs, err := h.service.Recommendations(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRecommendationResponses(recs)})
}

// History handles GET /admin/grievances/:id/history.
func (h *AssignmentHandler) History(c *fiber.Ctx) error {
	entries, err := h.service.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewHistoryEntries(entries)})
}

// Workload handles GET /admin/staff/workload.
func (h *AssignmentHandler) Workload(c *fiber.Ctx) error {
	rows, err := h.service.WorkloadSummary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffWorkloadResponses(rows)})
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
