package dto

import (
	"time"

	"github.com/campus-transit/grievance-service/internal/distribution"
	"github.com/campus-transit/grievance-service/internal/domain"
	"github.com/campus-transit/grievance-service/internal/service"
)

// BulkAssignRequest is the body of POST /admin/grievances/assign.
type BulkAssignRequest struct {
	GrievanceIDs           []string                  `json:"grievance_ids"`
	Mode                   string                    `json:"mode"`
	StaffID                string                    `json:"staff_id"`
	Strategy               string                    `json:"strategy"`
	Priority               *domain.GrievancePriority `json:"priority"`
	Notes                  string                    `json:"notes"`
	ExpectedResolutionDate *time.Time                `json:"expected_resolution_date"`
}

// ToInput converts the request into service input.
func (r BulkAssignRequest) ToInput() service.BulkAssignInput {
	return service.BulkAssignInput{
		GrievanceIDs:           r.GrievanceIDs,
		Mode:                   service.AssignMode(r.Mode),
		StaffID:                r.StaffID,
		Strategy:               r.Strategy,
		Priority:               r.Priority,
		Notes:                  r.Notes,
		ExpectedResolutionDate: r.ExpectedResolutionDate,
	}
}

// DistributionPreviewRequest is the body of the preview endpoint.
type DistributionPreviewRequest struct {
	GrievanceIDs []string `json:"grievance_ids"`
	Strategy     string   `json:"strategy"`
}

// GrievanceSummary is the list view of a grievance.
type GrievanceSummary struct {
	ID                     string                   `json:"id"`
	StudentID              string                   `json:"student_id"`
	Title                  string                   `json:"title"`
	Category               string                   `json:"category"`
	Priority               domain.GrievancePriority `json:"priority"`
	Status                 domain.GrievanceStatus   `json:"status"`
	AssignedTo             *string                  `json:"assigned_to"`
	ExpectedResolutionDate *time.Time               `json:"expected_resolution_date"`
	CreatedAt              time.Time                `json:"created_at"`
	UpdatedAt              time.Time                `json:"updated_at"`
}

// NewGrievanceSummary maps a grievance.
func NewGrievanceSummary(g domain.Grievance) GrievanceSummary {
	return GrievanceSummary{
		ID:                     g.ID,
		StudentID:              g.StudentID,
		Title:                  g.Title,
		Category:               g.Category,
		Priority:               g.Priority,
		Status:                 g.Status,
		AssignedTo:             g.AssignedTo,
		ExpectedResolutionDate: g.ExpectedResolutionDate,
		CreatedAt:              g.CreatedAt,
		UpdatedAt:              g.UpdatedAt,
	}
}

// NewGrievanceSummaries maps a slice, never returning nil.
func NewGrievanceSummaries(items []domain.Grievance) []GrievanceSummary {
	out := make([]GrievanceSummary, 0, len(items))
	for _, g := range items {
		out = append(out, NewGrievanceSummary(g))
	}
	return out
}

// PreviewBucket lists what one staff member would receive.
type PreviewBucket struct {
	StaffID    string             `json:"staff_id"`
	Count      int                `json:"count"`
	Grievances []GrievanceSummary `json:"grievances"`
}

// PreviewAssignment is one planned pair, in request order.
type PreviewAssignment struct {
	GrievanceID string `json:"grievance_id"`
	StaffID     string `json:"staff_id"`
	Reason      string `json:"reason"`
}

// DistributionPreviewResponse is the dry-run output.
type DistributionPreviewResponse struct {
	Strategy    distribution.Strategy `json:"strategy"`
	Total       int                   `json:"total"`
	Buckets     []PreviewBucket       `json:"buckets"`
	Assignments []PreviewAssignment   `json:"assignments"`
	Skipped     []service.BatchError  `json:"skipped"`
}

// NewDistributionPreviewResponse flattens a preview. Buckets are sorted by staff id.
func NewDistributionPreviewResponse(p *service.DistributionPreview) DistributionPreviewResponse {
	resp := DistributionPreviewResponse{
		Strategy:    p.Result.Strategy,
		Total:       p.Result.Total(),
		Buckets:     []PreviewBucket{},
		Assignments: []PreviewAssignment{},
		Skipped:     p.Skipped,
	}
	if resp.Skipped == nil {
		resp.Skipped = []service.BatchError{}
	}
	for _, staffID := range p.Result.StaffIDs() {
		items := p.Result.Buckets[staffID]
		resp.Buckets = append(resp.Buckets, PreviewBucket{
			StaffID:    staffID,
			Count:      len(items),
			Grievances: NewGrievanceSummaries(items),
		})
	}
	for _, a := range p.Result.Assignments {
		resp.Assignments = append(resp.Assignments, PreviewAssignment{
			GrievanceID: a.Grievance.ID,
			StaffID:     a.StaffID,
			Reason:      a.Reason,
		})
	}
	return resp
}

// RecommendationResponse pairs a grievance with its best matches.
type RecommendationResponse struct {
	Grievance GrievanceSummary          `json:"grievance"`
	Matches   []distribution.MatchScore `json:"matches"`
}

// NewRecommendationResponses maps service recommendations.
func NewRecommendationResponses(recs []service.GrievanceRecommendation) []RecommendationResponse {
	out := make([]RecommendationResponse, 0, len(recs))
	for _, r := range recs {
		matches := r.Matches
		if matches == nil {
			matches = []distribution.MatchScore{}
		}
		out = append(out, RecommendationResponse{Grievance: NewGrievanceSummary(r.Grievance), Matches: matches})
	}
	return out
}

// HistoryEntry is one assignment-history row.
type HistoryEntry struct {
	ID               string    `json:"id"`
	GrievanceID      string    `json:"grievance_id"`
	AssignedBy       string    `json:"assigned_by"`
	AssignedTo       string    `json:"assigned_to"`
	PreviousAssignee *string   `json:"previous_assignee"`
	Reason           string    `json:"reason"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewHistoryEntries maps history rows.
func NewHistoryEntries(items []domain.AssignmentHistory) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(items))
	for _, h := range items {
		out = append(out, HistoryEntry{
			ID:               h.ID,
			GrievanceID:      h.GrievanceID,
			AssignedBy:       h.AssignedBy,
			AssignedTo:       h.AssignedTo,
			PreviousAssignee: h.PreviousAssignee,
			Reason:           h.Reason,
			Notes:            h.Notes,
			CreatedAt:        h.CreatedAt,
		})
	}
	return out
}

// StaffWorkloadResponse is one row of the workload dashboard.
type StaffWorkloadResponse struct {
	StaffID            string           `json:"staff_id"`
	Name               string           `json:"name"`
	Role               domain.StaffRole `json:"role"`
	CurrentWorkload    int              `json:"current_workload"`
	MaxCapacity        int              `json:"max_capacity"`
	WorkloadPercentage float64          `json:"workload_percentage"`
	Availability       string           `json:"availability"`
	Specializations    []string         `json:"specializations"`
}

// NewStaffWorkloadResponses maps workload rows.
func NewStaffWorkloadResponses(rows []service.StaffWorkload) []StaffWorkloadResponse {
	out := make([]StaffWorkloadResponse, 0, len(rows))
	for _, r := range rows {
		specs := r.Staff.Specializations
		if specs == nil {
			specs = []string{}
		}
		out = append(out, StaffWorkloadResponse{
			StaffID:            r.Staff.ID,
			Name:               r.Staff.Name,
			Role:               r.Staff.Role,
			CurrentWorkload:    r.Staff.CurrentWorkload,
			MaxCapacity:        r.Staff.MaxCapacity,
			WorkloadPercentage: r.Percentage,
			Availability:       r.Band,
			Specializations:    specs,
		})
	}
	return out
}
