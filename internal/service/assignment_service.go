package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/campus-transit/grievance-service/internal/auth"
	"github.com/campus-transit/grievance-service/internal/config"
	"github.com/campus-transit/grievance-service/internal/distribution"
	"github.com/campus-transit/grievance-service/internal/domain"
	"github.com/campus-transit/grievance-service/internal/events"
	"github.com/campus-transit/grievance-service/internal/observability"
	"github.com/campus-transit/grievance-service/internal/repository"
	apperrors "github.com/campus-transit/grievance-service/pkg/util"
)

// AssignMode selects how a bulk assignment picks owners.
type AssignMode string

const (
	AssignModeSingle     AssignMode = "single"
	AssignModeDistribute AssignMode = "distribute"
)

// Item statuses reported in a BatchResult.
const (
	ItemStatusAssigned = "assigned"
	ItemStatusFailed   = "failed"
)

// AssignmentService distributes grievances across staff and applies the result.
type AssignmentService struct {
	grievances repository.GrievanceRepository
	history    repository.AssignmentHistoryRepository
	staff      *StaffDirectory
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	cfg        config.AssignmentConfig
	now        func() time.Time
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	GrievanceRepo repository.GrievanceRepository
	HistoryRepo   repository.AssignmentHistoryRepository
	Staff         *StaffDirectory
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(cfg config.AssignmentConfig, deps AssignmentDependencies) *AssignmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		grievances: deps.GrievanceRepo,
		history:    deps.HistoryRepo,
		staff:      deps.Staff,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// AssignmentPair is one grievance/staff decision to persist.
type AssignmentPair struct {
	GrievanceID string
	StaffID     string
	Reason      string
}

// ApplyOptions are written alongside every pair in a batch.
type ApplyOptions struct {
	Strategy               string
	Priority               *domain.GrievancePriority
	Notes                  string
	ExpectedResolutionDate *time.Time
}

// BatchItem reports the outcome for one grievance.
type BatchItem struct {
	GrievanceID string `json:"grievanceId"`
	AssignedTo  string `json:"assignedTo,omitempty"`
	Status      string `json:"status"`
	Message     string `json:"message"`
}

// BatchError carries the failure reason for one grievance.
type BatchError struct {
	GrievanceID string `json:"grievanceId"`
	Code        string `json:"code"`
	Message     string `json:"message"`
}

// BatchResult summarises a bulk assignment. Failures never abort the batch.
type BatchResult struct {
	Strategy         string       `json:"strategy,omitempty"`
	TotalAssignments int          `json:"total_assignments"`
	Successful       int          `json:"successful"`
	Failed           int          `json:"failed"`
	Results          []BatchItem  `json:"results"`
	Errors           []BatchError `json:"errors"`
}

func newBatchResult(strategy string) *BatchResult {
	return &BatchResult{Strategy: strategy, Results: []BatchItem{}, Errors: []BatchError{}}
}

func (r *BatchResult) succeed(grievanceID, staffID, message string) {
	r.TotalAssignments++
	r.Successful++
	r.Results = append(r.Results, BatchItem{
		GrievanceID: grievanceID,
		AssignedTo:  staffID,
		Status:      ItemStatusAssigned,
		Message:     message,
	})
}

func (r *BatchResult) fail(grievanceID, staffID string, err error) {
	de := apperrors.ToDomainError(err)
	r.TotalAssignments++
	r.Failed++
	r.Results = append(r.Results, BatchItem{
		GrievanceID: grievanceID,
		AssignedTo:  staffID,
		Status:      ItemStatusFailed,
		Message:     de.Message,
	})
	r.Errors = append(r.Errors, BatchError{GrievanceID: grievanceID, Code: de.Code, Message: de.Message})
}

// merge appends other and reorders items to follow order.
func (r *BatchResult) merge(other *BatchResult, order []string) {
	r.TotalAssignments += other.TotalAssignments
	r.Successful += other.Successful
	r.Failed += other.Failed
	r.Results = append(r.Results, other.Results...)
	r.Errors = append(r.Errors, other.Errors...)

	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	slices.SortStableFunc(r.Results, func(a, b BatchItem) int { return pos[a.GrievanceID] - pos[b.GrievanceID] })
	slices.SortStableFunc(r.Errors, func(a, b BatchError) int { return pos[a.GrievanceID] - pos[b.GrievanceID] })
}

// Summary renders the operator-facing "N succeeded, M failed" line.
func (r *BatchResult) Summary() string {
	return fmt.Sprintf("%d succeeded, %d failed", r.Successful, r.Failed)
}

// BulkAssignInput is the request to assign a set of grievances.
type BulkAssignInput struct {
	GrievanceIDs           []string                  `validate:"required,min=1,dive,required"`
	Mode                   AssignMode                `validate:"required,oneof=single distribute"`
	StaffID                string                    `validate:"required_if=Mode single"`
	Strategy               string                    `validate:"omitempty,oneof=balanced priority_based category_based"`
	Priority               *domain.GrievancePriority `validate:"omitempty,oneof=low medium high urgent"`
	Notes                  string                    `validate:"max=2000"`
	ExpectedResolutionDate *time.Time
}

// BulkAssign validates the request, picks owners and applies the batch.
// Only ErrNoEligibleStaff and request-level problems fail the whole call.
func (s *AssignmentService) BulkAssign(ctx context.Context, actor *domain.StaffMember, in BulkAssignInput) (*BatchResult, error) {
	if err := requireAssignPriv(actor); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	ids := uniqueIDs(in.GrievanceIDs)
	if len(ids) == 0 {
		return nil, apperrors.NewValidationError("grievance_ids required", map[string]any{"GrievanceIDs": "required"})
	}
	if limit := s.cfg.MaxGrievancesPerAssign; limit > 0 && len(ids) > limit {
		return nil, apperrors.NewValidationError("too many grievances in one request",
			map[string]any{"limit": limit, "requested": len(ids)})
	}

	opts := ApplyOptions{
		Priority:               in.Priority,
		Notes:                  strings.TrimSpace(in.Notes),
		ExpectedResolutionDate: in.ExpectedResolutionDate,
	}

	if in.Mode == AssignModeSingle {
		pairs := make([]AssignmentPair, 0, len(ids))
		for _, id := range ids {
			pairs = append(pairs, AssignmentPair{GrievanceID: id, StaffID: in.StaffID, Reason: "manual assignment"})
		}
		opts.Strategy = string(AssignModeSingle)
		return s.Apply(ctx, actor, pairs, opts)
	}

	strategy, err := s.resolveStrategy(in.Strategy)
	if err != nil {
		return nil, err
	}
	opts.Strategy = string(strategy)

	plan, err := s.plan(ctx, ids, strategy)
	if err != nil {
		return nil, err
	}

	result := plan.skipped
	for _, e := range result.Errors {
		s.metrics.RecordAssignment(false, e.Code)
	}
	if len(plan.pairs) > 0 {
		applied, err := s.Apply(ctx, actor, plan.pairs, opts)
		if err != nil {
			return nil, err
		}
		result.merge(applied, ids)
	}
	result.Strategy = string(strategy)
	return result, nil
}

type distributionPlan struct {
	result  *distribution.Result
	pairs   []AssignmentPair
	skipped *BatchResult
}

// plan loads the selection and runs the engine. Unknown or already assigned
// grievances are reported in skipped and kept out of the distribution.
func (s *AssignmentService) plan(ctx context.Context, ids []string, strategy distribution.Strategy) (*distributionPlan, error) {
	found, err := s.grievances.ListByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byID := make(map[string]domain.Grievance, len(found))
	for _, g := range found {
		byID[g.ID] = g
	}

	skipped := newBatchResult(string(strategy))
	candidates := make([]domain.Grievance, 0, len(found))
	for _, id := range ids {
		g, ok := byID[id]
		switch {
		case !ok:
			skipped.fail(id, "", apperrors.NewGrievanceNotFound(id))
		case g.IsAssigned():
			skipped.fail(id, *g.AssignedTo, apperrors.NewAlreadyAssigned(id, *g.AssignedTo))
		default:
			candidates = append(candidates, g)
		}
	}

	plan := &distributionPlan{skipped: skipped}
	if len(candidates) == 0 {
		plan.result = &distribution.Result{
			Strategy:    strategy,
			Buckets:     map[string][]domain.Grievance{},
			Assignments: []distribution.Assignment{},
		}
		return plan, nil
	}

	staff, err := s.staff.Active(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	result, err := distribution.Distribute(candidates, staff, strategy)
	s.metrics.RecordDistribution(string(strategy), err)
	if err != nil {
		if errors.Is(err, distribution.ErrNoEligibleStaff) {
			s.logger.Warn("no eligible staff for distribution",
				zap.String("strategy", string(strategy)),
				zap.Int("staff", len(staff)),
				zap.Int("grievances", len(candidates)))
			return nil, apperrors.NewNoEligibleStaff(string(strategy), err)
		}
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"strategy": strategy})
	}

	plan.result = result
	plan.pairs = make([]AssignmentPair, 0, len(result.Assignments))
	for _, a := range result.Assignments {
		plan.pairs = append(plan.pairs, AssignmentPair{GrievanceID: a.Grievance.ID, StaffID: a.StaffID, Reason: a.Reason})
	}
	return plan, nil
}

// Apply persists each pair independently and reports per-item outcomes.
// The returned error is non-nil only for a missing or unauthorised actor.
func (s *AssignmentService) Apply(ctx context.Context, actor *domain.StaffMember, pairs []AssignmentPair, opts ApplyOptions) (*BatchResult, error) {
	if err := requireAssignPriv(actor); err != nil {
		return nil, err
	}

	result := newBatchResult(opts.Strategy)
	assignees := map[string]*domain.StaffMember{}

	for _, pair := range pairs {
		assignee, err := s.applyOne(ctx, actor, pair, opts, assignees)
		if err != nil {
			s.metrics.RecordAssignment(false, apperrors.CodeOf(err))
			if apperrors.CodeOf(err) == apperrors.CodeInternal {
				s.logger.Error("grievance assignment failed",
					zap.String("grievance_id", pair.GrievanceID),
					zap.String("staff_id", pair.StaffID),
					zap.Error(err))
			}
			result.fail(pair.GrievanceID, pair.StaffID, err)
			continue
		}
		s.metrics.RecordAssignment(true, "")
		result.succeed(pair.GrievanceID, assignee.ID, fmt.Sprintf("assigned to %s", assignee.Name))
	}

	if result.Successful > 0 {
		s.staff.Invalidate(ctx)
	}
	s.logger.Info("assignment batch applied",
		zap.String("actor_id", actor.ID),
		zap.String("strategy", opts.Strategy),
		zap.Int("total", result.TotalAssignments),
		zap.Int("successful", result.Successful),
		zap.Int("failed", result.Failed))
	return result, nil
}

// applyOne checks and writes a single pair. There is no lock between the
// pre-check and the update; concurrent writers resolve last-write-wins.
func (s *AssignmentService) applyOne(ctx context.Context, actor *domain.StaffMember, pair AssignmentPair, opts ApplyOptions, assignees map[string]*domain.StaffMember) (*domain.StaffMember, error) {
	if _, err := uuid.Parse(pair.GrievanceID); err != nil {
		return nil, apperrors.NewGrievanceNotFound(pair.GrievanceID)
	}
	grievance, err := s.grievances.GetByID(ctx, pair.GrievanceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewGrievanceNotFound(pair.GrievanceID)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if grievance.IsAssigned() {
		return nil, apperrors.NewAlreadyAssigned(grievance.ID, *grievance.AssignedTo)
	}

	assignee, err := s.lookupAssignee(ctx, pair.StaffID, assignees)
	if err != nil {
		return nil, err
	}

	update := repository.AssignmentUpdate{
		GrievanceID:            grievance.ID,
		AssignedTo:             assignee.ID,
		Priority:               opts.Priority,
		ExpectedResolutionDate: opts.ExpectedResolutionDate,
	}
	history := &domain.AssignmentHistory{
		GrievanceID:      grievance.ID,
		AssignedBy:       actor.ID,
		AssignedTo:       assignee.ID,
		PreviousAssignee: grievance.AssignedTo,
		Reason:           pair.Reason,
		Notes:            opts.Notes,
	}
	if err := s.grievances.AssignWithHistory(ctx, update, history); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewGrievanceNotFound(grievance.ID)
		}
		return nil, apperrors.NewInternalError(err)
	}

	priority := grievance.Priority
	if opts.Priority != nil {
		priority = *opts.Priority
	}
	s.publishAssignmentEvent(ctx, actor, grievance.ID, events.GrievanceAssignedPayload{
		StudentID:        grievance.StudentID,
		Title:            grievance.Title,
		AssigneeID:       assignee.ID,
		AssigneeName:     assignee.Name,
		PreviousAssignee: grievance.AssignedTo,
		Priority:         priority,
		Strategy:         opts.Strategy,
		Reason:           pair.Reason,
	})
	return assignee, nil
}

func (s *AssignmentService) lookupAssignee(ctx context.Context, staffID string, seen map[string]*domain.StaffMember) (*domain.StaffMember, error) {
	if staff, ok := seen[staffID]; ok {
		if staff == nil {
			return nil, apperrors.NewAssigneeNotFound(staffID)
		}
		return staff, nil
	}
	if _, err := uuid.Parse(staffID); err != nil {
		seen[staffID] = nil
		return nil, apperrors.NewAssigneeNotFound(staffID)
	}
	staff, err := s.staff.Get(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			seen[staffID] = nil
			return nil, apperrors.NewAssigneeNotFound(staffID)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if !staff.Active {
		seen[staffID] = nil
		return nil, apperrors.NewAssigneeNotFound(staffID)
	}
	seen[staffID] = staff
	return staff, nil
}

func (s *AssignmentService) publishAssignmentEvent(ctx context.Context, actor *domain.StaffMember, grievanceID string, payload events.GrievanceAssignedPayload) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventGrievanceAssigned,
		GrievanceID: grievanceID,
		Actor:       events.Actor{StaffID: actor.ID, Role: actor.Role},
		Timestamp:   s.now(),
		Payload:     payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("assignment side effects failed",
			zap.String("grievance_id", grievanceID),
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}

// DistributionPreview is a dry run of a distribute request.
type DistributionPreview struct {
	Result  *distribution.Result
	Skipped []BatchError
}

// PreviewDistribution runs the engine over the selection without writing.
func (s *AssignmentService) PreviewDistribution(ctx context.Context, grievanceIDs []string, strategyName string) (*DistributionPreview, error) {
	ids := uniqueIDs(grievanceIDs)
	if len(ids) == 0 {
		return nil, apperrors.NewValidationError("grievance_ids required", nil)
	}
	strategy, err := s.resolveStrategy(strategyName)
	if err != nil {
		return nil, err
	}
	plan, err := s.plan(ctx, ids, strategy)
	if err != nil {
		return nil, err
	}
	return &DistributionPreview{Result: plan.result, Skipped: plan.skipped.Errors}, nil
}

// GrievanceRecommendation lists the best-matching staff for one grievance.
type GrievanceRecommendation struct {
	Grievance domain.Grievance
	Matches   []distribution.MatchScore
}

// Recommendations scores the active roster against the oldest unassigned
// grievances. Nothing is assigned.
func (s *AssignmentService) Recommendations(ctx context.Context, limit int) ([]GrievanceRecommendation, error) {
	if limit <= 0 {
		limit = s.cfg.RecommendationLimit
	}
	grievances, err := s.grievances.ListUnassigned(ctx, s.cfg.UnassignedPageSize, 0)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	staff, err := s.staff.Active(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	result := make([]GrievanceRecommendation, 0, len(grievances))
	for _, g := range grievances {
		result = append(result, GrievanceRecommendation{
			Grievance: g,
			Matches:   distribution.Recommend(staff, g, limit),
		})
	}
	return result, nil
}

// Availability bands for the workload summary.
const (
	BandAvailable    = "available"
	BandBusy         = "busy"
	BandNearCapacity = "near_capacity"
	BandOverloaded   = "overloaded"
)

// StaffWorkload is one row of the workload summary.
type StaffWorkload struct {
	Staff      domain.StaffMember
	Percentage float64
	Band       string
}

// AvailabilityBand classifies a staff member by workload percentage.
func AvailabilityBand(s domain.StaffMember) string {
	if s.MaxCapacity <= 0 {
		return BandOverloaded
	}
	pct := s.WorkloadPercentage()
	switch {
	case pct < 50:
		return BandAvailable
	case pct < 70:
		return BandBusy
	case pct < 100:
		return BandNearCapacity
	}
	return BandOverloaded
}

// WorkloadSummary reports load and availability for every active staff member.
func (s *AssignmentService) WorkloadSummary(ctx context.Context) ([]StaffWorkload, error) {
	staff, err := s.staff.Active(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	result := make([]StaffWorkload, 0, len(staff))
	for _, m := range staff {
		pct := 0.0
		if m.MaxCapacity > 0 {
			pct = m.WorkloadPercentage()
		}
		result = append(result, StaffWorkload{Staff: m, Percentage: pct, Band: AvailabilityBand(m)})
	}
	return result, nil
}

// UnassignedPage is one page of unassigned grievances. Page and PageSize are
// the values actually used after clamping.
type UnassignedPage struct {
	Items    []domain.Grievance
	Total    int
	Page     int
	PageSize int
}

// ListUnassigned returns one page of unassigned grievances and the total.
func (s *AssignmentService) ListUnassigned(ctx context.Context, page, pageSize int) (*UnassignedPage, error) {
	if pageSize <= 0 || pageSize > s.cfg.UnassignedPageSize {
		pageSize = s.cfg.UnassignedPageSize
	}
	if page < 1 {
		page = 1
	}
	items, err := s.grievances.ListUnassigned(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	total, err := s.grievances.CountUnassigned(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if items == nil {
		items = []domain.Grievance{}
	}
	return &UnassignedPage{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// History returns the assignment trail of one grievance, oldest first.
func (s *AssignmentService) History(ctx context.Context, grievanceID string) ([]domain.AssignmentHistory, error) {
	if _, err := uuid.Parse(grievanceID); err != nil {
		return nil, apperrors.NewGrievanceNotFound(grievanceID)
	}
	if _, err := s.grievances.GetByID(ctx, grievanceID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewGrievanceNotFound(grievanceID)
		}
		return nil, apperrors.MapError(err)
	}
	entries, err := s.history.ListByGrievance(ctx, grievanceID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if entries == nil {
		entries = []domain.AssignmentHistory{}
	}
	return entries, nil
}

func (s *AssignmentService) resolveStrategy(name string) (distribution.Strategy, error) {
	if strings.TrimSpace(name) == "" {
		name = s.cfg.DefaultStrategy
	}
	strategy, err := distribution.ParseStrategy(name)
	if err != nil {
		return "", apperrors.NewValidationError("unknown strategy", map[string]any{"strategy": name})
	}
	return strategy, nil
}

func requireAssignPriv(staff *domain.StaffMember) error {
	if staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	if !auth.CanAssign(staff.Role) {
		return apperrors.NewForbidden("insufficient role for assignment")
	}
	return nil
}

// uniqueIDs trims ids and drops blanks and repeats, keeping first occurrence.
// UUIDs are rewritten in canonical lower-case form.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if parsed, err := uuid.Parse(id); err == nil {
			id = parsed.String()
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
