package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/campus-transit/grievance-service/internal/cache"
	"github.com/campus-transit/grievance-service/internal/domain"
	"github.com/campus-transit/grievance-service/internal/repository"
)

func gid(n int) string { return fmt.Sprintf("00000000-0000-0000-0000-%012d", n) }
func sid(n int) string { return fmt.Sprintf("10000000-0000-0000-0000-%012d", n) }

type fakeGrievanceRepo struct {
	mu        sync.Mutex
	items     map[string]*domain.Grievance
	order     []string
	updateErr map[string]error
	updates   []repository.AssignmentUpdate
	history   *fakeHistoryRepo
}

func newFakeGrievanceRepo(grievances ...domain.Grievance) *fakeGrievanceRepo {
	r := &fakeGrievanceRepo{items: map[string]*domain.Grievance{}, updateErr: map[string]error{}}
	for _, g := range grievances {
		g := g
		r.items[g.ID] = &g
		r.order = append(r.order, g.ID)
	}
	return r
}

func (r *fakeGrievanceRepo) GetByID(_ context.Context, id string) (*domain.Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGrievanceRepo) ListByIDs(_ context.Context, ids []string) ([]domain.Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Grievance{}
	for _, id := range ids {
		if g, ok := r.items[id]; ok {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *fakeGrievanceRepo) ListUnassigned(_ context.Context, limit, offset int) ([]domain.Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Grievance
	for _, id := range r.order {
		if g := r.items[id]; !g.IsAssigned() {
			out = append(out, *g)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeGrievanceRepo) CountUnassigned(ctx context.Context) (int, error) {
	all, err := r.ListUnassigned(ctx, 1<<30, 0)
	return len(all), err
}

// AssignWithHistory applies the update only when the history row is accepted.
func (r *fakeGrievanceRepo) AssignWithHistory(_ context.Context, u repository.AssignmentUpdate, h *domain.AssignmentHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.updateErr[u.GrievanceID]; err != nil {
		return err
	}
	g, ok := r.items[u.GrievanceID]
	if !ok {
		return pgx.ErrNoRows
	}
	if r.history != nil {
		if err := r.history.insert(h); err != nil {
			return err
		}
	}
	assignee := u.AssignedTo
	g.AssignedTo = &assignee
	if u.Priority != nil {
		g.Priority = *u.Priority
	}
	if g.Status == domain.GrievanceStatusOpen {
		g.Status = domain.GrievanceStatusInProgress
	}
	if u.ExpectedResolutionDate != nil {
		g.ExpectedResolutionDate = u.ExpectedResolutionDate
	}
	r.updates = append(r.updates, u)
	return nil
}

type fakeHistoryRepo struct {
	entries []domain.AssignmentHistory
	err     error
}

func (r *fakeHistoryRepo) insert(h *domain.AssignmentHistory) error {
	if r.err != nil {
		return r.err
	}
	h.ID = fmt.Sprintf("h-%d", len(r.entries)+1)
	r.entries = append(r.entries, *h)
	return nil
}

func (r *fakeHistoryRepo) ListByGrievance(_ context.Context, grievanceID string) ([]domain.AssignmentHistory, error) {
	var out []domain.AssignmentHistory
	for _, h := range r.entries {
		if h.GrievanceID == grievanceID {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeStaffRepo struct {
	staff     []domain.StaffMember
	listErr   error
	listCalls int
	created   []domain.StaffMember
}

func (r *fakeStaffRepo) Create(_ context.Context, s *domain.StaffMember) error {
	s.ID = sid(1000 + len(r.created))
	r.created = append(r.created, *s)
	r.staff = append(r.staff, *s)
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	for _, s := range r.staff {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffMember, error) {
	for _, s := range r.staff {
		if strings.EqualFold(s.Email, email) {
			cp := s
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) ListActive(context.Context) ([]domain.StaffMember, error) {
	r.listCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []domain.StaffMember
	for _, s := range r.staff {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStaffRepo) ListActiveByRole(ctx context.Context, role domain.StaffRole) ([]domain.StaffMember, error) {
	active, err := r.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.StaffMember
	for _, s := range active {
		if s.Role == role {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeStaffCache struct {
	stored        []domain.StaffMember
	hasValue      bool
	getErr        error
	setErr        error
	invalidations int
}

func (c *fakeStaffCache) Get(context.Context) ([]domain.StaffMember, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	if !c.hasValue {
		return nil, cache.ErrMiss
	}
	return c.stored, nil
}

func (c *fakeStaffCache) Set(_ context.Context, staff []domain.StaffMember) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.stored = staff
	c.hasValue = true
	return nil
}

func (c *fakeStaffCache) Invalidate(context.Context) error {
	c.invalidations++
	c.stored = nil
	c.hasValue = false
	return nil
}

type fakeActivityRepo struct {
	entries []domain.ActivityLog
	err     error
}

func (r *fakeActivityRepo) Create(_ context.Context, e *domain.ActivityLog) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, *e)
	return nil
}

type fakeNotificationRepo struct {
	sent []domain.Notification
	err  error
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, *n)
	return nil
}
