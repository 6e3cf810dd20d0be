package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-transit/grievance-service/internal/domain"
)

// GrievanceRepository handles persistence for grievances.
type GrievanceRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Grievance, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Grievance, error)
	ListUnassigned(ctx context.Context, limit, offset int) ([]domain.Grievance, error)
	CountUnassigned(ctx context.Context) (int, error)
	AssignWithHistory(ctx context.Context, update AssignmentUpdate, history *domain.AssignmentHistory) error
}

// AssignmentUpdate carries the columns written when a grievance gets an owner.
type AssignmentUpdate struct {
	GrievanceID            string
	AssignedTo             string
	Priority               *domain.GrievancePriority
	ExpectedResolutionDate *time.Time
}

type grievanceRepository struct {
	pool *pgxpool.Pool
}

// NewGrievanceRepository builds the repository.
func NewGrievanceRepository(pool *pgxpool.Pool) GrievanceRepository {
	return &grievanceRepository{pool: pool}
}

const grievanceColumns = `
        id, student_id, title, category, priority, status, assigned_to,
        expected_resolution_date, created_at, updated_at`

func (r *grievanceRepository) GetByID(ctx context.Context, id string) (*domain.Grievance, error) {
	query := `SELECT` + grievanceColumns + ` FROM grievances WHERE id=$1`
	return scanGrievance(r.pool.QueryRow(ctx, query, id))
}

// ListByIDs returns the grievances that exist, in the order of ids.
// Duplicated, unknown and malformed ids are skipped. Ids match in any case.
func (r *grievanceRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Grievance, error) {
	wanted := make([]string, 0, len(ids))
	for _, id := range ids {
		if parsed, err := uuid.Parse(id); err == nil {
			wanted = append(wanted, parsed.String())
		}
	}
	if len(wanted) == 0 {
		return []domain.Grievance{}, nil
	}
	query := `SELECT` + grievanceColumns + ` FROM grievances WHERE id = ANY($1::uuid[])`
	rows, err := r.pool.Query(ctx, query, wanted)
	if err != nil {
		return nil, err
	}
	found, err := scanGrievanceRows(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Grievance, len(found))
	for _, g := range found {
		byID[strings.ToLower(g.ID)] = g
	}
	result := make([]domain.Grievance, 0, len(found))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range wanted {
		g, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, g)
	}
	return result, nil
}

func (r *grievanceRepository) ListUnassigned(ctx context.Context, limit, offset int) ([]domain.Grievance, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT` + grievanceColumns + `
        FROM grievances
        WHERE assigned_to IS NULL AND status IN ('open','in_progress')
        ORDER BY created_at ASC, id ASC
        LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanGrievanceRows(rows)
}

func (r *grievanceRepository) CountUnassigned(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM grievances WHERE assigned_to IS NULL AND status IN ('open','in_progress')`
	var count int
	err := r.pool.QueryRow(ctx, query).Scan(&count)
	return count, err
}

// AssignWithHistory sets the owner, moves open grievances to in_progress and
// appends the history row in one transaction. Either both are written or neither.
func (r *grievanceRepository) AssignWithHistory(ctx context.Context, update AssignmentUpdate, history *domain.AssignmentHistory) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := updateAssignment(ctx, tx, update); err != nil {
			return err
		}
		return insertAssignmentHistory(ctx, tx, history)
	})
}

func updateAssignment(ctx context.Context, tx pgx.Tx, update AssignmentUpdate) error {
	const query = `
        UPDATE grievances
        SET assigned_to=$1,
            priority=COALESCE($2, priority),
            status=CASE WHEN status='open' THEN 'in_progress' ELSE status END,
            expected_resolution_date=COALESCE($3, expected_resolution_date),
            updated_at=NOW()
        WHERE id=$4`

	var priority *string
	if update.Priority != nil {
		p := string(*update.Priority)
		priority = &p
	}
	cmd, err := tx.Exec(ctx, query,
		update.AssignedTo,
		priority,
		update.ExpectedResolutionDate,
		update.GrievanceID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanGrievance(row pgx.Row) (*domain.Grievance, error) {
	var g domain.Grievance
	if err := row.Scan(
		&g.ID,
		&g.StudentID,
		&g.Title,
		&g.Category,
		&g.Priority,
		&g.Status,
		&g.AssignedTo,
		&g.ExpectedResolutionDate,
		&g.CreatedAt,
		&g.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &g, nil
}

func scanGrievanceRows(rows pgx.Rows) ([]domain.Grievance, error) {
	defer rows.Close()

	var result []domain.Grievance
	for rows.Next() {
		g, err := scanGrievance(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *g)
	}
	return result, rows.Err()
}
