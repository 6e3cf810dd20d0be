package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-transit/grievance-service/internal/domain"
)

// StaffRepository reads admin users together with their live workload.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.StaffMember) error
	GetByID(ctx context.Context, id string) (*domain.StaffMember, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error)
	ListActive(ctx context.Context) ([]domain.StaffMember, error)
	ListActiveByRole(ctx context.Context, role domain.StaffRole) ([]domain.StaffMember, error)
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

// current_workload counts open and in-progress grievances owned by the user.
const staffColumns = `
        u.id, u.name, u.email, u.password_hash, u.role,
        (SELECT COUNT(*) FROM grievances g
            WHERE g.assigned_to = u.id AND g.status IN ('open','in_progress'))::int AS current_workload,
        u.max_capacity, u.specializations, u.performance_rating::float8, u.is_active,
        u.created_at, u.updated_at`

func (r *staffRepository) Create(ctx context.Context, staff *domain.StaffMember) error {
	const query = `
        INSERT INTO admin_users (name, email, password_hash, role, max_capacity, specializations, performance_rating, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`

	if staff.MaxCapacity <= 0 {
		staff.MaxCapacity = domain.DefaultMaxCapacity
	}
	specs := staff.Specializations
	if specs == nil {
		specs = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		staff.Name,
		staff.Email,
		staff.PasswordHash,
		staff.Role,
		staff.MaxCapacity,
		specs,
		staff.PerformanceRating,
		staff.Active,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffMember, error) {
	query := `SELECT` + staffColumns + ` FROM admin_users u WHERE u.id=$1`
	return scanStaff(r.pool.QueryRow(ctx, query, id))
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error) {
	query := `SELECT` + staffColumns + ` FROM admin_users u WHERE lower(u.email)=lower($1)`
	return scanStaff(r.pool.QueryRow(ctx, query, email))
}

// ListActive returns active staff ordered by creation time, which is the
// order the round-robin strategies walk.
func (r *staffRepository) ListActive(ctx context.Context) ([]domain.StaffMember, error) {
	query := `SELECT` + staffColumns + ` FROM admin_users u WHERE u.is_active ORDER BY u.created_at ASC, u.id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanStaffRows(rows)
}

func (r *staffRepository) ListActiveByRole(ctx context.Context, role domain.StaffRole) ([]domain.StaffMember, error) {
	query := `SELECT` + staffColumns + ` FROM admin_users u WHERE u.is_active AND u.role=$1 ORDER BY u.created_at ASC, u.id ASC`
	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	return scanStaffRows(rows)
}

func scanStaff(row pgx.Row) (*domain.StaffMember, error) {
	var staff domain.StaffMember
	if err := row.Scan(
		&staff.ID,
		&staff.Name,
		&staff.Email,
		&staff.PasswordHash,
		&staff.Role,
		&staff.CurrentWorkload,
		&staff.MaxCapacity,
		&staff.Specializations,
		&staff.PerformanceRating,
		&staff.Active,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}

func scanStaffRows(rows pgx.Rows) ([]domain.StaffMember, error) {
	defer rows.Close()

	var result []domain.StaffMember
	for rows.Next() {
		staff, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *staff)
	}
	return result, rows.Err()
}
