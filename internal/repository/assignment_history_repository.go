package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-transit/grievance-service/internal/domain"
)

// AssignmentHistoryRepository reads append-only assignment audit rows.
// Rows are written by GrievanceRepository.AssignWithHistory.
type AssignmentHistoryRepository interface {
	ListByGrievance(ctx context.Context, grievanceID string) ([]domain.AssignmentHistory, error)
}

type assignmentHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentHistoryRepository builds repository.
func NewAssignmentHistoryRepository(pool *pgxpool.Pool) AssignmentHistoryRepository {
	return &assignmentHistoryRepository{pool: pool}
}

func insertAssignmentHistory(ctx context.Context, tx pgx.Tx, history *domain.AssignmentHistory) error {
	const query = `
        INSERT INTO assignment_history (grievance_id, assigned_by, assigned_to, previous_assignee, reason, notes)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return tx.QueryRow(ctx, query,
		history.GrievanceID,
		history.AssignedBy,
		history.AssignedTo,
		history.PreviousAssignee,
		history.Reason,
		history.Notes,
	).Scan(&history.ID, &history.CreatedAt)
}

func (r *assignmentHistoryRepository) ListByGrievance(ctx context.Context, grievanceID string) ([]domain.AssignmentHistory, error) {
	const query = `
        SELECT id, grievance_id, assigned_by, assigned_to, previous_assignee, reason, notes, created_at
        FROM assignment_history WHERE grievance_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, grievanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AssignmentHistory
	for rows.Next() {
		var history domain.AssignmentHistory
		if err := rows.Scan(
			&history.ID,
			&history.GrievanceID,
			&history.AssignedBy,
			&history.AssignedTo,
			&history.PreviousAssignee,
			&history.Reason,
			&history.Notes,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}
