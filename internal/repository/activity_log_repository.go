package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-transit/grievance-service/internal/domain"
)

// ActivityLogRepository records admin actions.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
}

type activityLogRepository struct {
	pool *pgxpool.Pool
}

func NewActivityLogRepository(pool *pgxpool.Pool) ActivityLogRepository {
	return &activityLogRepository{pool: pool}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	const query = `
        INSERT INTO activity_logs (actor_id, actor_role, action, entity_type, entity_id, metadata)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return r.pool.QueryRow(ctx, query,
		entry.ActorID,
		entry.ActorRole,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		metadata,
	).Scan(&entry.ID, &entry.CreatedAt)
}
