package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/campus-transit/grievance-service/internal/cache"
	"github.com/campus-transit/grievance-service/internal/domain"
	"github.com/campus-transit/grievance-service/internal/repository"
)

// StaffDirectory serves the active staff roster, reading through the cache.
type StaffDirectory struct {
	repo   repository.StaffRepository
	cache  cache.StaffCache
	logger *zap.Logger
}

// NewStaffDirectory builds a directory. A nil cache disables caching.
func NewStaffDirectory(repo repository.StaffRepository, staffCache cache.StaffCache, logger *zap.Logger) *StaffDirectory {
	if staffCache == nil {
		staffCache = cache.NewRedisStaffCache(nil, 0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffDirectory{repo: repo, cache: staffCache, logger: logger}
}

// Active returns active staff with current workloads. Cache failures fall
// through to the repository.
func (d *StaffDirectory) Active(ctx context.Context) ([]domain.StaffMember, error) {
	staff, err := d.cache.Get(ctx)
	if err == nil {
		return staff, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		d.logger.Warn("staff cache read failed", zap.Error(err))
	}

	staff, err = d.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if err := d.cache.Set(ctx, staff); err != nil {
		d.logger.Warn("staff cache write failed", zap.Error(err))
	}
	return staff, nil
}

// Get loads one staff member straight from the repository.
func (d *StaffDirectory) Get(ctx context.Context, id string) (*domain.StaffMember, error) {
	return d.repo.GetByID(ctx, id)
}

// Invalidate drops the cached roster so the next read sees new workloads.
func (d *StaffDirectory) Invalidate(ctx context.Context) {
	if err := d.cache.Invalidate(ctx); err != nil {
		d.logger.Warn("staff cache invalidation failed", zap.Error(err))
	}
}
