// Package cache keeps short-lived snapshots of hot read paths in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campus-transit/grievance-service/internal/domain"
)

// ActiveStaffKey holds the JSON snapshot of the active staff directory.
const ActiveStaffKey = "grievance:staff:active"

// ErrMiss is returned by Get when no snapshot is stored.
var ErrMiss = errors.New("cache: miss")

// StaffCache stores the active staff directory.
type StaffCache interface {
	Get(ctx context.Context) ([]domain.StaffMember, error)
	Set(ctx context.Context, staff []domain.StaffMember) error
	Invalidate(ctx context.Context) error
}

type redisStaffCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStaffCache returns a cache backed by client. A nil client or a
// non-positive ttl yields a cache that always misses.
func NewRedisStaffCache(client *redis.Client, ttl time.Duration) StaffCache {
	if client == nil || ttl <= 0 {
		return noopStaffCache{}
	}
	return &redisStaffCache{client: client, ttl: ttl}
}

// staffEntry omits credentials from the cached snapshot.
type staffEntry struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Email             string           `json:"email"`
	Role              domain.StaffRole `json:"role"`
	CurrentWorkload   int              `json:"current_workload"`
	MaxCapacity       int              `json:"max_capacity"`
	Specializations   []string         `json:"specializations"`
	PerformanceRating float64          `json:"performance_rating"`
	Active            bool             `json:"active"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func (c *redisStaffCache) Get(ctx context.Context) ([]domain.StaffMember, error) {
	raw, err := c.client.Get(ctx, ActiveStaffKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return decodeStaff(raw)
}

func (c *redisStaffCache) Set(ctx context.Context, staff []domain.StaffMember) error {
	raw, err := encodeStaff(staff)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ActiveStaffKey, raw, c.ttl).Err()
}

func encodeStaff(staff []domain.StaffMember) ([]byte, error) {
	entries := make([]staffEntry, 0, len(staff))
	for _, s := range staff {
		entries = append(entries, staffEntry{
			ID:                s.ID,
			Name:              s.Name,
			Email:             s.Email,
			Role:              s.Role,
			CurrentWorkload:   s.CurrentWorkload,
			MaxCapacity:       s.MaxCapacity,
			Specializations:   s.Specializations,
			PerformanceRating: s.PerformanceRating,
			Active:            s.Active,
			CreatedAt:         s.CreatedAt,
			UpdatedAt:         s.UpdatedAt,
		})
	}
	return json.Marshal(entries)
}

func decodeStaff(raw []byte) ([]domain.StaffMember, error) {
	var entries []staffEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	staff := make([]domain.StaffMember, 0, len(entries))
	for _, e := range entries {
		staff = append(staff, domain.StaffMember{
			ID:                e.ID,
			Name:              e.Name,
			Email:             e.Email,
			Role:              e.Role,
			CurrentWorkload:   e.CurrentWorkload,
			MaxCapacity:       e.MaxCapacity,
			Specializations:   e.Specializations,
			PerformanceRating: e.PerformanceRating,
			Active:            e.Active,
			CreatedAt:         e.CreatedAt,
			UpdatedAt:         e.UpdatedAt,
		})
	}
	return staff, nil
}

func (c *redisStaffCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, ActiveStaffKey).Err()
}

type noopStaffCache struct{}

func (noopStaffCache) Get(context.Context) ([]domain.StaffMember, error) { return nil, ErrMiss }
func (noopStaffCache) Set(context.Context, []domain.StaffMember) error   { return nil }
func (noopStaffCache) Invalidate(context.Context) error                  { return nil }
