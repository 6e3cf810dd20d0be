package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-transit/grievance-service/internal/domain"
)

func TestStaffDirectory_CacheAside(t *testing.T) {
	repo := &fakeStaffRepo{staff: []domain.StaffMember{
		staffMember(1, domain.StaffRoleOperationsAdmin, 1, 10),
		staffMember(2, domain.StaffRoleSuperAdmin, 2, 10),
	}}
	c := &fakeStaffCache{}
	dir := NewStaffDirectory(repo, c, zap.NewNop())
	ctx := context.Background()

	first, err := dir.Active(ctx)
	require.NoError(t, err)
	second, err := dir.Active(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listCalls)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("cached roster differs (-first +second):\n%s", diff)
	}

	dir.Invalidate(ctx)
	_, err = dir.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestStaffDirectory_CacheErrorsFallThrough(t *testing.T) {
	repo := &fakeStaffRepo{staff: []domain.StaffMember{staffMember(1, domain.StaffRoleOperationsAdmin, 0, 10)}}
	c := &fakeStaffCache{getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	dir := NewStaffDirectory(repo, c, zap.NewNop())

	staff, err := dir.Active(context.Background())
	require.NoError(t, err)
	assert.Len(t, staff, 1)
	assert.Equal(t, 1, repo.listCalls)
}

func TestStaffDirectory_RepositoryErrorSurfaces(t *testing.T) {
	repo := &fakeStaffRepo{listErr: errors.New("db down")}
	dir := NewStaffDirectory(repo, nil, nil)

	_, err := dir.Active(context.Background())
	assert.EqualError(t, err, "db down")
}
