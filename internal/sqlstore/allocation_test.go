package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/planforge/rackplan/internal/domain/activity"
	"github.com/planforge/rackplan/internal/domain/allocation"
	"github.com/planforge/rackplan/internal/repository"
)

func TestAllocationRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	repo := NewAllocationRepository(db)

	now := time.Now().UTC()
	seedProject(t, db, "p1", now)

	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	created := &allocation.Allocation{
		ID:             "al1",
		TenantID:       testTenant,
		ProjectID:      "p1",
		HardwareUnitID: "rack-42",
		Type:           allocation.TypeDeployed,
		Purpose:        "staging for row 4 cutover",
		Start:          start,
		End:            &end,
		Notes:          "return to pool after cutover",
		AllocatedBy:    "alex",
		CreatedAt:      now,
	}
	require.NoError(t, repo.Create(ctx, testTenant, created))

	got, err := repo.Get(ctx, testTenant, "al1")
	require.NoError(t, err)
	require.Equal(t, created.HardwareUnitID, got.HardwareUnitID)
	require.Equal(t, created.Type, got.Type)
	require.Equal(t, created.Purpose, got.Purpose)
	require.Nil(t, got.ActivityID)
	require.WithinDuration(t, start, got.Start, time.Second)
	require.NotNil(t, got.End)
	require.WithinDuration(t, end, *got.End, time.Second)
}

func TestAllocationRepository_OpenEndedWindow(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	repo := NewAllocationRepository(db)

	now := time.Now().UTC()
	seedProject(t, db, "p1", now)

	require.NoError(t, repo.Create(ctx, testTenant, &allocation.Allocation{
		ID: "al1", TenantID: testTenant, ProjectID: "p1", HardwareUnitID: "rack-42",
		Type: allocation.TypeReserved, Start: now, CreatedAt: now,
	}))

	got, err := repo.Get(ctx, testTenant, "al1")
	require.NoError(t, err)
	require.Nil(t, got.End)
}

func TestAllocationRepository_ListByHardwareUnit(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	repo := NewAllocationRepository(db)

	now := time.Now().UTC()
	seedProject(t, db, "p1", now)

	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	for _, alloc := range []allocation.Allocation{
		{ID: "al1", TenantID: testTenant, ProjectID: "p1", HardwareUnitID: "rack-1", Type: allocation.TypeReserved, Start: base.Add(2 * time.Hour), CreatedAt: now},
		{ID: "al2", TenantID: testTenant, ProjectID: "p1", HardwareUnitID: "rack-1", Type: allocation.TypeReserved, Start: base, CreatedAt: now},
		{ID: "al3", TenantID: testTenant, ProjectID: "p1", HardwareUnitID: "rack-2", Type: allocation.TypeReserved, Start: base, CreatedAt: now},
	} {
		a := alloc
		require.NoError(t, repo.Create(ctx, testTenant, &a))
	}

	got, err := repo.ListByHardwareUnit(ctx, testTenant, "rack-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by start time.
	require.Equal(t, "al2", got[0].ID)
	require.Equal(t, "al1", got[1].ID)
}

func TestAllocationRepository_ActivityLink(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)

	now := time.Now().UTC()
	seedProject(t, db, "p1", now)

	actRepo := NewActivityRepository(db)
	require.NoError(t, actRepo.Create(ctx, testTenant, &activity.Activity{
		ID: "a1", TenantID: testTenant, ProjectID: "p1", Name: "Rack and stack",
		Status: activity.StatusPending, CreatedAt: now, UpdatedAt: now,
	}))

	repo := NewAllocationRepository(db)
	activityID := "a1"
	require.NoError(t, repo.Create(ctx, testTenant, &allocation.Allocation{
		ID: "al1", TenantID: testTenant, ProjectID: "p1", ActivityID: &activityID,
		HardwareUnitID: "rack-42", Type: allocation.TypeAllocated, Start: now, CreatedAt: now,
	}))

	byActivity, err := repo.ListByActivity(ctx, testTenant, "a1")
	require.NoError(t, err)
	require.Len(t, byActivity, 1)
	require.Equal(t, "al1", byActivity[0].ID)

	// Deleting the activity detaches the allocation instead of
	// removing it.
	require.NoError(t, actRepo.Delete(ctx, testTenant, "a1"))

	got, err := repo.Get(ctx, testTenant, "al1")
	require.NoError(t, err)
	require.Nil(t, got.ActivityID)
}

func TestAllocationRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	repo := NewAllocationRepository(db)

	now := time.Now().UTC()
	seedProject(t, db, "p1", now)

	alloc := &allocation.Allocation{
		ID: "al1", TenantID: testTenant, ProjectID: "p1", HardwareUnitID: "rack-42",
		Type: allocation.TypeReserved, Start: now, CreatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, testTenant, alloc))

	alloc.Type = allocation.TypeDeployed
	end := now.Add(4 * time.Hour)
	alloc.End = &end
	require.NoError(t, repo.Update(ctx, testTenant, alloc))

	got, err := repo.Get(ctx, testTenant, "al1")
	require.NoError(t, err)
	require.Equal(t, allocation.TypeDeployed, got.Type)
	require.NotNil(t, got.End)

	require.NoError(t, repo.Delete(ctx, testTenant, "al1"))
	_, err = repo.Get(ctx, testTenant, "al1")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, testTenant, "al1"), repository.ErrNotFound)
}
