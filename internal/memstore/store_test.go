package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/planforge/rackplan/internal/domain/activity"
	"github.com/planforge/rackplan/internal/domain/allocation"
	"github.com/planforge/rackplan/internal/domain/project"
	"github.com/planforge/rackplan/internal/memstore"
	"github.com/planforge/rackplan/internal/repository"
)

const tenantID = "tenant1"

func newProject(id string, createdAt time.Time) *project.Project {
	return &project.Project{
		ID:        id,
		TenantID:  tenantID,
		Name:      "Project " + id,
		Type:      project.TypeMigration,
		Status:    project.StatusPlanning,
		Priority:  project.PriorityMedium,
		Team:      []string{"alex"},
		Tags:      []string{"dc-west"},
		Metadata:  map[string]any{"region": "west"},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestProjectRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	repo := store.Projects()

	created := newProject("p1", time.Now())
	require.NoError(t, repo.Create(ctx, tenantID, created))

	got, err := repo.Get(ctx, tenantID, "p1")
	require.NoError(t, err)
	require.Equal(t, created.Name, got.Name)
	require.Equal(t, created.Team, got.Team)
	require.Equal(t, created.Metadata, got.Metadata)

	// Mutating the returned copy must not touch the stored record.
	got.Team[0] = "mallory"
	again, err := repo.Get(ctx, tenantID, "p1")
	require.NoError(t, err)
	require.Equal(t, "alex", again.Team[0])
}

func TestTenantIsolation(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	repo := store.Projects()

	require.NoError(t, repo.Create(ctx, "tenant-a", newProject("p1", time.Now())))

	_, err := repo.Get(ctx, "tenant-b", "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	summaries, err := repo.List(ctx, "tenant-b")
	require.NoError(t, err)
	require.Empty(t, summaries)
}

func TestListCountsAndOrder(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	older := time.Now().Add(-time.Hour)
	newer := time.Now()
	require.NoError(t, store.Projects().Create(ctx, tenantID, newProject("p1", older)))
	require.NoError(t, store.Projects().Create(ctx, tenantID, newProject("p2", newer)))

	require.NoError(t, store.Activities().Create(ctx, tenantID, &activity.Activity{
		ID: "a1", ProjectID: "p1", Name: "Rack and stack", Status: activity.StatusPending,
	}))
	require.NoError(t, store.Allocations().Create(ctx, tenantID, &allocation.Allocation{
		ID: "al1", ProjectID: "p1", HardwareUnitID: "rack-42", Start: time.Now(),
	}))

	summaries, err := store.Projects().List(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Newest first.
	require.Equal(t, "p2", summaries[0].ID)
	require.Equal(t, "p1", summaries[1].ID)
	require.Equal(t, 1, summaries[1].ActivityCount)
	require.Equal(t, 1, summaries[1].AllocationCount)
	require.Equal(t, 0, summaries[0].ActivityCount)
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	require.NoError(t, store.Projects().Create(ctx, tenantID, newProject("p1", time.Now())))
	require.NoError(t, store.Activities().Create(ctx, tenantID, &activity.Activity{
		ID: "a1", ProjectID: "p1", Name: "Rack and stack", Status: activity.StatusPending,
	}))
	require.NoError(t, store.Allocations().Create(ctx, tenantID, &allocation.Allocation{
		ID: "al1", ProjectID: "p1", HardwareUnitID: "rack-42", Start: time.Now(),
	}))

	require.NoError(t, store.Projects().Delete(ctx, tenantID, "p1"))

	_, err := store.Activities().Get(ctx, tenantID, "a1")
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = store.Allocations().Get(ctx, tenantID, "al1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestActivityDeleteDetachesAllocations(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	require.NoError(t, store.Projects().Create(ctx, tenantID, newProject("p1", time.Now())))
	require.NoError(t, store.Activities().Create(ctx, tenantID, &activity.Activity{
		ID: "a1", ProjectID: "p1", Name: "Rack and stack", Status: activity.StatusPending,
	}))
	activityID := "a1"
	require.NoError(t, store.Allocations().Create(ctx, tenantID, &allocation.Allocation{
		ID: "al1", ProjectID: "p1", ActivityID: &activityID, HardwareUnitID: "rack-42", Start: time.Now(),
	}))

	require.NoError(t, store.Activities().Delete(ctx, tenantID, "a1"))

	// The allocation survives with its activity link cleared, the same
	// outcome SET NULL produces in the durable store.
	got, err := store.Allocations().Get(ctx, tenantID, "al1")
	require.NoError(t, err)
	require.Nil(t, got.ActivityID)

	byActivity, err := store.Allocations().ListByActivity(ctx, tenantID, "a1")
	require.NoError(t, err)
	require.Empty(t, byActivity)
}

func TestUpdateMissingRecord(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	err := store.Projects().Update(ctx, tenantID, newProject("ghost", time.Now()))
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = store.Allocations().Update(ctx, tenantID, &allocation.Allocation{ID: "ghost"})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAllocationListsFilter(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	repo := store.Allocations()

	activityID := "act1"
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	allocs := []allocation.Allocation{
		{ID: "al1", ProjectID: "p1", ActivityID: &activityID, HardwareUnitID: "rack-1", Start: base.Add(2 * time.Hour)},
		{ID: "al2", ProjectID: "p1", HardwareUnitID: "rack-2", Start: base},
		{ID: "al3", ProjectID: "p2", HardwareUnitID: "rack-1", Start: base.Add(time.Hour)},
	}
	for i := range allocs {
		require.NoError(t, repo.Create(ctx, tenantID, &allocs[i]))
	}

	byProject, err := repo.ListByProject(ctx, tenantID, "p1")
	require.NoError(t, err)
	require.Len(t, byProject, 2)

	// Ordered by start time.
	require.Equal(t, "al2", byProject[0].ID)
	require.Equal(t, "al1", byProject[1].ID)

	byUnit, err := repo.ListByHardwareUnit(ctx, tenantID, "rack-1")
	require.NoError(t, err)
	require.Len(t, byUnit, 2)

	byActivity, err := repo.ListByActivity(ctx, tenantID, activityID)
	require.NoError(t, err)
	require.Len(t, byActivity, 1)
	require.Equal(t, "al1", byActivity[0].ID)
}
