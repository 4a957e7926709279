package memstore

import (
	"context"
	"sort"

	"github.com/planforge/rackplan/internal/domain/activity"
	"github.com/planforge/rackplan/internal/repository"
)

var _ activity.Repository = (*ActivityRepository)(nil)

// ActivityRepository implements activity.Repository in memory
type ActivityRepository struct {
	store *Store
}

// Create stores a new activity
func (r *ActivityRepository) Create(ctx context.Context, tenantID string, act *activity.Activity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tenantMap(r.store.activities, tenantID)[act.ID] = cloneActivity(*act)
	return nil
}

// Get retrieves an activity by ID
func (r *ActivityRepository) Get(ctx context.Context, tenantID, id string) (*activity.Activity, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stored, ok := r.store.activities[tenantID][id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := cloneActivity(stored)
	return &clone, nil
}

// ListByProject returns a project's activities ordered by creation time
func (r *ActivityRepository) ListByProject(ctx context.Context, tenantID, projectID string) ([]activity.Activity, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	activities := []activity.Activity{}
	for _, act := range r.store.activities[tenantID] {
		if act.ProjectID == projectID {
			activities = append(activities, cloneActivity(act))
		}
	}

	sort.Slice(activities, func(i, j int) bool {
		if activities[i].CreatedAt.Equal(activities[j].CreatedAt) {
			return activities[i].ID < activities[j].ID
		}
		return activities[i].CreatedAt.Before(activities[j].CreatedAt)
	})
	return activities, nil
}

// Update replaces a stored activity
func (r *ActivityRepository) Update(ctx context.Context, tenantID string, act *activity.Activity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	records := r.store.activities[tenantID]
	if _, ok := records[act.ID]; !ok {
		return repository.ErrNotFound
	}
	records[act.ID] = cloneActivity(*act)
	return nil
}

// Delete removes an activity and detaches its allocations, matching
// the SQL schema's ON DELETE SET NULL on allocations.activity_id.
func (r *ActivityRepository) Delete(ctx context.Context, tenantID, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	records := r.store.activities[tenantID]
	if _, ok := records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(records, id)

	allocations := r.store.allocations[tenantID]
	for allocID, alloc := range allocations {
		if alloc.ActivityID != nil && *alloc.ActivityID == id {
			detached := cloneAllocation(alloc)
			detached.ActivityID = nil
			allocations[allocID] = detached
		}
	}
	return nil
}
