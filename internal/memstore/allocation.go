package memstore

import (
	"context"
	"sort"

	"github.com/planforge/rackplan/internal/domain/allocation"
	"github.com/planforge/rackplan/internal/repository"
)

var _ allocation.Repository = (*AllocationRepository)(nil)

// AllocationRepository implements allocation.Repository in memory
type AllocationRepository struct {
	store *Store
}

// Create stores a new allocation
func (r *AllocationRepository) Create(ctx context.Context, tenantID string, alloc *allocation.Allocation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tenantMap(r.store.allocations, tenantID)[alloc.ID] = cloneAllocation(*alloc)
	return nil
}

// Get retrieves an allocation by ID
func (r *AllocationRepository) Get(ctx context.Context, tenantID, id string) (*allocation.Allocation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stored, ok := r.store.allocations[tenantID][id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := cloneAllocation(stored)
	return &clone, nil
}

// ListByProject returns a project's allocations ordered by start time
func (r *AllocationRepository) ListByProject(ctx context.Context, tenantID, projectID string) ([]allocation.Allocation, error) {
	return r.listWhere(tenantID, func(alloc allocation.Allocation) bool {
		return alloc.ProjectID == projectID
	})
}

// ListByActivity returns allocations tied to an activity
func (r *AllocationRepository) ListByActivity(ctx context.Context, tenantID, activityID string) ([]allocation.Allocation, error) {
	return r.listWhere(tenantID, func(alloc allocation.Allocation) bool {
		return alloc.ActivityID != nil && *alloc.ActivityID == activityID
	})
}

// ListByHardwareUnit returns a hardware unit's allocations
func (r *AllocationRepository) ListByHardwareUnit(ctx context.Context, tenantID, unitID string) ([]allocation.Allocation, error) {
	return r.listWhere(tenantID, func(alloc allocation.Allocation) bool {
		return alloc.HardwareUnitID == unitID
	})
}

// Update replaces a stored allocation
func (r *AllocationRepository) Update(ctx context.Context, tenantID string, alloc *allocation.Allocation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	records := r.store.allocations[tenantID]
	if _, ok := records[alloc.ID]; !ok {
		return repository.ErrNotFound
	}
	records[alloc.ID] = cloneAllocation(*alloc)
	return nil
}

// Delete removes an allocation, freeing its window
func (r *AllocationRepository) Delete(ctx context.Context, tenantID, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	records := r.store.allocations[tenantID]
	if _, ok := records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(records, id)
	return nil
}

func (r *AllocationRepository) listWhere(tenantID string, match func(allocation.Allocation) bool) ([]allocation.Allocation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	allocations := []allocation.Allocation{}
	for _, alloc := range r.store.allocations[tenantID] {
		if match(alloc) {
			allocations = append(allocations, cloneAllocation(alloc))
		}
	}

	sort.Slice(allocations, func(i, j int) bool {
		if allocations[i].Start.Equal(allocations[j].Start) {
			return allocations[i].ID < allocations[j].ID
		}
		return allocations[i].Start.Before(allocations[j].Start)
	})
	return allocations, nil
}
