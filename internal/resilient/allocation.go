package resilient

import (
	"context"

	"github.com/planforge/rackplan/internal/domain/allocation"
)

var _ allocation.Repository = (*AllocationRepository)(nil)

// AllocationRepository serves allocation operations with mirror fallback.
type AllocationRepository struct {
	backend *Backend
	primary allocation.Repository
	mirror  allocation.Repository
}

func NewAllocationRepository(backend *Backend, primary, mirror allocation.Repository) *AllocationRepository {
	if primary == nil {
		primary = mirror
	}
	return &AllocationRepository{backend: backend, primary: primary, mirror: mirror}
}

func (r *AllocationRepository) Create(ctx context.Context, tenantID string, alloc *allocation.Allocation) error {
	return r.backend.write(ctx, "allocation.create",
		func(ctx context.Context) error { return r.primary.Create(ctx, tenantID, alloc) },
		func(ctx context.Context) error { return r.mirror.Create(ctx, tenantID, alloc) },
	)
}

func (r *AllocationRepository) Get(ctx context.Context, tenantID, id string) (*allocation.Allocation, error) {
	var alloc *allocation.Allocation
	err := r.backend.read(ctx, "allocation.get",
		func(ctx context.Context) error {
			var err error
			alloc, err = r.primary.Get(ctx, tenantID, id)
			return err
		},
		func(ctx context.Context) error {
			var err error
			alloc, err = r.mirror.Get(ctx, tenantID, id)
			return err
		},
	)
	return alloc, err
}

func (r *AllocationRepository) ListByProject(ctx context.Context, tenantID, projectID string) ([]allocation.Allocation, error) {
	return r.list(ctx, "allocation.list_by_project", func(repo allocation.Repository) func(context.Context) ([]allocation.Allocation, error) {
		return func(ctx context.Context) ([]allocation.Allocation, error) {
			return repo.ListByProject(ctx, tenantID, projectID)
		}
	})
}

func (r *AllocationRepository) ListByActivity(ctx context.Context, tenantID, activityID string) ([]allocation.Allocation, error) {
	return r.list(ctx, "allocation.list_by_activity", func(repo allocation.Repository) func(context.Context) ([]allocation.Allocation, error) {
		return func(ctx context.Context) ([]allocation.Allocation, error) {
			return repo.ListByActivity(ctx, tenantID, activityID)
		}
	})
}

func (r *AllocationRepository) ListByHardwareUnit(ctx context.Context, tenantID, unitID string) ([]allocation.Allocation, error) {
	return r.list(ctx, "allocation.list_by_hardware_unit", func(repo allocation.Repository) func(context.Context) ([]allocation.Allocation, error) {
		return func(ctx context.Context) ([]allocation.Allocation, error) {
			return repo.ListByHardwareUnit(ctx, tenantID, unitID)
		}
	})
}

func (r *AllocationRepository) list(ctx context.Context, op string, query func(allocation.Repository) func(context.Context) ([]allocation.Allocation, error)) ([]allocation.Allocation, error) {
	var allocs []allocation.Allocation
	err := r.backend.read(ctx, op,
		func(ctx context.Context) error {
			var err error
			allocs, err = query(r.primary)(ctx)
			return err
		},
		func(ctx context.Context) error {
			var err error
			allocs, err = query(r.mirror)(ctx)
			return err
		},
	)
	return allocs, err
}

func (r *AllocationRepository) Update(ctx context.Context, tenantID string, alloc *allocation.Allocation) error {
	return r.backend.write(ctx, "allocation.update",
		func(ctx context.Context) error { return r.primary.Update(ctx, tenantID, alloc) },
		func(ctx context.Context) error { return r.mirror.Update(ctx, tenantID, alloc) },
	)
}

func (r *AllocationRepository) Delete(ctx context.Context, tenantID, id string) error {
	return r.backend.write(ctx, "allocation.delete",
		func(ctx context.Context) error { return r.primary.Delete(ctx, tenantID, id) },
		func(ctx context.Context) error { return r.mirror.Delete(ctx, tenantID, id) },
	)
}
