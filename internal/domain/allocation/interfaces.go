package allocation

import (
	"context"

	"github.com/planforge/rackplan/internal/domain/project"
)

// Repository provides persistence for hardware allocations.
type Repository interface {
	Create(ctx context.Context, tenantID string, alloc *Allocation) error
	Get(ctx context.Context, tenantID, id string) (*Allocation, error)
	ListByProject(ctx context.Context, tenantID, projectID string) ([]Allocation, error)
	ListByActivity(ctx context.Context, tenantID, activityID string) ([]Allocation, error)
	ListByHardwareUnit(ctx context.Context, tenantID, unitID string) ([]Allocation, error)
	Update(ctx context.Context, tenantID string, alloc *Allocation) error
	Delete(ctx context.Context, tenantID, id string) error
}

// ProjectRepository is the slice of project persistence the allocation
// service needs to enforce the owning-project invariant.
type ProjectRepository interface {
	Get(ctx context.Context, tenantID, id string) (*project.Project, error)
}
