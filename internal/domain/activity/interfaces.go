package activity

import (
	"context"

	"github.com/planforge/rackplan/internal/domain/project"
)

// Repository provides persistence for activities.
type Repository interface {
	Create(ctx context.Context, tenantID string, act *Activity) error
	Get(ctx context.Context, tenantID, id string) (*Activity, error)
	ListByProject(ctx context.Context, tenantID, projectID string) ([]Activity, error)
	Update(ctx context.Context, tenantID string, act *Activity) error
	Delete(ctx context.Context, tenantID, id string) error
}

// ProjectRepository is the slice of project persistence the activity
// service needs to enforce the owning-project invariant.
type ProjectRepository interface {
	Get(ctx context.Context, tenantID, id string) (*project.Project, error)
}
