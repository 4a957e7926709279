package resilient

import (
	"context"

	"github.com/planforge/rackplan/internal/domain/activity"
)

var _ activity.Repository = (*ActivityRepository)(nil)

// ActivityRepository serves activity operations with mirror fallback.
type ActivityRepository struct {
	backend *Backend
	primary activity.Repository
	mirror  activity.Repository
}

func NewActivityRepository(backend *Backend, primary, mirror activity.Repository) *ActivityRepository {
	if primary == nil {
		primary = mirror
	}
	return &ActivityRepository{backend: backend, primary: primary, mirror: mirror}
}

func (r *ActivityRepository) Create(ctx context.Context, tenantID string, act *activity.Activity) error {
	return r.backend.write(ctx, "activity.create",
		func(ctx context.Context) error { return r.primary.Create(ctx, tenantID, act) },
		func(ctx context.Context) error { return r.mirror.Create(ctx, tenantID, act) },
	)
}

func (r *ActivityRepository) Get(ctx context.Context, tenantID, id string) (*activity.Activity, error) {
	var act *activity.Activity
	err := r.backend.read(ctx, "activity.get",
		func(ctx context.Context) error {
			var err error
			act, err = r.primary.Get(ctx, tenantID, id)
			return err
		},
		func(ctx context.Context) error {
			var err error
			act, err = r.mirror.Get(ctx, tenantID, id)
			return err
		},
	)
	return act, err
}

func (r *ActivityRepository) ListByProject(ctx context.Context, tenantID, projectID string) ([]activity.Activity, error) {
	var acts []activity.Activity
	err := r.backend.read(ctx, "activity.list_by_project",
		func(ctx context.Context) error {
			var err error
			acts, err = r.primary.ListByProject(ctx, tenantID, projectID)
			return err
		},
		func(ctx context.Context) error {
			var err error
			acts, err = r.mirror.ListByProject(ctx, tenantID, projectID)
			return err
		},
	)
	return acts, err
}

func (r *ActivityRepository) Update(ctx context.Context, tenantID string, act *activity.Activity) error {
	return r.backend.write(ctx, "activity.update",
		func(ctx context.Context) error { return r.primary.Update(ctx, tenantID, act) },
		func(ctx context.Context) error { return r.mirror.Update(ctx, tenantID, act) },
	)
}

func (r *ActivityRepository) Delete(ctx context.Context, tenantID, id string) error {
	return r.backend.write(ctx, "activity.delete",
		func(ctx context.Context) error { return r.primary.Delete(ctx, tenantID, id) },
		func(ctx context.Context) error { return r.mirror.Delete(ctx, tenantID, id) },
	)
}
