package resilient

import (
	"context"

	"github.com/planforge/rackplan/internal/domain/project"
)

var _ project.Repository = (*ProjectRepository)(nil)

// ProjectRepository serves project operations with mirror fallback.
type ProjectRepository struct {
	backend *Backend
	primary project.Repository
	mirror  project.Repository
}

// NewProjectRepository wraps primary with mirror fallback. primary may
// be nil when no durable backend was configured.
func NewProjectRepository(backend *Backend, primary, mirror project.Repository) *ProjectRepository {
	if primary == nil {
		primary = mirror
	}
	return &ProjectRepository{backend: backend, primary: primary, mirror: mirror}
}

func (r *ProjectRepository) Create(ctx context.Context, tenantID string, proj *project.Project) error {
	return r.backend.write(ctx, "project.create",
		func(ctx context.Context) error { return r.primary.Create(ctx, tenantID, proj) },
		func(ctx context.Context) error { return r.mirror.Create(ctx, tenantID, proj) },
	)
}

func (r *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	var proj *project.Project
	err := r.backend.read(ctx, "project.get",
		func(ctx context.Context) error {
			var err error
			proj, err = r.primary.Get(ctx, tenantID, id)
			return err
		},
		func(ctx context.Context) error {
			var err error
			proj, err = r.mirror.Get(ctx, tenantID, id)
			return err
		},
	)
	return proj, err
}

func (r *ProjectRepository) List(ctx context.Context, tenantID string) ([]project.Summary, error) {
	var summaries []project.Summary
	err := r.backend.read(ctx, "project.list",
		func(ctx context.Context) error {
			var err error
			summaries, err = r.primary.List(ctx, tenantID)
			return err
		},
		func(ctx context.Context) error {
			var err error
			summaries, err = r.mirror.List(ctx, tenantID)
			return err
		},
	)
	return summaries, err
}

func (r *ProjectRepository) Update(ctx context.Context, tenantID string, proj *project.Project) error {
	return r.backend.write(ctx, "project.update",
		func(ctx context.Context) error { return r.primary.Update(ctx, tenantID, proj) },
		func(ctx context.Context) error { return r.mirror.Update(ctx, tenantID, proj) },
	)
}

func (r *ProjectRepository) Delete(ctx context.Context, tenantID, id string) error {
	return r.backend.write(ctx, "project.delete",
		func(ctx context.Context) error { return r.primary.Delete(ctx, tenantID, id) },
		func(ctx context.Context) error { return r.mirror.Delete(ctx, tenantID, id) },
	)
}
