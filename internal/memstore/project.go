package memstore

import (
	"context"
	"sort"

	"github.com/planforge/rackplan/internal/domain/project"
	"github.com/planforge/rackplan/internal/repository"
)

var _ project.Repository = (*ProjectRepository)(nil)

// ProjectRepository implements project.Repository in memory
type ProjectRepository struct {
	store *Store
}

// Create stores a new project
func (r *ProjectRepository) Create(ctx context.Context, tenantID string, proj *project.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tenantMap(r.store.projects, tenantID)[proj.ID] = cloneProject(*proj)
	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stored, ok := r.store.projects[tenantID][id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := cloneProject(stored)
	return &clone, nil
}

// List returns all projects for a tenant with summary counts, newest first
func (r *ProjectRepository) List(ctx context.Context, tenantID string) ([]project.Summary, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	summaries := make([]project.Summary, 0, len(r.store.projects[tenantID]))
	for _, proj := range r.store.projects[tenantID] {
		summary := project.Summary{
			ID:        proj.ID,
			Name:      proj.Name,
			Status:    proj.Status,
			Priority:  proj.Priority,
			Progress:  proj.Progress,
			CreatedAt: proj.CreatedAt,
		}
		for _, act := range r.store.activities[tenantID] {
			if act.ProjectID == proj.ID {
				summary.ActivityCount++
			}
		}
		for _, alloc := range r.store.allocations[tenantID] {
			if alloc.ProjectID == proj.ID {
				summary.AllocationCount++
			}
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID < summaries[j].ID
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

// Update replaces a stored project
func (r *ProjectRepository) Update(ctx context.Context, tenantID string, proj *project.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	records := r.store.projects[tenantID]
	if _, ok := records[proj.ID]; !ok {
		return repository.ErrNotFound
	}
	records[proj.ID] = cloneProject(*proj)
	return nil
}

// Delete removes a project and cascades to its activities and allocations
func (r *ProjectRepository) Delete(ctx context.Context, tenantID, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	records := r.store.projects[tenantID]
	if _, ok := records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(records, id)

	for actID, act := range r.store.activities[tenantID] {
		if act.ProjectID == id {
			delete(r.store.activities[tenantID], actID)
		}
	}
	for allocID, alloc := range r.store.allocations[tenantID] {
		if alloc.ProjectID == id {
			delete(r.store.allocations[tenantID], allocID)
		}
	}
	return nil
}
