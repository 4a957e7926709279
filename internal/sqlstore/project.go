package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/planforge/rackplan/internal/domain/project"
	"github.com/planforge/rackplan/internal/repository"
)

var _ project.Repository = (*ProjectRepository)(nil)

// ProjectRepository implements project.Repository for SQL backends
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, tenantID string, proj *project.Project) error {
	team, err := marshalStrings(proj.Team)
	if err != nil {
		return err
	}
	tags, err := marshalStrings(proj.Tags)
	if err != nil {
		return err
	}
	metadata, err := marshalMetadata(proj.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO projects (
			id, tenant_id, name, description, type, status, priority, owner_id,
			team, start_date, target_end_date, progress,
			budget_allocated, budget_spent, tags, metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, r.db.bind(query),
		proj.ID,
		tenantID,
		proj.Name,
		proj.Description,
		proj.Type,
		proj.Status,
		proj.Priority,
		proj.OwnerID,
		team,
		nullTime(proj.StartDate),
		nullTime(proj.TargetEndDate),
		proj.Progress,
		nullFloat(proj.BudgetAllocated),
		proj.BudgetSpent,
		tags,
		metadata,
		proj.CreatedAt,
		proj.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	query := `
		SELECT id, tenant_id, name, description, type, status, priority, owner_id,
			team, start_date, target_end_date, progress,
			budget_allocated, budget_spent, tags, metadata, created_at, updated_at
		FROM projects
		WHERE id = ? AND tenant_id = ?
	`

	row := r.db.QueryRowContext(ctx, r.db.bind(query), id, tenantID)
	return scanProject(row)
}

// List returns all projects for a tenant with summary counts, newest first
func (r *ProjectRepository) List(ctx context.Context, tenantID string) ([]project.Summary, error) {
	query := `
		SELECT
			p.id,
			p.name,
			p.status,
			p.priority,
			p.progress,
			p.created_at,
			COUNT(DISTINCT a.id) as activity_count,
			COUNT(DISTINCT h.id) as allocation_count
		FROM projects p
		LEFT JOIN activities a ON a.project_id = p.id AND a.tenant_id = p.tenant_id
		LEFT JOIN allocations h ON h.project_id = p.id AND h.tenant_id = p.tenant_id
		WHERE p.tenant_id = ?
		GROUP BY p.id, p.name, p.status, p.priority, p.progress, p.created_at
		ORDER BY p.created_at DESC, p.id
	`

	rows, err := r.db.QueryContext(ctx, r.db.bind(query), tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var summaries []project.Summary
	for rows.Next() {
		var summary project.Summary
		err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.Status,
			&summary.Priority,
			&summary.Progress,
			&summary.CreatedAt,
			&summary.ActivityCount,
			&summary.AllocationCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return summaries, nil
}

// Update replaces a stored project
func (r *ProjectRepository) Update(ctx context.Context, tenantID string, proj *project.Project) error {
	team, err := marshalStrings(proj.Team)
	if err != nil {
		return err
	}
	tags, err := marshalStrings(proj.Tags)
	if err != nil {
		return err
	}
	metadata, err := marshalMetadata(proj.Metadata)
	if err != nil {
		return err
	}

	query := `
		UPDATE projects
		SET name = ?, description = ?, type = ?, status = ?, priority = ?,
			owner_id = ?, team = ?, start_date = ?, target_end_date = ?,
			progress = ?, budget_allocated = ?, budget_spent = ?,
			tags = ?, metadata = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ?
	`

	result, err := r.db.ExecContext(ctx, r.db.bind(query),
		proj.Name,
		proj.Description,
		proj.Type,
		proj.Status,
		proj.Priority,
		proj.OwnerID,
		team,
		nullTime(proj.StartDate),
		nullTime(proj.TargetEndDate),
		proj.Progress,
		nullFloat(proj.BudgetAllocated),
		proj.BudgetSpent,
		tags,
		metadata,
		proj.UpdatedAt,
		proj.ID,
		tenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a project; activities and allocations cascade
func (r *ProjectRepository) Delete(ctx context.Context, tenantID, id string) error {
	query := `DELETE FROM projects WHERE id = ? AND tenant_id = ?`

	result, err := r.db.ExecContext(ctx, r.db.bind(query), id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func scanProject(row *sql.Row) (*project.Project, error) {
	var proj project.Project
	var team, tags, metadata string
	var startDate, targetEndDate sql.NullTime
	var budgetAllocated sql.NullFloat64

	err := row.Scan(
		&proj.ID,
		&proj.TenantID,
		&proj.Name,
		&proj.Description,
		&proj.Type,
		&proj.Status,
		&proj.Priority,
		&proj.OwnerID,
		&team,
		&startDate,
		&targetEndDate,
		&proj.Progress,
		&budgetAllocated,
		&proj.BudgetSpent,
		&tags,
		&metadata,
		&proj.CreatedAt,
		&proj.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if proj.Team, err = unmarshalStrings(team); err != nil {
		return nil, err
	}
	if proj.Tags, err = unmarshalStrings(tags); err != nil {
		return nil, err
	}
	if proj.Metadata, err = unmarshalMetadata(metadata); err != nil {
		return nil, err
	}
	proj.StartDate = timePtr(startDate)
	proj.TargetEndDate = timePtr(targetEndDate)
	proj.BudgetAllocated = floatPtr(budgetAllocated)

	return &proj, nil
}
