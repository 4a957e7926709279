package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/planforge/rackplan/internal/domain/activity"
	"github.com/planforge/rackplan/internal/repository"
)

var _ activity.Repository = (*ActivityRepository)(nil)

// ActivityRepository implements activity.Repository for SQL backends
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

const activityColumns = `id, tenant_id, project_id, name, description, type, status,
	start_date, end_date, due_date, assignee_id, depends_on, progress,
	created_at, updated_at`

// Create creates a new activity
func (r *ActivityRepository) Create(ctx context.Context, tenantID string, act *activity.Activity) error {
	dependsOn, err := marshalStrings(act.DependsOn)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO activities (` + activityColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, r.db.bind(query),
		act.ID,
		tenantID,
		act.ProjectID,
		act.Name,
		act.Description,
		act.Type,
		act.Status,
		nullTime(act.StartDate),
		nullTime(act.EndDate),
		nullTime(act.DueDate),
		act.AssigneeID,
		dependsOn,
		act.Progress,
		act.CreatedAt,
		act.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	return nil
}

// Get retrieves an activity by ID
func (r *ActivityRepository) Get(ctx context.Context, tenantID, id string) (*activity.Activity, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE id = ? AND tenant_id = ?
	`

	rows, err := r.db.QueryContext(ctx, r.db.bind(query), id, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get activity: %w", err)
		}
		return nil, repository.ErrNotFound
	}

	act, err := scanActivity(rows)
	if err != nil {
		return nil, err
	}
	return act, nil
}

// ListByProject returns a project's activities ordered by creation time
func (r *ActivityRepository) ListByProject(ctx context.Context, tenantID, projectID string) ([]activity.Activity, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE project_id = ? AND tenant_id = ?
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, r.db.bind(query), projectID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	activities := []activity.Activity{}
	for rows.Next() {
		act, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *act)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return activities, nil
}

// Update replaces a stored activity
func (r *ActivityRepository) Update(ctx context.Context, tenantID string, act *activity.Activity) error {
	dependsOn, err := marshalStrings(act.DependsOn)
	if err != nil {
		return err
	}

	query := `
		UPDATE activities
		SET name = ?, description = ?, type = ?, status = ?,
			start_date = ?, end_date = ?, due_date = ?,
			assignee_id = ?, depends_on = ?, progress = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ?
	`

	result, err := r.db.ExecContext(ctx, r.db.bind(query),
		act.Name,
		act.Description,
		act.Type,
		act.Status,
		nullTime(act.StartDate),
		nullTime(act.EndDate),
		nullTime(act.DueDate),
		act.AssigneeID,
		dependsOn,
		act.Progress,
		act.UpdatedAt,
		act.ID,
		tenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
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

// Delete removes an activity
func (r *ActivityRepository) Delete(ctx context.Context, tenantID, id string) error {
	query := `DELETE FROM activities WHERE id = ? AND tenant_id = ?`

	result, err := r.db.ExecContext(ctx, r.db.bind(query), id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
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

func scanActivity(rows *sql.Rows) (*activity.Activity, error) {
	var act activity.Activity
	var dependsOn string
	var startDate, endDate, dueDate sql.NullTime

	err := rows.Scan(
		&act.ID,
		&act.TenantID,
		&act.ProjectID,
		&act.Name,
		&act.Description,
		&act.Type,
		&act.Status,
		&startDate,
		&endDate,
		&dueDate,
		&act.AssigneeID,
		&dependsOn,
		&act.Progress,
		&act.CreatedAt,
		&act.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan activity: %w", err)
	}

	if act.DependsOn, err = unmarshalStrings(dependsOn); err != nil {
		return nil, err
	}
	act.StartDate = timePtr(startDate)
	act.EndDate = timePtr(endDate)
	act.DueDate = timePtr(dueDate)

	return &act, nil
}
