package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/planforge/rackplan/internal/domain/allocation"
	"github.com/planforge/rackplan/internal/repository"
)

var _ allocation.Repository = (*AllocationRepository)(nil)

// AllocationRepository implements allocation.Repository for SQL backends
type AllocationRepository struct {
	db *DB
}

// NewAllocationRepository creates a new AllocationRepository
func NewAllocationRepository(db *DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

const allocationColumns = `id, tenant_id, project_id, activity_id, hardware_unit_id,
	type, purpose, start_at, end_at, notes, allocated_by, created_at`

// Create creates a new allocation
func (r *AllocationRepository) Create(ctx context.Context, tenantID string, alloc *allocation.Allocation) error {
	query := `
		INSERT INTO allocations (` + allocationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, r.db.bind(query),
		alloc.ID,
		tenantID,
		alloc.ProjectID,
		nullString(alloc.ActivityID),
		alloc.HardwareUnitID,
		alloc.Type,
		alloc.Purpose,
		alloc.Start,
		nullTime(alloc.End),
		alloc.Notes,
		alloc.AllocatedBy,
		alloc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create allocation: %w", err)
	}

	return nil
}

// Get retrieves an allocation by ID
func (r *AllocationRepository) Get(ctx context.Context, tenantID, id string) (*allocation.Allocation, error) {
	query := `
		SELECT ` + allocationColumns + `
		FROM allocations
		WHERE id = ? AND tenant_id = ?
	`

	rows, err := r.db.QueryContext(ctx, r.db.bind(query), id, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get allocation: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get allocation: %w", err)
		}
		return nil, repository.ErrNotFound
	}

	return scanAllocation(rows)
}

// ListByProject returns a project's allocations ordered by start time
func (r *AllocationRepository) ListByProject(ctx context.Context, tenantID, projectID string) ([]allocation.Allocation, error) {
	return r.list(ctx, `project_id = ? AND tenant_id = ?`, projectID, tenantID)
}

// ListByActivity returns allocations tied to an activity
func (r *AllocationRepository) ListByActivity(ctx context.Context, tenantID, activityID string) ([]allocation.Allocation, error) {
	return r.list(ctx, `activity_id = ? AND tenant_id = ?`, activityID, tenantID)
}

// ListByHardwareUnit returns a hardware unit's allocations
func (r *AllocationRepository) ListByHardwareUnit(ctx context.Context, tenantID, unitID string) ([]allocation.Allocation, error) {
	return r.list(ctx, `hardware_unit_id = ? AND tenant_id = ?`, unitID, tenantID)
}

// Update replaces a stored allocation
func (r *AllocationRepository) Update(ctx context.Context, tenantID string, alloc *allocation.Allocation) error {
	query := `
		UPDATE allocations
		SET project_id = ?, activity_id = ?, hardware_unit_id = ?,
			type = ?, purpose = ?, start_at = ?, end_at = ?, notes = ?
		WHERE id = ? AND tenant_id = ?
	`

	result, err := r.db.ExecContext(ctx, r.db.bind(query),
		alloc.ProjectID,
		nullString(alloc.ActivityID),
		alloc.HardwareUnitID,
		alloc.Type,
		alloc.Purpose,
		alloc.Start,
		nullTime(alloc.End),
		alloc.Notes,
		alloc.ID,
		tenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update allocation: %w", err)
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

// Delete removes an allocation, freeing its window
func (r *AllocationRepository) Delete(ctx context.Context, tenantID, id string) error {
	query := `DELETE FROM allocations WHERE id = ? AND tenant_id = ?`

	result, err := r.db.ExecContext(ctx, r.db.bind(query), id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete allocation: %w", err)
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

func (r *AllocationRepository) list(ctx context.Context, where string, args ...any) ([]allocation.Allocation, error) {
	query := `
		SELECT ` + allocationColumns + `
		FROM allocations
		WHERE ` + where + `
		ORDER BY start_at, id
	`

	rows, err := r.db.QueryContext(ctx, r.db.bind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	defer rows.Close()

	allocations := []allocation.Allocation{}
	for rows.Next() {
		alloc, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, *alloc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allocation rows: %w", err)
	}

	return allocations, nil
}

func scanAllocation(rows *sql.Rows) (*allocation.Allocation, error) {
	var alloc allocation.Allocation
	var activityID sql.NullString
	var end sql.NullTime

	err := rows.Scan(
		&alloc.ID,
		&alloc.TenantID,
		&alloc.ProjectID,
		&activityID,
		&alloc.HardwareUnitID,
		&alloc.Type,
		&alloc.Purpose,
		&alloc.Start,
		&end,
		&alloc.Notes,
		&alloc.AllocatedBy,
		&alloc.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan allocation: %w", err)
	}

	alloc.ActivityID = stringPtr(activityID)
	alloc.End = timePtr(end)

	return &alloc, nil
}
