package allocation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planforge/rackplan/internal/domain/project"
	"github.com/planforge/rackplan/internal/repository"
)

// Service handles hardware allocation operations. The no-double-booking
// invariant is enforced here, above the persistence layer, so it holds
// identically for every backend.
type Service struct {
	allocations Repository
	projects    ProjectRepository
	locks       *unitLocks
	logger      *slog.Logger
}

// NewService creates a new allocation service.
func NewService(allocations Repository, projects ProjectRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		allocations: allocations,
		projects:    projects,
		locks:       newUnitLocks(),
		logger:      logger,
	}
}

// CreateRequest defines allocation creation inputs.
type CreateRequest struct {
	ActivityID     *string
	HardwareUnitID string
	Type           Type
	Purpose        string
	Start          time.Time
	End            *time.Time
	Notes          string
	AllocatedBy    string
}

// UpdateRequest defines a merge-patch over an existing allocation.
type UpdateRequest struct {
	ActivityID     *string
	HardwareUnitID *string
	Type           *Type
	Purpose        *string
	Start          *time.Time
	End            *time.Time
	ClearEnd       bool
	Notes          *string
}

// Create validates the request, scans the unit's existing allocations
// for overlap, and persists the record only if the window is free. The
// scan and the write run inside the unit's critical section.
func (s *Service) Create(ctx context.Context, tenantID, projectID string, req CreateRequest) (*Allocation, error) {
	if strings.TrimSpace(req.HardwareUnitID) == "" {
		return nil, fmt.Errorf("%w: hardware unit is required", ErrInvalidInput)
	}
	if req.Start.IsZero() {
		return nil, fmt.Errorf("%w: allocation start is required", ErrInvalidInput)
	}
	if req.End != nil && !req.End.After(req.Start) {
		return nil, fmt.Errorf("%w: allocation end must be after start", ErrInvalidInput)
	}

	if _, err := s.projects.Get(ctx, tenantID, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, project.ErrProjectNotFound
		}
		return nil, fmt.Errorf("checking project: %w", err)
	}

	allocType := req.Type
	if allocType == "" {
		allocType = TypeReserved
	}

	alloc := &Allocation{
		ID:             uuid.NewString(),
		TenantID:       tenantID,
		ProjectID:      projectID,
		ActivityID:     req.ActivityID,
		HardwareUnitID: req.HardwareUnitID,
		Type:           allocType,
		Purpose:        req.Purpose,
		Start:          req.Start,
		End:            req.End,
		Notes:          req.Notes,
		AllocatedBy:    req.AllocatedBy,
		CreatedAt:      time.Now(),
	}

	unlock := s.locks.lock(tenantID + "/" + req.HardwareUnitID)
	defer unlock()

	if err := s.ensureWindowFree(ctx, tenantID, req.HardwareUnitID, req.Start, req.End, ""); err != nil {
		return nil, err
	}

	if err := s.allocations.Create(ctx, tenantID, alloc); err != nil {
		return nil, fmt.Errorf("creating allocation: %w", err)
	}

	s.logger.Info("hardware allocated",
		"allocation_id", alloc.ID,
		"hardware_unit_id", alloc.HardwareUnitID,
		"project_id", projectID,
	)
	return alloc, nil
}

// Get fetches an allocation by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Allocation, error) {
	alloc, err := s.allocations.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAllocationNotFound
		}
		return nil, fmt.Errorf("getting allocation: %w", err)
	}
	return alloc, nil
}

// ListByProject returns the project's allocations.
func (s *Service) ListByProject(ctx context.Context, tenantID, projectID string) ([]Allocation, error) {
	return s.allocations.ListByProject(ctx, tenantID, projectID)
}

// ListByActivity returns allocations tied to a specific activity.
func (s *Service) ListByActivity(ctx context.Context, tenantID, activityID string) ([]Allocation, error) {
	return s.allocations.ListByActivity(ctx, tenantID, activityID)
}

// ListByHardwareUnit returns a hardware unit's allocations.
func (s *Service) ListByHardwareUnit(ctx context.Context, tenantID, unitID string) ([]Allocation, error) {
	return s.allocations.ListByHardwareUnit(ctx, tenantID, unitID)
}

// Update applies a merge-patch to an allocation. If the patch moves the
// allocation to a different unit or window, the overlap invariant is
// re-checked before the write.
func (s *Service) Update(ctx context.Context, tenantID, id string, req UpdateRequest) (*Allocation, error) {
	current, err := s.allocations.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAllocationNotFound
		}
		return nil, fmt.Errorf("loading allocation: %w", err)
	}

	updated := *current
	windowChanged := false
	if req.ActivityID != nil {
		updated.ActivityID = req.ActivityID
	}
	if req.HardwareUnitID != nil {
		if strings.TrimSpace(*req.HardwareUnitID) == "" {
			return nil, fmt.Errorf("%w: hardware unit is required", ErrInvalidInput)
		}
		if *req.HardwareUnitID != current.HardwareUnitID {
			windowChanged = true
		}
		updated.HardwareUnitID = *req.HardwareUnitID
	}
	if req.Type != nil {
		updated.Type = *req.Type
	}
	if req.Purpose != nil {
		updated.Purpose = *req.Purpose
	}
	if req.Start != nil {
		updated.Start = *req.Start
		windowChanged = true
	}
	if req.ClearEnd {
		updated.End = nil
		windowChanged = true
	} else if req.End != nil {
		updated.End = req.End
		windowChanged = true
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}

	if updated.Start.IsZero() {
		return nil, fmt.Errorf("%w: allocation start is required", ErrInvalidInput)
	}
	if updated.End != nil && !updated.End.After(updated.Start) {
		return nil, fmt.Errorf("%w: allocation end must be after start", ErrInvalidInput)
	}

	unlock := s.locks.lock(tenantID + "/" + updated.HardwareUnitID)
	defer unlock()

	if windowChanged {
		if err := s.ensureWindowFree(ctx, tenantID, updated.HardwareUnitID, updated.Start, updated.End, id); err != nil {
			return nil, err
		}
	}

	if err := s.allocations.Update(ctx, tenantID, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAllocationNotFound
		}
		return nil, fmt.Errorf("updating allocation: %w", err)
	}

	return &updated, nil
}

// Delete removes an allocation, freeing its window for reuse.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	if err := s.allocations.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAllocationNotFound
		}
		return fmt.Errorf("deleting allocation: %w", err)
	}
	return nil
}

// CheckAvailability reports whether a hardware unit is free for the
// given window, along with any conflicting allocations. Read-only: it
// takes no lock and admits nothing.
func (s *Service) CheckAvailability(ctx context.Context, tenantID, unitID string, start time.Time, end *time.Time) (*Availability, error) {
	if strings.TrimSpace(unitID) == "" {
		return nil, fmt.Errorf("%w: hardware unit is required", ErrInvalidInput)
	}
	if start.IsZero() {
		return nil, fmt.Errorf("%w: window start is required", ErrInvalidInput)
	}

	existing, err := s.allocations.ListByHardwareUnit(ctx, tenantID, unitID)
	if err != nil {
		return nil, fmt.Errorf("listing unit allocations: %w", err)
	}

	conflicts := []Allocation{}
	for _, alloc := range existing {
		if Overlaps(start, end, alloc.Start, alloc.End) {
			conflicts = append(conflicts, alloc)
		}
	}

	return &Availability{
		HardwareUnitID: unitID,
		Available:      len(conflicts) == 0,
		Conflicts:      conflicts,
	}, nil
}

// ensureWindowFree scans the unit's allocations and fails with
// ErrOverlap if any intersect the candidate window. excludeID skips the
// allocation being updated so it doesn't conflict with itself.
func (s *Service) ensureWindowFree(ctx context.Context, tenantID, unitID string, start time.Time, end *time.Time, excludeID string) error {
	existing, err := s.allocations.ListByHardwareUnit(ctx, tenantID, unitID)
	if err != nil {
		return fmt.Errorf("scanning unit allocations: %w", err)
	}

	for _, other := range existing {
		if other.ID == excludeID {
			continue
		}
		if Overlaps(start, end, other.Start, other.End) {
			return fmt.Errorf("%w: conflicts with allocation %s", ErrOverlap, other.ID)
		}
	}
	return nil
}
