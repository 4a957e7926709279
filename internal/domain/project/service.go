package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/planforge/rackplan/internal/repository"
)

// Service handles project operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name            string
	Description     string
	Type            Type
	Priority        Priority
	OwnerID         string
	Team            []string
	StartDate       *time.Time
	TargetEndDate   *time.Time
	BudgetAllocated *float64
	Tags            []string
	Metadata        map[string]any
}

// UpdateRequest defines a merge-patch over an existing project.
// Nil fields are left untouched.
type UpdateRequest struct {
	Name            *string
	Description     *string
	Type            *Type
	Status          *Status
	Priority        *Priority
	OwnerID         *string
	Team            []string
	StartDate       *time.Time
	TargetEndDate   *time.Time
	Progress        *int
	BudgetAllocated *float64
	BudgetSpent     *float64
	Tags            []string
	Metadata        map[string]any
}

// Create creates a new project with defaults applied.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Project, error) {
	if err := ValidateName(req.Name); err != nil {
		return nil, err
	}

	projType := req.Type
	if projType == "" {
		projType = TypeCustom
	}
	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	now := time.Now()
	proj := &Project{
		ID:              uuid.NewString(),
		TenantID:        tenantID,
		Name:            req.Name,
		Description:     req.Description,
		Type:            projType,
		Status:          StatusPlanning,
		Priority:        priority,
		OwnerID:         req.OwnerID,
		Team:            emptyIfNil(req.Team),
		StartDate:       req.StartDate,
		TargetEndDate:   req.TargetEndDate,
		Progress:        0,
		BudgetAllocated: req.BudgetAllocated,
		Tags:            emptyIfNil(req.Tags),
		Metadata:        emptyMapIfNil(req.Metadata),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, tenantID, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("project created", "project_id", proj.ID, "name", proj.Name)
	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns project summaries.
func (s *Service) List(ctx context.Context, tenantID string) ([]Summary, error) {
	return s.repo.List(ctx, tenantID)
}

// Update applies a merge-patch to a project and re-validates invariants.
func (s *Service) Update(ctx context.Context, tenantID, id string, req UpdateRequest) (*Project, error) {
	current, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Type != nil {
		updated.Type = *req.Type
	}
	if req.Status != nil {
		updated.Status = *req.Status
	}
	if req.Priority != nil {
		updated.Priority = *req.Priority
	}
	if req.OwnerID != nil {
		updated.OwnerID = *req.OwnerID
	}
	if req.Team != nil {
		updated.Team = req.Team
	}
	if req.StartDate != nil {
		updated.StartDate = req.StartDate
	}
	if req.TargetEndDate != nil {
		updated.TargetEndDate = req.TargetEndDate
	}
	if req.Progress != nil {
		updated.Progress = *req.Progress
	}
	if req.BudgetAllocated != nil {
		updated.BudgetAllocated = req.BudgetAllocated
	}
	if req.BudgetSpent != nil {
		updated.BudgetSpent = *req.BudgetSpent
	}
	if req.Tags != nil {
		updated.Tags = req.Tags
	}
	if req.Metadata != nil {
		updated.Metadata = req.Metadata
	}

	if err := ValidateName(updated.Name); err != nil {
		return nil, err
	}
	if err := ValidateProgress(updated.Progress); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, tenantID, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}

	return &updated, nil
}

// Delete removes a project and everything scheduled under it.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	s.logger.Info("project deleted", "project_id", id)
	return nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func emptyMapIfNil(values map[string]any) map[string]any {
	if values == nil {
		return map[string]any{}
	}
	return values
}
