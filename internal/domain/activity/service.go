package activity

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

// Service handles activity operations. Every read path resolves the
// effective status so callers never see a stale declared status after a
// deadline has passed.
type Service struct {
	activities Repository
	projects   ProjectRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new activity service.
func NewService(activities Repository, projects ProjectRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		activities: activities,
		projects:   projects,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateRequest defines activity creation inputs.
type CreateRequest struct {
	Name        string
	Description string
	Type        string
	Status      Status
	StartDate   *time.Time
	EndDate     *time.Time
	DueDate     *time.Time
	AssigneeID  string
	DependsOn   []string
	Progress    int
}

// UpdateRequest defines a merge-patch over an existing activity.
type UpdateRequest struct {
	Name        *string
	Description *string
	Type        *string
	Status      *Status
	StartDate   *time.Time
	EndDate     *time.Time
	DueDate     *time.Time
	AssigneeID  *string
	DependsOn   []string
	Progress    *int
}

// Create creates an activity under an existing project.
func (s *Service) Create(ctx context.Context, tenantID, projectID string, req CreateRequest) (*Activity, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}
	if req.Progress < 0 || req.Progress > 100 {
		return nil, ErrInvalidInput
	}

	if _, err := s.projects.Get(ctx, tenantID, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, project.ErrProjectNotFound
		}
		return nil, fmt.Errorf("checking project: %w", err)
	}

	status := req.Status
	if status == "" {
		status = StatusPending
	}

	now := s.now()
	act := &Activity{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		ProjectID:   projectID,
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Status:      status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		DueDate:     req.DueDate,
		AssigneeID:  req.AssigneeID,
		DependsOn:   req.DependsOn,
		Progress:    req.Progress,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.activities.Create(ctx, tenantID, act); err != nil {
		return nil, fmt.Errorf("creating activity: %w", err)
	}

	s.logger.Info("activity created", "activity_id", act.ID, "project_id", projectID)
	return s.withEffectiveStatus(act), nil
}

// Get fetches an activity by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Activity, error) {
	act, err := s.activities.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("getting activity: %w", err)
	}
	return s.withEffectiveStatus(act), nil
}

// ListByProject returns the project's activities with effective status resolved.
func (s *Service) ListByProject(ctx context.Context, tenantID, projectID string) ([]Activity, error) {
	acts, err := s.activities.ListByProject(ctx, tenantID, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}

	now := s.now()
	resolved := make([]Activity, 0, len(acts))
	for _, act := range acts {
		act.EffectiveStatus = EffectiveStatus(act.Status, act.EndDate, act.DueDate, now)
		resolved = append(resolved, act)
	}
	return resolved, nil
}

// Update applies a merge-patch to an activity.
func (s *Service) Update(ctx context.Context, tenantID, id string, req UpdateRequest) (*Activity, error) {
	current, err := s.activities.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("loading activity: %w", err)
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
	if req.StartDate != nil {
		updated.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		updated.EndDate = req.EndDate
	}
	if req.DueDate != nil {
		updated.DueDate = req.DueDate
	}
	if req.AssigneeID != nil {
		updated.AssigneeID = *req.AssigneeID
	}
	if req.DependsOn != nil {
		updated.DependsOn = req.DependsOn
	}
	if req.Progress != nil {
		updated.Progress = *req.Progress
	}

	if strings.TrimSpace(updated.Name) == "" {
		return nil, ErrInvalidInput
	}
	if updated.Progress < 0 || updated.Progress > 100 {
		return nil, ErrInvalidInput
	}
	updated.UpdatedAt = s.now()

	if err := s.activities.Update(ctx, tenantID, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("updating activity: %w", err)
	}

	return s.withEffectiveStatus(&updated), nil
}

// Delete removes an activity.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	if err := s.activities.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrActivityNotFound
		}
		return fmt.Errorf("deleting activity: %w", err)
	}
	return nil
}

// withEffectiveStatus returns a copy with the derived status populated,
// leaving the stored record untouched.
func (s *Service) withEffectiveStatus(act *Activity) *Activity {
	resolved := *act
	resolved.EffectiveStatus = EffectiveStatus(act.Status, act.EndDate, act.DueDate, s.now())
	return &resolved
}
