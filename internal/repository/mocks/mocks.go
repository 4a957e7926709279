package mocks

import (
	"context"

	"github.com/planforge/rackplan/internal/domain/activity"
	"github.com/planforge/rackplan/internal/domain/allocation"
	"github.com/planforge/rackplan/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, tenantID string, proj *project.Project) error {
	args := m.Called(ctx, tenantID, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	args := m.Called(ctx, tenantID, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, tenantID string) ([]project.Summary, error) {
	args := m.Called(ctx, tenantID)
	if list, ok := args.Get(0).([]project.Summary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, tenantID string, proj *project.Project) error {
	args := m.Called(ctx, tenantID, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Create(ctx context.Context, tenantID string, act *activity.Activity) error {
	args := m.Called(ctx, tenantID, act)
	return args.Error(0)
}

func (m *ActivityRepository) Get(ctx context.Context, tenantID, id string) (*activity.Activity, error) {
	args := m.Called(ctx, tenantID, id)
	if act, ok := args.Get(0).(*activity.Activity); ok {
		return act, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) ListByProject(ctx context.Context, tenantID, projectID string) ([]activity.Activity, error) {
	args := m.Called(ctx, tenantID, projectID)
	if list, ok := args.Get(0).([]activity.Activity); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) Update(ctx context.Context, tenantID string, act *activity.Activity) error {
	args := m.Called(ctx, tenantID, act)
	return args.Error(0)
}

func (m *ActivityRepository) Delete(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// AllocationRepository is a mock for allocation.Repository.
type AllocationRepository struct {
	mock.Mock
}

func (m *AllocationRepository) Create(ctx context.Context, tenantID string, alloc *allocation.Allocation) error {
	args := m.Called(ctx, tenantID, alloc)
	return args.Error(0)
}

func (m *AllocationRepository) Get(ctx context.Context, tenantID, id string) (*allocation.Allocation, error) {
	args := m.Called(ctx, tenantID, id)
	if alloc, ok := args.Get(0).(*allocation.Allocation); ok {
		return alloc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AllocationRepository) ListByProject(ctx context.Context, tenantID, projectID string) ([]allocation.Allocation, error) {
	args := m.Called(ctx, tenantID, projectID)
	if list, ok := args.Get(0).([]allocation.Allocation); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AllocationRepository) ListByActivity(ctx context.Context, tenantID, activityID string) ([]allocation.Allocation, error) {
	args := m.Called(ctx, tenantID, activityID)
	if list, ok := args.Get(0).([]allocation.Allocation); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AllocationRepository) ListByHardwareUnit(ctx context.Context, tenantID, unitID string) ([]allocation.Allocation, error) {
	args := m.Called(ctx, tenantID, unitID)
	if list, ok := args.Get(0).([]allocation.Allocation); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AllocationRepository) Update(ctx context.Context, tenantID string, alloc *allocation.Allocation) error {
	args := m.Called(ctx, tenantID, alloc)
	return args.Error(0)
}

func (m *AllocationRepository) Delete(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}
