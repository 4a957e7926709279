package project_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/planforge/rackplan/internal/domain/project"
	"github.com/planforge/rackplan/internal/repository"
	"github.com/planforge/rackplan/internal/repository/mocks"
)

const tenantID = "tenant1"

func TestProjectService_Create_AppliesDefaults(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Create", ctx, tenantID, mock.Anything).Return(nil)

	svc := project.NewService(repo, nil)
	proj, err := svc.Create(ctx, tenantID, project.CreateRequest{
		Name: "Datacenter migration",
	})
	require.NoError(t, err)
	require.NotEmpty(t, proj.ID)
	require.Equal(t, project.TypeCustom, proj.Type)
	require.Equal(t, project.StatusPlanning, proj.Status)
	require.Equal(t, project.PriorityMedium, proj.Priority)
	require.Equal(t, 0, proj.Progress)
	require.NotNil(t, proj.Team)
	require.NotNil(t, proj.Tags)
	require.NotNil(t, proj.Metadata)
}

func TestProjectService_Create_NameTooShort(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}

	svc := project.NewService(repo, nil)
	_, err := svc.Create(ctx, tenantID, project.CreateRequest{Name: "ab"})
	require.ErrorIs(t, err, project.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestProjectService_Get_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, tenantID, "ghost").Return(nil, repository.ErrNotFound)

	svc := project.NewService(repo, nil)
	_, err := svc.Get(ctx, tenantID, "ghost")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestProjectService_Update_MergePatch(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, tenantID, "p1").Return(&project.Project{
		ID:       "p1",
		Name:     "Original name",
		Type:     project.TypeMigration,
		Status:   project.StatusPlanning,
		Priority: project.PriorityHigh,
		Progress: 10,
	}, nil)
	repo.On("Update", ctx, tenantID, mock.Anything).Return(nil)

	svc := project.NewService(repo, nil)
	status := project.StatusActive
	progress := 40
	proj, err := svc.Update(ctx, tenantID, "p1", project.UpdateRequest{
		Status:   &status,
		Progress: &progress,
	})
	require.NoError(t, err)
	require.Equal(t, project.StatusActive, proj.Status)
	require.Equal(t, 40, proj.Progress)

	// Untouched fields survive the patch.
	require.Equal(t, "Original name", proj.Name)
	require.Equal(t, project.TypeMigration, proj.Type)
	require.Equal(t, project.PriorityHigh, proj.Priority)
}

func TestProjectService_Update_InvalidProgress(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, tenantID, "p1").Return(&project.Project{
		ID:   "p1",
		Name: "Original name",
	}, nil)

	svc := project.NewService(repo, nil)
	progress := 140
	_, err := svc.Update(ctx, tenantID, "p1", project.UpdateRequest{Progress: &progress})
	require.ErrorIs(t, err, project.ErrInvalidInput)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestProjectService_Delete_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Delete", ctx, tenantID, "ghost").Return(repository.ErrNotFound)

	svc := project.NewService(repo, nil)
	err := svc.Delete(ctx, tenantID, "ghost")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}
