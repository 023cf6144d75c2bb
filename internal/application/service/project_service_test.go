package service

import (
	"context"
	"errors"
	"testing"

	"codeatlas/internal/application/dto"
	"codeatlas/internal/domain/entity"
	domainerrors "codeatlas/internal/domain/errors/domain"
	"codeatlas/internal/port/outbound"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProjectRepository is a testify mock for outbound.ProjectRepository.
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Save(ctx context.Context, project *entity.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByRootPath(ctx context.Context, rootPath string) (*entity.Project, error) {
	args := m.Called(ctx, rootPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Project), args.Error(1)
}

func (m *MockProjectRepository) FindAll(ctx context.Context, filters outbound.ProjectFilters) ([]*entity.Project, int, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entity.Project), args.Int(1), args.Error(2)
}

func (m *MockProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAnalysisJobRepository is a testify mock for outbound.AnalysisJobRepository.
type MockAnalysisJobRepository struct {
	mock.Mock
}

func (m *MockAnalysisJobRepository) Save(ctx context.Context, job *entity.AnalysisJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockAnalysisJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.AnalysisJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AnalysisJob), args.Error(1)
}

func (m *MockAnalysisJobRepository) FindByProjectID(ctx context.Context, projectID uuid.UUID, filters outbound.JobFilters) ([]*entity.AnalysisJob, int, error) {
	args := m.Called(ctx, projectID, filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entity.AnalysisJob), args.Int(1), args.Error(2)
}

func (m *MockAnalysisJobRepository) Update(ctx context.Context, job *entity.AnalysisJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

// MockSourceUnitRepository is a testify mock for outbound.SourceUnitRepository.
type MockSourceUnitRepository struct {
	mock.Mock
}

func (m *MockSourceUnitRepository) SaveFileAnalyses(ctx context.Context, projectID uuid.UUID, files []outbound.FileAnalysis) error {
	args := m.Called(ctx, projectID, files)
	return args.Error(0)
}

func (m *MockSourceUnitRepository) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]outbound.FileAnalysis, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]outbound.FileAnalysis), args.Error(1)
}

func (m *MockSourceUnitRepository) DeleteByProjectID(ctx context.Context, projectID uuid.UUID) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

// MockMessagePublisher is a testify mock for outbound.MessagePublisher.
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) PublishAnalysisJob(ctx context.Context, jobID, projectID uuid.UUID, rootPath string) error {
	args := m.Called(ctx, jobID, projectID, rootPath)
	return args.Error(0)
}

func newTestProject(t *testing.T, rootPath string) *entity.Project {
	t.Helper()
	project, err := entity.NewProject(rootPath, "web-app", nil)
	require.NoError(t, err)
	return project
}

func TestCreateProject_Success(t *testing.T) {
	projectRepo := new(MockProjectRepository)
	jobRepo := new(MockAnalysisJobRepository)
	publisher := new(MockMessagePublisher)

	projectRepo.On("FindByRootPath", mock.Anything, "/srv/web-app").Return(nil, nil)
	projectRepo.On("Save", mock.Anything, mock.AnythingOfType("*entity.Project")).Return(nil)
	jobRepo.On("Save", mock.Anything, mock.AnythingOfType("*entity.AnalysisJob")).Return(nil)
	publisher.On("PublishAnalysisJob", mock.Anything, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("uuid.UUID"), "/srv/web-app").
		Return(nil)

	svc := NewCreateProjectService(projectRepo, jobRepo, publisher)
	response, err := svc.CreateProject(context.Background(), dto.CreateProjectRequest{
		RootPath: "/srv/web-app",
	})

	require.NoError(t, err)
	assert.Equal(t, "/srv/web-app", response.RootPath)
	assert.Equal(t, "web-app", response.Name, "name should default to the path base")
	projectRepo.AssertExpectations(t)
	jobRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCreateProject_RelativePathRejected(t *testing.T) {
	svc := NewCreateProjectService(new(MockProjectRepository), new(MockAnalysisJobRepository), new(MockMessagePublisher))

	_, err := svc.CreateProject(context.Background(), dto.CreateProjectRequest{
		RootPath: "relative/path",
	})

	require.ErrorIs(t, err, domainerrors.ErrInvalidProjectPath)
}

func TestCreateProject_AlreadyExists(t *testing.T) {
	projectRepo := new(MockProjectRepository)
	existing := newTestProject(t, "/srv/web-app")
	projectRepo.On("FindByRootPath", mock.Anything, "/srv/web-app").Return(existing, nil)

	svc := NewCreateProjectService(projectRepo, new(MockAnalysisJobRepository), new(MockMessagePublisher))
	_, err := svc.CreateProject(context.Background(), dto.CreateProjectRequest{
		RootPath: "/srv/web-app",
	})

	require.ErrorIs(t, err, domainerrors.ErrProjectAlreadyExists)
}

func TestCreateProject_PublishFailurePropagates(t *testing.T) {
	projectRepo := new(MockProjectRepository)
	jobRepo := new(MockAnalysisJobRepository)
	publisher := new(MockMessagePublisher)

	projectRepo.On("FindByRootPath", mock.Anything, "/srv/web-app").Return(nil, nil)
	projectRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	jobRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	publishErr := errors.New("nats unavailable")
	publisher.On("PublishAnalysisJob", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(publishErr)

	svc := NewCreateProjectService(projectRepo, jobRepo, publisher)
	_, err := svc.CreateProject(context.Background(), dto.CreateProjectRequest{
		RootPath: "/srv/web-app",
	})

	require.ErrorIs(t, err, publishErr)
}

func TestGetProject_NotFound(t *testing.T) {
	projectRepo := new(MockProjectRepository)
	id := uuid.New()
	projectRepo.On("FindByID", mock.Anything, id).Return(nil, nil)

	svc := NewGetProjectService(projectRepo)
	_, err := svc.GetProject(context.Background(), id)

	require.ErrorIs(t, err, domainerrors.ErrProjectNotFound)
}

func TestListProjects_AppliesDefaults(t *testing.T) {
	projectRepo := new(MockProjectRepository)
	projects := []*entity.Project{newTestProject(t, "/srv/web-app")}
	projectRepo.On("FindAll", mock.Anything, outbound.ProjectFilters{
		Limit:  20,
		Offset: 0,
		Sort:   "created_at:desc",
	}).Return(projects, 1, nil)

	svc := NewListProjectsService(projectRepo)
	response, err := svc.ListProjects(context.Background(), dto.ListProjectsQuery{})

	require.NoError(t, err)
	assert.Len(t, response.Projects, 1)
	assert.Equal(t, 1, response.Pagination.Total)
	assert.False(t, response.Pagination.HasMore)
	projectRepo.AssertExpectations(t)
}

func TestDeleteProject_PurgesSourceUnits(t *testing.T) {
	projectRepo := new(MockProjectRepository)
	sourceUnitRepo := new(MockSourceUnitRepository)
	project := newTestProject(t, "/srv/web-app")

	projectRepo.On("FindByID", mock.Anything, project.ID()).Return(project, nil)
	sourceUnitRepo.On("DeleteByProjectID", mock.Anything, project.ID()).Return(nil)
	projectRepo.On("Delete", mock.Anything, project.ID()).Return(nil)

	svc := NewDeleteProjectService(projectRepo, sourceUnitRepo)
	err := svc.DeleteProject(context.Background(), project.ID())

	require.NoError(t, err)
	projectRepo.AssertExpectations(t)
	sourceUnitRepo.AssertExpectations(t)
}

func TestDeleteProject_NotFound(t *testing.T) {
	projectRepo := new(MockProjectRepository)
	id := uuid.New()
	projectRepo.On("FindByID", mock.Anything, id).Return(nil, nil)

	svc := NewDeleteProjectService(projectRepo, new(MockSourceUnitRepository))
	err := svc.DeleteProject(context.Background(), id)

	require.ErrorIs(t, err, domainerrors.ErrProjectNotFound)
}

func TestListAnalysisJobs_ProjectMustExist(t *testing.T) {
	projectRepo := new(MockProjectRepository)
	jobRepo := new(MockAnalysisJobRepository)
	id := uuid.New()
	projectRepo.On("FindByID", mock.Anything, id).Return(nil, nil)

	svc := NewListAnalysisJobsService(jobRepo, projectRepo)
	_, err := svc.ListAnalysisJobs(context.Background(), id, dto.ListJobsQuery{})

	require.ErrorIs(t, err, domainerrors.ErrProjectNotFound)
	jobRepo.AssertNotCalled(t, "FindByProjectID")
}

func TestListAnalysisJobs_ReturnsJobs(t *testing.T) {
	projectRepo := new(MockProjectRepository)
	jobRepo := new(MockAnalysisJobRepository)
	project := newTestProject(t, "/srv/web-app")
	job := entity.NewAnalysisJob(project.ID())

	projectRepo.On("FindByID", mock.Anything, project.ID()).Return(project, nil)
	jobRepo.On("FindByProjectID", mock.Anything, project.ID(), outbound.JobFilters{Limit: 20, Offset: 0}).
		Return([]*entity.AnalysisJob{job}, 1, nil)

	svc := NewListAnalysisJobsService(jobRepo, projectRepo)
	response, err := svc.ListAnalysisJobs(context.Background(), project.ID(), dto.ListJobsQuery{})

	require.NoError(t, err)
	require.Len(t, response.Jobs, 1)
	assert.Equal(t, job.ID(), response.Jobs[0].ID)
	assert.Equal(t, "pending", response.Jobs[0].Status)
}
