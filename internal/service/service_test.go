package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pomodoroTracker/internal/apperror"
	"pomodoroTracker/internal/events"
	"pomodoroTracker/internal/logger"
	"pomodoroTracker/internal/models/project"
	"pomodoroTracker/internal/models/task"
	"pomodoroTracker/internal/repository"
	"pomodoroTracker/internal/repository/inmemory"
	"pomodoroTracker/internal/service"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTaskRepository - мок репозитория задач
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) UpdateMany(ctx context.Context, tasks []*task.Task) error {
	args := m.Called(ctx, tasks)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) List(ctx context.Context, filter repository.TaskListFilter) ([]*task.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

var _ service.TaskRepository = (*MockTaskRepository)(nil)

var (
	_ service.PomodoroRepository = (*inmemory.PomodoroStorage)(nil)
	_ service.ProjectRepository  = (*inmemory.ProjectStorage)(nil)
	_ service.TaskRepository     = (*inmemory.TaskStorage)(nil)
)

var base = time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

type fixture struct {
	repos    service.Repositories
	clock    *clockwork.FakeClock
	recorder *events.Recorder
	project  *project.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger.InitNop()

	f := &fixture{
		repos: service.Repositories{
			Tasks:     inmemory.NewTaskStorage(),
			Pomodoros: inmemory.NewPomodoroStorage(),
			Projects:  inmemory.NewProjectStorage(),
		},
		clock:    clockwork.NewFakeClockAt(base),
		recorder: events.NewRecorder(),
		project:  &project.Project{UUID: uuid.New(), Name: "default", CreatedAt: base},
	}
	require.NoError(t, f.repos.Projects.Create(context.Background(), f.project))
	return f
}

func (f *fixture) options() []service.Option {
	return []service.Option{service.WithClock(f.clock), service.WithPublisher(f.recorder)}
}

func (f *fixture) tasks() *service.TaskService {
	return service.NewTaskService(f.repos, f.options()...)
}

func (f *fixture) createTask(t *testing.T, title string) *task.Task {
	t.Helper()
	created, err := f.tasks().Create(context.Background(), service.CreateTaskInput{
		Title:     title,
		ProjectID: f.project.UUID,
	})
	require.NoError(t, err)
	return created
}

// TestTaskService_HealthCheck тестирует HealthCheck
func TestTaskService_HealthCheck(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(*MockTaskRepository)
		expectError bool
	}{
		{
			name: "success - health check passes",
			setupMock: func(m *MockTaskRepository) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
			expectError: false,
		},
		{
			name: "error - health check fails",
			setupMock: func(m *MockTaskRepository) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("db connection failed"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			svc := service.NewTaskService(service.Repositories{Tasks: mockRepo})
			err := svc.HealthCheck(context.Background())

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "проверка здоровья сервиса")
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

// TestTaskService_Get тестирует перевод ошибок хранилища
func TestTaskService_Get(t *testing.T) {
	logger.InitNop()
	ctx := context.Background()
	taskID := uuid.New()

	tests := []struct {
		name      string
		setupMock func(*MockTaskRepository)
		errorCode string
	}{
		{
			name: "success",
			setupMock: func(m *MockTaskRepository) {
				m.On("GetByID", mock.Anything, taskID).Return(&task.Task{UUID: taskID, Title: "found"}, nil)
			},
		},
		{
			name: "error - not found",
			setupMock: func(m *MockTaskRepository) {
				m.On("GetByID", mock.Anything, taskID).Return(nil, repository.ErrNotFound)
			},
			errorCode: apperror.CodeNotFound,
		},
		{
			name: "error - storage failure",
			setupMock: func(m *MockTaskRepository) {
				m.On("GetByID", mock.Anything, taskID).Return(nil, errors.New("connection reset"))
			},
			errorCode: apperror.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			svc := service.NewTaskService(service.Repositories{Tasks: mockRepo})
			got, err := svc.Get(ctx, taskID)

			if tt.errorCode == "" {
				require.NoError(t, err)
				assert.Equal(t, "found", got.Title)
			} else {
				assert.Error(t, err)
				assert.Equal(t, tt.errorCode, apperror.CodeOf(err))
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

// TestTaskService_Create_Validation тестирует проверку входных данных
func TestTaskService_Create_Validation(t *testing.T) {
	f := newFixture(t)
	negative := -1
	badPriority := task.Priority(42)
	badStatus := task.Status(42)

	tests := []struct {
		name  string
		input service.CreateTaskInput
		code  string
	}{
		{"empty title", service.CreateTaskInput{Title: "   ", ProjectID: f.project.UUID}, apperror.CodeValidation},
		{"missing project id", service.CreateTaskInput{Title: "x"}, apperror.CodeValidation},
		{"unknown project", service.CreateTaskInput{Title: "x", ProjectID: uuid.New()}, apperror.CodeNotFound},
		{"negative estimate", service.CreateTaskInput{Title: "x", ProjectID: f.project.UUID, EstimatedPomodoros: &negative}, apperror.CodeValidation},
		{"unknown priority", service.CreateTaskInput{Title: "x", ProjectID: f.project.UUID, Priority: &badPriority}, apperror.CodeValidation},
		{"unknown status", service.CreateTaskInput{Title: "x", ProjectID: f.project.UUID, Status: &badStatus}, apperror.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.tasks().Create(context.Background(), tt.input)
			assert.Equal(t, tt.code, apperror.CodeOf(err))
		})
	}
}

// TestTaskService_BulkSetStatus_StorageFailure тестирует ошибку пакетного сохранения
func TestTaskService_BulkSetStatus_StorageFailure(t *testing.T) {
	logger.InitNop()
	first := &task.Task{UUID: uuid.New(), Status: task.StatusPending}
	second := &task.Task{UUID: uuid.New(), Status: task.StatusPending}

	mockRepo := new(MockTaskRepository)
	mockRepo.On("GetByID", mock.Anything, first.UUID).Return(first, nil)
	mockRepo.On("GetByID", mock.Anything, second.UUID).Return(second, nil)
	mockRepo.On("UpdateMany", mock.Anything, mock.MatchedBy(func(tasks []*task.Task) bool {
		return len(tasks) == 2
	})).Return(errors.New("tx aborted"))

	recorder := events.NewRecorder()
	svc := service.NewTaskService(service.Repositories{Tasks: mockRepo}, service.WithPublisher(recorder))

	changed, err := svc.BulkSetStatus(context.Background(), []uuid.UUID{first.UUID, second.UUID}, task.StatusDone)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "пакетное обновление задач")
	assert.Zero(t, changed)
	assert.Empty(t, recorder.Events())
	mockRepo.AssertExpectations(t)
}
