package handlers_test

import (
	"context"

	"pomodoroTracker/internal/handlers"
	"pomodoroTracker/internal/models/pomodoro"
	"pomodoroTracker/internal/models/project"
	"pomodoroTracker/internal/models/task"
	"pomodoroTracker/internal/progress"
	"pomodoroTracker/internal/search"
	"pomodoroTracker/internal/service"
	"pomodoroTracker/internal/session"
	"pomodoroTracker/internal/stats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTaskService - мок сервиса задач
type MockTaskService struct {
	mock.Mock
}

func taskResult(args mock.Arguments) (*task.Task, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskService) Create(ctx context.Context, in service.CreateTaskInput) (*task.Task, error) {
	return taskResult(m.Called(ctx, in))
}

func (m *MockTaskService) Get(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	return taskResult(m.Called(ctx, id))
}

func (m *MockTaskService) Update(ctx context.Context, id uuid.UUID, in service.UpdateTaskInput) (*task.Task, error) {
	return taskResult(m.Called(ctx, id, in))
}

func (m *MockTaskService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskService) Search(ctx context.Context, q search.TaskQuery) (search.Page[*task.Task], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(search.Page[*task.Task]), args.Error(1)
}

func (m *MockTaskService) Complete(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	return taskResult(m.Called(ctx, id))
}

func (m *MockTaskService) Incomplete(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	return taskResult(m.Called(ctx, id))
}

func (m *MockTaskService) Toggle(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	return taskResult(m.Called(ctx, id))
}

func (m *MockTaskService) BulkSetStatus(ctx context.Context, ids []uuid.UUID, status task.Status) (int, error) {
	args := m.Called(ctx, ids, status)
	return args.Int(0), args.Error(1)
}

func (m *MockTaskService) AddTag(ctx context.Context, id uuid.UUID, tag string) (*task.Task, error) {
	return taskResult(m.Called(ctx, id, tag))
}

func (m *MockTaskService) RemoveTag(ctx context.Context, id uuid.UUID, tag string) (*task.Task, error) {
	return taskResult(m.Called(ctx, id, tag))
}

func (m *MockTaskService) Move(ctx context.Context, id, projectID uuid.UUID) (*task.Task, error) {
	return taskResult(m.Called(ctx, id, projectID))
}

// MockPomodoroService - мок сервиса сессий
type MockPomodoroService struct {
	mock.Mock
}

func pomodoroResult(args mock.Arguments) (*pomodoro.Pomodoro, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pomodoro.Pomodoro), args.Error(1)
}

func (m *MockPomodoroService) Create(ctx context.Context, taskID uuid.UUID, in service.CreatePomodoroInput) (*pomodoro.Pomodoro, error) {
	return pomodoroResult(m.Called(ctx, taskID, in))
}

func (m *MockPomodoroService) Get(ctx context.Context, id uuid.UUID) (*pomodoro.Pomodoro, error) {
	return pomodoroResult(m.Called(ctx, id))
}

func (m *MockPomodoroService) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*pomodoro.Pomodoro, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pomodoro.Pomodoro), args.Error(1)
}

func (m *MockPomodoroService) Start(ctx context.Context, id uuid.UUID) (*pomodoro.Pomodoro, error) {
	return pomodoroResult(m.Called(ctx, id))
}

func (m *MockPomodoroService) Pause(ctx context.Context, id uuid.UUID) (*pomodoro.Pomodoro, error) {
	return pomodoroResult(m.Called(ctx, id))
}

func (m *MockPomodoroService) Resume(ctx context.Context, id uuid.UUID) (*pomodoro.Pomodoro, error) {
	return pomodoroResult(m.Called(ctx, id))
}

func (m *MockPomodoroService) Complete(ctx context.Context, id uuid.UUID) (*pomodoro.Pomodoro, error) {
	return pomodoroResult(m.Called(ctx, id))
}

func (m *MockPomodoroService) Cancel(ctx context.Context, id uuid.UUID) (*pomodoro.Pomodoro, error) {
	return pomodoroResult(m.Called(ctx, id))
}

func (m *MockPomodoroService) Timer(ctx context.Context, id uuid.UUID) (session.TimerView, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(session.TimerView), args.Error(1)
}

func (m *MockPomodoroService) NextRecommendation(ctx context.Context, taskID uuid.UUID) (service.Recommendation, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(service.Recommendation), args.Error(1)
}

// MockProjectService - мок сервиса проектов
type MockProjectService struct {
	mock.Mock
}

func projectResult(args mock.Arguments) (*project.Project, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *MockProjectService) Create(ctx context.Context, in service.ProjectInput) (*project.Project, error) {
	return projectResult(m.Called(ctx, in))
}

func (m *MockProjectService) Get(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	return projectResult(m.Called(ctx, id))
}

func (m *MockProjectService) Update(ctx context.Context, id uuid.UUID, in service.ProjectInput) (*project.Project, error) {
	return projectResult(m.Called(ctx, id, in))
}

func (m *MockProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectService) Search(ctx context.Context, q search.ProjectQuery) (search.Page[*project.Project], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(search.Page[*project.Project]), args.Error(1)
}

func (m *MockProjectService) Summary(ctx context.Context, id uuid.UUID) (progress.Summary, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(progress.Summary), args.Error(1)
}

// MockStatsService - мок сервиса статистики
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Tasks(ctx context.Context, projectID *uuid.UUID) (stats.TaskStatistics, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(stats.TaskStatistics), args.Error(1)
}

func (m *MockStatsService) Pomodoros(ctx context.Context) (stats.PomodoroStatistics, error) {
	args := m.Called(ctx)
	return args.Get(0).(stats.PomodoroStatistics), args.Error(1)
}

var (
	_ handlers.TaskService     = (*MockTaskService)(nil)
	_ handlers.PomodoroService = (*MockPomodoroService)(nil)
	_ handlers.ProjectService  = (*MockProjectService)(nil)
	_ handlers.StatsService    = (*MockStatsService)(nil)
)
