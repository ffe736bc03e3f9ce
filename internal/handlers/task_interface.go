package handlers

import (
	"context"

	"pomodoroTracker/internal/models/pomodoro"
	"pomodoroTracker/internal/models/project"
	"pomodoroTracker/internal/models/task"
	"pomodoroTracker/internal/progress"
	"pomodoroTracker/internal/search"
	"pomodoroTracker/internal/service"
	"pomodoroTracker/internal/session"
	"pomodoroTracker/internal/stats"

	"github.com/google/uuid"
)

type TaskService interface {
	HealthCheck(ctx context.Context) error
	Create(ctx context.Context, in service.CreateTaskInput) (*task.Task, error)
	Get(ctx context.Context, id uuid.UUID) (*task.Task, error)
	Update(ctx context.Context, id uuid.UUID, in service.UpdateTaskInput) (*task.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, q search.TaskQuery) (search.Page[*task.Task], error)
	Complete(ctx context.Context, id uuid.UUID) (*task.Task, error)
	Incomplete(ctx context.Context, id uuid.UUID) (*task.Task, error)
	Toggle(ctx context.Context, id uuid.UUID) (*task.Task, error)
	BulkSetStatus(ctx context.Context, ids []uuid.UUID, status task.Status) (int, error)
	AddTag(ctx context.Context, id uuid.UUID, tag string) (*task.Task, error)
	RemoveTag(ctx context.Context, id uuid.UUID, tag string) (*task.Task, error)
	Move(ctx context.Context, id, projectID uuid.UUID) (*task.Task, error)
}

type PomodoroService interface {
	Create(ctx context.Context, taskID uuid.UUID, in service.CreatePomodoroInput) (*pomodoro.Pomodoro, error)
	Get(ctx context.Context, id uuid.UUID) (*pomodoro.Pomodoro, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*pomodoro.Pomodoro, error)
	Start(ctx context.Context, id uuid.UUID) (*pomodoro.Pomodoro, error)
	Pause(ctx context.Context, id uuid.UUID) (*pomodoro.Pomodoro, error)
	Resume(ctx context.Context, id uuid.UUID) (*pomodoro.Pomodoro, error)
	Complete(ctx context.Context, id uuid.UUID) (*pomodoro.Pomodoro, error)
	Cancel(ctx context.Context, id uuid.UUID) (*pomodoro.Pomodoro, error)
	Timer(ctx context.Context, id uuid.UUID) (session.TimerView, error)
	NextRecommendation(ctx context.Context, taskID uuid.UUID) (service.Recommendation, error)
}

type ProjectService interface {
	Create(ctx context.Context, in service.ProjectInput) (*project.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*project.Project, error)
	Update(ctx context.Context, id uuid.UUID, in service.ProjectInput) (*project.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, q search.ProjectQuery) (search.Page[*project.Project], error)
	Summary(ctx context.Context, id uuid.UUID) (progress.Summary, error)
}

type StatsService interface {
	Tasks(ctx context.Context, projectID *uuid.UUID) (stats.TaskStatistics, error)
	Pomodoros(ctx context.Context) (stats.PomodoroStatistics, error)
}

// Services сервисы, которые обслуживает HTTP слой
type Services struct {
	Tasks     TaskService
	Pomodoros PomodoroService
	Projects  ProjectService
	Stats     StatsService
}

var (
	_ TaskService     = (*service.TaskService)(nil)
	_ PomodoroService = (*service.PomodoroService)(nil)
	_ ProjectService  = (*service.ProjectService)(nil)
	_ StatsService    = (*service.StatsService)(nil)
)
