package service

import (
	"context"

	"pomodoroTracker/internal/models/pomodoro"
	"pomodoroTracker/internal/models/project"
	"pomodoroTracker/internal/models/task"
	"pomodoroTracker/internal/repository"

	"github.com/google/uuid"
)

type TaskRepository interface {
	HealthCheck(context.Context) error
	Create(context.Context, *task.Task) error
	Update(context.Context, *task.Task) error
	// UpdateMany сохраняет все задачи или ни одной
	UpdateMany(context.Context, []*task.Task) error
	GetByID(context.Context, uuid.UUID) (*task.Task, error)
	Delete(context.Context, uuid.UUID) error
	List(context.Context, repository.TaskListFilter) ([]*task.Task, error)
}

type PomodoroRepository interface {
	Create(context.Context, *pomodoro.Pomodoro) error
	Update(context.Context, *pomodoro.Pomodoro) error
	GetByID(context.Context, uuid.UUID) (*pomodoro.Pomodoro, error)
	Delete(context.Context, uuid.UUID) error
	ListByTask(context.Context, uuid.UUID) ([]*pomodoro.Pomodoro, error)
	ListByStatus(context.Context, pomodoro.Status) ([]*pomodoro.Pomodoro, error)
	List(context.Context) ([]*pomodoro.Pomodoro, error)
}

type ProjectRepository interface {
	Create(context.Context, *project.Project) error
	Update(context.Context, *project.Project) error
	GetByID(context.Context, uuid.UUID) (*project.Project, error)
	Delete(context.Context, uuid.UUID) error
	List(context.Context) ([]*project.Project, error)
}

// Repositories набор хранилищ, общий для всех сервисов
type Repositories struct {
	Tasks     TaskRepository
	Pomodoros PomodoroRepository
	Projects  ProjectRepository
}
