package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pomodoroTracker/internal/apperror"
	"pomodoroTracker/internal/logger"
	"pomodoroTracker/internal/models/project"
	"pomodoroTracker/internal/progress"
	"pomodoroTracker/internal/repository"
	"pomodoroTracker/internal/search"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProjectService struct {
	repos Repositories
	opts  options
	tasks *TaskService
}

func NewProjectService(repos Repositories, opts ...Option) *ProjectService {
	return &ProjectService{
		repos: repos,
		opts:  buildOptions(opts),
		tasks: NewTaskService(repos, opts...),
	}
}

func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*project.Project, error) {
	name := ""
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	if err := requireTitle("name", name); err != nil {
		return nil, err
	}

	status := project.StatusActive
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, apperror.NewValidationError("status", "неизвестный статус проекта")
		}
		status = *in.Status
	}

	p := &project.Project{
		UUID:      uuid.New(),
		Name:      name,
		Status:    status,
		DueDate:   in.DueDate,
		CreatedAt: s.opts.clock.Now(),
	}
	if in.Description != nil {
		p.Description = *in.Description
	}

	if err := s.repos.Projects.Create(ctx, p); err != nil {
		logger.Error("Service: Не удалось создать проект", err)
		return nil, fmt.Errorf("создание проекта: %w", err)
	}

	logger.Info("Service: Проект создан", zap.String("project_id", p.UUID.String()))
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	p, err := s.repos.Projects.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err, resourceProject, id, "получение проекта")
	}
	return p, nil
}

func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, in ProjectInput) (*project.Project, error) {
	if in.Name != nil {
		if err := requireTitle("name", strings.TrimSpace(*in.Name)); err != nil {
			return nil, err
		}
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, apperror.NewValidationError("status", "неизвестный статус проекта")
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.ClearDueDate {
		p.DueDate = nil
	} else if in.DueDate != nil {
		p.DueDate = in.DueDate
	}
	now := s.opts.clock.Now()
	p.UpdatedAt = &now

	if err := s.repos.Projects.Update(ctx, p); err != nil {
		return nil, storageError(err, resourceProject, id, "обновление проекта")
	}
	return p, nil
}

// Delete удаляет проект вместе с его задачами и их помидорами
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	tasks, err := s.repos.Tasks.List(ctx, repository.TaskListFilter{ProjectID: &id})
	if err != nil {
		return storageError(err, resourceTask, id, "получение задач проекта")
	}
	for _, t := range tasks {
		if err := s.tasks.Delete(ctx, t.UUID); err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return err
		}
	}

	if err := s.repos.Projects.Delete(ctx, id); err != nil {
		return storageError(err, resourceProject, id, "удаление проекта")
	}

	logger.Info("Service: Проект удалён",
		zap.String("project_id", id.String()),
		zap.Int("tasks", len(tasks)))
	s.opts.invalidate(ctx)
	return nil
}

func (s *ProjectService) Search(ctx context.Context, q search.ProjectQuery) (search.Page[*project.Project], error) {
	projects, err := s.repos.Projects.List(ctx)
	if err != nil {
		logger.Error("Service: Не удалось получить проекты", err)
		return search.Page[*project.Project]{}, fmt.Errorf("получение проектов: %w", err)
	}
	return search.Projects(projects, q, s.opts.clock.Now())
}

// Summary возвращает проект с прогрессом, посчитанным по текущим задачам
func (s *ProjectService) Summary(ctx context.Context, id uuid.UUID) (progress.Summary, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return progress.Summary{}, err
	}
	tasks, err := s.repos.Tasks.List(ctx, repository.TaskListFilter{ProjectID: &id})
	if err != nil {
		return progress.Summary{}, storageError(err, resourceTask, id, "получение задач проекта")
	}
	return progress.Summarize(p, tasks, s.opts.clock.Now()), nil
}
