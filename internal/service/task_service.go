package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pomodoroTracker/internal/apperror"
	"pomodoroTracker/internal/completion"
	"pomodoroTracker/internal/events"
	"pomodoroTracker/internal/logger"
	"pomodoroTracker/internal/models/task"
	"pomodoroTracker/internal/repository"
	"pomodoroTracker/internal/search"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type TaskService struct {
	repos Repositories
	opts  options
}

func NewTaskService(repos Repositories, opts ...Option) *TaskService {
	return &TaskService{
		repos: repos,
		opts:  buildOptions(opts),
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repos.Tasks.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (*task.Task, error) {
	title := strings.TrimSpace(in.Title)
	if err := requireTitle("title", title); err != nil {
		return nil, err
	}
	if in.ProjectID == uuid.Nil {
		return nil, apperror.NewValidationError("project_id", "обязательное поле")
	}
	if err := s.ensureProject(ctx, in.ProjectID); err != nil {
		return nil, err
	}
	if err := validateEstimate(in.EstimatedPomodoros); err != nil {
		return nil, err
	}

	priority := task.PriorityMedium
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, apperror.NewValidationError("priority", "неизвестный приоритет")
		}
		priority = *in.Priority
	}

	now := s.opts.clock.Now()
	t := &task.Task{
		UUID:               uuid.New(),
		Title:              title,
		Description:        in.Description,
		Status:             task.StatusPending,
		Priority:           priority,
		ProjectID:          in.ProjectID,
		AssigneeID:         in.AssigneeID,
		AssigneeName:       in.AssigneeName,
		DueDate:            in.DueDate,
		EstimatedPomodoros: in.EstimatedPomodoros,
		Tags:               completion.NormalizeTags(in.Tags),
		CreatedAt:          now,
	}
	if in.Status != nil {
		if err := completion.SetStatus(t, *in.Status, now); err != nil {
			return nil, err
		}
		// новая задача ещё не изменялась
		t.UpdatedAt = nil
	}

	if err := s.repos.Tasks.Create(ctx, t); err != nil {
		logger.Error("Service: Не удалось создать задачу", err)
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана",
		zap.String("task_id", t.UUID.String()),
		zap.String("project_id", t.ProjectID.String()))
	s.opts.invalidate(ctx)
	return t, nil
}

func (s *TaskService) Get(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := s.repos.Tasks.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err, resourceTask, id, "получение задачи")
	}
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, id uuid.UUID, in UpdateTaskInput) (*task.Task, error) {
	if in.Title != nil {
		if err := requireTitle("title", strings.TrimSpace(*in.Title)); err != nil {
			return nil, err
		}
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return nil, apperror.NewValidationError("priority", "неизвестный приоритет")
	}
	if err := validateEstimate(in.EstimatedPomodoros); err != nil {
		return nil, err
	}

	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.ProjectID != nil && *in.ProjectID != t.ProjectID {
		if err := s.ensureProject(ctx, *in.ProjectID); err != nil {
			return nil, err
		}
		task.Apply(t, task.WithProject(*in.ProjectID))
	}

	now := s.opts.clock.Now()
	wasCompleted := t.IsCompleted
	task.Apply(t, in.Options()...)
	if in.Status != nil {
		if err := completion.SetStatus(t, *in.Status, now); err != nil {
			return nil, err
		}
	}
	t.UpdatedAt = &now

	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	s.publishCompletion(ctx, t, wasCompleted)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.deletePomodoros(ctx, id); err != nil {
		return err
	}
	if err := s.repos.Tasks.Delete(ctx, id); err != nil {
		return storageError(err, resourceTask, id, "удаление задачи")
	}

	logger.Info("Service: Задача удалена", zap.String("task_id", id.String()))
	s.opts.invalidate(ctx)
	return nil
}

func (s *TaskService) Search(ctx context.Context, q search.TaskQuery) (search.Page[*task.Task], error) {
	tasks, err := s.repos.Tasks.List(ctx, repository.TaskListFilter{ProjectID: q.Filter.ProjectID})
	if err != nil {
		logger.Error("Service: Не удалось получить задачи", err)
		return search.Page[*task.Task]{}, fmt.Errorf("получение задач: %w", err)
	}
	return search.Tasks(tasks, q, s.opts.clock.Now())
}

func (s *TaskService) Complete(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	return s.mutate(ctx, id, completion.MarkCompleted)
}

func (s *TaskService) Incomplete(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	return s.mutate(ctx, id, completion.MarkIncomplete)
}

func (s *TaskService) Toggle(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	return s.mutate(ctx, id, completion.Toggle)
}

func (s *TaskService) SetStatus(ctx context.Context, id uuid.UUID, status task.Status) (*task.Task, error) {
	return s.mutate(ctx, id, func(t *task.Task, now time.Time) error {
		return completion.SetStatus(t, status, now)
	})
}

// BulkSetStatus меняет статус сразу нескольких задач. Если хотя бы одна
// задача не найдена, ничего не сохраняется.
func (s *TaskService) BulkSetStatus(ctx context.Context, ids []uuid.UUID, status task.Status) (int, error) {
	if !status.Valid() {
		return 0, apperror.NewValidationError("status", "неизвестный статус")
	}
	if len(ids) == 0 {
		return 0, nil
	}

	tasks := make([]*task.Task, 0, len(ids))
	before := make(map[uuid.UUID]bool, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		t, err := s.Get(ctx, id)
		if err != nil {
			return 0, err
		}
		before[id] = t.IsCompleted
		tasks = append(tasks, t)
	}

	changed, err := completion.BulkSetStatus(tasks, status, s.opts.clock.Now())
	if err != nil {
		return 0, err
	}
	if err := s.repos.Tasks.UpdateMany(ctx, tasks); err != nil {
		logger.Error("Service: Не удалось обновить задачи", err, zap.Int("count", len(tasks)))
		return 0, fmt.Errorf("пакетное обновление задач: %w", err)
	}

	for _, t := range tasks {
		s.publishCompletion(ctx, t, before[t.UUID])
	}
	logger.Info("Service: Пакетная смена статуса",
		zap.String("status", status.String()),
		zap.Int("requested", len(tasks)),
		zap.Int("changed", changed))
	s.opts.invalidate(ctx)
	return changed, nil
}

func (s *TaskService) AddTag(ctx context.Context, id uuid.UUID, tag string) (*task.Task, error) {
	return s.mutateTags(ctx, id, tag, completion.AddTag)
}

func (s *TaskService) RemoveTag(ctx context.Context, id uuid.UUID, tag string) (*task.Task, error) {
	return s.mutateTags(ctx, id, tag, completion.RemoveTag)
}

// Move переносит задачу в другой проект
func (s *TaskService) Move(ctx context.Context, id, projectID uuid.UUID) (*task.Task, error) {
	return s.Update(ctx, id, UpdateTaskInput{ProjectID: &projectID})
}

func (s *TaskService) mutate(ctx context.Context, id uuid.UUID, apply func(*task.Task, time.Time) error) (*task.Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	wasCompleted := t.IsCompleted
	if err := apply(t, s.opts.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	s.publishCompletion(ctx, t, wasCompleted)
	return t, nil
}

func (s *TaskService) mutateTags(ctx context.Context, id uuid.UUID, tag string,
	apply func(*task.Task, string, time.Time) (bool, error)) (*task.Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	changed, err := apply(t, tag, s.opts.clock.Now())
	if err != nil {
		return nil, err
	}
	if !changed {
		return t, nil
	}
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) save(ctx context.Context, t *task.Task) error {
	if err := s.repos.Tasks.Update(ctx, t); err != nil {
		return storageError(err, resourceTask, t.UUID, "обновление задачи")
	}
	s.opts.invalidate(ctx)
	return nil
}

func (s *TaskService) publishCompletion(ctx context.Context, t *task.Task, wasCompleted bool) {
	switch {
	case t.IsCompleted && !wasCompleted:
		s.opts.publish(ctx, events.TaskCompleted, t.UUID, t.UUID, nil)
	case !t.IsCompleted && wasCompleted:
		s.opts.publish(ctx, events.TaskReopened, t.UUID, t.UUID, nil)
	}
}

func (s *TaskService) ensureProject(ctx context.Context, id uuid.UUID) error {
	if s.repos.Projects == nil {
		return nil
	}
	if _, err := s.repos.Projects.GetByID(ctx, id); err != nil {
		return storageError(err, resourceProject, id, "получение проекта")
	}
	return nil
}

func (s *TaskService) deletePomodoros(ctx context.Context, taskID uuid.UUID) error {
	if s.repos.Pomodoros == nil {
		return nil
	}
	sessions, err := s.repos.Pomodoros.ListByTask(ctx, taskID)
	if err != nil {
		return storageError(err, resourcePomodoro, taskID, "получение помидоров задачи")
	}
	for _, p := range sessions {
		if err := s.repos.Pomodoros.Delete(ctx, p.UUID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return storageError(err, resourcePomodoro, p.UUID, "удаление помидора")
		}
	}
	return nil
}

func validateEstimate(estimate *int) error {
	if estimate != nil && *estimate < 0 {
		return apperror.NewValidationError("estimated_pomodoros", "не может быть отрицательным")
	}
	return nil
}
