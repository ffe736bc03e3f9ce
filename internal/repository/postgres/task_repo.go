package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pomodoroTracker/internal/logger"
	"pomodoroTracker/internal/models/task"
	repo "pomodoroTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const taskColumns = `uuid, title, description, status, priority, project_id, assignee_id,
	assignee_name, due_date, estimated_pomodoros, completed_pomodoros, tags,
	is_completed, completed_at, created_at, updated_at, version`

const updateTaskQuery = `UPDATE tasks
		SET title = $1,
			description = $2,
			status = $3,
			priority = $4,
			project_id = $5,
			assignee_id = $6,
			assignee_name = $7,
			due_date = $8,
			estimated_pomodoros = $9,
			completed_pomodoros = $10,
			tags = $11,
			is_completed = $12,
			completed_at = $13,
			updated_at = COALESCE($14, NOW()),
			version = version + 1
		WHERE uuid = $15
		RETURNING updated_at, version`

type TaskRepo struct {
	storage *Storage
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *TaskRepo) HealthCheck(ctx context.Context) error {
	return r.storage.HealthCheck(ctx)
}

func (r *TaskRepo) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()
	if taskToCreate.CreatedAt.IsZero() {
		taskToCreate.CreatedAt = time.Now()
	}

	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, 1)
		RETURNING version`

	err := r.storage.pool.QueryRow(ctx, query,
		taskToCreate.UUID,
		taskToCreate.Title,
		taskToCreate.Description,
		int16(taskToCreate.Status),
		int16(taskToCreate.Priority),
		taskToCreate.ProjectID,
		taskToCreate.AssigneeID,
		taskToCreate.AssigneeName,
		taskToCreate.DueDate,
		taskToCreate.EstimatedPomodoros,
		taskToCreate.CompletedPomodoros,
		tagsOrEmpty(taskToCreate.Tags),
		taskToCreate.IsCompleted,
		taskToCreate.CompletedAt,
		taskToCreate.CreatedAt,
		taskToCreate.UpdatedAt,
	).Scan(&taskToCreate.Version)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	logSlow("tasks.create", start)
	return nil
}

func (r *TaskRepo) Update(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()

	err := updateTask(ctx, r.storage.pool, taskToUpdate)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return err
		}
		logger.Error("Repository: Не удалось обновить задачу", err,
			zap.String("task_id", taskToUpdate.UUID.String()),
			zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление задачи: %w", err)
	}

	logSlow("tasks.update", start)
	return nil
}

// UpdateMany обновляет задачи в одной транзакции: либо все, либо ни одной
func (r *TaskRepo) UpdateMany(ctx context.Context, tasks []*task.Task) error {
	start := time.Now()

	tx, err := r.storage.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: Не удалось начать транзакцию", err)
		return fmt.Errorf("начало транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range tasks {
		if err := updateTask(ctx, tx, t); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return err
			}
			logger.Error("Repository: Не удалось обновить задачу", err, zap.String("task_id", t.UUID.String()))
			return fmt.Errorf("обновление задачи %s: %w", t.UUID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Repository: Не удалось зафиксировать транзакцию", err)
		return fmt.Errorf("фиксация транзакции: %w", err)
	}

	logSlow("tasks.update_many", start)
	return nil
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func updateTask(ctx context.Context, q queryRower, t *task.Task) error {
	err := q.QueryRow(ctx, updateTaskQuery,
		t.Title,
		t.Description,
		int16(t.Status),
		int16(t.Priority),
		t.ProjectID,
		t.AssigneeID,
		t.AssigneeName,
		t.DueDate,
		t.EstimatedPomodoros,
		t.CompletedPomodoros,
		tagsOrEmpty(t.Tags),
		t.IsCompleted,
		t.CompletedAt,
		t.UpdatedAt,
		t.UUID,
	).Scan(&t.UpdatedAt, &t.Version)

	if errors.Is(err, pgx.ErrNoRows) {
		return repo.ErrNotFound
	}
	return err
}

func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE uuid = $1`

	t, err := scanTask(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	logSlow("tasks.get", start)
	return t, nil
}

func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM tasks WHERE uuid = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	logSlow("tasks.delete", start)
	return nil
}

func (r *TaskRepo) List(ctx context.Context, filter repo.TaskListFilter) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks`
	args := []any{}
	if filter.ProjectID != nil {
		query += ` WHERE project_id = $1`
		args = append(args, *filter.ProjectID)
	}
	query += ` ORDER BY seq`

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error("Repository: Ошибка сканирования задачи", err)
			return nil, fmt.Errorf("сканирование задачи: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	logSlow("tasks.list", start)
	return tasks, nil
}

func scanTask(row rowScanner) (*task.Task, error) {
	t := &task.Task{}
	var status, priority int16

	err := row.Scan(
		&t.UUID,
		&t.Title,
		&t.Description,
		&status,
		&priority,
		&t.ProjectID,
		&t.AssigneeID,
		&t.AssigneeName,
		&t.DueDate,
		&t.EstimatedPomodoros,
		&t.CompletedPomodoros,
		&t.Tags,
		&t.IsCompleted,
		&t.CompletedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.Version,
	)
	if err != nil {
		return nil, err
	}

	t.Status = task.Status(status)
	t.Priority = task.Priority(priority)
	return t, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
