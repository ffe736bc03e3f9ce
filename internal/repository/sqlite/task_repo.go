package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pomodoroTracker/internal/models/task"
	repo "pomodoroTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const taskColumns = `uuid, title, description, status, priority, project_id, assignee_id,
	assignee_name, due_date, estimated_pomodoros, completed_pomodoros, tags,
	is_completed, completed_at, created_at, updated_at, version`

// taskRow строка таблицы tasks, теги хранятся JSON массивом
type taskRow struct {
	UUID               uuid.UUID  `db:"uuid"`
	Title              string     `db:"title"`
	Description        string     `db:"description"`
	Status             int        `db:"status"`
	Priority           int        `db:"priority"`
	ProjectID          uuid.UUID  `db:"project_id"`
	AssigneeID         *uuid.UUID `db:"assignee_id"`
	AssigneeName       string     `db:"assignee_name"`
	DueDate            *time.Time `db:"due_date"`
	EstimatedPomodoros *int       `db:"estimated_pomodoros"`
	CompletedPomodoros int        `db:"completed_pomodoros"`
	Tags               string     `db:"tags"`
	IsCompleted        bool       `db:"is_completed"`
	CompletedAt        *time.Time `db:"completed_at"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          *time.Time `db:"updated_at"`
	Version            int        `db:"version"`
}

func toTaskRow(t *task.Task) (taskRow, error) {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return taskRow{}, fmt.Errorf("кодирование тегов задачи %s: %w", t.UUID, err)
	}
	return taskRow{
		UUID:               t.UUID,
		Title:              t.Title,
		Description:        t.Description,
		Status:             int(t.Status),
		Priority:           int(t.Priority),
		ProjectID:          t.ProjectID,
		AssigneeID:         t.AssigneeID,
		AssigneeName:       t.AssigneeName,
		DueDate:            utcPtr(t.DueDate),
		EstimatedPomodoros: t.EstimatedPomodoros,
		CompletedPomodoros: t.CompletedPomodoros,
		Tags:               string(encoded),
		IsCompleted:        t.IsCompleted,
		CompletedAt:        utcPtr(t.CompletedAt),
		CreatedAt:          t.CreatedAt.UTC(),
		UpdatedAt:          utcPtr(t.UpdatedAt),
		Version:            t.Version,
	}, nil
}

func (r taskRow) toTask() (*task.Task, error) {
	var tags []string
	if err := json.Unmarshal([]byte(r.Tags), &tags); err != nil {
		return nil, fmt.Errorf("декодирование тегов задачи %s: %w", r.UUID, err)
	}
	return &task.Task{
		UUID:               r.UUID,
		Title:              r.Title,
		Description:        r.Description,
		Status:             task.Status(r.Status),
		Priority:           task.Priority(r.Priority),
		ProjectID:          r.ProjectID,
		AssigneeID:         r.AssigneeID,
		AssigneeName:       r.AssigneeName,
		DueDate:            r.DueDate,
		EstimatedPomodoros: r.EstimatedPomodoros,
		CompletedPomodoros: r.CompletedPomodoros,
		Tags:               tags,
		IsCompleted:        r.IsCompleted,
		CompletedAt:        r.CompletedAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		Version:            r.Version,
	}, nil
}

type TaskRepo struct {
	store *Store
}

func (r *TaskRepo) HealthCheck(ctx context.Context) error {
	return r.store.HealthCheck(ctx)
}

func (r *TaskRepo) Create(ctx context.Context, t *task.Task) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	t.Version = 1

	row, err := toTaskRow(t)
	if err != nil {
		return err
	}

	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (
		:uuid, :title, :description, :status, :priority, :project_id, :assignee_id,
		:assignee_name, :due_date, :estimated_pomodoros, :completed_pomodoros, :tags,
		:is_completed, :completed_at, :created_at, :updated_at, :version)`

	if _, err := r.store.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("добавление задачи: %w", err)
	}
	return nil
}

func (r *TaskRepo) Update(ctx context.Context, t *task.Task) error {
	return updateTask(ctx, r.store.db, t)
}

func (r *TaskRepo) UpdateMany(ctx context.Context, tasks []*task.Task) error {
	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("начало транзакции: %w", err)
	}
	defer tx.Rollback()

	for _, t := range tasks {
		if err := updateTask(ctx, tx, t); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("фиксация транзакции: %w", err)
	}
	return nil
}

func updateTask(ctx context.Context, exec sqlx.ExtContext, t *task.Task) error {
	if t.UpdatedAt == nil {
		now := time.Now()
		t.UpdatedAt = &now
	}

	row, err := toTaskRow(t)
	if err != nil {
		return err
	}

	query := `UPDATE tasks SET
		title = :title,
		description = :description,
		status = :status,
		priority = :priority,
		project_id = :project_id,
		assignee_id = :assignee_id,
		assignee_name = :assignee_name,
		due_date = :due_date,
		estimated_pomodoros = :estimated_pomodoros,
		completed_pomodoros = :completed_pomodoros,
		tags = :tags,
		is_completed = :is_completed,
		completed_at = :completed_at,
		updated_at = :updated_at,
		version = version + 1
	WHERE uuid = :uuid`

	res, err := sqlx.NamedExecContext(ctx, exec, query, row)
	if err != nil {
		return fmt.Errorf("обновление задачи %s: %w", t.UUID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repo.ErrNotFound
	}

	if err := sqlx.GetContext(ctx, exec, &t.Version, `SELECT version FROM tasks WHERE uuid = ?`, t.UUID); err != nil {
		return fmt.Errorf("чтение версии задачи: %w", err)
	}
	return nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	var row taskRow
	err := r.store.db.GetContext(ctx, &row, `SELECT `+taskColumns+` FROM tasks WHERE uuid = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return row.toTask()
}

func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.store.db.ExecContext(ctx, `DELETE FROM tasks WHERE uuid = ?`, id)
	if err != nil {
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *TaskRepo) List(ctx context.Context, filter repo.TaskListFilter) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var args []any
	if filter.ProjectID != nil {
		query += ` WHERE project_id = ?`
		args = append(args, *filter.ProjectID)
	}
	query += ` ORDER BY rowid`

	var rows []taskRow
	if err := r.store.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	tasks := make([]*task.Task, 0, len(rows))
	for _, row := range rows {
		t, err := row.toTask()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
