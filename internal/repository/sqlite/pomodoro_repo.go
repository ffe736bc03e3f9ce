package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pomodoroTracker/internal/models/pomodoro"
	repo "pomodoroTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const pomodoroColumns = `uuid, task_id, status, type, start_time, end_time, paused_at,
	planned_duration_minutes, actual_duration_minutes, paused_seconds, interruptions,
	notes, created_at, updated_at`

type PomodoroRepo struct {
	db *sqlx.DB
}

func (r *PomodoroRepo) Create(ctx context.Context, p *pomodoro.Pomodoro) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	query := `INSERT INTO pomodoros (` + pomodoroColumns + `) VALUES (
		:uuid, :task_id, :status, :type, :start_time, :end_time, :paused_at,
		:planned_duration_minutes, :actual_duration_minutes, :paused_seconds, :interruptions,
		:notes, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("добавление помидора: %w", err)
	}
	return nil
}

func (r *PomodoroRepo) Update(ctx context.Context, p *pomodoro.Pomodoro) error {
	if p.UpdatedAt == nil {
		now := time.Now()
		p.UpdatedAt = &now
	}

	query := `UPDATE pomodoros SET
		status = :status,
		type = :type,
		start_time = :start_time,
		end_time = :end_time,
		paused_at = :paused_at,
		planned_duration_minutes = :planned_duration_minutes,
		actual_duration_minutes = :actual_duration_minutes,
		paused_seconds = :paused_seconds,
		interruptions = :interruptions,
		notes = :notes,
		updated_at = :updated_at
	WHERE uuid = :uuid`

	res, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		return fmt.Errorf("обновление помидора %s: %w", p.UUID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *PomodoroRepo) GetByID(ctx context.Context, id uuid.UUID) (*pomodoro.Pomodoro, error) {
	p := &pomodoro.Pomodoro{}
	err := r.db.GetContext(ctx, p, `SELECT `+pomodoroColumns+` FROM pomodoros WHERE uuid = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("получение помидора: %w", err)
	}
	return p, nil
}

func (r *PomodoroRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pomodoros WHERE uuid = ?`, id)
	if err != nil {
		return fmt.Errorf("удаление помидора: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *PomodoroRepo) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*pomodoro.Pomodoro, error) {
	return r.list(ctx, ` WHERE task_id = ?`, taskID)
}

func (r *PomodoroRepo) ListByStatus(ctx context.Context, status pomodoro.Status) ([]*pomodoro.Pomodoro, error) {
	return r.list(ctx, ` WHERE status = ?`, int(status))
}

func (r *PomodoroRepo) List(ctx context.Context) ([]*pomodoro.Pomodoro, error) {
	return r.list(ctx, "")
}

func (r *PomodoroRepo) list(ctx context.Context, where string, args ...any) ([]*pomodoro.Pomodoro, error) {
	sessions := []*pomodoro.Pomodoro{}
	query := `SELECT ` + pomodoroColumns + ` FROM pomodoros` + where + ` ORDER BY rowid`
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, fmt.Errorf("получение помидоров: %w", err)
	}
	return sessions, nil
}
