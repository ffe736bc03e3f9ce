package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pomodoroTracker/internal/logger"
	"pomodoroTracker/internal/models/pomodoro"
	repo "pomodoroTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const pomodoroColumns = `uuid, task_id, status, type, start_time, end_time, paused_at,
	planned_duration_minutes, actual_duration_minutes, paused_seconds, interruptions,
	notes, created_at, updated_at`

type PomodoroRepo struct {
	pool *pgxpool.Pool
}

func (r *PomodoroRepo) Create(ctx context.Context, p *pomodoro.Pomodoro) error {
	start := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	query := `INSERT INTO pomodoros (` + pomodoroColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.pool.Exec(ctx, query,
		p.UUID,
		p.TaskID,
		int16(p.Status),
		int16(p.Type),
		p.StartTime,
		p.EndTime,
		p.PausedAt,
		p.PlannedDurationMinutes,
		p.ActualDurationMinutes,
		p.PausedSeconds,
		p.Interruptions,
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		logger.Error("Repository: Не удалось добавить помидор", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление помидора: %w", err)
	}

	logSlow("pomodoros.create", start)
	return nil
}

func (r *PomodoroRepo) Update(ctx context.Context, p *pomodoro.Pomodoro) error {
	start := time.Now()

	query := `UPDATE pomodoros
		SET status = $1,
			type = $2,
			start_time = $3,
			end_time = $4,
			paused_at = $5,
			planned_duration_minutes = $6,
			actual_duration_minutes = $7,
			paused_seconds = $8,
			interruptions = $9,
			notes = $10,
			updated_at = COALESCE($11, NOW())
		WHERE uuid = $12`

	tag, err := r.pool.Exec(ctx, query,
		int16(p.Status),
		int16(p.Type),
		p.StartTime,
		p.EndTime,
		p.PausedAt,
		p.PlannedDurationMinutes,
		p.ActualDurationMinutes,
		p.PausedSeconds,
		p.Interruptions,
		p.Notes,
		p.UpdatedAt,
		p.UUID,
	)
	if err != nil {
		logger.Error("Repository: Не удалось обновить помидор", err,
			zap.String("pomodoro_id", p.UUID.String()),
			zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление помидора: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	logSlow("pomodoros.update", start)
	return nil
}

func (r *PomodoroRepo) GetByID(ctx context.Context, id uuid.UUID) (*pomodoro.Pomodoro, error) {
	start := time.Now()

	query := `SELECT ` + pomodoroColumns + ` FROM pomodoros WHERE uuid = $1`

	p, err := scanPomodoro(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить помидор", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение помидора: %w", err)
	}

	logSlow("pomodoros.get", start)
	return p, nil
}

func (r *PomodoroRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pomodoros WHERE uuid = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить помидор", err)
		return fmt.Errorf("удаление помидора: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *PomodoroRepo) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*pomodoro.Pomodoro, error) {
	return r.list(ctx, "pomodoros.list_by_task", ` WHERE task_id = $1`, taskID)
}

func (r *PomodoroRepo) ListByStatus(ctx context.Context, status pomodoro.Status) ([]*pomodoro.Pomodoro, error) {
	return r.list(ctx, "pomodoros.list_by_status", ` WHERE status = $1`, int16(status))
}

func (r *PomodoroRepo) List(ctx context.Context) ([]*pomodoro.Pomodoro, error) {
	return r.list(ctx, "pomodoros.list", "")
}

func (r *PomodoroRepo) list(ctx context.Context, op, where string, args ...any) ([]*pomodoro.Pomodoro, error) {
	start := time.Now()

	query := `SELECT ` + pomodoroColumns + ` FROM pomodoros` + where + ` ORDER BY seq`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить помидоры", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение помидоров: %w", err)
	}
	defer rows.Close()

	sessions := []*pomodoro.Pomodoro{}
	for rows.Next() {
		p, err := scanPomodoro(rows)
		if err != nil {
			logger.Error("Repository: Ошибка сканирования помидора", err)
			return nil, fmt.Errorf("сканирование помидора: %w", err)
		}
		sessions = append(sessions, p)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	logSlow(op, start)
	return sessions, nil
}

func scanPomodoro(row rowScanner) (*pomodoro.Pomodoro, error) {
	p := &pomodoro.Pomodoro{}
	var status, typ int16

	err := row.Scan(
		&p.UUID,
		&p.TaskID,
		&status,
		&typ,
		&p.StartTime,
		&p.EndTime,
		&p.PausedAt,
		&p.PlannedDurationMinutes,
		&p.ActualDurationMinutes,
		&p.PausedSeconds,
		&p.Interruptions,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Status = pomodoro.Status(status)
	p.Type = pomodoro.Type(typ)
	return p, nil
}
