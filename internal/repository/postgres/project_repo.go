package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pomodoroTracker/internal/logger"
	"pomodoroTracker/internal/models/project"
	repo "pomodoroTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const projectColumns = `uuid, name, description, status, due_date, created_at, updated_at`

type ProjectRepo struct {
	pool *pgxpool.Pool
}

func (r *ProjectRepo) Create(ctx context.Context, p *project.Project) error {
	start := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	query := `INSERT INTO projects (` + projectColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query,
		p.UUID, p.Name, p.Description, int16(p.Status), p.DueDate, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		logger.Error("Repository: Не удалось добавить проект", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление проекта: %w", err)
	}

	logSlow("projects.create", start)
	return nil
}

func (r *ProjectRepo) Update(ctx context.Context, p *project.Project) error {
	start := time.Now()

	query := `UPDATE projects
		SET name = $1,
			description = $2,
			status = $3,
			due_date = $4,
			updated_at = COALESCE($5, NOW())
		WHERE uuid = $6
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		p.Name, p.Description, int16(p.Status), p.DueDate, p.UpdatedAt, p.UUID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить проект", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление проекта: %w", err)
	}

	logSlow("projects.update", start)
	return nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE uuid = $1`

	p, err := scanProject(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить проект", err)
		return nil, fmt.Errorf("получение проекта: %w", err)
	}
	return p, nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE uuid = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить проект", err)
		return fmt.Errorf("удаление проекта: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProjectRepo) List(ctx context.Context) ([]*project.Project, error) {
	start := time.Now()

	rows, err := r.pool.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY seq`)
	if err != nil {
		logger.Error("Repository: Не удалось получить проекты", err)
		return nil, fmt.Errorf("получение проектов: %w", err)
	}
	defer rows.Close()

	projects := []*project.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("сканирование проекта: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	logSlow("projects.list", start)
	return projects, nil
}

func scanProject(row rowScanner) (*project.Project, error) {
	p := &project.Project{}
	var status int16

	if err := row.Scan(&p.UUID, &p.Name, &p.Description, &status, &p.DueDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Status = project.Status(status)
	return p, nil
}
