package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pomodoroTracker/internal/models/project"
	repo "pomodoroTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const projectColumns = `uuid, name, description, status, due_date, created_at, updated_at`

type ProjectRepo struct {
	db *sqlx.DB
}

func (r *ProjectRepo) Create(ctx context.Context, p *project.Project) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	query := `INSERT INTO projects (` + projectColumns + `) VALUES (
		:uuid, :name, :description, :status, :due_date, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("добавление проекта: %w", err)
	}
	return nil
}

func (r *ProjectRepo) Update(ctx context.Context, p *project.Project) error {
	if p.UpdatedAt == nil {
		now := time.Now()
		p.UpdatedAt = &now
	}

	query := `UPDATE projects SET
		name = :name,
		description = :description,
		status = :status,
		due_date = :due_date,
		updated_at = :updated_at
	WHERE uuid = :uuid`

	res, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		return fmt.Errorf("обновление проекта: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	p := &project.Project{}
	err := r.db.GetContext(ctx, p, `SELECT `+projectColumns+` FROM projects WHERE uuid = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("получение проекта: %w", err)
	}
	return p, nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE uuid = ?`, id)
	if err != nil {
		return fmt.Errorf("удаление проекта: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProjectRepo) List(ctx context.Context) ([]*project.Project, error) {
	projects := []*project.Project{}
	if err := r.db.SelectContext(ctx, &projects, `SELECT `+projectColumns+` FROM projects ORDER BY rowid`); err != nil {
		return nil, fmt.Errorf("получение проектов: %w", err)
	}
	return projects, nil
}
