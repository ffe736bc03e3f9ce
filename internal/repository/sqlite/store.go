// Package sqlite хранилище в одном файле на sqlx и драйвере modernc (без cgo).
package sqlite

import (
	"context"
	"fmt"

	"pomodoroTracker/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sqlx.DB
}

// Open открывает (или создаёт) базу по пути dbPath и применяет миграции.
// ":memory:" даёт временную базу для тестов.
func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("открытие sqlite: %w", err)
	}
	// одно соединение: in-memory база живёт внутри соединения,
	// а SQLite всё равно допускает одного писателя
	db.SetMaxOpenConns(1)

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("включение WAL: %w", err)
		}
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("включение внешних ключей: %w", err)
	}

	s := &Store{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("применение миграций: %w", err)
	}

	logger.Info("Repository: SQLite открыта", zap.String("path", dbPath))
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Store) Tasks() *TaskRepo {
	return &TaskRepo{store: s}
}

func (s *Store) Pomodoros() *PomodoroRepo {
	return &PomodoroRepo{db: s.db}
}

func (s *Store) Projects() *ProjectRepo {
	return &ProjectRepo{db: s.db}
}

// SchemaVersion номер последней применённой миграции
func (s *Store) SchemaVersion() (int, error) {
	var version int
	if err := s.db.Get(&version, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("чтение версии схемы: %w", err)
	}
	return version, nil
}

func (s *Store) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'")
	if err != nil {
		return fmt.Errorf("проверка таблицы schema_version: %w", err)
	}

	if tableCount > 0 {
		if currentVersion, err = s.SchemaVersion(); err != nil {
			return err
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("миграция v%d: %w", m.version, err)
		}
		logger.Debug("Repository: Применена миграция SQLite", zap.Int("version", m.version))
	}
	return nil
}
