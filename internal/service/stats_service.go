package service

import (
	"context"
	"fmt"

	"pomodoroTracker/internal/cache"
	"pomodoroTracker/internal/logger"
	"pomodoroTracker/internal/repository"
	"pomodoroTracker/internal/stats"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	keyTaskStats     = "stats:tasks"
	keyPomodoroStats = "stats:pomodoros"
)

// StatsService считает статистику и кеширует результат.
// Одновременные одинаковые запросы выполняют один расчёт.
type StatsService struct {
	repos Repositories
	opts  options
	cache cache.StatsCache
	group singleflight.Group
}

func NewStatsService(repos Repositories, statsCache cache.StatsCache, opts ...Option) *StatsService {
	if statsCache == nil {
		statsCache = cache.Noop{}
	}
	return &StatsService{
		repos: repos,
		opts:  buildOptions(opts),
		cache: statsCache,
	}
}

// Tasks статистика по всем задачам или по задачам одного проекта
func (s *StatsService) Tasks(ctx context.Context, projectID *uuid.UUID) (stats.TaskStatistics, error) {
	key := keyTaskStats
	if projectID != nil {
		if _, err := s.repos.Projects.GetByID(ctx, *projectID); err != nil {
			return stats.TaskStatistics{}, storageError(err, resourceProject, *projectID, "получение проекта")
		}
		key += ":" + projectID.String()
	}

	return cached(ctx, s, key, func() (stats.TaskStatistics, error) {
		tasks, err := s.repos.Tasks.List(ctx, repository.TaskListFilter{ProjectID: projectID})
		if err != nil {
			return stats.TaskStatistics{}, fmt.Errorf("получение задач: %w", err)
		}
		return stats.ComputeTasks(tasks, s.opts.clock.Now()), nil
	})
}

func (s *StatsService) Pomodoros(ctx context.Context) (stats.PomodoroStatistics, error) {
	return cached(ctx, s, keyPomodoroStats, func() (stats.PomodoroStatistics, error) {
		sessions, err := s.repos.Pomodoros.List(ctx)
		if err != nil {
			return stats.PomodoroStatistics{}, fmt.Errorf("получение помидоров: %w", err)
		}
		return stats.ComputePomodoros(sessions, s.opts.clock.Now()), nil
	})
}

// Invalidate сбрасывает кеш; ошибка кеша только логируется
func (s *StatsService) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warn("Cache: Не удалось сбросить статистику", zap.Error(err))
	}
}

func cached[T any](ctx context.Context, s *StatsService, key string, compute func() (T, error)) (T, error) {
	var result T
	hit, err := s.cache.Get(ctx, key, &result)
	if err != nil {
		logger.Warn("Cache: Ошибка чтения", zap.String("key", key), zap.Error(err))
	}
	if hit {
		logger.Debug("Cache: Попадание", zap.String("key", key))
		return result, nil
	}

	value, err, shared := s.group.Do(key, func() (any, error) {
		value, err := compute()
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, value); err != nil {
			logger.Warn("Cache: Ошибка записи", zap.String("key", key), zap.Error(err))
		}
		return value, nil
	})
	if err != nil {
		logger.Error("Service: Не удалось посчитать статистику", err, zap.String("key", key))
		return result, err
	}

	logger.Debug("Cache: Промах", zap.String("key", key), zap.Bool("shared", shared))
	return value.(T), nil
}
