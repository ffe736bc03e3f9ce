package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"pomodoroTracker/internal/apperror"
	"pomodoroTracker/internal/completion"
	"pomodoroTracker/internal/events"
	"pomodoroTracker/internal/logger"
	"pomodoroTracker/internal/models/pomodoro"
	"pomodoroTracker/internal/models/task"
	"pomodoroTracker/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PomodoroSettings настройки цикла работы и перерывов
type PomodoroSettings struct {
	Cycle session.CycleConfig
	// AutoCreateNext создаёт следующую рекомендованную сессию после завершения
	AutoCreateNext bool
}

type CreatePomodoroInput struct {
	Type           *pomodoro.Type
	PlannedMinutes *int
	Notes          string
}

// Recommendation следующая сессия по циклу work/break
type Recommendation struct {
	Type           pomodoro.Type `json:"type"`
	PlannedMinutes int           `json:"planned_minutes"`
}

type PomodoroService struct {
	repos    Repositories
	opts     options
	settings PomodoroSettings
	// все переходы сессий выполняются последовательно:
	// таймер и HTTP-запросы меняют одни и те же записи
	mu sync.Mutex
}

func NewPomodoroService(repos Repositories, settings PomodoroSettings, opts ...Option) *PomodoroService {
	return &PomodoroService{
		repos:    repos,
		opts:     buildOptions(opts),
		settings: settings,
	}
}

func (s *PomodoroService) Create(ctx context.Context, taskID uuid.UUID, in CreatePomodoroInput) (*pomodoro.Pomodoro, error) {
	if in.Type != nil && !in.Type.Valid() {
		return nil, apperror.NewValidationError("type", "неизвестный тип сессии")
	}
	if in.PlannedMinutes != nil && *in.PlannedMinutes <= 0 {
		return nil, apperror.NewValidationError("planned_duration_minutes", "должно быть больше нуля")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getTask(ctx, taskID); err != nil {
		return nil, err
	}

	typ := pomodoro.TypeWork
	if in.Type != nil {
		typ = *in.Type
	} else {
		rec, err := s.recommend(ctx, taskID)
		if err != nil {
			return nil, err
		}
		typ = rec.Type
	}

	planned := s.settings.Cycle.PlannedMinutes(typ)
	if in.PlannedMinutes != nil {
		planned = *in.PlannedMinutes
	}

	return s.create(ctx, taskID, typ, planned, strings.TrimSpace(in.Notes))
}

func (s *PomodoroService) Get(ctx context.Context, id uuid.UUID) (*pomodoro.Pomodoro, error) {
	p, err := s.repos.Pomodoros.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err, resourcePomodoro, id, "получение помидора")
	}
	return p, nil
}

func (s *PomodoroService) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*pomodoro.Pomodoro, error) {
	if _, err := s.getTask(ctx, taskID); err != nil {
		return nil, err
	}
	sessions, err := s.repos.Pomodoros.ListByTask(ctx, taskID)
	if err != nil {
		return nil, storageError(err, resourcePomodoro, taskID, "получение помидоров задачи")
	}
	return sessions, nil
}

func (s *PomodoroService) Start(ctx context.Context, id uuid.UUID) (*pomodoro.Pomodoro, error) {
	return s.transition(ctx, id, session.EventStart)
}

func (s *PomodoroService) Pause(ctx context.Context, id uuid.UUID) (*pomodoro.Pomodoro, error) {
	return s.transition(ctx, id, session.EventPause)
}

func (s *PomodoroService) Resume(ctx context.Context, id uuid.UUID) (*pomodoro.Pomodoro, error) {
	return s.transition(ctx, id, session.EventResume)
}

func (s *PomodoroService) Complete(ctx context.Context, id uuid.UUID) (*pomodoro.Pomodoro, error) {
	return s.transition(ctx, id, session.EventComplete)
}

func (s *PomodoroService) Cancel(ctx context.Context, id uuid.UUID) (*pomodoro.Pomodoro, error) {
	return s.transition(ctx, id, session.EventCancel)
}

func (s *PomodoroService) Timer(ctx context.Context, id uuid.UUID) (session.TimerView, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return session.TimerView{}, err
	}
	return session.View(p, s.opts.clock.Now()), nil
}

// NextRecommendation подсказывает тип и длительность следующей сессии задачи
func (s *PomodoroService) NextRecommendation(ctx context.Context, taskID uuid.UUID) (Recommendation, error) {
	if _, err := s.getTask(ctx, taskID); err != nil {
		return Recommendation{}, err
	}
	return s.recommend(ctx, taskID)
}

// AdvanceRunning продвигает все запущенные сессии и завершает истёкшие.
// Возвращает количество завершённых сессий.
func (s *PomodoroService) AdvanceRunning(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	running, err := s.repos.Pomodoros.ListByStatus(ctx, pomodoro.StatusInProgress)
	if err != nil {
		logger.Error("Service: Не удалось получить запущенные помидоры", err)
		return 0, fmt.Errorf("получение запущенных помидоров: %w", err)
	}

	now := s.opts.clock.Now()
	completed := 0
	for _, p := range running {
		if err := ctx.Err(); err != nil {
			return completed, err
		}

		expired, err := session.Advance(p, now)
		if err != nil {
			return completed, err
		}
		if !expired {
			continue
		}

		if err := s.repos.Pomodoros.Update(ctx, p); err != nil {
			return completed, storageError(err, resourcePomodoro, p.UUID, "обновление помидора")
		}
		if err := s.afterTransition(ctx, p, session.EventComplete, now); err != nil {
			return completed, err
		}
		completed++

		logger.Info("Service: Помидор завершён по таймеру",
			zap.String("pomodoro_id", p.UUID.String()),
			zap.String("task_id", p.TaskID.String()))
	}

	if completed > 0 {
		s.opts.invalidate(ctx)
	}
	return completed, nil
}

func (s *PomodoroService) transition(ctx context.Context, id uuid.UUID, ev session.Event) (*pomodoro.Pomodoro, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.opts.clock.Now()
	if err := session.Apply(p, ev, now); err != nil {
		logger.Info("Service: Недопустимый переход помидора",
			zap.String("pomodoro_id", id.String()),
			zap.String("status", p.Status.String()),
			zap.String("event", ev.String()))
		return nil, err
	}

	if err := s.repos.Pomodoros.Update(ctx, p); err != nil {
		return nil, storageError(err, resourcePomodoro, id, "обновление помидора")
	}
	if err := s.afterTransition(ctx, p, ev, now); err != nil {
		return nil, err
	}

	s.opts.invalidate(ctx)
	return p, nil
}

// afterTransition синхронизирует задачу и публикует событие
// уже сохранённого перехода
func (s *PomodoroService) afterTransition(ctx context.Context, p *pomodoro.Pomodoro, ev session.Event, now time.Time) error {
	switch ev {
	case session.EventStart:
		if p.Type == pomodoro.TypeWork {
			if err := s.promoteTask(ctx, p.TaskID, now); err != nil {
				return err
			}
		}
		s.opts.publish(ctx, events.PomodoroStarted, p.UUID, p.TaskID, map[string]any{"type": p.Type.String()})
	case session.EventPause:
		s.opts.publish(ctx, events.PomodoroPaused, p.UUID, p.TaskID, nil)
	case session.EventResume:
		s.opts.publish(ctx, events.PomodoroResumed, p.UUID, p.TaskID, nil)
	case session.EventCancel:
		s.opts.publish(ctx, events.PomodoroCancelled, p.UUID, p.TaskID, nil)
	case session.EventComplete:
		if p.Type == pomodoro.TypeWork {
			if err := s.recountTask(ctx, p.TaskID, now); err != nil {
				return err
			}
		}
		attrs := map[string]any{"type": p.Type.String()}
		if p.ActualDurationMinutes != nil {
			attrs["actual_minutes"] = *p.ActualDurationMinutes
		}
		s.opts.publish(ctx, events.PomodoroCompleted, p.UUID, p.TaskID, attrs)

		if s.settings.AutoCreateNext {
			if err := s.createNext(ctx, p.TaskID); err != nil {
				return err
			}
		}
	}
	return nil
}

// promoteTask переводит задачу из Pending в InProgress при старте рабочей сессии
func (s *PomodoroService) promoteTask(ctx context.Context, taskID uuid.UUID, now time.Time) error {
	t, err := s.getTask(ctx, taskID)
	if err != nil {
		return err
	}
	if t.Status != task.StatusPending {
		return nil
	}
	if err := completion.SetStatus(t, task.StatusInProgress, now); err != nil {
		return err
	}
	if err := s.repos.Tasks.Update(ctx, t); err != nil {
		return storageError(err, resourceTask, taskID, "обновление задачи")
	}
	return nil
}

// recountTask пересчитывает CompletedPomodoros по завершённым рабочим сессиям
func (s *PomodoroService) recountTask(ctx context.Context, taskID uuid.UUID, now time.Time) error {
	t, err := s.getTask(ctx, taskID)
	if err != nil {
		return err
	}
	sessions, err := s.repos.Pomodoros.ListByTask(ctx, taskID)
	if err != nil {
		return storageError(err, resourcePomodoro, taskID, "получение помидоров задачи")
	}

	count := 0
	for _, p := range sessions {
		if p.Type == pomodoro.TypeWork && p.Status == pomodoro.StatusCompleted {
			count++
		}
	}
	if t.CompletedPomodoros == count {
		return nil
	}

	t.CompletedPomodoros = count
	t.UpdatedAt = &now
	if err := s.repos.Tasks.Update(ctx, t); err != nil {
		return storageError(err, resourceTask, taskID, "обновление задачи")
	}
	return nil
}

func (s *PomodoroService) createNext(ctx context.Context, taskID uuid.UUID) error {
	rec, err := s.recommend(ctx, taskID)
	if err != nil {
		return err
	}
	next, err := s.create(ctx, taskID, rec.Type, rec.PlannedMinutes, "")
	if err != nil {
		return err
	}
	logger.Debug("Service: Создана следующая сессия",
		zap.String("pomodoro_id", next.UUID.String()),
		zap.String("type", next.Type.String()))
	return nil
}

func (s *PomodoroService) create(ctx context.Context, taskID uuid.UUID, typ pomodoro.Type, planned int, notes string) (*pomodoro.Pomodoro, error) {
	p := &pomodoro.Pomodoro{
		UUID:                   uuid.New(),
		TaskID:                 taskID,
		Status:                 pomodoro.StatusPending,
		Type:                   typ,
		PlannedDurationMinutes: planned,
		Notes:                  notes,
		CreatedAt:              s.opts.clock.Now(),
	}
	if err := s.repos.Pomodoros.Create(ctx, p); err != nil {
		logger.Error("Service: Не удалось создать помидор", err, zap.String("task_id", taskID.String()))
		return nil, fmt.Errorf("создание помидора: %w", err)
	}

	logger.Info("Service: Помидор создан",
		zap.String("pomodoro_id", p.UUID.String()),
		zap.String("task_id", taskID.String()),
		zap.String("type", typ.String()))
	return p, nil
}

func (s *PomodoroService) recommend(ctx context.Context, taskID uuid.UUID) (Recommendation, error) {
	sessions, err := s.repos.Pomodoros.ListByTask(ctx, taskID)
	if err != nil {
		return Recommendation{}, storageError(err, resourcePomodoro, taskID, "получение помидоров задачи")
	}
	typ := session.NextType(session.CompletedHistory(sessions), s.settings.Cycle)
	return Recommendation{
		Type:           typ,
		PlannedMinutes: s.settings.Cycle.PlannedMinutes(typ),
	}, nil
}

func (s *PomodoroService) getTask(ctx context.Context, taskID uuid.UUID) (*task.Task, error) {
	t, err := s.repos.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, storageError(err, resourceTask, taskID, "получение задачи")
	}
	return t, nil
}
