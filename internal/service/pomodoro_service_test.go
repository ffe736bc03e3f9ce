package service_test

import (
	"context"
	"testing"
	"time"

	"pomodoroTracker/internal/apperror"
	"pomodoroTracker/internal/events"
	"pomodoroTracker/internal/models/pomodoro"
	"pomodoroTracker/internal/models/task"
	"pomodoroTracker/internal/service"
	"pomodoroTracker/internal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) pomodoros(autoCreateNext bool) *service.PomodoroService {
	return service.NewPomodoroService(f.repos, service.PomodoroSettings{
		Cycle:          session.DefaultCycleConfig(),
		AutoCreateNext: autoCreateNext,
	}, f.options()...)
}

func typePtr(t pomodoro.Type) *pomodoro.Type {
	return &t
}

// TestPomodoroService_Create тестирует создание сессии для задачи
func TestPomodoroService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.pomodoros(false)
	owner := f.createTask(t, "owner")

	created, err := svc.Create(ctx, owner.UUID, service.CreatePomodoroInput{Notes: " deep work "})
	require.NoError(t, err)
	assert.Equal(t, pomodoro.StatusPending, created.Status)
	assert.Equal(t, pomodoro.TypeWork, created.Type)
	assert.Equal(t, 25, created.PlannedDurationMinutes)
	assert.Equal(t, "deep work", created.Notes)
	assert.Nil(t, created.StartTime)
	assert.Nil(t, created.ActualDurationMinutes)

	custom := 50
	long, err := svc.Create(ctx, owner.UUID, service.CreatePomodoroInput{
		Type:           typePtr(pomodoro.TypeLongBreak),
		PlannedMinutes: &custom,
	})
	require.NoError(t, err)
	assert.Equal(t, pomodoro.TypeLongBreak, long.Type)
	assert.Equal(t, 50, long.PlannedDurationMinutes)

	sessions, err := svc.ListByTask(ctx, owner.UUID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, created.UUID, sessions[0].UUID)
}

// TestPomodoroService_Create_Errors тестирует ошибки создания
func TestPomodoroService_Create_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.pomodoros(false)
	owner := f.createTask(t, "owner")
	zero := 0

	tests := []struct {
		name   string
		taskID uuid.UUID
		input  service.CreatePomodoroInput
		target error
	}{
		{"missing task", uuid.New(), service.CreatePomodoroInput{}, apperror.ErrNotFound},
		{"zero planned minutes", owner.UUID, service.CreatePomodoroInput{PlannedMinutes: &zero}, apperror.ErrInvalidInput},
		{"unknown type", owner.UUID, service.CreatePomodoroInput{Type: typePtr(pomodoro.Type(7))}, apperror.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.taskID, tt.input)
			assert.ErrorIs(t, err, tt.target)
		})
	}

	_, err := svc.ListByTask(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// TestPomodoroService_Lifecycle тестирует полный цикл рабочей сессии
func TestPomodoroService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.pomodoros(false)
	owner := f.createTask(t, "owner")

	p, err := svc.Create(ctx, owner.UUID, service.CreatePomodoroInput{})
	require.NoError(t, err)

	started, err := svc.Start(ctx, p.UUID)
	require.NoError(t, err)
	assert.Equal(t, pomodoro.StatusInProgress, started.Status)
	assert.Equal(t, base, *started.StartTime)

	// старт рабочей сессии переводит задачу в работу
	promoted, err := f.repos.Tasks.GetByID(ctx, owner.UUID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusInProgress, promoted.Status)

	f.clock.Advance(10 * time.Minute)
	paused, err := svc.Pause(ctx, p.UUID)
	require.NoError(t, err)
	assert.Equal(t, pomodoro.StatusPaused, paused.Status)
	assert.Equal(t, 1, paused.Interruptions)

	f.clock.Advance(3 * time.Minute)
	resumed, err := svc.Resume(ctx, p.UUID)
	require.NoError(t, err)
	assert.Equal(t, 180, resumed.PausedSeconds)

	view, err := svc.Timer(ctx, p.UUID)
	require.NoError(t, err)
	assert.Equal(t, 600, view.ElapsedSeconds)
	assert.Equal(t, 900, view.RemainingSeconds)

	f.clock.Advance(15 * time.Minute)
	completed, err := svc.Complete(ctx, p.UUID)
	require.NoError(t, err)
	assert.Equal(t, pomodoro.StatusCompleted, completed.Status)
	require.NotNil(t, completed.ActualDurationMinutes)
	assert.Equal(t, 25, *completed.ActualDurationMinutes)

	counted, err := f.repos.Tasks.GetByID(ctx, owner.UUID)
	require.NoError(t, err)
	assert.Equal(t, 1, counted.CompletedPomodoros)

	assert.Equal(t, []events.Type{
		events.PomodoroStarted,
		events.PomodoroPaused,
		events.PomodoroResumed,
		events.PomodoroCompleted,
	}, f.recorder.Types())

	_, err = svc.Start(ctx, p.UUID)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
	_, err = svc.Cancel(ctx, p.UUID)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
}

// TestPomodoroService_InvalidTransitions тестирует отказ без изменения состояния
func TestPomodoroService_InvalidTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.pomodoros(false)
	owner := f.createTask(t, "owner")

	p, err := svc.Create(ctx, owner.UUID, service.CreatePomodoroInput{})
	require.NoError(t, err)

	tests := []struct {
		name string
		call func(context.Context, uuid.UUID) (*pomodoro.Pomodoro, error)
	}{
		{"pause pending", svc.Pause},
		{"resume pending", svc.Resume},
		{"complete pending", svc.Complete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.call(ctx, p.UUID)
			assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
			assert.Equal(t, apperror.CodeInvalidTransition, apperror.CodeOf(err))
		})
	}

	stored, err := svc.Get(ctx, p.UUID)
	require.NoError(t, err)
	assert.Equal(t, pomodoro.StatusPending, stored.Status)
	assert.Empty(t, f.recorder.Events())

	_, err = svc.Start(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// TestPomodoroService_Cancel тестирует отмену приостановленной сессии
func TestPomodoroService_Cancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.pomodoros(false)
	owner := f.createTask(t, "owner")

	p, err := svc.Create(ctx, owner.UUID, service.CreatePomodoroInput{})
	require.NoError(t, err)
	_, err = svc.Start(ctx, p.UUID)
	require.NoError(t, err)
	f.clock.Advance(5 * time.Minute)
	_, err = svc.Pause(ctx, p.UUID)
	require.NoError(t, err)
	f.clock.Advance(time.Minute)

	cancelled, err := svc.Cancel(ctx, p.UUID)
	require.NoError(t, err)
	assert.Equal(t, pomodoro.StatusCancelled, cancelled.Status)
	assert.Nil(t, cancelled.ActualDurationMinutes)
	assert.Nil(t, cancelled.PausedAt)
	assert.Equal(t, 60, cancelled.PausedSeconds)

	counted, err := f.repos.Tasks.GetByID(ctx, owner.UUID)
	require.NoError(t, err)
	assert.Zero(t, counted.CompletedPomodoros)
}

// TestPomodoroService_BreakDoesNotPromoteTask тестирует, что перерыв не меняет задачу
func TestPomodoroService_BreakDoesNotPromoteTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.pomodoros(false)
	owner := f.createTask(t, "owner")

	p, err := svc.Create(ctx, owner.UUID, service.CreatePomodoroInput{Type: typePtr(pomodoro.TypeShortBreak)})
	require.NoError(t, err)
	assert.Equal(t, 5, p.PlannedDurationMinutes)

	_, err = svc.Start(ctx, p.UUID)
	require.NoError(t, err)

	stored, err := f.repos.Tasks.GetByID(ctx, owner.UUID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusPending, stored.Status)
}

// TestPomodoroService_NextRecommendation тестирует чередование работы и перерывов
func TestPomodoroService_NextRecommendation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.pomodoros(false)
	owner := f.createTask(t, "owner")

	var got []pomodoro.Type
	for i := 0; i < 9; i++ {
		rec, err := svc.NextRecommendation(ctx, owner.UUID)
		require.NoError(t, err)
		got = append(got, rec.Type)
		assert.Equal(t, session.DefaultCycleConfig().PlannedMinutes(rec.Type), rec.PlannedMinutes)

		p, err := svc.Create(ctx, owner.UUID, service.CreatePomodoroInput{})
		require.NoError(t, err)
		assert.Equal(t, rec.Type, p.Type)
		_, err = svc.Start(ctx, p.UUID)
		require.NoError(t, err)
		f.clock.Advance(time.Duration(p.PlannedDurationMinutes) * time.Minute)
		_, err = svc.Complete(ctx, p.UUID)
		require.NoError(t, err)
	}

	assert.Equal(t, []pomodoro.Type{
		pomodoro.TypeWork, pomodoro.TypeShortBreak,
		pomodoro.TypeWork, pomodoro.TypeShortBreak,
		pomodoro.TypeWork, pomodoro.TypeShortBreak,
		pomodoro.TypeWork, pomodoro.TypeLongBreak,
		pomodoro.TypeWork,
	}, got)

	counted, err := f.repos.Tasks.GetByID(ctx, owner.UUID)
	require.NoError(t, err)
	assert.Equal(t, 5, counted.CompletedPomodoros)

	_, err = svc.NextRecommendation(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// TestPomodoroService_AutoCreateNext тестирует автоматическое создание следующей сессии
func TestPomodoroService_AutoCreateNext(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.pomodoros(true)
	owner := f.createTask(t, "owner")

	p, err := svc.Create(ctx, owner.UUID, service.CreatePomodoroInput{})
	require.NoError(t, err)
	_, err = svc.Start(ctx, p.UUID)
	require.NoError(t, err)
	f.clock.Advance(25 * time.Minute)
	_, err = svc.Complete(ctx, p.UUID)
	require.NoError(t, err)

	sessions, err := svc.ListByTask(ctx, owner.UUID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	next := sessions[1]
	assert.Equal(t, pomodoro.StatusPending, next.Status)
	assert.Equal(t, pomodoro.TypeShortBreak, next.Type)
	assert.Equal(t, 5, next.PlannedDurationMinutes)
}

// TestPomodoroService_AdvanceRunning тестирует завершение истёкших сессий по таймеру
func TestPomodoroService_AdvanceRunning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.pomodoros(false)
	owner := f.createTask(t, "owner")

	short := 1
	quick, err := svc.Create(ctx, owner.UUID, service.CreatePomodoroInput{PlannedMinutes: &short})
	require.NoError(t, err)
	slow, err := svc.Create(ctx, owner.UUID, service.CreatePomodoroInput{})
	require.NoError(t, err)
	pending, err := svc.Create(ctx, owner.UUID, service.CreatePomodoroInput{})
	require.NoError(t, err)

	_, err = svc.Start(ctx, quick.UUID)
	require.NoError(t, err)
	_, err = svc.Start(ctx, slow.UUID)
	require.NoError(t, err)

	f.clock.Advance(30 * time.Second)
	completed, err := svc.AdvanceRunning(ctx)
	require.NoError(t, err)
	assert.Zero(t, completed)

	f.clock.Advance(30 * time.Second)
	completed, err = svc.AdvanceRunning(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, completed)

	got, err := svc.Get(ctx, quick.UUID)
	require.NoError(t, err)
	assert.Equal(t, pomodoro.StatusCompleted, got.Status)
	assert.Equal(t, 1, *got.ActualDurationMinutes)

	got, err = svc.Get(ctx, slow.UUID)
	require.NoError(t, err)
	assert.Equal(t, pomodoro.StatusInProgress, got.Status)

	got, err = svc.Get(ctx, pending.UUID)
	require.NoError(t, err)
	assert.Equal(t, pomodoro.StatusPending, got.Status)

	counted, err := f.repos.Tasks.GetByID(ctx, owner.UUID)
	require.NoError(t, err)
	assert.Equal(t, 1, counted.CompletedPomodoros)
	assert.Contains(t, f.recorder.Types(), events.PomodoroCompleted)
}

// TestPomodoroService_AdvanceRunning_SkipsPaused тестирует, что пауза останавливает таймер
func TestPomodoroService_AdvanceRunning_SkipsPaused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.pomodoros(false)
	owner := f.createTask(t, "owner")

	p, err := svc.Create(ctx, owner.UUID, service.CreatePomodoroInput{})
	require.NoError(t, err)
	_, err = svc.Start(ctx, p.UUID)
	require.NoError(t, err)
	_, err = svc.Pause(ctx, p.UUID)
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	completed, err := svc.AdvanceRunning(ctx)
	require.NoError(t, err)
	assert.Zero(t, completed)

	view, err := svc.Timer(ctx, p.UUID)
	require.NoError(t, err)
	assert.Equal(t, 1500, view.RemainingSeconds)
	assert.False(t, view.Expired)
}
