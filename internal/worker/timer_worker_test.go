package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"pomodoroTracker/internal/logger"
	"pomodoroTracker/internal/models/pomodoro"
	"pomodoroTracker/internal/models/project"
	"pomodoroTracker/internal/models/task"
	"pomodoroTracker/internal/repository/inmemory"
	"pomodoroTracker/internal/service"
	"pomodoroTracker/internal/session"
	"pomodoroTracker/internal/worker"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

type countingAdvancer struct {
	calls atomic.Int32
	err   error
}

func (a *countingAdvancer) AdvanceRunning(ctx context.Context) (int, error) {
	a.calls.Add(1)
	return 0, a.err
}

// waitTicker ждёт, пока воркер создаст тикер
func waitTicker(t *testing.T, fake *clockwork.FakeClock) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, fake.BlockUntilContext(ctx, 1))
}

// TestTimerWorker_Check тестирует один проход, ошибка не роняет воркер
func TestTimerWorker_Check(t *testing.T) {
	logger.InitNop()
	tests := []struct {
		name string
		err  error
	}{
		{"success", nil},
		{"advance error", errors.New("storage down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			advancer := &countingAdvancer{err: tt.err}
			w := worker.NewTimerWorker(advancer, clockwork.NewFakeClockAt(base), nil)

			assert.Zero(t, w.Check(context.Background()))
			assert.Equal(t, int32(1), advancer.calls.Load())
		})
	}
}

// TestTimerWorker_StopsOnCancel тестирует остановку по контексту
func TestTimerWorker_StopsOnCancel(t *testing.T) {
	logger.InitNop()
	fake := clockwork.NewFakeClockAt(base)
	advancer := &countingAdvancer{}
	interval := 5 * time.Second
	w := worker.NewTimerWorker(advancer, fake, &interval)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	waitTicker(t, fake)

	fake.Advance(time.Second)
	fake.Advance(5 * time.Second)
	require.Eventually(t, func() bool { return advancer.calls.Load() == 1 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("воркер не остановился")
	}
}

// TestTimerWorker_NonPositiveInterval тестирует интервал по умолчанию
// вместо нулевого или отрицательного
func TestTimerWorker_NonPositiveInterval(t *testing.T) {
	logger.InitNop()
	for _, interval := range []time.Duration{0, -time.Second} {
		t.Run(interval.String(), func(t *testing.T) {
			fake := clockwork.NewFakeClockAt(base)
			advancer := &countingAdvancer{}
			w := worker.NewTimerWorker(advancer, fake, &interval)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go w.Start(ctx)
			waitTicker(t, fake)

			fake.Advance(time.Second)
			require.Eventually(t, func() bool { return advancer.calls.Load() == 1 }, time.Second, time.Millisecond)
		})
	}
}

// TestTimerWorker_CompletesExpiredSessions тестирует завершение сессии по таймеру
func TestTimerWorker_CompletesExpiredSessions(t *testing.T) {
	logger.InitNop()
	ctx := context.Background()
	fake := clockwork.NewFakeClockAt(base)
	repos := service.Repositories{
		Tasks:     inmemory.NewTaskStorage(),
		Pomodoros: inmemory.NewPomodoroStorage(),
		Projects:  inmemory.NewProjectStorage(),
	}

	p := &project.Project{UUID: uuid.New(), Name: "p", CreatedAt: base}
	require.NoError(t, repos.Projects.Create(ctx, p))
	tk := &task.Task{UUID: uuid.New(), Title: "focus", ProjectID: p.UUID, CreatedAt: base}
	require.NoError(t, repos.Tasks.Create(ctx, tk))

	pomodoros := service.NewPomodoroService(repos,
		service.PomodoroSettings{Cycle: session.DefaultCycleConfig()},
		service.WithClock(fake))
	s, err := pomodoros.Create(ctx, tk.UUID, service.CreatePomodoroInput{})
	require.NoError(t, err)
	_, err = pomodoros.Start(ctx, s.UUID)
	require.NoError(t, err)

	w := worker.NewTimerWorker(pomodoros, fake, nil)
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go w.Start(workerCtx)
	waitTicker(t, fake)

	fake.Advance(25 * time.Minute)

	require.Eventually(t, func() bool {
		got, err := pomodoros.Get(ctx, s.UUID)
		return err == nil && got.Status == pomodoro.StatusCompleted
	}, time.Second, 5*time.Millisecond)

	got, err := pomodoros.Get(ctx, s.UUID)
	require.NoError(t, err)
	require.NotNil(t, got.ActualDurationMinutes)
	assert.Equal(t, 25, *got.ActualDurationMinutes)

	updated, err := repos.Tasks.GetByID(ctx, tk.UUID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.CompletedPomodoros)
	assert.Equal(t, task.StatusInProgress, updated.Status)
}
