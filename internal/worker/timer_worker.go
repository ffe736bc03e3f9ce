package worker

import (
	"context"
	"time"

	"pomodoroTracker/internal/logger"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const defaultTickInterval = time.Second

// Advancer продвигает запущенные сессии и завершает истёкшие
type Advancer interface {
	AdvanceRunning(ctx context.Context) (int, error)
}

// TimerWorker раз в interval завершает сессии, у которых вышло время
type TimerWorker struct {
	advancer Advancer
	clock    clockwork.Clock
	interval time.Duration
}

func NewTimerWorker(advancer Advancer, c clockwork.Clock, interval *time.Duration) *TimerWorker {
	intervalToSet := defaultTickInterval
	if interval != nil && *interval > 0 {
		intervalToSet = *interval
	}
	if c == nil {
		c = clockwork.NewRealClock()
	}
	return &TimerWorker{
		advancer: advancer,
		clock:    c,
		interval: intervalToSet,
	}
}

// Start блокируется до отмены ctx
func (w *TimerWorker) Start(ctx context.Context) {
	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: Таймер сессий запущен", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ticker.Chan():
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Таймер сессий останавливается")
			return
		}
	}
}

// Check выполняет один проход и возвращает число завершённых сессий
func (w *TimerWorker) Check(ctx context.Context) int {
	start := time.Now()

	completed, err := w.advancer.AdvanceRunning(ctx)
	if err != nil {
		logger.Warn("Worker: Ошибка продвижения сессий", zap.Error(err))
	}
	if completed > 0 {
		logger.Info("Worker: Завершение проверки сессий",
			zap.Duration("ms", time.Since(start)),
			zap.Int("completed", completed))
	}
	return completed
}
