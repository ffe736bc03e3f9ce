package session

import (
	"sort"

	"pomodoroTracker/internal/models/pomodoro"
)

type CycleConfig struct {
	WorkMinutes       int
	ShortBreakMinutes int
	LongBreakMinutes  int
	// рабочих сессий после длинного перерыва до следующего длинного
	LongBreakInterval int
}

func DefaultCycleConfig() CycleConfig {
	return CycleConfig{
		WorkMinutes:       25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		LongBreakInterval: 4,
	}
}

func (c CycleConfig) PlannedMinutes(t pomodoro.Type) int {
	switch t {
	case pomodoro.TypeShortBreak:
		return c.ShortBreakMinutes
	case pomodoro.TypeLongBreak:
		return c.LongBreakMinutes
	default:
		return c.WorkMinutes
	}
}

// NextType рекомендует тип следующей сессии по истории завершённых (старые первыми)
func NextType(history []pomodoro.Type, cfg CycleConfig) pomodoro.Type {
	if len(history) == 0 || history[len(history)-1].IsBreak() {
		return pomodoro.TypeWork
	}

	interval := cfg.LongBreakInterval
	if interval < 1 {
		interval = 1
	}

	workSinceLong := 0
	for i := len(history) - 1; i >= 0; i-- {
		if history[i] == pomodoro.TypeLongBreak {
			break
		}
		if history[i] == pomodoro.TypeWork {
			workSinceLong++
		}
	}

	if workSinceLong >= interval {
		return pomodoro.TypeLongBreak
	}
	return pomodoro.TypeShortBreak
}

// CompletedHistory типы завершённых сессий по времени окончания
func CompletedHistory(sessions []*pomodoro.Pomodoro) []pomodoro.Type {
	completed := make([]*pomodoro.Pomodoro, 0, len(sessions))
	for _, p := range sessions {
		if p.Status == pomodoro.StatusCompleted && p.EndTime != nil {
			completed = append(completed, p)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].EndTime.Before(*completed[j].EndTime)
	})

	history := make([]pomodoro.Type, len(completed))
	for i, p := range completed {
		history[i] = p.Type
	}
	return history
}
