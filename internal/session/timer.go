package session

import (
	"time"

	"pomodoroTracker/internal/models/pomodoro"
)

// Elapsed время работы: с начала сессии минус все паузы, включая открытую
func Elapsed(p *pomodoro.Pomodoro, now time.Time) time.Duration {
	if p == nil || p.StartTime == nil {
		return 0
	}
	end := now
	if p.EndTime != nil {
		end = *p.EndTime
	}

	elapsed := end.Sub(*p.StartTime) - time.Duration(p.PausedSeconds)*time.Second
	if p.PausedAt != nil {
		elapsed -= end.Sub(*p.PausedAt)
	}
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

func Planned(p *pomodoro.Pomodoro) time.Duration {
	return time.Duration(p.PlannedDurationMinutes) * time.Minute
}

// Remaining = planned - elapsed, не меньше нуля
func Remaining(p *pomodoro.Pomodoro, now time.Time) time.Duration {
	if p == nil {
		return 0
	}
	switch p.Status {
	case pomodoro.StatusPending:
		return Planned(p)
	case pomodoro.StatusCompleted, pomodoro.StatusCancelled:
		return 0
	}

	remaining := Planned(p) - Elapsed(p, now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Advance вызывается на каждом тике: идущая сессия без остатка времени
// завершается в момент now. true если сессия завершена.
func Advance(p *pomodoro.Pomodoro, now time.Time) (bool, error) {
	if p == nil || p.Status != pomodoro.StatusInProgress {
		return false, nil
	}
	if Remaining(p, now) > 0 {
		return false, nil
	}
	if err := Complete(p, now); err != nil {
		return false, err
	}
	return true, nil
}

// TimerView снимок таймера для отображения
type TimerView struct {
	Status           pomodoro.Status `json:"status"`
	Type             pomodoro.Type   `json:"type"`
	PlannedSeconds   int             `json:"planned_seconds"`
	ElapsedSeconds   int             `json:"elapsed_seconds"`
	RemainingSeconds int             `json:"remaining_seconds"`
	Expired          bool            `json:"expired"`
}

func View(p *pomodoro.Pomodoro, now time.Time) TimerView {
	remaining := Remaining(p, now)
	return TimerView{
		Status:           p.Status,
		Type:             p.Type,
		PlannedSeconds:   int(Planned(p) / time.Second),
		ElapsedSeconds:   int(Elapsed(p, now) / time.Second),
		RemainingSeconds: int(remaining / time.Second),
		Expired:          p.Status == pomodoro.StatusInProgress && remaining == 0,
	}
}
