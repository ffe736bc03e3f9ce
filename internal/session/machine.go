// Package session жизненный цикл помидора: таблица переходов, учёт времени
// и чередование работы с перерывами. Без I/O, сохраняет вызывающий.
package session

import (
	"math"
	"time"

	"pomodoroTracker/internal/apperror"
	"pomodoroTracker/internal/models/pomodoro"
)

type Event int

const (
	EventStart Event = iota
	EventPause
	EventResume
	EventComplete
	EventCancel
)

var eventNames = map[Event]string{
	EventStart:    "start",
	EventPause:    "pause",
	EventResume:   "resume",
	EventComplete: "complete",
	EventCancel:   "cancel",
}

func (e Event) String() string {
	return eventNames[e]
}

var Events = []Event{EventStart, EventPause, EventResume, EventComplete, EventCancel}

// разрешённые пары (состояние, событие), остальные недопустимы.
// У Completed и Cancelled переходов нет.
var transitions = map[pomodoro.Status]map[Event]pomodoro.Status{
	pomodoro.StatusPending: {
		EventStart:  pomodoro.StatusInProgress,
		EventCancel: pomodoro.StatusCancelled,
	},
	pomodoro.StatusInProgress: {
		EventPause:    pomodoro.StatusPaused,
		EventComplete: pomodoro.StatusCompleted,
		EventCancel:   pomodoro.StatusCancelled,
	},
	pomodoro.StatusPaused: {
		EventResume:   pomodoro.StatusInProgress,
		EventComplete: pomodoro.StatusCompleted,
		EventCancel:   pomodoro.StatusCancelled,
	},
}

// Transition определена для любой пары, недопустимая пара даёт ошибку
func Transition(from pomodoro.Status, ev Event) (pomodoro.Status, error) {
	if next, ok := transitions[from][ev]; ok {
		return next, nil
	}
	return from, apperror.NewInvalidTransition("pomodoro", from, ev)
}

func CanTransition(from pomodoro.Status, ev Event) bool {
	_, err := Transition(from, ev)
	return err == nil
}

func Start(p *pomodoro.Pomodoro, now time.Time) error {
	next, err := check(p, EventStart)
	if err != nil {
		return err
	}
	p.Status = next
	p.StartTime = timePtr(now)
	p.EndTime = nil
	p.PausedAt = nil
	p.PausedSeconds = 0
	p.ActualDurationMinutes = nil
	touch(p, now)
	return nil
}

func Pause(p *pomodoro.Pomodoro, now time.Time) error {
	next, err := check(p, EventPause)
	if err != nil {
		return err
	}
	p.Status = next
	p.PausedAt = timePtr(now)
	p.Interruptions++
	touch(p, now)
	return nil
}

func Resume(p *pomodoro.Pomodoro, now time.Time) error {
	next, err := check(p, EventResume)
	if err != nil {
		return err
	}
	closePause(p, now)
	p.Status = next
	touch(p, now)
	return nil
}

// Complete может вызываться из InProgress и Paused; открытая пауза
// засчитывается в PausedSeconds до расчёта фактической длительности.
func Complete(p *pomodoro.Pomodoro, now time.Time) error {
	next, err := check(p, EventComplete)
	if err != nil {
		return err
	}
	closePause(p, now)
	p.Status = next
	p.EndTime = timePtr(now)

	minutes := 0
	if p.StartTime != nil {
		worked := now.Sub(*p.StartTime) - time.Duration(p.PausedSeconds)*time.Second
		minutes = roundMinutes(worked)
	}
	p.ActualDurationMinutes = &minutes
	touch(p, now)
	return nil
}

func Cancel(p *pomodoro.Pomodoro, now time.Time) error {
	next, err := check(p, EventCancel)
	if err != nil {
		return err
	}
	closePause(p, now)
	p.Status = next
	p.EndTime = timePtr(now)
	touch(p, now)
	return nil
}

func Apply(p *pomodoro.Pomodoro, ev Event, now time.Time) error {
	switch ev {
	case EventStart:
		return Start(p, now)
	case EventPause:
		return Pause(p, now)
	case EventResume:
		return Resume(p, now)
	case EventComplete:
		return Complete(p, now)
	case EventCancel:
		return Cancel(p, now)
	}
	return apperror.NewValidationError("event", "неизвестное событие")
}

func check(p *pomodoro.Pomodoro, ev Event) (pomodoro.Status, error) {
	if p == nil {
		return 0, apperror.NewNotFound("pomodoro", "")
	}
	return Transition(p.Status, ev)
}

func closePause(p *pomodoro.Pomodoro, now time.Time) {
	if p.PausedAt == nil {
		return
	}
	// паузы округляются до секунды
	if paused := now.Sub(*p.PausedAt).Round(time.Second); paused > 0 {
		p.PausedSeconds += int(paused / time.Second)
	}
	p.PausedAt = nil
}

func roundMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(d.Minutes()))
}

func touch(p *pomodoro.Pomodoro, now time.Time) {
	p.UpdatedAt = timePtr(now)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
