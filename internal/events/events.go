// Package events события предметной области, публикуются после сохранения изменений.
package events

import (
	"context"
	"sync"
	"time"

	"pomodoroTracker/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Type string

const (
	PomodoroStarted   Type = "pomodoro.started"
	PomodoroPaused    Type = "pomodoro.paused"
	PomodoroResumed   Type = "pomodoro.resumed"
	PomodoroCompleted Type = "pomodoro.completed"
	PomodoroCancelled Type = "pomodoro.cancelled"
	TaskCompleted     Type = "task.completed"
	TaskReopened      Type = "task.reopened"
)

type Event struct {
	Type       Type           `json:"type"`
	EntityID   uuid.UUID      `json:"entity_id"`
	TaskID     uuid.UUID      `json:"task_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// LogPublisher пишет события в лог
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) {
	fields := []zap.Field{
		zap.String("event", string(event.Type)),
		zap.String("entity_id", event.EntityID.String()),
		zap.Time("occurred_at", event.OccurredAt),
	}
	if event.TaskID != uuid.Nil {
		fields = append(fields, zap.String("task_id", event.TaskID.String()))
	}
	if len(event.Attributes) > 0 {
		fields = append(fields, zap.Any("attributes", event.Attributes))
	}
	logger.Info("Event: "+string(event.Type), fields...)
}

// Recorder запоминает события, для тестов
type Recorder struct {
	mtx    sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(ctx context.Context, event Event) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.events = append(r.events, event)
}

func (r *Recorder) Events() []Event {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Types() []Type {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	types := make([]Type, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}

type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(ctx, event)
		}
	}
}
