package service

import (
	"context"
	"strings"
	"time"

	"pomodoroTracker/internal/events"
	"pomodoroTracker/internal/models/project"
	"pomodoroTracker/internal/models/task"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Invalidator сбрасывает закешированную статистику после изменений
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type options struct {
	clock       clockwork.Clock
	publisher   events.Publisher
	invalidator Invalidator
}

// Option настраивает сервис при создании
type Option func(*options)

func WithClock(c clockwork.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(o *options) {
		o.publisher = p
	}
}

func WithInvalidator(i Invalidator) Option {
	return func(o *options) {
		o.invalidator = i
	}
}

func buildOptions(opts []Option) options {
	o := options{
		clock:     clockwork.NewRealClock(),
		publisher: events.Multi{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func (o options) invalidate(ctx context.Context) {
	if o.invalidator != nil {
		o.invalidator.Invalidate(ctx)
	}
}

func (o options) publish(ctx context.Context, typ events.Type, entityID, taskID uuid.UUID, attrs map[string]any) {
	o.publisher.Publish(ctx, events.Event{
		Type:       typ,
		EntityID:   entityID,
		TaskID:     taskID,
		OccurredAt: o.clock.Now(),
		Attributes: attrs,
	})
}

// CreateTaskInput поля новой задачи
type CreateTaskInput struct {
	Title              string
	Description        string
	Status             *task.Status
	Priority           *task.Priority
	ProjectID          uuid.UUID
	AssigneeID         *uuid.UUID
	AssigneeName       string
	DueDate            *time.Time
	EstimatedPomodoros *int
	Tags               []string
}

// UpdateTaskInput частичное обновление: nil поля не меняются.
// Теги меняются только через AddTag/RemoveTag.
type UpdateTaskInput struct {
	Title              *string
	Description        *string
	Status             *task.Status
	Priority           *task.Priority
	ProjectID          *uuid.UUID
	AssigneeID         *uuid.UUID
	AssigneeName       *string
	DueDate            *time.Time
	ClearDueDate       bool
	EstimatedPomodoros *int
}

// Options переводит обновление в набор TaskOption. Статус и проект
// обрабатываются сервисом отдельно.
func (in UpdateTaskInput) Options() []task.TaskOption {
	var opts []task.TaskOption
	if in.Title != nil {
		opts = append(opts, task.WithTitle(strings.TrimSpace(*in.Title)))
	}
	if in.Description != nil {
		opts = append(opts, task.WithDescription(*in.Description))
	}
	if in.Priority != nil {
		opts = append(opts, task.WithPriority(*in.Priority))
	}
	if in.ClearDueDate {
		opts = append(opts, task.WithDueDate(nil))
	} else if in.DueDate != nil {
		opts = append(opts, task.WithDueDate(in.DueDate))
	}
	if in.EstimatedPomodoros != nil {
		opts = append(opts, task.WithEstimatedPomodoros(in.EstimatedPomodoros))
	}
	if in.AssigneeID != nil || in.AssigneeName != nil {
		opts = append(opts, assigneeOption(in.AssigneeID, in.AssigneeName))
	}
	return opts
}

func assigneeOption(id *uuid.UUID, name *string) task.TaskOption {
	return func(t *task.Task) {
		if id != nil {
			t.AssigneeID = id
		}
		if name != nil {
			t.AssigneeName = *name
		}
	}
}

// ProjectInput поля проекта; при обновлении nil поля не меняются
type ProjectInput struct {
	Name         *string
	Description  *string
	Status       *project.Status
	DueDate      *time.Time
	ClearDueDate bool
}
