package task

import (
	"time"

	"github.com/google/uuid"
)

// TaskOption изменяет поля задачи при создании или обновлении.
// Статус и теги сюда не входят: они меняются только через completion.
type TaskOption func(*Task)

func Apply(t *Task, options ...TaskOption) {
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
}

func WithTitle(title string) TaskOption {
	if title == "" {
		return nil
	}
	return func(task *Task) {
		task.Title = title
	}
}

func WithDescription(description string) TaskOption {
	return func(task *Task) {
		task.Description = description
	}
}

func WithPriority(priority Priority) TaskOption {
	return func(task *Task) {
		task.Priority = priority
	}
}

func WithDueDate(dueDate *time.Time) TaskOption {
	return func(task *Task) {
		task.DueDate = dueDate
	}
}

func WithAssignee(id *uuid.UUID, name string) TaskOption {
	return func(task *Task) {
		task.AssigneeID = id
		task.AssigneeName = name
	}
}

func WithEstimatedPomodoros(estimate *int) TaskOption {
	return func(task *Task) {
		task.EstimatedPomodoros = estimate
	}
}

func WithProject(projectID uuid.UUID) TaskOption {
	if projectID == uuid.Nil {
		return nil
	}
	return func(task *Task) {
		task.ProjectID = projectID
	}
}
