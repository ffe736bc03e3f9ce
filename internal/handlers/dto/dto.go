package dto

import (
	"time"

	"pomodoroTracker/internal/models/pomodoro"
	"pomodoroTracker/internal/models/project"
	"pomodoroTracker/internal/models/task"
	"pomodoroTracker/internal/search"
	"pomodoroTracker/internal/service"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	Status             *task.Status   `json:"status,omitempty"`
	Priority           *task.Priority `json:"priority,omitempty"`
	ProjectID          uuid.UUID      `json:"project_id"`
	AssigneeID         *uuid.UUID     `json:"assignee_id,omitempty"`
	AssigneeName       string         `json:"assignee_name,omitempty"`
	DueDate            *time.Time     `json:"due_date,omitempty"`
	EstimatedPomodoros *int           `json:"estimated_pomodoros,omitempty"`
	Tags               []string       `json:"tags,omitempty"`
}

func (r CreateTaskRequest) ToInput() service.CreateTaskInput {
	return service.CreateTaskInput{
		Title:              r.Title,
		Description:        r.Description,
		Status:             r.Status,
		Priority:           r.Priority,
		ProjectID:          r.ProjectID,
		AssigneeID:         r.AssigneeID,
		AssigneeName:       r.AssigneeName,
		DueDate:            r.DueDate,
		EstimatedPomodoros: r.EstimatedPomodoros,
		Tags:               r.Tags,
	}
}

// UpdateTaskRequest частичное обновление, отсутствующие поля не меняются
type UpdateTaskRequest struct {
	Title              *string        `json:"title,omitempty"`
	Description        *string        `json:"description,omitempty"`
	Status             *task.Status   `json:"status,omitempty"`
	Priority           *task.Priority `json:"priority,omitempty"`
	ProjectID          *uuid.UUID     `json:"project_id,omitempty"`
	AssigneeID         *uuid.UUID     `json:"assignee_id,omitempty"`
	AssigneeName       *string        `json:"assignee_name,omitempty"`
	DueDate            *time.Time     `json:"due_date,omitempty"`
	ClearDueDate       bool           `json:"clear_due_date,omitempty"`
	EstimatedPomodoros *int           `json:"estimated_pomodoros,omitempty"`
}

func (r UpdateTaskRequest) ToInput() service.UpdateTaskInput {
	return service.UpdateTaskInput{
		Title:              r.Title,
		Description:        r.Description,
		Status:             r.Status,
		Priority:           r.Priority,
		ProjectID:          r.ProjectID,
		AssigneeID:         r.AssigneeID,
		AssigneeName:       r.AssigneeName,
		DueDate:            r.DueDate,
		ClearDueDate:       r.ClearDueDate,
		EstimatedPomodoros: r.EstimatedPomodoros,
	}
}

type BulkStatusRequest struct {
	IDs    []uuid.UUID `json:"ids"`
	Status task.Status `json:"status"`
}

type BulkStatusResponse struct {
	Requested int `json:"requested"`
	Changed   int `json:"changed"`
}

type TagRequest struct {
	Tag string `json:"tag"`
}

type MoveRequest struct {
	ProjectID uuid.UUID `json:"project_id"`
}

type TaskResponse struct {
	*task.Task
	IsOverdue bool `json:"is_overdue"`
}

func FromTask(t *task.Task, now time.Time) TaskResponse {
	return TaskResponse{Task: t, IsOverdue: t.IsOverdue(now)}
}

func FromTaskList(tasks []*task.Task, now time.Time) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t, now)
	}
	return result
}

func FromTaskPage(page search.Page[*task.Task], now time.Time) search.Page[TaskResponse] {
	return search.Page[TaskResponse]{
		Items:      FromTaskList(page.Items, now),
		Total:      page.Total,
		Page:       page.Page,
		Size:       page.Size,
		TotalPages: page.TotalPages,
	}
}

type CreatePomodoroRequest struct {
	Type                   *pomodoro.Type `json:"type,omitempty"`
	PlannedDurationMinutes *int           `json:"planned_duration_minutes,omitempty"`
	Notes                  string         `json:"notes,omitempty"`
}

func (r CreatePomodoroRequest) ToInput() service.CreatePomodoroInput {
	return service.CreatePomodoroInput{
		Type:           r.Type,
		PlannedMinutes: r.PlannedDurationMinutes,
		Notes:          r.Notes,
	}
}

type ProjectRequest struct {
	Name         *string         `json:"name,omitempty"`
	Description  *string         `json:"description,omitempty"`
	Status       *project.Status `json:"status,omitempty"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	ClearDueDate bool            `json:"clear_due_date,omitempty"`
}

func (r ProjectRequest) ToInput() service.ProjectInput {
	return service.ProjectInput{
		Name:         r.Name,
		Description:  r.Description,
		Status:       r.Status,
		DueDate:      r.DueDate,
		ClearDueDate: r.ClearDueDate,
	}
}
