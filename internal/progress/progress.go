package progress

import (
	"math"
	"time"

	"pomodoroTracker/internal/models/project"
	"pomodoroTracker/internal/models/task"
)

type Progress struct {
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	Percentage     int `json:"percentage"`
}

type Summary struct {
	Project      *project.Project `json:"project"`
	Progress     Progress         `json:"progress"`
	OverdueRisk  bool             `json:"overdue_risk"`
	OverdueTasks int              `json:"overdue_tasks"`
}

// Calculate считает прогресс проекта по текущему состоянию его задач
func Calculate(tasks []*task.Task) Progress {
	var result Progress
	for _, t := range tasks {
		if t == nil {
			continue
		}
		result.TotalTasks++
		if t.Status == task.StatusCompleted {
			result.CompletedTasks++
		}
	}
	result.Percentage = Percentage(result.CompletedTasks, result.TotalTasks)
	return result
}

func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// IsOverdueRisk: срок проекта прошёл, а проект не завершён
func IsOverdueRisk(p *project.Project, now time.Time) bool {
	return p != nil && p.DueDate != nil && p.DueDate.Before(now) && p.Status != project.StatusCompleted
}

func Summarize(p *project.Project, tasks []*task.Task, now time.Time) Summary {
	overdue := 0
	for _, t := range tasks {
		if t != nil && t.IsOverdue(now) {
			overdue++
		}
	}
	return Summary{
		Project:      p,
		Progress:     Calculate(tasks),
		OverdueRisk:  IsOverdueRisk(p, now),
		OverdueTasks: overdue,
	}
}
