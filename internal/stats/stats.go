// Package stats считает статистику задач и помидоров по снимку из памяти.
package stats

import (
	"math"
	"time"

	"pomodoroTracker/internal/models/pomodoro"
	"pomodoroTracker/internal/models/task"
)

const (
	completionWeight = 60.0
	onTimeWeight     = 20.0
	activityWeight   = 20.0

	// столько завершений за неделю дают полный вес активности
	weeklyTarget = 5.0
)

type TaskStatistics struct {
	Total                     int                 `json:"total"`
	ByStatus                  map[task.Status]int `json:"by_status"`
	Completed                 int                 `json:"completed"`
	Overdue                   int                 `json:"overdue"`
	CompletedThisWeek         int                 `json:"completed_this_week"`
	AverageCompletionTimeDays float64             `json:"average_completion_time_days"`
	ProductivityScore         int                 `json:"productivity_score"`
}

type PomodoroStatistics struct {
	Total               int                     `json:"total"`
	ByStatus            map[pomodoro.Status]int `json:"by_status"`
	CompletedWork       int                     `json:"completed_work"`
	CompletedBreaks     int                     `json:"completed_breaks"`
	TotalFocusMinutes   int                     `json:"total_focus_minutes"`
	AverageFocusMinutes float64                 `json:"average_focus_minutes"`
	Interruptions       int                     `json:"interruptions"`
	CompletedWorkToday  int                     `json:"completed_work_today"`
}

func ComputeTasks(tasks []*task.Task, now time.Time) TaskStatistics {
	result := TaskStatistics{
		ByStatus: make(map[task.Status]int, len(task.Statuses)),
	}
	for _, s := range task.Statuses {
		result.ByStatus[s] = 0
	}

	weekStart := WeekStart(now)
	weekEnd := weekStart.AddDate(0, 0, 7)

	var completionDays float64
	var withCompletedAt int

	for _, t := range tasks {
		if t == nil {
			continue
		}
		result.Total++
		result.ByStatus[t.Status]++

		if t.IsOverdue(now) {
			result.Overdue++
		}
		if !t.IsCompleted {
			continue
		}
		result.Completed++

		if t.CompletedAt == nil {
			continue
		}
		if !t.CompletedAt.Before(weekStart) && t.CompletedAt.Before(weekEnd) {
			result.CompletedThisWeek++
		}
		completionDays += t.CompletedAt.Sub(t.CreatedAt).Hours() / 24
		withCompletedAt++
	}

	if withCompletedAt > 0 {
		result.AverageCompletionTimeDays = roundTo(completionDays/float64(withCompletedAt), 1)
	}
	result.ProductivityScore = ProductivityScore(result.Total, result.Completed, result.Overdue, result.CompletedThisWeek)
	return result
}

// ProductivityScore возвращает оценку 0..100, пустой список задач даёт 100.
// score = completion*60 + (1 - overdue)*20 + activity*20: просрочка снимает
// баллы с веса "в срок", поэтому всё выполнено и ничего не просрочено при
// 5+ за неделю даёт ровно 100.
func ProductivityScore(total, completed, overdue, completedThisWeek int) int {
	if total <= 0 {
		return 100
	}

	completionRate := float64(completed) / float64(total)
	overdueRate := float64(overdue) / float64(total)
	weeklyActivity := math.Min(float64(completedThisWeek)/weeklyTarget, 1)

	score := completionRate*completionWeight + (1-overdueRate)*onTimeWeight + weeklyActivity*activityWeight
	score = math.Max(0, math.Min(100, score))
	return int(math.Round(score))
}

// WeekStart полночь последнего воскресенья в зоне now
func WeekStart(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func ComputePomodoros(sessions []*pomodoro.Pomodoro, now time.Time) PomodoroStatistics {
	result := PomodoroStatistics{
		ByStatus: make(map[pomodoro.Status]int, len(pomodoro.Statuses)),
	}
	for _, s := range pomodoro.Statuses {
		result.ByStatus[s] = 0
	}

	y, m, d := now.Date()
	for _, p := range sessions {
		if p == nil {
			continue
		}
		result.Total++
		result.ByStatus[p.Status]++
		result.Interruptions += p.Interruptions

		if p.Status != pomodoro.StatusCompleted {
			continue
		}
		if p.Type.IsBreak() {
			result.CompletedBreaks++
			continue
		}

		result.CompletedWork++
		if p.ActualDurationMinutes != nil {
			result.TotalFocusMinutes += *p.ActualDurationMinutes
		}
		if p.EndTime != nil {
			ey, em, ed := p.EndTime.In(now.Location()).Date()
			if ey == y && em == m && ed == d {
				result.CompletedWorkToday++
			}
		}
	}

	if result.CompletedWork > 0 {
		result.AverageFocusMinutes = roundTo(float64(result.TotalFocusMinutes)/float64(result.CompletedWork), 1)
	}
	return result
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
