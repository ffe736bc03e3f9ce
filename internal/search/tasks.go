package search

import (
	"strings"
	"time"

	"pomodoroTracker/internal/models/task"

	"github.com/google/uuid"
)

const (
	SortTitle     = "title"
	SortStatus    = "status"
	SortPriority  = "priority"
	SortDueDate   = "duedate"
	SortCreatedAt = "createdat"
	SortUpdatedAt = "updatedat"
)

type TaskFilter struct {
	Status     *task.Status
	Priority   *task.Priority
	ProjectID  *uuid.UUID
	AssigneeID *uuid.UUID
	// любой из тегов
	Tags      []string
	Overdue   *bool
	Completed *bool
}

type TaskQuery struct {
	Text   string
	Filter TaskFilter
	Sort   Sort
	Pagination
}

var taskSortKeys = map[string]less[*task.Task]{
	SortTitle: func(a, b *task.Task) bool {
		return lessFold(a.Title, b.Title)
	},
	SortStatus: func(a, b *task.Task) bool {
		return a.Status < b.Status
	},
	SortPriority: func(a, b *task.Task) bool {
		return a.Priority < b.Priority
	},
	SortDueDate: func(a, b *task.Task) bool {
		return lessOptionalTime(a.DueDate, b.DueDate)
	},
	SortCreatedAt: func(a, b *task.Task) bool {
		return a.CreatedAt.Before(b.CreatedAt)
	},
	SortUpdatedAt: func(a, b *task.Task) bool {
		return a.LastModified().Before(b.LastModified())
	},
}

// Tasks возвращает страницу задач по запросу q, исходный срез не меняется
func Tasks(tasks []*task.Task, q TaskQuery, now time.Time) (Page[*task.Task], error) {
	if err := validatePagination(q.Pagination); err != nil {
		return Page[*task.Task]{}, err
	}
	cmp, desc, err := resolveSort(q.Sort, taskSortKeys, SortCreatedAt)
	if err != nil {
		return Page[*task.Task]{}, err
	}

	text := strings.ToLower(strings.TrimSpace(q.Text))
	tags := lowerAll(q.Filter.Tags)

	matched := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t == nil {
			continue
		}
		if matchesTaskText(t, text) && matchesTaskFilter(t, q.Filter, tags, now) {
			matched = append(matched, t)
		}
	}

	return paginate(matched, cmp, desc, q.Pagination), nil
}

func matchesTaskText(t *task.Task, text string) bool {
	if text == "" {
		return true
	}
	if containsFold(t.Title, text) || containsFold(t.Description, text) {
		return true
	}
	for _, tag := range t.Tags {
		if containsFold(tag, text) {
			return true
		}
	}
	return false
}

func matchesTaskFilter(t *task.Task, f TaskFilter, tags []string, now time.Time) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.ProjectID != nil && t.ProjectID != *f.ProjectID {
		return false
	}
	if f.AssigneeID != nil && (t.AssigneeID == nil || *t.AssigneeID != *f.AssigneeID) {
		return false
	}
	if len(tags) > 0 && !hasAnyTag(t.Tags, tags) {
		return false
	}
	if f.Overdue != nil && t.IsOverdue(now) != *f.Overdue {
		return false
	}
	if f.Completed != nil && t.IsCompleted != *f.Completed {
		return false
	}
	return true
}

func hasAnyTag(taskTags []string, wanted []string) bool {
	for _, tag := range taskTags {
		lower := strings.ToLower(tag)
		for _, w := range wanted {
			if lower == w {
				return true
			}
		}
	}
	return false
}

func lowerAll(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			result = append(result, v)
		}
	}
	return result
}
