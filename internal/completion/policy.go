// Package completion держит согласованными Status, IsCompleted и CompletedAt
// задачи. Теги меняются только здесь.
package completion

import (
	"strconv"
	"strings"
	"time"

	"pomodoroTracker/internal/apperror"
	"pomodoroTracker/internal/models/task"
)

func MarkCompleted(t *task.Task, now time.Time) error {
	if t == nil {
		return notFound()
	}
	t.Status = task.StatusCompleted
	t.IsCompleted = true
	completedAt := now
	t.CompletedAt = &completedAt
	touch(t, now)
	return nil
}

// MarkIncomplete возвращает задачу в Pending; now используется только как
// отметка изменения.
func MarkIncomplete(t *task.Task, now time.Time) error {
	if t == nil {
		return notFound()
	}
	t.Status = task.StatusPending
	t.IsCompleted = false
	t.CompletedAt = nil
	touch(t, now)
	return nil
}

func Toggle(t *task.Task, now time.Time) error {
	if t == nil {
		return notFound()
	}
	if t.IsCompleted {
		return MarkIncomplete(t, now)
	}
	return MarkCompleted(t, now)
}

// SetStatus переводит одну задачу в status. Флаг завершения меняется только
// при входе в Completed или выходе из него.
func SetStatus(t *task.Task, status task.Status, now time.Time) error {
	if t == nil {
		return notFound()
	}
	if !status.Valid() {
		return apperror.NewValidationError("status", "неизвестный статус "+strconv.Itoa(int(status)))
	}

	switch {
	case status == task.StatusCompleted && !t.IsCompleted:
		return MarkCompleted(t, now)
	case status != task.StatusCompleted && t.IsCompleted:
		if err := MarkIncomplete(t, now); err != nil {
			return err
		}
		t.Status = status
		return nil
	case t.Status != status:
		t.Status = status
		touch(t, now)
	}
	return nil
}

// BulkSetStatus применяет SetStatus к каждой задаче и возвращает число
// изменённых. nil-элементы пропускаются.
func BulkSetStatus(tasks []*task.Task, status task.Status, now time.Time) (int, error) {
	if !status.Valid() {
		return 0, apperror.NewValidationError("status", "неизвестный статус "+strconv.Itoa(int(status)))
	}

	changed := 0
	for _, t := range tasks {
		if t == nil {
			continue
		}
		before := t.Status
		wasCompleted := t.IsCompleted
		if err := SetStatus(t, status, now); err != nil {
			return changed, err
		}
		if before != t.Status || wasCompleted != t.IsCompleted {
			changed++
		}
	}
	return changed, nil
}

// AddTag добавляет тег, если его ещё нет (без учёта регистра).
// Пустой тег игнорируется.
func AddTag(t *task.Task, tag string, now time.Time) (bool, error) {
	if t == nil {
		return false, notFound()
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false, nil
	}
	if indexOfTag(t.Tags, tag) >= 0 {
		return false, nil
	}

	t.Tags = append(t.Tags, tag)
	touch(t, now)
	return true, nil
}

func RemoveTag(t *task.Task, tag string, now time.Time) (bool, error) {
	if t == nil {
		return false, notFound()
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false, nil
	}
	idx := indexOfTag(t.Tags, tag)
	if idx < 0 {
		return false, nil
	}

	tags := make([]string, 0, len(t.Tags)-1)
	tags = append(tags, t.Tags[:idx]...)
	tags = append(tags, t.Tags[idx+1:]...)
	t.Tags = tags
	touch(t, now)
	return true, nil
}

func HasTag(t *task.Task, tag string) bool {
	return t != nil && indexOfTag(t.Tags, strings.TrimSpace(tag)) >= 0
}

// NormalizeTags убирает пустые теги и дубли без учёта регистра, первое написание остаётся
func NormalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || indexOfTag(result, tag) >= 0 {
			continue
		}
		result = append(result, tag)
	}
	return result
}

func indexOfTag(tags []string, tag string) int {
	for i, existing := range tags {
		if strings.EqualFold(existing, tag) {
			return i
		}
	}
	return -1
}

func touch(t *task.Task, now time.Time) {
	updatedAt := now
	t.UpdatedAt = &updatedAt
}

func notFound() error {
	return apperror.NewNotFound("task", "")
}
