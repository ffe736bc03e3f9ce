// Package search фильтрует, сортирует и режет на страницы задачи и проекты в памяти.
package search

import (
	"sort"
	"strings"
	"time"

	"pomodoroTracker/internal/apperror"
)

const (
	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalPages int `json:"total_pages"`
}

type Sort struct {
	By        string
	Direction string
}

type Pagination struct {
	Page int
	Size int
}

// less сравнивает два элемента по возрастанию
type less[T any] func(a, b T) bool

// resolveSort: неизвестный ключ заменяется на fallback, без направления
// fallback сортируется по убыванию
func resolveSort[T any](s Sort, keys map[string]less[T], fallback string) (less[T], bool, error) {
	cmp, recognised := keys[normalizeKey(s.By)]
	if !recognised {
		cmp = keys[fallback]
	}

	switch strings.ToLower(strings.TrimSpace(s.Direction)) {
	case "":
		return cmp, !recognised, nil
	case DirectionAsc:
		return cmp, false, nil
	case DirectionDesc:
		return cmp, true, nil
	}
	return nil, false, apperror.NewValidationError("order", "допустимые значения: asc, desc")
}

func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.ReplaceAll(key, "_", "")
}

func validatePagination(p Pagination) error {
	if p.Page < 1 {
		return apperror.NewValidationError("page", "должен быть не меньше 1")
	}
	if p.Size < 1 {
		return apperror.NewValidationError("size", "должен быть не меньше 1")
	}
	return nil
}

// paginate сортирует matched на месте, передавать только копию
func paginate[T any](matched []T, cmp less[T], desc bool, p Pagination) Page[T] {
	sort.SliceStable(matched, func(i, j int) bool {
		if desc {
			return cmp(matched[j], matched[i])
		}
		return cmp(matched[i], matched[j])
	})

	total := len(matched)
	// без (total + size - 1) / size: при size около MaxInt сумма переполняется
	totalPages := total / p.Size
	if total%p.Size != 0 {
		totalPages++
	}
	page := Page[T]{
		Items:      []T{},
		Total:      total,
		Page:       p.Page,
		Size:       p.Size,
		TotalPages: totalPages,
	}

	// после этой проверки (Page-1)*Size < total и не переполняется
	if p.Page > totalPages {
		return page
	}
	start := (p.Page - 1) * p.Size
	end := total
	if total-start > p.Size {
		end = start + p.Size
	}
	page.Items = append(page.Items, matched[start:end]...)
	return page
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

// lessOptionalTime ставит пустые даты после заполненных
func lessOptionalTime(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	}
	return a.Before(*b)
}

func lessFold(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}
