package repository

import (
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("запись не найдена")

// TaskListFilter сужает выборку задач на стороне хранилища;
// поиск и сортировка выполняются в памяти.
type TaskListFilter struct {
	ProjectID *uuid.UUID
}
