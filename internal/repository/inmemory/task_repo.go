package inmemory

import (
	"context"
	"sync"
	"time"

	"pomodoroTracker/internal/logger"
	"pomodoroTracker/internal/models/task"
	repo "pomodoroTracker/internal/repository"

	"github.com/google/uuid"
)

type TaskStorage struct {
	storage map[uuid.UUID]*task.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: Соединение стабильно")
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if taskToCreate.CreatedAt.IsZero() {
		taskToCreate.CreatedAt = time.Now()
	}
	taskToCreate.Version = 1

	if _, exists := s.storage[taskToCreate.UUID]; !exists {
		s.ids = append(s.ids, taskToCreate.UUID)
	}
	s.storage[taskToCreate.UUID] = cloneTask(taskToCreate)
	return nil
}

// Update перезаписывает задачу целиком (последняя запись побеждает)
func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.updateLocked(taskToUpdate)
}

func (s *TaskStorage) UpdateMany(ctx context.Context, tasks []*task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, t := range tasks {
		if _, ok := s.storage[t.UUID]; !ok {
			return repo.ErrNotFound
		}
	}
	for _, t := range tasks {
		if err := s.updateLocked(t); err != nil {
			return err
		}
	}
	return nil
}

func (s *TaskStorage) updateLocked(taskToUpdate *task.Task) error {
	existing, ok := s.storage[taskToUpdate.UUID]
	if !ok {
		return repo.ErrNotFound
	}

	if taskToUpdate.UpdatedAt == nil {
		now := time.Now()
		taskToUpdate.UpdatedAt = &now
	}
	taskToUpdate.CreatedAt = existing.CreatedAt
	taskToUpdate.Version = existing.Version + 1
	s.storage[taskToUpdate.UUID] = cloneTask(taskToUpdate)
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneTask(taskToGet), nil
}

func (s *TaskStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.storage, id)
	s.ids = removeID(s.ids, id)
	return nil
}

// List возвращает задачи в порядке добавления
func (s *TaskStorage) List(ctx context.Context, filter repo.TaskListFilter) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*task.Task, 0, len(s.ids))
	for _, id := range s.ids {
		t := s.storage[id]
		if filter.ProjectID != nil && t.ProjectID != *filter.ProjectID {
			continue
		}
		res = append(res, cloneTask(t))
	}
	return res, nil
}

func cloneTask(t *task.Task) *task.Task {
	c := *t
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	return &c
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, val := range ids {
		if val == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
