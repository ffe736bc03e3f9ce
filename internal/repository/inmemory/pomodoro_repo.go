package inmemory

import (
	"context"
	"sync"
	"time"

	"pomodoroTracker/internal/models/pomodoro"
	repo "pomodoroTracker/internal/repository"

	"github.com/google/uuid"
)

type PomodoroStorage struct {
	storage map[uuid.UUID]*pomodoro.Pomodoro
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewPomodoroStorage() *PomodoroStorage {
	return &PomodoroStorage{
		storage: make(map[uuid.UUID]*pomodoro.Pomodoro),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *PomodoroStorage) Create(ctx context.Context, p *pomodoro.Pomodoro) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if _, exists := s.storage[p.UUID]; !exists {
		s.ids = append(s.ids, p.UUID)
	}
	c := *p
	s.storage[p.UUID] = &c
	return nil
}

func (s *PomodoroStorage) Update(ctx context.Context, p *pomodoro.Pomodoro) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[p.UUID]
	if !ok {
		return repo.ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	c := *p
	s.storage[p.UUID] = &c
	return nil
}

func (s *PomodoroStorage) GetByID(ctx context.Context, id uuid.UUID) (*pomodoro.Pomodoro, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	p, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (s *PomodoroStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.storage, id)
	s.ids = removeID(s.ids, id)
	return nil
}

func (s *PomodoroStorage) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*pomodoro.Pomodoro, error) {
	return s.filter(func(p *pomodoro.Pomodoro) bool { return p.TaskID == taskID }), nil
}

func (s *PomodoroStorage) ListByStatus(ctx context.Context, status pomodoro.Status) ([]*pomodoro.Pomodoro, error) {
	return s.filter(func(p *pomodoro.Pomodoro) bool { return p.Status == status }), nil
}

func (s *PomodoroStorage) List(ctx context.Context) ([]*pomodoro.Pomodoro, error) {
	return s.filter(nil), nil
}

func (s *PomodoroStorage) filter(match func(*pomodoro.Pomodoro) bool) []*pomodoro.Pomodoro {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*pomodoro.Pomodoro{}
	for _, id := range s.ids {
		p := s.storage[id]
		if match != nil && !match(p) {
			continue
		}
		c := *p
		res = append(res, &c)
	}
	return res
}
