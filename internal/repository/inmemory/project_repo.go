package inmemory

import (
	"context"
	"sync"
	"time"

	"pomodoroTracker/internal/models/project"
	repo "pomodoroTracker/internal/repository"

	"github.com/google/uuid"
)

type ProjectStorage struct {
	storage map[uuid.UUID]*project.Project
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewProjectStorage() *ProjectStorage {
	return &ProjectStorage{
		storage: make(map[uuid.UUID]*project.Project),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *ProjectStorage) Create(ctx context.Context, p *project.Project) error {
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

func (s *ProjectStorage) Update(ctx context.Context, p *project.Project) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[p.UUID]
	if !ok {
		return repo.ErrNotFound
	}
	if p.UpdatedAt == nil {
		now := time.Now()
		p.UpdatedAt = &now
	}
	p.CreatedAt = existing.CreatedAt
	c := *p
	s.storage[p.UUID] = &c
	return nil
}

func (s *ProjectStorage) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	p, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (s *ProjectStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.storage, id)
	s.ids = removeID(s.ids, id)
	return nil
}

func (s *ProjectStorage) List(ctx context.Context) ([]*project.Project, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*project.Project, 0, len(s.ids))
	for _, id := range s.ids {
		c := *s.storage[id]
		res = append(res, &c)
	}
	return res, nil
}
