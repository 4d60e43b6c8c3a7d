package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"med-schedule/internal/domain/courses"
)

var (
	ErrNotFound = errors.New("not found")
)

type courseRepo struct {
	mu   sync.RWMutex
	byID map[string]courses.Course
}

func NewCourseRepo() courses.Repository {
	return &courseRepo{
		byID: make(map[string]courses.Course),
	}
}

func (r *courseRepo) Create(ctx context.Context, c courses.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("course id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("course already exists")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *courseRepo) Update(ctx context.Context, c courses.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("course id required")
	}
	if _, exists := r.byID[c.ID]; !exists {
		return ErrNotFound
	}
	r.byID[c.ID] = c
	return nil
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (courses.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return courses.Course{}, ErrNotFound
	}
	return c, nil
}

func (r *courseRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]courses.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]courses.Course, 0)
	for _, c := range r.byID {
		if c.OwnerUserID == ownerUserID {
			out = append(out, c)
		}
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
