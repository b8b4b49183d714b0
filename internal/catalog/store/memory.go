package store

import (
	"context"
	"strings"
	"sync"

	"coursecloud/internal/catalog/models"
	"coursecloud/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded course store for development and tests.
// Increment/Decrement run under the same lock as every other mutation, which
// is what makes them atomic with respect to concurrent callers.
type InMemory struct {
	mu      sync.Mutex
	courses map[string]models.Course
	byCode  map[string]string
}

func NewInMemory() *InMemory {
	return &InMemory{
		courses: make(map[string]models.Course),
		byCode:  make(map[string]string),
	}
}

func (s *InMemory) Create(_ context.Context, course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	code := strings.ToLower(course.Code)
	if _, exists := s.byCode[code]; exists {
		return sentinel.ErrConflict
	}
	s.courses[course.ID] = *course
	s.byCode[code] = course.ID
	return nil
}

func (s *InMemory) Update(_ context.Context, course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.courses[course.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	newCode := strings.ToLower(course.Code)
	if id, taken := s.byCode[newCode]; taken && id != course.ID {
		return sentinel.ErrConflict
	}
	delete(s.byCode, strings.ToLower(existing.Code))
	s.byCode[newCode] = course.ID
	s.courses[course.ID] = *course
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, ok := s.courses[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &course, nil
}

func (s *InMemory) FindByCode(_ context.Context, code string) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byCode[strings.ToLower(code)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	course := s.courses[id]
	return &course, nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	courses := make([]*models.Course, 0, len(s.courses))
	for _, course := range s.courses {
		c := course
		courses = append(courses, &c)
	}
	return courses, nil
}

func (s *InMemory) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, ok := s.courses[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byCode, strings.ToLower(course.Code))
	delete(s.courses, id)
	return nil
}

func (s *InMemory) Increment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, ok := s.courses[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	course.Enrolled++
	s.courses[id] = course
	return nil
}

func (s *InMemory) Decrement(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, ok := s.courses[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if course.Enrolled == 0 {
		return sentinel.ErrInvalidState
	}
	course.Enrolled--
	s.courses[id] = course
	return nil
}
