package store

import (
	"context"
	"sync"

	"coursecloud/internal/enrollment/models"
	"coursecloud/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded enrollment store. A composite index on
// (course, student) backs the uniqueness check and ExistsByCourseAndStudent,
// both under the same lock as Save so concurrent same-pair writes cannot
// both land.
type InMemory struct {
	mu          sync.Mutex
	enrollments map[string]models.Enrollment
	byPair      map[pairKey]string
}

type pairKey struct {
	courseID  string
	studentID string
}

func NewInMemory() *InMemory {
	return &InMemory{
		enrollments: make(map[string]models.Enrollment),
		byPair:      make(map[pairKey]string),
	}
}

func (s *InMemory) Save(_ context.Context, enrollment *models.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{enrollment.CourseID, enrollment.StudentID}
	if _, taken := s.byPair[key]; taken {
		return sentinel.ErrConflict
	}
	s.enrollments[enrollment.ID] = *enrollment
	s.byPair[key] = enrollment.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	enrollment, ok := s.enrollments[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &enrollment, nil
}

func (s *InMemory) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	enrollment, ok := s.enrollments[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.enrollments, id)
	delete(s.byPair, pairKey{enrollment.CourseID, enrollment.StudentID})
	return nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Enrollment, error) {
	return s.filter(func(models.Enrollment) bool { return true }), nil
}

func (s *InMemory) ListByCourse(_ context.Context, courseID string) ([]*models.Enrollment, error) {
	return s.filter(func(e models.Enrollment) bool { return e.CourseID == courseID }), nil
}

func (s *InMemory) ListByStudent(_ context.Context, studentID string) ([]*models.Enrollment, error) {
	return s.filter(func(e models.Enrollment) bool { return e.StudentID == studentID }), nil
}

func (s *InMemory) ListByStatus(_ context.Context, status models.Status) ([]*models.Enrollment, error) {
	return s.filter(func(e models.Enrollment) bool { return e.Status == status }), nil
}

func (s *InMemory) ExistsByCourseAndStudent(_ context.Context, courseID, studentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.byPair[pairKey{courseID, studentID}]
	return ok, nil
}

func (s *InMemory) filter(keep func(models.Enrollment) bool) []*models.Enrollment {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Enrollment
	for _, enrollment := range s.enrollments {
		if keep(enrollment) {
			e := enrollment
			out = append(out, &e)
		}
	}
	return out
}
