// Package service holds the course registry business logic: field validation,
// code uniqueness, and the enrolled-counter mutations.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	catalogmetrics "coursecloud/internal/catalog/metrics"
	"coursecloud/internal/catalog/models"
	"coursecloud/internal/catalog/store"
	dErrors "coursecloud/pkg/domain-errors"
	"coursecloud/pkg/platform/sentinel"
	"coursecloud/pkg/requestcontext"
)

type Service struct {
	courses store.Store
	metrics *catalogmetrics.Metrics
}

type Option func(*Service)

// WithMetrics attaches Prometheus metrics; nil-safe when omitted in tests.
func WithMetrics(m *catalogmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(courses store.Store, opts ...Option) *Service {
	s := &Service{courses: courses}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context) ([]*models.Course, error) {
	return s.courses.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, wrapCourseErr(err, id)
	}
	return course, nil
}

func (s *Service) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	course, err := s.courses.FindByCode(ctx, code)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "course not found with code: %s", code)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load course")
	}
	return course, nil
}

func (s *Service) Create(ctx context.Context, course *models.Course) (*models.Course, error) {
	if err := course.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireCodeAvailable(ctx, course.Code, ""); err != nil {
		return nil, err
	}

	course.ID = uuid.NewString()
	course.Enrolled = 0
	if course.ExpectedAttendance <= 0 {
		course.ExpectedAttendance = course.Capacity
	}
	course.CreatedAt = requestcontext.Now(ctx)

	if err := s.courses.Create(ctx, course); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeBadRequest, "course code already exists: %s", course.Code)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create course")
	}
	if s.metrics != nil {
		s.metrics.CoursesCreated.Inc()
	}
	return course, nil
}

func (s *Service) Update(ctx context.Context, id string, course *models.Course) (*models.Course, error) {
	existing, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, wrapCourseErr(err, id)
	}
	if err := course.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireCodeAvailable(ctx, course.Code, id); err != nil {
		return nil, err
	}

	course.ID = id
	course.Enrolled = existing.Enrolled
	course.CreatedAt = existing.CreatedAt
	if course.ExpectedAttendance <= 0 {
		course.ExpectedAttendance = course.Capacity
	}

	if err := s.courses.Update(ctx, course); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeBadRequest, "course code already exists: %s", course.Code)
		}
		return nil, wrapCourseErr(err, id)
	}
	return course, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		return wrapCourseErr(err, id)
	}
	return nil
}

// Increment adds one to the course's enrolled counter. The store performs
// this as a single atomic update; there is deliberately no capacity bound
// here — the enrollment workflow's capacity check is advisory and happens
// against an earlier snapshot.
func (s *Service) Increment(ctx context.Context, id string) error {
	if err := s.courses.Increment(ctx, id); err != nil {
		return wrapCourseErr(err, id)
	}
	if s.metrics != nil {
		s.metrics.CounterIncrements.Inc()
	}
	return nil
}

// Decrement subtracts one from the enrolled counter. A counter already at
// zero is rejected, never driven negative.
func (s *Service) Decrement(ctx context.Context, id string) error {
	err := s.courses.Decrement(ctx, id)
	if errors.Is(err, sentinel.ErrInvalidState) {
		if s.metrics != nil {
			s.metrics.DecrementsRejected.Inc()
		}
		return dErrors.New(dErrors.CodeConflict, "enrolled count is already zero")
	}
	if err != nil {
		return wrapCourseErr(err, id)
	}
	if s.metrics != nil {
		s.metrics.CounterDecrements.Inc()
	}
	return nil
}

func (s *Service) requireCodeAvailable(ctx context.Context, code, excludingID string) error {
	existing, err := s.courses.FindByCode(ctx, code)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check course code")
	}
	if existing.ID != excludingID {
		return dErrors.Newf(dErrors.CodeBadRequest, "course code already exists: %s", code)
	}
	return nil
}

func wrapCourseErr(err error, id string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Newf(dErrors.CodeNotFound, "course not found with id: %s", id)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "course store failure")
}
