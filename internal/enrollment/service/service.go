// Package service holds the enrollment coordinator: the ordered workflow
// that joins the identity service, the catalog, and the enrollment store.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"coursecloud/internal/enrollment/audit"
	"coursecloud/internal/enrollment/client"
	enrollmentmetrics "coursecloud/internal/enrollment/metrics"
	"coursecloud/internal/enrollment/models"
	"coursecloud/internal/enrollment/store"
	dErrors "coursecloud/pkg/domain-errors"
	"coursecloud/pkg/platform/sentinel"
	"coursecloud/pkg/requestcontext"
)

// Auditor receives lifecycle events. Emission is best-effort by contract.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event)
}

type noopAuditor struct{}

func (noopAuditor) Emit(context.Context, audit.Event) {}

type Service struct {
	enrollments store.Store
	courses     client.CourseClient
	identity    client.IdentityClient
	logger      *slog.Logger
	auditor     Auditor
	metrics     *enrollmentmetrics.Metrics
	tracer      trace.Tracer
}

type Option func(*Service)

// WithMetrics attaches Prometheus metrics; nil-safe when omitted in tests.
func WithMetrics(m *enrollmentmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAuditor attaches a lifecycle event sink.
func WithAuditor(a Auditor) Option {
	return func(s *Service) { s.auditor = a }
}

// WithTracer overrides the default tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

func New(enrollments store.Store, courses client.CourseClient, identity client.IdentityClient, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		enrollments: enrollments,
		courses:     courses,
		identity:    identity,
		logger:      logger,
		auditor:     noopAuditor{},
		tracer:      otel.Tracer("coursecloud/enrollment"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enroll runs the enrollment workflow in strict order: identity check,
// course fetch, advisory capacity check, duplicate check, commit, and a
// final best-effort counter increment. Once the row is committed nothing
// can fail the request; a lost increment is logged and audited, never
// returned or rolled back.
func (s *Service) Enroll(ctx context.Context, courseID, studentID string) (*models.Enrollment, error) {
	ctx, span := s.tracer.Start(ctx, "enrollment.enroll", trace.WithAttributes(
		attribute.String("course.id", courseID),
		attribute.String("student.id", studentID),
	))
	defer span.End()

	// Step 1: the student must exist.
	if _, err := s.identity.FetchStudent(ctx, studentID); err != nil {
		return nil, s.classifyUpstream(ctx, "identity", err,
			dErrors.Newf(dErrors.CodeNotFound, "student not found with studentId: %s", studentID))
	}

	// Step 2: fetch the course snapshot.
	course, err := s.courses.Fetch(ctx, courseID)
	if err != nil {
		return nil, s.classifyUpstream(ctx, "catalog", err,
			dErrors.Newf(dErrors.CodeNotFound, "course not found with id: %s", courseID))
	}

	// Step 3: advisory capacity check against the snapshot. The counter can
	// move before the commit; the window is accepted.
	if !course.Available() {
		s.reject("course_full")
		return nil, dErrors.Newf(dErrors.CodeConflict,
			"course not available: %d/%d seats taken", course.Enrolled, course.Capacity)
	}

	// Step 4: duplicate check.
	exists, err := s.enrollments.ExistsByCourseAndStudent(ctx, courseID, studentID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing enrollment")
	}
	if exists {
		s.reject("duplicate")
		return nil, dErrors.Newf(dErrors.CodeConflict,
			"student %s is already enrolled in course %s", studentID, courseID)
	}

	// Step 5: commit. A conflict here means a concurrent request for the
	// same pair won the race, which is the same answer as step 4.
	enrollment := &models.Enrollment{
		ID:         uuid.NewString(),
		CourseID:   courseID,
		StudentID:  studentID,
		Status:     models.StatusActive,
		EnrolledAt: requestcontext.Now(ctx),
	}
	if err := s.enrollments.Save(ctx, enrollment); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.reject("duplicate")
			return nil, dErrors.Newf(dErrors.CodeConflict,
				"student %s is already enrolled in course %s", studentID, courseID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save enrollment")
	}
	if s.metrics != nil {
		s.metrics.EnrollmentsCreated.Inc()
	}
	s.auditor.Emit(ctx, audit.Event{
		Type:         audit.EventEnrollmentCreated,
		EnrollmentID: enrollment.ID,
		CourseID:     courseID,
		StudentID:    studentID,
	})

	// Step 6: best-effort counter propagation.
	if err := s.courses.Increment(ctx, courseID); err != nil {
		s.counterSyncFailed(ctx, enrollment, "increment", err)
	}
	return enrollment, nil
}

// Withdraw deletes the enrollment and tries to hand the seat back. The
// decrement carries the same tolerance as the enroll-side increment: its
// failure, including a catalog counter already at zero, is logged only.
func (s *Service) Withdraw(ctx context.Context, enrollmentID string) error {
	ctx, span := s.tracer.Start(ctx, "enrollment.withdraw", trace.WithAttributes(
		attribute.String("enrollment.id", enrollmentID),
	))
	defer span.End()

	enrollment, err := s.enrollments.FindByID(ctx, enrollmentID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Newf(dErrors.CodeNotFound, "enrollment not found with id: %s", enrollmentID)
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load enrollment")
	}

	if err := s.enrollments.Delete(ctx, enrollmentID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "enrollment not found with id: %s", enrollmentID)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete enrollment")
	}
	if s.metrics != nil {
		s.metrics.EnrollmentsWithdrawn.Inc()
	}
	s.auditor.Emit(ctx, audit.Event{
		Type:         audit.EventEnrollmentWithdrawn,
		EnrollmentID: enrollment.ID,
		CourseID:     enrollment.CourseID,
		StudentID:    enrollment.StudentID,
	})

	if err := s.courses.Decrement(ctx, enrollment.CourseID); err != nil {
		s.counterSyncFailed(ctx, enrollment, "decrement", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]*models.Enrollment, error) {
	return s.enrollments.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "enrollment not found with id: %s", id)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load enrollment")
	}
	return enrollment, nil
}

func (s *Service) ListByCourse(ctx context.Context, courseID string) ([]*models.Enrollment, error) {
	return s.enrollments.ListByCourse(ctx, courseID)
}

func (s *Service) ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	return s.enrollments.ListByStudent(ctx, studentID)
}

func (s *Service) ListByStatus(ctx context.Context, status models.Status) ([]*models.Enrollment, error) {
	if !status.Valid() {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown enrollment status: %s", status)
	}
	return s.enrollments.ListByStatus(ctx, status)
}

// classifyUpstream turns a remote client error into the workflow's answer:
// unavailability is 503 with the collaborator named, a business miss is the
// given not-found error.
func (s *Service) classifyUpstream(ctx context.Context, serviceName string, err error, notFound error) error {
	var unavailable *client.UnavailableError
	if errors.As(err, &unavailable) {
		if s.metrics != nil {
			s.metrics.UpstreamFailures.WithLabelValues(serviceName).Inc()
		}
		s.logger.WarnContext(ctx, "upstream unavailable",
			"service", serviceName,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, serviceName+" service unavailable")
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return notFound
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, serviceName+" call failed")
}

func (s *Service) counterSyncFailed(ctx context.Context, enrollment *models.Enrollment, op string, err error) {
	if s.metrics != nil {
		s.metrics.CounterSyncFailures.Inc()
	}
	s.logger.WarnContext(ctx, "enrolled-counter sync failed",
		"op", op,
		"course_id", enrollment.CourseID,
		"enrollment_id", enrollment.ID,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.auditor.Emit(ctx, audit.Event{
		Type:         audit.EventCounterSyncFailed,
		EnrollmentID: enrollment.ID,
		CourseID:     enrollment.CourseID,
		StudentID:    enrollment.StudentID,
		Detail:       op + ": " + err.Error(),
	})
}

func (s *Service) reject(reason string) {
	if s.metrics != nil {
		s.metrics.EnrollmentsRejected.WithLabelValues(reason).Inc()
	}
}
