package enrollment

import (
	"log/slog"

	"coursecloud/internal/enrollment/client"
	"coursecloud/internal/enrollment/handler"
	"coursecloud/internal/enrollment/service"
	"coursecloud/internal/enrollment/store"
)

// Service coordinates the enrollment workflow.
type Service = service.Service

// Handler wires HTTP endpoints to the coordinator.
type Handler = handler.Handler

// NewService constructs the enrollment coordinator.
func NewService(enrollments store.Store, courses client.CourseClient, identity client.IdentityClient, logger *slog.Logger, opts ...service.Option) *Service {
	return service.New(enrollments, courses, identity, logger, opts...)
}

// NewHandler constructs an HTTP handler for enrollment routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
