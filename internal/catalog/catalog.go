package catalog

import (
	"log/slog"

	"coursecloud/internal/catalog/handler"
	"coursecloud/internal/catalog/service"
	"coursecloud/internal/catalog/store"
)

// Service exposes course registry operations.
type Service = service.Service

// Handler wires HTTP endpoints to the course registry service.
type Handler = handler.Handler

// NewService constructs the course registry service.
func NewService(courses store.Store, opts ...service.Option) *Service {
	return service.New(courses, opts...)
}

// NewHandler constructs an HTTP handler for course routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
