package user

import (
	"log/slog"

	"coursecloud/internal/user/handler"
	"coursecloud/internal/user/service"
	"coursecloud/internal/user/store"
)

// Service exposes identity operations.
type Service = service.Service

// Handler wires HTTP endpoints to the identity service.
type Handler = handler.Handler

// NewService constructs the identity service.
func NewService(users store.Store) *Service {
	return service.New(users)
}

// NewHandler constructs an HTTP handler for user routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
