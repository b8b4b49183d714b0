package gateway

import (
	"log/slog"
	"time"

	"coursecloud/internal/gateway/accounts"
	"coursecloud/internal/gateway/handler"
	"coursecloud/internal/gateway/proxy"
	"coursecloud/internal/gateway/service"
	"coursecloud/internal/jwttoken"
)

// Service performs gateway auth operations.
type Service = service.Service

// Handler wires the auth HTTP endpoints.
type Handler = handler.Handler

// Proxy forwards authenticated traffic to downstream services.
type Proxy = proxy.Proxy

// Route maps a path prefix to one upstream.
type Route = proxy.Route

// NewService constructs the gateway auth service.
func NewService(accountStore *accounts.Store, tokens *jwttoken.Service, tokenTTL time.Duration) *Service {
	return service.New(accountStore, tokens, tokenTTL)
}

// NewHandler constructs the auth HTTP handler.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}

// NewProxy constructs the whitelist reverse proxy.
func NewProxy(s *Service, whitelist []string, routes []Route, logger *slog.Logger) (*Proxy, error) {
	return proxy.New(s, whitelist, routes, logger)
}
