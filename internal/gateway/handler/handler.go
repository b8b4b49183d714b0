// Package handler wires the gateway auth endpoints.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"coursecloud/internal/gateway/service"
	dErrors "coursecloud/pkg/domain-errors"
	"coursecloud/pkg/platform/httputil"
	"coursecloud/pkg/requestcontext"
)

type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the auth routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Get("/validate", h.validate)
		r.Get("/me", h.me)
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Username == "" || req.Password == "" {
		httputil.Error(w, dErrors.New(dErrors.CodeBadRequest, "username and password are required"))
		return
	}

	result, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}
	httputil.OK(w, result)
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	claims, err := h.svc.Validate(bearerToken(r))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.OK(w, map[string]string{
		"userId":   claims.Subject,
		"username": claims.Username,
		"role":     claims.Role,
	})
}

// me answers from the forwarded identity headers when a proxy hop already
// validated the token, and falls back to validating the bearer token itself.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	if userID := r.Header.Get("X-User-Id"); userID != "" {
		httputil.OK(w, map[string]string{
			"userId":   userID,
			"username": r.Header.Get("X-Username"),
			"role":     r.Header.Get("X-User-Role"),
		})
		return
	}
	h.validate(w, r)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if dErrors.CodeFrom(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(r.Context(), op,
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
	}
	httputil.Error(w, err)
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
