// Package handler wires the identity service HTTP endpoints.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"coursecloud/internal/user/models"
	"coursecloud/internal/user/service"
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

// Register mounts the user routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/student/{studentId}", h.getByStudentID)
		r.Get("/{idOrStudentId}", h.get)
		r.Put("/{idOrStudentId}", h.update)
		r.Delete("/{idOrStudentId}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, "list users", err)
		return
	}
	httputil.OK(w, users)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetByIDOrStudentID(r.Context(), chi.URLParam(r, "idOrStudentId"))
	if err != nil {
		h.fail(w, r, "get user", err)
		return
	}
	httputil.OK(w, user)
}

func (h *Handler) getByStudentID(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetByStudentID(r.Context(), chi.URLParam(r, "studentId"))
	if err != nil {
		h.fail(w, r, "get user by student id", err)
		return
	}
	httputil.OK(w, user)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		httputil.Error(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	created, err := h.svc.Create(r.Context(), &user)
	if err != nil {
		h.fail(w, r, "create user", err)
		return
	}
	httputil.Created(w, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		httputil.Error(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	updated, err := h.svc.Update(r.Context(), chi.URLParam(r, "idOrStudentId"), &user)
	if err != nil {
		h.fail(w, r, "update user", err)
		return
	}
	httputil.OK(w, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "idOrStudentId")); err != nil {
		h.fail(w, r, "delete user", err)
		return
	}
	httputil.Message(w, "User deleted")
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
