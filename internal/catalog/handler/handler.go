// Package handler wires the course registry HTTP endpoints.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"coursecloud/internal/catalog/models"
	"coursecloud/internal/catalog/service"
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

// Register mounts the course routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/courses", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/code/{code}", h.getByCode)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Post("/{id}/increment", h.increment)
		r.Post("/{id}/decrement", h.decrement)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	courses, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, "list courses", err)
		return
	}
	httputil.OK(w, courses)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	course, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "get course", err)
		return
	}
	httputil.OK(w, course)
}

func (h *Handler) getByCode(w http.ResponseWriter, r *http.Request) {
	course, err := h.svc.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.fail(w, r, "get course by code", err)
		return
	}
	httputil.OK(w, course)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var course models.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		httputil.Error(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	created, err := h.svc.Create(r.Context(), &course)
	if err != nil {
		h.fail(w, r, "create course", err)
		return
	}
	httputil.Created(w, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var course models.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		httputil.Error(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	updated, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), &course)
	if err != nil {
		h.fail(w, r, "update course", err)
		return
	}
	httputil.OK(w, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "delete course", err)
		return
	}
	httputil.Message(w, "Course deleted")
}

func (h *Handler) increment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Increment(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "increment enrolled", err)
		return
	}
	httputil.Message(w, "Enrolled count incremented")
}

func (h *Handler) decrement(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Decrement(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "decrement enrolled", err)
		return
	}
	httputil.Message(w, "Enrolled count decremented")
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
