// Package handler wires the enrollment coordinator HTTP endpoints.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"coursecloud/internal/enrollment/models"
	"coursecloud/internal/enrollment/service"
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

// Register mounts the enrollment routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/enrollments", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.enroll)
		r.Get("/course/{courseId}", h.listByCourse)
		r.Get("/student/{studentId}", h.listByStudent)
		r.Get("/status/{status}", h.listByStatus)
		r.Get("/{id}", h.get)
		r.Delete("/{id}", h.withdraw)
	})
}

type enrollRequest struct {
	CourseID  string `json:"courseId"`
	StudentID string `json:"studentId"`
}

func (h *Handler) enroll(w http.ResponseWriter, r *http.Request) {
	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if strings.TrimSpace(req.CourseID) == "" {
		httputil.Error(w, dErrors.New(dErrors.CodeBadRequest, "course ID is required"))
		return
	}
	if strings.TrimSpace(req.StudentID) == "" {
		httputil.Error(w, dErrors.New(dErrors.CodeBadRequest, "student ID is required"))
		return
	}

	enrollment, err := h.svc.Enroll(r.Context(), req.CourseID, req.StudentID)
	if err != nil {
		h.fail(w, r, "enroll", err)
		return
	}
	httputil.Created(w, enrollment)
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Withdraw(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "withdraw", err)
		return
	}
	httputil.Message(w, "Enrollment withdrawn")
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, "list enrollments", err)
		return
	}
	httputil.OK(w, enrollments)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	enrollment, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "get enrollment", err)
		return
	}
	httputil.OK(w, enrollment)
}

func (h *Handler) listByCourse(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.svc.ListByCourse(r.Context(), chi.URLParam(r, "courseId"))
	if err != nil {
		h.fail(w, r, "list enrollments by course", err)
		return
	}
	httputil.OK(w, enrollments)
}

func (h *Handler) listByStudent(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.svc.ListByStudent(r.Context(), chi.URLParam(r, "studentId"))
	if err != nil {
		h.fail(w, r, "list enrollments by student", err)
		return
	}
	httputil.OK(w, enrollments)
}

func (h *Handler) listByStatus(w http.ResponseWriter, r *http.Request) {
	status := models.Status(strings.ToUpper(chi.URLParam(r, "status")))
	enrollments, err := h.svc.ListByStatus(r.Context(), status)
	if err != nil {
		h.fail(w, r, "list enrollments by status", err)
		return
	}
	httputil.OK(w, enrollments)
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
