package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"coursecloud/internal/user/service"
	"coursecloud/internal/user/store"
)

func newUserRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := service.New(store.NewInMemory())
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	h := New(svc, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func userPayload(studentID, email string) map[string]any {
	return map[string]any{
		"studentId": studentID,
		"name":      "Katherine Johnson",
		"major":     "Mathematics",
		"grade":     4,
		"email":     email,
	}
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndFetchUser(t *testing.T) {
	router := newUserRouter(t)

	rec := postJSON(t, router, "/api/users", userPayload("20250201", "kj@example.edu"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating user, got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		Code int `json:"code"`
		Data struct {
			ID        string `json:"id"`
			StudentID string `json:"studentId"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	if created.Data.ID == "" {
		t.Fatalf("expected user id in response")
	}

	// Fetch by internal id, by student code path, and by the shared segment.
	for _, path := range []string{
		"/api/users/" + created.Data.ID,
		"/api/users/student/20250201",
		"/api/users/20250201",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		getRec := httptest.NewRecorder()
		router.ServeHTTP(getRec, req)
		if getRec.Code != http.StatusOK {
			t.Fatalf("expected 200 fetching %s, got %d", path, getRec.Code)
		}
	}
}

func TestCreateUserValidationError(t *testing.T) {
	router := newUserRouter(t)

	payload := userPayload("20250202", "bad-email")
	rec := postJSON(t, router, "/api/users", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed email, got %d", rec.Code)
	}

	var env struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if env.Code != http.StatusBadRequest {
		t.Fatalf("expected envelope code 400, got %d", env.Code)
	}
}

func TestCreateDuplicateUser(t *testing.T) {
	router := newUserRouter(t)

	if rec := postJSON(t, router, "/api/users", userPayload("20250203", "dup@example.edu")); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first create, got %d", rec.Code)
	}
	rec := postJSON(t, router, "/api/users", userPayload("20250203", "other@example.edu"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on duplicate student ID, got %d", rec.Code)
	}
}

func TestUpdateAndDeleteUser(t *testing.T) {
	router := newUserRouter(t)

	if rec := postJSON(t, router, "/api/users", userPayload("20250204", "upd@example.edu")); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating user, got %d", rec.Code)
	}

	payload := userPayload("20250204", "upd@example.edu")
	payload["major"] = "Astronomy"
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPut, "/api/users/20250204", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 updating user, got %d: %s", rec.Code, rec.Body.String())
	}

	delReq := httptest.NewRequest(http.MethodDelete, "/api/users/20250204", nil)
	delRec := httptest.NewRecorder()
	router.ServeHTTP(delRec, delReq)
	if delRec.Code != http.StatusOK {
		t.Fatalf("expected 200 deleting user, got %d", delRec.Code)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/api/users/20250204", nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, getReq)
	if getRec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", getRec.Code)
	}
}

func TestGetUnknownUser(t *testing.T) {
	router := newUserRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/no-such-user", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d", rec.Code)
	}
}
