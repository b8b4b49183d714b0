// Package httputil writes the shared response envelope used by every service:
//
//	{"code":200,"message":"Success","data":{...},"timestamp":"..."}
//
// The code field echoes the HTTP status and doubles as a machine-readable
// discriminator; 503 always means an upstream collaborator was unavailable,
// which is distinct from a 200 with empty data.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	dErrors "coursecloud/pkg/domain-errors"
)

// Envelope is the wire shape of every response body.
type Envelope struct {
	Code      int       `json:"code"`
	Message   string    `json:"message"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// OK writes a 200 envelope with data.
func OK(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, "Success", data)
}

// Created writes a 201 envelope with data.
func Created(w http.ResponseWriter, data any) {
	write(w, http.StatusCreated, "Created", data)
}

// Message writes a 200 envelope with a message and no data.
func Message(w http.ResponseWriter, message string) {
	write(w, http.StatusOK, message, nil)
}

// Error maps a domain error to its HTTP status and writes the envelope.
// Unclassified errors become 500 with a generic message so internals don't leak.
func Error(w http.ResponseWriter, err error) {
	code := dErrors.CodeFrom(err)
	status := StatusFor(code)
	message := dErrors.MessageFrom(err)
	if code == dErrors.CodeInternal {
		message = "Internal server error"
	}
	write(w, status, message, nil)
}

// ErrorStatus writes an error envelope with an explicit status, for cases
// that bypass the domain-error taxonomy (auth failures at the edge).
func ErrorStatus(w http.ResponseWriter, status int, message string) {
	write(w, status, message, nil)
}

// StatusFor maps a domain-error code to an HTTP status.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeInvariantViolation:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func write(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	env := Envelope{
		Code:      status,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Default().Error("failed to encode response envelope", "error", err)
	}
}
