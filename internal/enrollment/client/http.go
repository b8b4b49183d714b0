package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"coursecloud/internal/enrollment/models"
	"coursecloud/pkg/platform/sentinel"
)

const defaultTimeout = 5 * time.Second

// envelope mirrors the shared response shape of the downstream services.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// HTTPCourseClient talks to the catalog service.
type HTTPCourseClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPCourseClient(baseURL string, timeout time.Duration) *HTTPCourseClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPCourseClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPCourseClient) Fetch(ctx context.Context, courseID string) (*models.Course, error) {
	var course models.Course
	err := doJSON(ctx, c.client, http.MethodGet,
		c.baseURL+"/api/courses/"+courseID, "catalog service", &course)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *HTTPCourseClient) Increment(ctx context.Context, courseID string) error {
	return doJSON(ctx, c.client, http.MethodPost,
		c.baseURL+"/api/courses/"+courseID+"/increment", "catalog service", nil)
}

func (c *HTTPCourseClient) Decrement(ctx context.Context, courseID string) error {
	return doJSON(ctx, c.client, http.MethodPost,
		c.baseURL+"/api/courses/"+courseID+"/decrement", "catalog service", nil)
}

// HTTPIdentityClient talks to the user service.
type HTTPIdentityClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPIdentityClient(baseURL string, timeout time.Duration) *HTTPIdentityClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPIdentityClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPIdentityClient) FetchStudent(ctx context.Context, studentID string) (*models.Student, error) {
	var student models.Student
	err := doJSON(ctx, c.client, http.MethodGet,
		c.baseURL+"/api/users/student/"+studentID, "identity service", &student)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// doJSON performs one request and classifies the outcome. Transport faults
// and 5xx replies become *UnavailableError, a 404 becomes ErrNotFound, a 409
// becomes ErrConflict. On success the envelope's data is decoded into out
// when out is non-nil.
func doJSON(ctx context.Context, client *http.Client, method, url, service string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return &UnavailableError{Service: service, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &UnavailableError{Service: service, Cause: err}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return sentinel.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%s: %w", remoteMessage(body), sentinel.ErrConflict)
	case resp.StatusCode >= 500:
		return &UnavailableError{
			Service: service,
			Cause:   fmt.Errorf("status %d: %s", resp.StatusCode, remoteMessage(body)),
		}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%s replied %d: %s", service, resp.StatusCode, remoteMessage(body))
	}

	if out == nil {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &UnavailableError{Service: service, Cause: fmt.Errorf("decode envelope: %w", err)}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return sentinel.ErrNotFound
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &UnavailableError{Service: service, Cause: fmt.Errorf("decode payload: %w", err)}
	}
	return nil
}

func remoteMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return "no message"
}
