// Package client holds the enrollment coordinator's HTTP clients for the
// catalog and identity services. Every call is a single attempt: a transport
// fault or an upstream 5xx surfaces as *UnavailableError, a business miss as
// sentinel.ErrNotFound. Clients never fabricate a substitute payload.
package client

import (
	"context"
	"fmt"

	"coursecloud/internal/enrollment/models"
)

// UnavailableError marks a collaborator that could not answer: connection
// refused, timeout, or an explicit 5xx reply.
type UnavailableError struct {
	Service string
	Cause   error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Cause)
}

func (e *UnavailableError) Unwrap() error { return e.Cause }

// CourseClient reads and adjusts catalog courses.
type CourseClient interface {
	Fetch(ctx context.Context, courseID string) (*models.Course, error)
	Increment(ctx context.Context, courseID string) error
	Decrement(ctx context.Context, courseID string) error
}

// IdentityClient resolves students by their external student code.
type IdentityClient interface {
	FetchStudent(ctx context.Context, studentID string) (*models.Student, error)
}
