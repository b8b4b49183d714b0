// Package store persists enrollments.
package store

import (
	"context"

	"coursecloud/internal/enrollment/models"
)

// Store is the enrollment persistence contract. Save enforces uniqueness on
// the (course, student) pair and returns sentinel.ErrConflict when a second
// row for the same pair is written, regardless of interleaving.
type Store interface {
	Save(ctx context.Context, enrollment *models.Enrollment) error
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Enrollment, error)
	ListByCourse(ctx context.Context, courseID string) ([]*models.Enrollment, error)
	ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error)
	ListByStatus(ctx context.Context, status models.Status) ([]*models.Enrollment, error)
	ExistsByCourseAndStudent(ctx context.Context, courseID, studentID string) (bool, error)
}
