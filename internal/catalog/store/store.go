// Package store persists course records. Implementations return sentinel
// errors; the service layer translates them into domain errors.
package store

import (
	"context"

	"coursecloud/internal/catalog/models"
)

// Store is the course persistence contract. Increment and Decrement mutate
// the enrolled counter atomically: a plain read-then-write outside the
// store's own synchronization would lose updates under concurrent
// enrollments, so both operations are single conditional updates.
type Store interface {
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindByCode(ctx context.Context, code string) (*models.Course, error)
	List(ctx context.Context) ([]*models.Course, error)
	Delete(ctx context.Context, id string) error
	// Increment adds 1 to the enrolled counter. Unknown id: ErrNotFound.
	Increment(ctx context.Context, id string) error
	// Decrement subtracts 1 from the enrolled counter. Unknown id:
	// ErrNotFound. Counter already at zero: ErrInvalidState — the counter
	// never goes negative.
	Decrement(ctx context.Context, id string) error
}
