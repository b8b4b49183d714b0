// Package store persists user records. Soft-deleted rows are invisible to
// every method here; only Delete touches the flag.
package store

import (
	"context"

	"coursecloud/internal/user/models"
)

type Store interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByStudentID(ctx context.Context, studentID string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	// Delete marks the user deleted. Unknown or already deleted: ErrNotFound.
	Delete(ctx context.Context, id string) error
}
