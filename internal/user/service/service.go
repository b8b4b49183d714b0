// Package service holds the identity service business logic.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"coursecloud/internal/user/models"
	"coursecloud/internal/user/store"
	dErrors "coursecloud/pkg/domain-errors"
	"coursecloud/pkg/platform/sentinel"
	"coursecloud/pkg/requestcontext"
)

type Service struct {
	users store.Store
}

func New(users store.Store) *Service {
	return &Service{users: users}
}

func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

func (s *Service) GetByStudentID(ctx context.Context, studentID string) (*models.User, error) {
	user, err := s.users.FindByStudentID(ctx, studentID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "user not found with studentId: %s", studentID)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return user, nil
}

// GetByIDOrStudentID resolves a user by external student code first, then by
// internal id, mirroring how callers address students on the wire.
func (s *Service) GetByIDOrStudentID(ctx context.Context, idOrStudentID string) (*models.User, error) {
	user, err := s.users.FindByStudentID(ctx, idOrStudentID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	user, err = s.users.FindByID(ctx, idOrStudentID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "user not found with id: %s", idOrStudentID)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return user, nil
}

func (s *Service) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Deleted = false
	now := requestcontext.Now(ctx)
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeBadRequest, "student ID or email already exists: %s", user.StudentID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}
	return user, nil
}

func (s *Service) Update(ctx context.Context, idOrStudentID string, user *models.User) (*models.User, error) {
	existing, err := s.GetByIDOrStudentID(ctx, idOrStudentID)
	if err != nil {
		return nil, err
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	user.ID = existing.ID
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = requestcontext.Now(ctx)
	user.Deleted = false

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeBadRequest, "student ID or email already exists: %s", user.StudentID)
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "user not found with id: %s", idOrStudentID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user")
	}
	return user, nil
}

func (s *Service) Delete(ctx context.Context, idOrStudentID string) error {
	existing, err := s.GetByIDOrStudentID(ctx, idOrStudentID)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, existing.ID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "user not found with id: %s", idOrStudentID)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete user")
	}
	return nil
}
