package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursecloud/internal/user/models"
	"coursecloud/internal/user/store"
	dErrors "coursecloud/pkg/domain-errors"
)

func newTestService() *Service {
	return New(store.NewInMemory())
}

func validUser(studentID, email string) *models.User {
	return &models.User{
		StudentID: studentID,
		Name:      "Grace Hopper",
		Major:     "Computer Science",
		Grade:     3,
		Email:     email,
	}
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validUser("20250101", "grace@example.edu"))
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.False(t, created.Deleted)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*models.User)
	}{
		{"missing student ID", func(u *models.User) { u.StudentID = "" }},
		{"missing name", func(u *models.User) { u.Name = "  " }},
		{"missing major", func(u *models.User) { u.Major = "" }},
		{"missing grade", func(u *models.User) { u.Grade = 0 }},
		{"missing email", func(u *models.User) { u.Email = "" }},
		{"malformed email", func(u *models.User) { u.Email = "not-an-email" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := validUser("20250102", "valid@example.edu")
			tt.mutate(user)

			_, err := svc.Create(ctx, user)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
		})
	}
}

func TestCreateDuplicateStudentID(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, validUser("20250103", "a@example.edu"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, validUser("20250103", "b@example.edu"))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestGetByIDOrStudentIDPrefersStudentCode(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validUser("20250104", "lookup@example.edu"))
	require.NoError(t, err)

	byCode, err := svc.GetByIDOrStudentID(ctx, created.StudentID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byCode.ID)

	byID, err := svc.GetByIDOrStudentID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.StudentID, byID.StudentID)
}

func TestGetUnknownUserReturnsNotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.GetByIDOrStudentID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestUpdatePreservesIDAndCreatedAt(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validUser("20250105", "before@example.edu"))
	require.NoError(t, err)

	patch := validUser("20250105", "after@example.edu")
	patch.ID = "attacker-chosen-id"
	patch.Major = "Physics"

	updated, err := svc.Update(ctx, created.StudentID, patch)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Physics", updated.Major)
	assert.Equal(t, "after@example.edu", updated.Email)
}

func TestDeleteHidesUser(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validUser("20250106", "hide@example.edu"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.StudentID))

	_, err = svc.GetByIDOrStudentID(ctx, created.StudentID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	err = svc.Delete(ctx, created.StudentID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
