package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursecloud/internal/catalog/models"
	"coursecloud/internal/catalog/store"
	dErrors "coursecloud/pkg/domain-errors"
)

func validCourse(code string) *models.Course {
	return &models.Course{
		Code:  code,
		Title: "Operating Systems",
		Instructor: models.Instructor{
			ID:    "inst-7",
			Name:  "B. Liskov",
			Email: "liskov@example.edu",
		},
		Schedule: models.ScheduleSlot{
			DayOfWeek: "WEDNESDAY",
			StartTime: "14:00",
			EndTime:   "16:00",
		},
		Capacity: 40,
	}
}

func TestCreateAssignsIDAndDefaults(t *testing.T) {
	svc := New(store.NewInMemory())

	created, err := svc.Create(context.Background(), validCourse("OS401"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 0, created.Enrolled)
	assert.Equal(t, 40, created.ExpectedAttendance, "expected attendance defaults to capacity")
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCreateValidation(t *testing.T) {
	svc := New(store.NewInMemory())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*models.Course)
	}{
		{"missing code", func(c *models.Course) { c.Code = " " }},
		{"missing title", func(c *models.Course) { c.Title = "" }},
		{"missing instructor id", func(c *models.Course) { c.Instructor.ID = "" }},
		{"missing instructor name", func(c *models.Course) { c.Instructor.Name = "" }},
		{"bad instructor email", func(c *models.Course) { c.Instructor.Email = "not-an-email" }},
		{"bad day of week", func(c *models.Course) { c.Schedule.DayOfWeek = "FUNDAY" }},
		{"missing start time", func(c *models.Course) { c.Schedule.StartTime = "" }},
		{"zero capacity", func(c *models.Course) { c.Capacity = 0 }},
		{"negative expected attendance", func(c *models.Course) { c.ExpectedAttendance = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			course := validCourse("OS402")
			tc.mutate(course)
			_, err := svc.Create(ctx, course)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
		})
	}
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	svc := New(store.NewInMemory())
	ctx := context.Background()

	_, err := svc.Create(ctx, validCourse("OS403"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, validCourse("OS403"))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestUpdatePreservesEnrolledAndCreatedAt(t *testing.T) {
	st := store.NewInMemory()
	svc := New(st)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCourse("OS404"))
	require.NoError(t, err)
	require.NoError(t, st.Increment(ctx, created.ID))

	update := validCourse("OS404")
	update.Title = "Advanced Operating Systems"
	update.Enrolled = 99 // raw overwrite must be ignored

	updated, err := svc.Update(ctx, created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Enrolled)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Advanced Operating Systems", updated.Title)
}

func TestUpdateUnknownCourse(t *testing.T) {
	svc := New(store.NewInMemory())

	_, err := svc.Update(context.Background(), "missing", validCourse("OS405"))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestDeleteUnknownCourse(t *testing.T) {
	svc := New(store.NewInMemory())

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestDecrementAtZeroIsConflict(t *testing.T) {
	svc := New(store.NewInMemory())
	ctx := context.Background()

	created, err := svc.Create(ctx, validCourse("OS406"))
	require.NoError(t, err)

	err = svc.Decrement(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	course, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, course.Enrolled)
}

func TestIncrementThenDecrement(t *testing.T) {
	svc := New(store.NewInMemory())
	ctx := context.Background()

	created, err := svc.Create(ctx, validCourse("OS407"))
	require.NoError(t, err)

	require.NoError(t, svc.Increment(ctx, created.ID))
	require.NoError(t, svc.Decrement(ctx, created.ID))

	course, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, course.Enrolled)
}
