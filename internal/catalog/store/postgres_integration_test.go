//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"coursecloud/internal/catalog/models"
	"coursecloud/internal/catalog/store"
	"coursecloud/pkg/platform/sentinel"
	"coursecloud/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "courses"))
}

func newTestCourse(code string, capacity int) *models.Course {
	return &models.Course{
		ID:    uuid.NewString(),
		Code:  code,
		Title: "Databases",
		Instructor: models.Instructor{
			ID:    "inst-3",
			Name:  "E. Codd",
			Email: "codd@example.edu",
		},
		Schedule: models.ScheduleSlot{
			DayOfWeek: "TUESDAY",
			StartTime: "08:00",
			EndTime:   "10:00",
		},
		ExpectedAttendance: capacity,
		Capacity:           capacity,
		CreatedAt:          time.Now().UTC(),
	}
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	course := newTestCourse("DB601", 50)
	s.Require().NoError(s.store.Create(ctx, course))

	found, err := s.store.FindByID(ctx, course.ID)
	s.Require().NoError(err)
	s.Equal(course.Code, found.Code)
	s.Equal(0, found.Enrolled)

	found, err = s.store.FindByCode(ctx, "db601")
	s.Require().NoError(err)
	s.Equal(course.ID, found.ID)
}

func (s *PostgresStoreSuite) TestDuplicateCode() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newTestCourse("DB602", 50)))

	err := s.store.Create(ctx, newTestCourse("DB602", 50))
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

// TestConcurrentIncrements drives the atomic-update requirement: N
// concurrent increments on one row must not lose updates.
func (s *PostgresStoreSuite) TestConcurrentIncrements() {
	ctx := context.Background()
	course := newTestCourse("DB603", 1000)
	s.Require().NoError(s.store.Create(ctx, course))

	const goroutines = 50
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.store.Increment(ctx, course.ID)
		}()
	}
	wg.Wait()

	found, err := s.store.FindByID(ctx, course.ID)
	s.Require().NoError(err)
	s.Equal(goroutines, found.Enrolled)
}

func (s *PostgresStoreSuite) TestDecrementAtZero() {
	ctx := context.Background()
	course := newTestCourse("DB604", 10)
	s.Require().NoError(s.store.Create(ctx, course))

	s.Require().ErrorIs(s.store.Decrement(ctx, course.ID), sentinel.ErrInvalidState)
	s.Require().ErrorIs(s.store.Decrement(ctx, uuid.NewString()), sentinel.ErrNotFound)
}
