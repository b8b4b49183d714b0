//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"coursecloud/internal/enrollment/models"
	"coursecloud/internal/enrollment/store"
	"coursecloud/pkg/platform/sentinel"
	"coursecloud/pkg/testutil/containers"
)

type PostgresEnrollmentSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresEnrollmentSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresEnrollmentSuite))
}

func (s *PostgresEnrollmentSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresEnrollmentSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "enrollments"))
}

func newTestEnrollment(courseID, studentID string) *models.Enrollment {
	return &models.Enrollment{
		ID:         uuid.NewString(),
		CourseID:   courseID,
		StudentID:  studentID,
		Status:     models.StatusActive,
		EnrolledAt: time.Now().UTC(),
	}
}

func (s *PostgresEnrollmentSuite) TestSaveAndQueries() {
	ctx := context.Background()
	enrollment := newTestEnrollment("c-1", "st-1")
	s.Require().NoError(s.store.Save(ctx, enrollment))

	found, err := s.store.FindByID(ctx, enrollment.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusActive, found.Status)

	exists, err := s.store.ExistsByCourseAndStudent(ctx, "c-1", "st-1")
	s.Require().NoError(err)
	s.True(exists)

	byCourse, err := s.store.ListByCourse(ctx, "c-1")
	s.Require().NoError(err)
	s.Len(byCourse, 1)
}

func (s *PostgresEnrollmentSuite) TestDuplicatePair() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, newTestEnrollment("c-2", "st-2")))

	err := s.store.Save(ctx, newTestEnrollment("c-2", "st-2"))
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

// TestConcurrentSamePairSaves drives the constraint under real concurrency:
// the unique index must let exactly one insert through.
func (s *PostgresEnrollmentSuite) TestConcurrentSamePairSaves() {
	ctx := context.Background()
	const writers = 20
	var wg sync.WaitGroup
	results := make(chan error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.store.Save(ctx, newTestEnrollment("c-3", "st-3"))
		}()
	}
	wg.Wait()
	close(results)

	var wins int
	for err := range results {
		if err == nil {
			wins++
		} else {
			s.Require().ErrorIs(err, sentinel.ErrConflict)
		}
	}
	s.Equal(1, wins)
}

func (s *PostgresEnrollmentSuite) TestDelete() {
	ctx := context.Background()
	enrollment := newTestEnrollment("c-4", "st-4")
	s.Require().NoError(s.store.Save(ctx, enrollment))
	s.Require().NoError(s.store.Delete(ctx, enrollment.ID))

	_, err := s.store.FindByID(ctx, enrollment.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().ErrorIs(s.store.Delete(ctx, enrollment.ID), sentinel.ErrNotFound)
}
