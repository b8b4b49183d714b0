package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"coursecloud/internal/enrollment/models"
	"coursecloud/pkg/platform/sentinel"
)

// Postgres persists enrollments. The unique index on (course_id, student_id)
// carries the duplicate guard; concurrent same-pair inserts surface as
// ErrConflict through the 23505 translation.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const enrollmentColumns = `id, course_id, student_id, status, enrolled_at`

func (s *Postgres) Save(ctx context.Context, enrollment *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (` + enrollmentColumns + `)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		enrollment.ID, enrollment.CourseID, enrollment.StudentID,
		enrollment.Status, enrollment.EnrolledAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1`, id)
	return scanEnrollment(row)
}

func (s *Postgres) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.Enrollment, error) {
	return s.query(ctx, `SELECT `+enrollmentColumns+` FROM enrollments ORDER BY enrolled_at`)
}

func (s *Postgres) ListByCourse(ctx context.Context, courseID string) ([]*models.Enrollment, error) {
	return s.query(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE course_id = $1 ORDER BY enrolled_at`, courseID)
}

func (s *Postgres) ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	return s.query(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE student_id = $1 ORDER BY enrolled_at`, studentID)
}

func (s *Postgres) ListByStatus(ctx context.Context, status models.Status) ([]*models.Enrollment, error) {
	return s.query(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE status = $1 ORDER BY enrolled_at`, string(status))
}

func (s *Postgres) ExistsByCourseAndStudent(ctx context.Context, courseID, studentID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM enrollments WHERE course_id = $1 AND student_id = $2)`,
		courseID, studentID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check enrollment existence: %w", err)
	}
	return exists, nil
}

func (s *Postgres) query(ctx context.Context, query string, args ...any) ([]*models.Enrollment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		enrollment, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, enrollment)
	}
	return enrollments, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEnrollment(row rowScanner) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := row.Scan(
		&enrollment.ID, &enrollment.CourseID, &enrollment.StudentID,
		&enrollment.Status, &enrollment.EnrolledAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan enrollment: %w", err)
	}
	return &enrollment, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
