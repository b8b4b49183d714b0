package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"coursecloud/internal/catalog/models"
	"coursecloud/pkg/platform/sentinel"
)

// Postgres persists courses in a single table with the instructor and
// schedule embedded as columns. The enrolled counter is only ever mutated by
// single-statement conditional updates, so concurrent increments cannot lose
// updates.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Schema for reference; migrations live in deployments, not in code.
//
//	CREATE TABLE courses (
//	    id                  UUID PRIMARY KEY,
//	    code                TEXT NOT NULL,
//	    title               TEXT NOT NULL,
//	    instructor_id       TEXT NOT NULL,
//	    instructor_name     TEXT NOT NULL,
//	    instructor_email    TEXT NOT NULL,
//	    day_of_week         TEXT NOT NULL,
//	    start_time          TEXT NOT NULL,
//	    end_time            TEXT NOT NULL,
//	    expected_attendance INT  NOT NULL,
//	    capacity            INT  NOT NULL,
//	    enrolled            INT  NOT NULL DEFAULT 0 CHECK (enrolled >= 0),
//	    created_at          TIMESTAMPTZ NOT NULL,
//	    CONSTRAINT courses_code_key UNIQUE (code)
//	);

const courseColumns = `id, code, title, instructor_id, instructor_name, instructor_email,
	day_of_week, start_time, end_time, expected_attendance, capacity, enrolled, created_at`

func (s *Postgres) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (` + courseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(ctx, query,
		course.ID, course.Code, course.Title,
		course.Instructor.ID, course.Instructor.Name, course.Instructor.Email,
		course.Schedule.DayOfWeek, course.Schedule.StartTime, course.Schedule.EndTime,
		course.ExpectedAttendance, course.Capacity, course.Enrolled, course.CreatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET code = $2, title = $3, instructor_id = $4, instructor_name = $5,
		    instructor_email = $6, day_of_week = $7, start_time = $8,
		    end_time = $9, expected_attendance = $10, capacity = $11
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		course.ID, course.Code, course.Title,
		course.Instructor.ID, course.Instructor.Name, course.Instructor.Email,
		course.Schedule.DayOfWeek, course.Schedule.StartTime, course.Schedule.EndTime,
		course.ExpectedAttendance, course.Capacity,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return checkAffected(res)
}

func (s *Postgres) FindByID(ctx context.Context, id string) (*models.Course, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)
	return scanCourse(row)
}

func (s *Postgres) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE lower(code) = lower($1)`, code)
	return scanCourse(row)
}

func (s *Postgres) List(ctx context.Context) ([]*models.Course, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (s *Postgres) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return checkAffected(res)
}

func (s *Postgres) Increment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE courses SET enrolled = enrolled + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment enrolled: %w", err)
	}
	return checkAffected(res)
}

func (s *Postgres) Decrement(ctx context.Context, id string) error {
	// Conditional update: rejects at zero instead of clamping so the caller
	// can tell a no-op from a real decrement.
	res, err := s.db.ExecContext(ctx,
		`UPDATE courses SET enrolled = enrolled - 1 WHERE id = $1 AND enrolled > 0`, id)
	if err != nil {
		return fmt.Errorf("decrement enrolled: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement enrolled: %w", err)
	}
	if n == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("decrement enrolled: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrInvalidState
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*models.Course, error) {
	var course models.Course
	err := row.Scan(
		&course.ID, &course.Code, &course.Title,
		&course.Instructor.ID, &course.Instructor.Name, &course.Instructor.Email,
		&course.Schedule.DayOfWeek, &course.Schedule.StartTime, &course.Schedule.EndTime,
		&course.ExpectedAttendance, &course.Capacity, &course.Enrolled, &course.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan course: %w", err)
	}
	return &course, nil
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
