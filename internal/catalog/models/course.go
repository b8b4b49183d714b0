package models

import (
	"regexp"
	"strings"
	"time"

	dErrors "coursecloud/pkg/domain-errors"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

// Instructor is the owning instructor embedded in a course record.
type Instructor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ScheduleSlot is the weekly time slot a course occupies.
type ScheduleSlot struct {
	DayOfWeek string `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

var validDays = map[string]bool{
	"MONDAY": true, "TUESDAY": true, "WEDNESDAY": true, "THURSDAY": true,
	"FRIDAY": true, "SATURDAY": true, "SUNDAY": true,
}

// Course is the registry's record of a course offering.
//
// Invariants:
//   - Code is non-empty and unique across the registry
//   - Capacity > 0, Enrolled >= 0
//   - Enrolled moves only through Increment/Decrement, never a raw overwrite
//
// Enrolled <= Capacity is intent, not a registry-enforced bound: the
// enrollment workflow checks capacity against a snapshot before
// incrementing, so concurrent enrollments can overshoot. See the enrollment
// service for where that window lives.
type Course struct {
	ID                 string       `json:"id"`
	Code               string       `json:"code"`
	Title              string       `json:"title"`
	Instructor         Instructor   `json:"instructor"`
	Schedule           ScheduleSlot `json:"schedule"`
	ExpectedAttendance int          `json:"expectedAttendance"`
	Capacity           int          `json:"capacity"`
	Enrolled           int          `json:"enrolled"`
	CreatedAt          time.Time    `json:"createdAt"`
}

// Available reports whether the course has remaining capacity.
func (c *Course) Available() bool {
	return c.Enrolled < c.Capacity
}

// Validate checks the field-level rules for create and update. Each failure
// names the offending field.
func (c *Course) Validate() error {
	if strings.TrimSpace(c.Code) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "course code is required")
	}
	if strings.TrimSpace(c.Title) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "course title is required")
	}
	if strings.TrimSpace(c.Instructor.ID) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "instructor id is required")
	}
	if strings.TrimSpace(c.Instructor.Name) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "instructor name is required")
	}
	if strings.TrimSpace(c.Instructor.Email) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "instructor email is required")
	}
	if !emailPattern.MatchString(c.Instructor.Email) {
		return dErrors.Newf(dErrors.CodeBadRequest, "invalid instructor email format: %s", c.Instructor.Email)
	}
	if !validDays[c.Schedule.DayOfWeek] {
		return dErrors.New(dErrors.CodeBadRequest, "schedule dayOfWeek is required")
	}
	if c.Schedule.StartTime == "" || c.Schedule.EndTime == "" {
		return dErrors.New(dErrors.CodeBadRequest, "schedule startTime and endTime are required")
	}
	if c.Capacity <= 0 {
		return dErrors.New(dErrors.CodeBadRequest, "course capacity must be greater than 0")
	}
	if c.ExpectedAttendance < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "expected attendance cannot be negative")
	}
	return nil
}
