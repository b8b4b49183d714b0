package models

import (
	"regexp"
	"strings"
	"time"

	dErrors "coursecloud/pkg/domain-errors"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

// User is a student identity record. Deletion is soft: deleted users keep
// their row but are invisible to every lookup, so an external student code
// can be retired without breaking historical enrollment references.
type User struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	Name      string    `json:"name"`
	Major     string    `json:"major"`
	Grade     int       `json:"grade"`
	Email     string    `json:"email"`
	Deleted   bool      `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the field-level rules for create and update.
func (u *User) Validate() error {
	if strings.TrimSpace(u.StudentID) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "student ID is required")
	}
	if strings.TrimSpace(u.Name) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if strings.TrimSpace(u.Major) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "major is required")
	}
	if u.Grade == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "grade is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "email is required")
	}
	if !emailPattern.MatchString(u.Email) {
		return dErrors.Newf(dErrors.CodeBadRequest, "invalid email format: %s", u.Email)
	}
	return nil
}
