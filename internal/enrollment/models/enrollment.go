// Package models defines the enrollment domain types.
package models

import "time"

// Status is the lifecycle state of an enrollment.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusDropped   Status = "DROPPED"
	StatusCompleted Status = "COMPLETED"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusDropped, StatusCompleted:
		return true
	}
	return false
}

// Enrollment links one student to one course. The (CourseID, StudentID) pair
// is unique across live rows.
type Enrollment struct {
	ID         string    `json:"id"`
	CourseID   string    `json:"courseId"`
	StudentID  string    `json:"studentId"`
	Status     Status    `json:"status"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

// Course is the coordinator's view of a catalog course. Only the fields the
// enrollment workflow reads are decoded.
type Course struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Title    string `json:"title"`
	Capacity int    `json:"capacity"`
	Enrolled int    `json:"enrolled"`
}

// Available reports whether the snapshot had seats left. The check is
// advisory: the counter may move between this read and the commit.
func (c *Course) Available() bool {
	return c.Enrolled < c.Capacity
}

// Student is the coordinator's view of an identity record.
type Student struct {
	ID        string `json:"id"`
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}
