package enrollment

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyStudentID = errors.New("student ID cannot be empty")
	ErrEmptyClassID   = errors.New("class ID cannot be empty")
)

// Enrollment links a student to a class on the timetable.
type Enrollment struct {
	ID         string
	StudentID  string
	ClassID    string
	EnrolledAt time.Time
}

// Validate checks if the Enrollment has valid data.
// PRE: Enrollment struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Enrollment) Validate() error {
	if strings.TrimSpace(e.StudentID) == "" {
		return ErrEmptyStudentID
	}
	if strings.TrimSpace(e.ClassID) == "" {
		return ErrEmptyClassID
	}
	return nil
}
