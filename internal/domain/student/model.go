package student

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Belt rank constants
const (
	BeltWhite  = "white"
	BeltBlue   = "blue"
	BeltPurple = "purple"
	BeltBrown  = "brown"
	BeltBlack  = "black"
)

// Stripe bounds (inclusive). Out-of-range input is clamped at the input
// layer via ClampStripes, not silently accepted here.
const (
	MinStripes     = 0
	MaxStripes     = 4
	DefaultStripes = 0
)

// Status constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusArchived = "archived"
)

// ValidBelts contains all valid belt values in rank order.
var ValidBelts = []string{BeltWhite, BeltBlue, BeltPurple, BeltBrown, BeltBlack}

// Domain errors
var (
	ErrAlreadyArchived = errors.New("student is already archived")
	ErrNotArchived     = errors.New("student is not archived")
)

// Student holds state for the concept.
type Student struct {
	ID        string
	AccountID string
	Email     string
	Phone     string
	Name      string
	Belt      string
	Stripes   int
	PlanID    string
	Status    string
}

// Validate checks if the Student has valid data.
// PRE: Student struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Email must contain '@', Name must not be empty, Stripes in [0,4]
func (s *Student) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("student name cannot be empty")
	}
	if len(s.Name) > MaxNameLength {
		return errors.New("student name cannot exceed 100 characters")
	}
	if !strings.Contains(s.Email, "@") {
		return errors.New("student email must be valid")
	}
	if !IsValidBelt(s.Belt) {
		return errors.New("belt must be one of: white, blue, purple, brown, black")
	}
	if s.Stripes < MinStripes || s.Stripes > MaxStripes {
		return errors.New("stripes must be between 0 and 4")
	}
	if s.Status != StatusActive && s.Status != StatusInactive && s.Status != StatusArchived {
		return errors.New("status must be 'active', 'inactive', or 'archived'")
	}
	return nil
}

// IsActive returns true if the student is currently active.
// INVARIANT: Status field is not mutated
func (s *Student) IsActive() bool {
	return s.Status == StatusActive
}

// IsArchived returns true if the student is archived.
// INVARIANT: Status field is not mutated
func (s *Student) IsArchived() bool {
	return s.Status == StatusArchived
}

// HasAccount returns true if the student is linked to a portal account.
// INVARIANT: Fields are not mutated
func (s *Student) HasAccount() bool {
	return s.AccountID != ""
}

// Archive sets the student status to archived.
// PRE: Student is not already archived
// POST: Status is set to archived
func (s *Student) Archive() error {
	if s.Status == StatusArchived {
		return ErrAlreadyArchived
	}
	s.Status = StatusArchived
	return nil
}

// Restore sets the student status back to active.
// PRE: Student is currently archived
// POST: Status is set to active
func (s *Student) Restore() error {
	if s.Status != StatusArchived {
		return ErrNotArchived
	}
	s.Status = StatusActive
	return nil
}

// IsValidBelt returns true if belt is a recognized rank.
func IsValidBelt(belt string) bool {
	for _, b := range ValidBelts {
		if b == belt {
			return true
		}
	}
	return false
}

// ClampStripes clamps a stripe count to the inclusive [0,4] range.
// POST: Returned value is within [MinStripes, MaxStripes]
func ClampStripes(n int) int {
	if n < MinStripes {
		return MinStripes
	}
	if n > MaxStripes {
		return MaxStripes
	}
	return n
}
