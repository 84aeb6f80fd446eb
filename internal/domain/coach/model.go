package coach

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Status constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Domain errors
var (
	ErrAlreadyInactive = errors.New("coach is already inactive")
	ErrAlreadyActive   = errors.New("coach is already active")
)

// Coach holds state for the concept.
type Coach struct {
	ID          string
	AccountID   string
	Email       string
	Phone       string
	Name        string
	Belt        string
	Specialties []string
	Status      string
}

// Validate checks if the Coach has valid data.
// PRE: Coach struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Email must contain '@', Name must not be empty
func (c *Coach) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("coach name cannot be empty")
	}
	if len(c.Name) > MaxNameLength {
		return errors.New("coach name cannot exceed 100 characters")
	}
	if !strings.Contains(c.Email, "@") {
		return errors.New("coach email must be valid")
	}
	if c.Status != StatusActive && c.Status != StatusInactive {
		return errors.New("status must be 'active' or 'inactive'")
	}
	return nil
}

// HasAccount returns true if the coach is linked to a portal account.
// INVARIANT: Fields are not mutated
func (c *Coach) HasAccount() bool {
	return c.AccountID != ""
}

// Deactivate sets the coach status to inactive.
// PRE: Coach is active
// POST: Status is set to inactive
func (c *Coach) Deactivate() error {
	if c.Status == StatusInactive {
		return ErrAlreadyInactive
	}
	c.Status = StatusInactive
	return nil
}

// Activate sets the coach status back to active.
// PRE: Coach is inactive
// POST: Status is set to active
func (c *Coach) Activate() error {
	if c.Status == StatusActive {
		return ErrAlreadyActive
	}
	c.Status = StatusActive
	return nil
}

// NormalizeSpecialties trims whitespace and drops empty entries.
// POST: Returned slice contains no empty or padded strings
func NormalizeSpecialties(raw []string) []string {
	var out []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
