package plan

import (
	"errors"
	"strings"
)

// Billing interval constants
const (
	IntervalMonthly   = "monthly"
	IntervalQuarterly = "quarterly"
	IntervalYearly    = "yearly"
)

// ValidIntervals contains all valid billing interval values.
var ValidIntervals = []string{IntervalMonthly, IntervalQuarterly, IntervalYearly}

// Domain errors
var (
	ErrAlreadyRetired = errors.New("plan is already retired")
)

// Plan represents a subscription plan a student can be billed on.
// Plans are records, not charges; no payment gateway is involved.
type Plan struct {
	ID         string
	Name       string
	PriceCents int
	Currency   string // ISO 4217 code, e.g. "NZD"
	Interval   string
	Active     bool
}

// Validate checks if the Plan has valid data.
// PRE: Plan struct is populated
// POST: Returns nil if valid, error otherwise
// INVARIANT: PriceCents >= 0, Currency is a 3-letter code
func (p *Plan) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("plan name cannot be empty")
	}
	if p.PriceCents < 0 {
		return errors.New("plan price cannot be negative")
	}
	if len(p.Currency) != 3 {
		return errors.New("currency must be a 3-letter code")
	}
	if !isValidInterval(p.Interval) {
		return errors.New("interval must be 'monthly', 'quarterly', or 'yearly'")
	}
	return nil
}

// Retire marks the plan as no longer offered to new students.
// PRE: Plan is active
// POST: Active is false
func (p *Plan) Retire() error {
	if !p.Active {
		return ErrAlreadyRetired
	}
	p.Active = false
	return nil
}

func isValidInterval(interval string) bool {
	for _, i := range ValidIntervals {
		if i == interval {
			return true
		}
	}
	return false
}
