package config

import "errors"

// AcademyConfiguration is the immutable portal-wide configuration: the
// option lists the wizards and forms render from. It is loaded once at
// startup and passed explicitly to whatever needs it — never looked up
// through ambient globals.
type AcademyConfiguration struct {
	AcademyName     string
	Timezone        string
	DefaultCurrency string
	Currencies      []string
	Specialties     []string
}

// Default returns the stock ADJJA configuration.
func Default() AcademyConfiguration {
	return AcademyConfiguration{
		AcademyName:     "ADJJA",
		Timezone:        "Pacific/Auckland",
		DefaultCurrency: "NZD",
		Currencies:      []string{"NZD", "AUD", "USD", "BRL"},
		Specialties: []string{
			"Fundamentals",
			"No-Gi",
			"Kids",
			"Competition",
			"Self-Defense",
			"Judo",
			"Wrestling",
		},
	}
}

// Validate checks the configuration invariants.
// POST: Returns nil if valid, error otherwise
func (c AcademyConfiguration) Validate() error {
	if c.AcademyName == "" {
		return errors.New("academy name cannot be empty")
	}
	if c.Timezone == "" {
		return errors.New("timezone cannot be empty")
	}
	if len(c.DefaultCurrency) != 3 {
		return errors.New("default currency must be a 3-letter code")
	}
	if !c.HasCurrency(c.DefaultCurrency) {
		return errors.New("default currency must appear in the currency list")
	}
	return nil
}

// HasCurrency returns true if code is an offered currency.
// INVARIANT: Configuration is not mutated
func (c AcademyConfiguration) HasCurrency(code string) bool {
	for _, cur := range c.Currencies {
		if cur == code {
			return true
		}
	}
	return false
}

// HasSpecialty returns true if name is a recognized coach specialty.
// INVARIANT: Configuration is not mutated
func (c AcademyConfiguration) HasSpecialty(name string) bool {
	for _, s := range c.Specialties {
		if s == name {
			return true
		}
	}
	return false
}
