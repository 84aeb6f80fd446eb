package wizards

import (
	"strings"

	"adjja/internal/application/linkage"
	"adjja/internal/domain/coach"
	"adjja/internal/domain/wizard"
)

// Coach wizard form field keys.
const (
	FieldSpecialties = "specialties"
)

// CoachSubmission is the normalized payload of the coach wizard.
type CoachSubmission struct {
	Name        string
	Email       string
	Phone       string
	Belt        string
	Specialties []string
	Credentials *Credentials
}

// CoachSteps returns the step list for the coach onboarding wizard.
func CoachSteps() []wizard.Step {
	return []wizard.Step{
		{ID: "personal", Title: "Personal Details", Validate: validateCoachPersonal},
		{ID: "coaching", Title: "Coaching Profile", Validate: validateCoachProfile},
		{ID: "account", Title: "Portal Account", Validate: validateCredentials},
	}
}

func validateCoachPersonal(f wizard.Form) wizard.ValidationResult {
	var reasons []string
	if strings.TrimSpace(f.String(FieldName)) == "" {
		reasons = append(reasons, "name required")
	}
	email := f.String(FieldEmail)
	if email == "" {
		reasons = append(reasons, "email required")
	} else if !strings.Contains(email, "@") {
		reasons = append(reasons, "email must be valid")
	}
	if len(reasons) > 0 {
		return wizard.Invalid(reasons...)
	}
	return wizard.Valid()
}

func validateCoachProfile(f wizard.Form) wizard.ValidationResult {
	var reasons []string
	if strings.TrimSpace(f.String(FieldBelt)) == "" {
		reasons = append(reasons, "belt required")
	}
	if len(coach.NormalizeSpecialties(f.Strings(FieldSpecialties))) == 0 {
		reasons = append(reasons, "at least one specialty required")
	}
	if len(reasons) > 0 {
		return wizard.Invalid(reasons...)
	}
	return wizard.Valid()
}

// BuildCoachSubmission maps the wizard form to the persistence payload.
// PRE: every step of the coach wizard validates against form
// POST: Credentials is nil whenever status.Exists is true
func BuildCoachSubmission(form wizard.Form, status linkage.Status) CoachSubmission {
	return CoachSubmission{
		Name:        strings.TrimSpace(form.String(FieldName)),
		Email:       strings.TrimSpace(form.String(FieldEmail)),
		Phone:       optional(form, FieldPhone),
		Belt:        form.String(FieldBelt),
		Specialties: coach.NormalizeSpecialties(form.Strings(FieldSpecialties)),
		Credentials: buildCredentials(form, status),
	}
}
