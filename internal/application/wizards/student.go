package wizards

import (
	"strings"

	"adjja/internal/application/linkage"
	"adjja/internal/domain/student"
	"adjja/internal/domain/wizard"
)

// Student wizard form field keys.
const (
	FieldPlanID  = "planId"
	FieldClasses = "classes"
)

// StudentSubmission is the normalized payload of the student wizard.
// Empty optional fields are absent (""), never whitespace; Credentials is
// nil unless a new portal account should be created.
type StudentSubmission struct {
	Name        string
	Email       string
	Phone       string
	Belt        string
	Stripes     int
	PlanID      string
	ClassIDs    []string
	Credentials *Credentials
}

// StudentSteps returns the step list for the student onboarding wizard.
// Every validator is pure: it reads the form and nothing else.
func StudentSteps() []wizard.Step {
	return []wizard.Step{
		{ID: "personal", Title: "Personal Details", Validate: validateStudentPersonal},
		{ID: "training", Title: "Training Profile", Validate: validateStudentTraining},
		{ID: "membership", Title: "Membership", Validate: validateStudentMembership},
		{ID: "account", Title: "Portal Account", Validate: validateCredentials},
	}
}

func validateStudentPersonal(f wizard.Form) wizard.ValidationResult {
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

func validateStudentTraining(f wizard.Form) wizard.ValidationResult {
	var reasons []string
	if !student.IsValidBelt(f.String(FieldBelt)) {
		reasons = append(reasons, "belt must be one of: white, blue, purple, brown, black")
	}
	if n := f.Int(FieldStripes); n < student.MinStripes || n > student.MaxStripes {
		reasons = append(reasons, "stripes must be between 0 and 4")
	}
	if len(reasons) > 0 {
		return wizard.Invalid(reasons...)
	}
	return wizard.Valid()
}

func validateStudentMembership(f wizard.Form) wizard.ValidationResult {
	if strings.TrimSpace(f.String(FieldPlanID)) == "" {
		return wizard.Invalid("subscription plan required")
	}
	// Class selection is optional; enrollment is a best-effort side effect.
	return wizard.Valid()
}

// BuildStudentSubmission maps the wizard form to the persistence payload.
// PRE: every step of the student wizard validates against form
// POST: Credentials is nil whenever status.Exists is true
func BuildStudentSubmission(form wizard.Form, status linkage.Status) StudentSubmission {
	return StudentSubmission{
		Name:        strings.TrimSpace(form.String(FieldName)),
		Email:       strings.TrimSpace(form.String(FieldEmail)),
		Phone:       optional(form, FieldPhone),
		Belt:        form.String(FieldBelt),
		Stripes:     student.ClampStripes(form.Int(FieldStripes)),
		PlanID:      form.String(FieldPlanID),
		ClassIDs:    form.Strings(FieldClasses),
		Credentials: buildCredentials(form, status),
	}
}
