// Package wizards defines the step lists, validators, and submission
// builders for the portal's multi-step forms. Validators are pure functions
// of the wizard form; anything network-derived (like an account linkage
// check) is resolved beforehand and passed in as form fields.
package wizards

import (
	"strings"

	"adjja/internal/application/linkage"
	"adjja/internal/domain/wizard"
)

// Shared form field keys used by more than one wizard.
const (
	FieldName          = "name"
	FieldEmail         = "email"
	FieldAccountID     = "accountId"
	FieldPhone         = "phone"
	FieldBelt          = "belt"
	FieldStripes       = "stripes"
	FieldCreateAccount = "createAccount"
	FieldAccountExists = "accountExists"
	FieldUsername      = "username"
	FieldPassword      = "password"
)

// MinPasswordLength mirrors the identity store's password rule so the
// wizard rejects short passwords before submission.
const MinPasswordLength = 12

// Credentials is the optional sub-object of a submission payload. It is
// attached only when the wizard is creating a portal account for an entity
// that has none; a nil Credentials means no account creation.
type Credentials struct {
	Username string
	Password string
}

// credentialsRequired reports whether the credentials fields are applicable:
// the user asked for an account and no linkage exists. A field the user
// cannot see is never required.
func credentialsRequired(f wizard.Form) bool {
	return f.Bool(FieldCreateAccount) && !f.Bool(FieldAccountExists)
}

// validateCredentials is the shared validator for the account step of the
// student and coach wizards.
func validateCredentials(f wizard.Form) wizard.ValidationResult {
	if !credentialsRequired(f) {
		return wizard.Valid()
	}
	var reasons []string
	if strings.TrimSpace(f.String(FieldUsername)) == "" {
		reasons = append(reasons, "username required")
	}
	if len(f.String(FieldPassword)) < MinPasswordLength {
		reasons = append(reasons, "password must be at least 12 characters")
	}
	if len(reasons) > 0 {
		return wizard.Invalid(reasons...)
	}
	return wizard.Valid()
}

// buildCredentials converts the form's credential fields into the optional
// payload sub-object. Returns nil whenever a linkage exists, regardless of
// what the form carries: a payload must never attempt to create a duplicate
// identity for an already-linked entity.
func buildCredentials(f wizard.Form, status linkage.Status) *Credentials {
	if status.Exists {
		return nil
	}
	if !f.Bool(FieldCreateAccount) {
		return nil
	}
	return &Credentials{
		Username: strings.TrimSpace(f.String(FieldUsername)),
		Password: f.String(FieldPassword),
	}
}

// optional trims an optional field, normalizing whitespace-only input to
// absent ("") per the nullable-field convention of the store.
func optional(f wizard.Form, key string) string {
	return strings.TrimSpace(f.String(key))
}

// ApplyLinkage writes a resolved linkage status into the form so the
// credential validators and the UI see one consistent fact.
// POST: accountExists mirrors status.Exists; an existing linkage forces
// createAccount on so the wizard can never orphan an existing identity
func ApplyLinkage(s *wizard.Session, status linkage.Status) error {
	if err := s.Set(FieldAccountExists, status.Exists); err != nil {
		return err
	}
	if status.Exists {
		return s.Set(FieldCreateAccount, true)
	}
	return nil
}
