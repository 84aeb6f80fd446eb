package wizards

import (
	"strings"

	"adjja/internal/domain/academyclass"
	"adjja/internal/domain/wizard"
)

// Class wizard form field keys.
const (
	FieldCoachID    = "coachId"
	FieldInstructor = "instructor"
	FieldSchedule   = "schedule"
	FieldLevel      = "level"
	FieldCapacity   = "capacity"
)

// ClassSubmission is the normalized payload of the class wizard. Duration
// is derived from the schedule, never entered by the user.
type ClassSubmission struct {
	Name       string
	CoachID    string
	Instructor string
	Schedule   string
	Level      string
	Capacity   int
	Duration   int // minutes
}

// ClassSteps returns the step list for the class creation wizard.
func ClassSteps() []wizard.Step {
	return []wizard.Step{
		{ID: "details", Title: "Class Details", Validate: validateClassDetails},
		{ID: "schedule", Title: "Schedule", Validate: validateClassSchedule},
		{ID: "review", Title: "Review", Validate: validateClassReview},
	}
}

func validateClassDetails(f wizard.Form) wizard.ValidationResult {
	var reasons []string
	if strings.TrimSpace(f.String(FieldName)) == "" {
		reasons = append(reasons, "name required")
	}
	if strings.TrimSpace(f.String(FieldInstructor)) == "" {
		reasons = append(reasons, "instructor required")
	}
	if len(reasons) > 0 {
		return wizard.Invalid(reasons...)
	}
	return wizard.Valid()
}

func validateClassSchedule(f wizard.Form) wizard.ValidationResult {
	var reasons []string
	if _, err := academyclass.ParseSchedule(f.String(FieldSchedule)); err != nil {
		reasons = append(reasons, "schedule must look like 'Mon 6:00 AM - 7:00 AM'")
	}
	if n := f.Int(FieldCapacity); n < academyclass.MinCapacity || n > academyclass.MaxCapacity {
		reasons = append(reasons, "capacity must be between 1 and 100")
	}
	if len(reasons) > 0 {
		return wizard.Invalid(reasons...)
	}
	return wizard.Valid()
}

// validateClassReview re-checks the whole form; the review step is the
// submit gate, so it must not trust earlier steps to have been visited.
func validateClassReview(f wizard.Form) wizard.ValidationResult {
	if res := validateClassDetails(f); !res.OK {
		return res
	}
	return validateClassSchedule(f)
}

// BuildClassSubmission maps the wizard form to the persistence payload,
// deriving the duration from the parsed schedule.
// PRE: every step of the class wizard validates against form
func BuildClassSubmission(form wizard.Form) (ClassSubmission, error) {
	slot, err := academyclass.ParseSchedule(form.String(FieldSchedule))
	if err != nil {
		return ClassSubmission{}, err
	}
	level := form.String(FieldLevel)
	if level == "" {
		level = academyclass.LevelAll
	}
	return ClassSubmission{
		Name:       strings.TrimSpace(form.String(FieldName)),
		CoachID:    optional(form, FieldCoachID),
		Instructor: strings.TrimSpace(form.String(FieldInstructor)),
		Schedule:   strings.TrimSpace(form.String(FieldSchedule)),
		Level:      level,
		Capacity:   academyclass.ClampCapacity(form.Int(FieldCapacity)),
		Duration:   slot.Minutes,
	}, nil
}
