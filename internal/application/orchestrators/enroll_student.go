package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"adjja/internal/application/wizards"
	"adjja/internal/domain/account"
	"adjja/internal/domain/enrollment"
	"adjja/internal/domain/student"

	"github.com/google/uuid"
)

// StudentStoreForEnroll defines the store interface needed by EnrollStudent.
type StudentStoreForEnroll interface {
	Save(ctx context.Context, s student.Student) error
}

// EnrollmentStoreForEnroll defines the store interface for the class
// enrollment side effects.
type EnrollmentStoreForEnroll interface {
	Save(ctx context.Context, e enrollment.Enrollment) error
}

// AccountStoreForLink is the read interface used to link an existing
// account to a newly created entity.
type AccountStoreForLink interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
}

// EnrollStudentDeps holds dependencies for EnrollStudent.
type EnrollStudentDeps struct {
	StudentStore    StudentStoreForEnroll
	EnrollmentStore EnrollmentStoreForEnroll
	AccountStore    AccountStoreForCreate
}

// EnrollmentFailure records one failed class enrollment side effect.
type EnrollmentFailure struct {
	ClassID string
	Err     error
}

// EnrollStudentResult carries the outcome of the student wizard submission,
// including partial side-effect failures.
type EnrollStudentResult struct {
	StudentID      string
	AccountID      string
	AccountCreated bool
	Enrolled       []string
	Failed         []EnrollmentFailure
}

// Summary returns the user-facing outcome line, e.g.
// "Student added and enrolled in 1 class(es)".
func (r EnrollStudentResult) Summary() string {
	if len(r.Enrolled) == 0 && len(r.Failed) == 0 {
		return "Student added"
	}
	return fmt.Sprintf("Student added and enrolled in %d class(es)", len(r.Enrolled))
}

// ExecuteEnrollStudent coordinates the student wizard submission: optional
// account creation or linkage, the primary student create, then best-effort
// class enrollments.
// PRE: sub was built by wizards.BuildStudentSubmission from a fully
// validated form
// POST: on success the student exists; enrollment failures are collected in
// the result, never rolled back
// INVARIANT: sub.Credentials is nil when the entity already had an account,
// so no duplicate identity is ever created here
func ExecuteEnrollStudent(ctx context.Context, sub wizards.StudentSubmission, deps EnrollStudentDeps) (EnrollStudentResult, error) {
	if sub.Name == "" {
		return EnrollStudentResult{}, errors.New("name cannot be empty")
	}
	if sub.Email == "" {
		return EnrollStudentResult{}, errors.New("email cannot be empty")
	}

	var result EnrollStudentResult

	// Account creation (or linkage to an existing identity) happens before
	// the student create so the student row can carry the account ID.
	if sub.Credentials != nil {
		accountID, err := ExecuteCreateAccount(ctx, CreateAccountInput{
			Email:       sub.Email,
			Username:    sub.Credentials.Username,
			DisplayName: sub.Name,
			Phone:       sub.Phone,
			Password:    sub.Credentials.Password,
			Role:        account.RoleStudent,
		}, CreateAccountDeps{AccountStore: deps.AccountStore})
		if err != nil {
			return EnrollStudentResult{}, fmt.Errorf("create portal account: %w", err)
		}
		result.AccountID = accountID
		result.AccountCreated = true
	} else if acct, err := deps.AccountStore.GetByEmail(ctx, sub.Email); err == nil {
		result.AccountID = acct.ID
	}

	st := student.Student{
		ID:        uuid.New().String(),
		AccountID: result.AccountID,
		Email:     sub.Email,
		Phone:     sub.Phone,
		Name:      sub.Name,
		Belt:      sub.Belt,
		Stripes:   sub.Stripes,
		PlanID:    sub.PlanID,
		Status:    student.StatusActive,
	}
	if err := st.Validate(); err != nil {
		return EnrollStudentResult{}, err
	}
	if err := deps.StudentStore.Save(ctx, st); err != nil {
		return EnrollStudentResult{}, fmt.Errorf("save student: %w", err)
	}
	result.StudentID = st.ID

	// Best-effort side effects: one enrollment per selected class. Failures
	// are collected and surfaced, but the student create stands.
	for _, classID := range sub.ClassIDs {
		e := enrollment.Enrollment{
			ID:         uuid.New().String(),
			StudentID:  st.ID,
			ClassID:    classID,
			EnrolledAt: time.Now(),
		}
		if err := deps.EnrollmentStore.Save(ctx, e); err != nil {
			slog.Warn("wizard_event", "event", "enrollment_failed", "student_id", st.ID, "class_id", classID, "error", err.Error())
			result.Failed = append(result.Failed, EnrollmentFailure{ClassID: classID, Err: err})
			continue
		}
		result.Enrolled = append(result.Enrolled, classID)
	}

	slog.Info("wizard_event", "event", "student_enrolled", "student_id", st.ID,
		"account_created", result.AccountCreated, "classes_enrolled", len(result.Enrolled), "classes_failed", len(result.Failed))

	return result, nil
}
