package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"adjja/internal/application/wizards"
	"adjja/internal/domain/account"
	"adjja/internal/domain/coach"

	"github.com/google/uuid"
)

// CoachStoreForOnboard defines the store interface needed by OnboardCoach.
type CoachStoreForOnboard interface {
	Save(ctx context.Context, c coach.Coach) error
}

// OnboardCoachDeps holds dependencies for OnboardCoach.
type OnboardCoachDeps struct {
	CoachStore   CoachStoreForOnboard
	AccountStore AccountStoreForCreate
}

// OnboardCoachResult carries the outcome of the coach wizard submission.
type OnboardCoachResult struct {
	CoachID        string
	AccountID      string
	AccountCreated bool
}

// ExecuteOnboardCoach coordinates the coach wizard submission: optional
// account creation or linkage, then the coach create.
// PRE: sub was built by wizards.BuildCoachSubmission from a validated form
// POST: on success the coach exists, linked to an account when one was
// created or already present
// INVARIANT: sub.Credentials is nil when the entity already had an account
func ExecuteOnboardCoach(ctx context.Context, sub wizards.CoachSubmission, deps OnboardCoachDeps) (OnboardCoachResult, error) {
	if sub.Name == "" {
		return OnboardCoachResult{}, errors.New("name cannot be empty")
	}
	if sub.Email == "" {
		return OnboardCoachResult{}, errors.New("email cannot be empty")
	}

	var result OnboardCoachResult

	if sub.Credentials != nil {
		accountID, err := ExecuteCreateAccount(ctx, CreateAccountInput{
			Email:       sub.Email,
			Username:    sub.Credentials.Username,
			DisplayName: sub.Name,
			Phone:       sub.Phone,
			Password:    sub.Credentials.Password,
			Role:        account.RoleCoach,
		}, CreateAccountDeps{AccountStore: deps.AccountStore})
		if err != nil {
			return OnboardCoachResult{}, fmt.Errorf("create portal account: %w", err)
		}
		result.AccountID = accountID
		result.AccountCreated = true
	} else if acct, err := deps.AccountStore.GetByEmail(ctx, sub.Email); err == nil {
		result.AccountID = acct.ID
	}

	c := coach.Coach{
		ID:          uuid.New().String(),
		AccountID:   result.AccountID,
		Email:       sub.Email,
		Phone:       sub.Phone,
		Name:        sub.Name,
		Belt:        sub.Belt,
		Specialties: sub.Specialties,
		Status:      coach.StatusActive,
	}
	if err := c.Validate(); err != nil {
		return OnboardCoachResult{}, err
	}
	if err := deps.CoachStore.Save(ctx, c); err != nil {
		return OnboardCoachResult{}, fmt.Errorf("save coach: %w", err)
	}
	result.CoachID = c.ID

	slog.Info("wizard_event", "event", "coach_onboarded", "coach_id", c.ID, "account_created", result.AccountCreated)

	return result, nil
}
