package orchestrators

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"adjja/internal/domain/account"

	"github.com/google/uuid"
)

// ActivationTokenTTL is how long an invitation link stays valid.
const ActivationTokenTTL = 72 * time.Hour

// AccountStoreForInvite defines the store interface needed by invitations.
type AccountStoreForInvite interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	SaveActivationToken(ctx context.Context, token account.ActivationToken) error
}

// InviteAccountInput carries input for the orchestrator.
type InviteAccountInput struct {
	Email       string
	DisplayName string
	Phone       string
	Role        string
}

// InviteAccountDeps holds dependencies for InviteAccount.
type InviteAccountDeps struct {
	AccountStore AccountStoreForInvite
}

// InviteAccountResult carries the created account and its activation token.
type InviteAccountResult struct {
	AccountID string
	Token     string
}

// ExecuteInviteAccount creates a pending account and an activation token.
// The invitee chooses their own password through the activation link, so no
// password is set here and login is blocked until activation completes.
// PRE: Valid email and role
// POST: Account saved with pending_activation status; token valid for ActivationTokenTTL
// INVARIANT: Email must be unique — the store's constraint is the final gate
func ExecuteInviteAccount(ctx context.Context, input InviteAccountInput, deps InviteAccountDeps) (InviteAccountResult, error) {
	if input.Email == "" {
		return InviteAccountResult{}, errors.New("email cannot be empty")
	}
	if input.Role == "" {
		return InviteAccountResult{}, errors.New("role cannot be empty")
	}

	// Advisory duplicate check; the unique index still backs it up
	_, err := deps.AccountStore.GetByEmail(ctx, input.Email)
	if err == nil {
		return InviteAccountResult{}, ErrEmailAlreadyExists
	}

	acct := account.Account{
		ID:          uuid.New().String(),
		Email:       input.Email,
		DisplayName: input.DisplayName,
		Phone:       input.Phone,
		Role:        input.Role,
		Status:      account.StatusPendingActivation,
		CreatedAt:   time.Now(),
	}
	if err := acct.Validate(); err != nil {
		return InviteAccountResult{}, err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return InviteAccountResult{}, err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return InviteAccountResult{}, err
	}
	token := account.ActivationToken{
		ID:        uuid.New().String(),
		AccountID: acct.ID,
		Token:     hex.EncodeToString(raw),
		ExpiresAt: time.Now().Add(ActivationTokenTTL),
		CreatedAt: time.Now(),
	}
	if err := deps.AccountStore.SaveActivationToken(ctx, token); err != nil {
		return InviteAccountResult{}, err
	}

	slog.Info("auth_event", "event", "account_invited", "email", input.Email, "role", input.Role)

	return InviteAccountResult{AccountID: acct.ID, Token: token.Token}, nil
}
