package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"adjja/internal/domain/account"
)

// AccountStoreForActivate defines the store interface needed by activation.
type AccountStoreForActivate interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	GetActivationTokenByToken(ctx context.Context, token string) (account.ActivationToken, error)
	InvalidateTokensForAccount(ctx context.Context, accountID string) error
}

// ActivateAccountInput carries input for the orchestrator.
type ActivateAccountInput struct {
	Token    string
	Password string
}

// ActivateAccountDeps holds dependencies for ActivateAccount.
type ActivateAccountDeps struct {
	AccountStore AccountStoreForActivate
}

// ExecuteActivateAccount redeems an activation token: the invitee sets
// their password and the account transitions from pending to active.
// PRE: Token was issued by ExecuteInviteAccount
// POST: Account is active with the chosen password; all tokens for the
// account are invalidated
// INVARIANT: A used or expired token never activates anything
func ExecuteActivateAccount(ctx context.Context, input ActivateAccountInput, deps ActivateAccountDeps) (string, error) {
	if input.Token == "" {
		return "", account.ErrTokenInvalid
	}

	token, err := deps.AccountStore.GetActivationTokenByToken(ctx, input.Token)
	if err != nil {
		return "", account.ErrTokenInvalid
	}
	if token.Used {
		return "", account.ErrTokenInvalid
	}
	if token.IsExpired(time.Now()) {
		return "", account.ErrTokenExpired
	}

	acct, err := deps.AccountStore.GetByID(ctx, token.AccountID)
	if err != nil {
		return "", account.ErrTokenInvalid
	}
	if err := acct.Activate(); err != nil {
		return "", err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return "", err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return "", err
	}
	if err := deps.AccountStore.InvalidateTokensForAccount(ctx, acct.ID); err != nil {
		slog.Warn("auth_event", "event", "token_invalidate_failed", "account_id", acct.ID, "error", err.Error())
	}

	slog.Info("auth_event", "event", "account_activated", "email", acct.Email)

	return acct.ID, nil
}
