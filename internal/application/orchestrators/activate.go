package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"fitplan/internal/domain/account"
)

// AccountStoreForActivate defines the store interface needed by Activate.
type AccountStoreForActivate interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	GetActivationTokenByToken(ctx context.Context, token string) (account.ActivationToken, error)
	SaveActivationToken(ctx context.Context, token account.ActivationToken) error
}

// ActivateInput carries input for the activation orchestrator.
type ActivateInput struct {
	Token string
}

// ActivateResult carries the activated account info for session creation.
type ActivateResult struct {
	AccountID string
	Email     string
	Role      string
}

// ActivateDeps holds dependencies for Activate.
type ActivateDeps struct {
	AccountStore AccountStoreForActivate
	Now          func() time.Time
}

// ExecuteActivate redeems an activation token and activates the account.
// PRE: Token was issued by signup and is unused and unexpired
// POST: Account status is active; token is marked used
func ExecuteActivate(ctx context.Context, input ActivateInput, deps ActivateDeps) (ActivateResult, error) {
	if input.Token == "" {
		return ActivateResult{}, account.ErrTokenInvalid
	}

	tok, err := deps.AccountStore.GetActivationTokenByToken(ctx, input.Token)
	if err != nil {
		return ActivateResult{}, account.ErrTokenInvalid
	}
	if tok.Used {
		return ActivateResult{}, account.ErrTokenInvalid
	}
	if tok.IsExpired(deps.Now()) {
		return ActivateResult{}, account.ErrTokenExpired
	}

	acct, err := deps.AccountStore.GetByID(ctx, tok.AccountID)
	if err != nil {
		return ActivateResult{}, err
	}
	if err := acct.Activate(); err != nil {
		return ActivateResult{}, err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return ActivateResult{}, err
	}

	tok.Invalidate()
	if err := deps.AccountStore.SaveActivationToken(ctx, tok); err != nil {
		return ActivateResult{}, err
	}

	slog.Info("auth_event", "event", "account_activated", "account_id", acct.ID, "email", acct.Email)

	return ActivateResult{
		AccountID: acct.ID,
		Email:     acct.Email,
		Role:      acct.Role,
	}, nil
}
