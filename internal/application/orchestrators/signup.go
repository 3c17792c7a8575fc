package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	emailAdapter "fitplan/internal/adapters/email"
	"fitplan/internal/domain/account"
)

// AccountStoreForSignup defines the store interface needed by Signup.
type AccountStoreForSignup interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	SaveActivationToken(ctx context.Context, token account.ActivationToken) error
}

// SignupInput carries input for the signup orchestrator.
type SignupInput struct {
	Email    string
	Password string
}

// SignupDeps holds dependencies for Signup.
type SignupDeps struct {
	AccountStore  AccountStoreForSignup
	EmailSender   emailAdapter.Sender
	GenerateID    func() string
	GenerateToken func() string
	Now           func() time.Time
	BaseURL       string
	FromAddress   string
}

var ErrEmailAlreadyExists = errors.New("an account with this email already exists")

// ExecuteSignup creates a pending account and sends the activation email.
// PRE: Valid email, password >= 12 chars
// POST: Account saved with status pending_activation and a 24h activation token
// INVARIANT: Email must be unique
func ExecuteSignup(ctx context.Context, input SignupInput, deps SignupDeps) (string, error) {
	if input.Email == "" {
		return "", errors.New("email cannot be empty")
	}
	if input.Password == "" {
		return "", errors.New("password cannot be empty")
	}

	// Check if email already exists
	_, err := deps.AccountStore.GetByEmail(ctx, input.Email)
	if err == nil {
		return "", ErrEmailAlreadyExists
	}

	now := deps.Now()
	acct := account.Account{
		ID:        deps.GenerateID(),
		Email:     input.Email,
		Role:      account.RoleOwner,
		Status:    account.StatusPendingActivation,
		CreatedAt: now,
	}

	// Validate domain rules
	if err := acct.Validate(); err != nil {
		return "", err
	}

	// Set password (handles hashing and length validation)
	if err := acct.SetPassword(input.Password); err != nil {
		return "", err
	}

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return "", err
	}

	tok := account.ActivationToken{
		ID:        deps.GenerateID(),
		AccountID: acct.ID,
		Token:     deps.GenerateToken(),
		ExpiresAt: now.Add(24 * time.Hour),
		CreatedAt: now,
	}
	if err := deps.AccountStore.SaveActivationToken(ctx, tok); err != nil {
		return "", err
	}

	// Activation email failure is non-fatal — the link can be resent.
	if deps.EmailSender != nil {
		link := fmt.Sprintf("%s/activate?token=%s", deps.BaseURL, tok.Token)
		_, sendErr := deps.EmailSender.Send(ctx, emailAdapter.SendRequest{
			To:      []string{acct.Email},
			From:    deps.FromAddress,
			Subject: "Activate your event planner account",
			HTML: fmt.Sprintf(
				"<p>Welcome! Confirm your email to start planning your year of events.</p><p><a href=\"%s\">Activate account</a></p><p>This link expires in 24 hours.</p>",
				link),
		})
		if sendErr != nil {
			slog.Warn("auth_event", "event", "activation_email_failed", "email", acct.Email, "error", sendErr)
		}
	}

	slog.Info("auth_event", "event", "account_created", "email", input.Email, "role", acct.Role)
	return acct.ID, nil
}
