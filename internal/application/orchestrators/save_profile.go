package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"fitplan/internal/domain/account"
)

// ProfileStoreForSave defines the store interface needed by SaveProfile.
type ProfileStoreForSave interface {
	SaveProfile(ctx context.Context, p account.BusinessProfile) error
}

// SaveProfileInput carries input for the profile orchestrator.
type SaveProfileInput struct {
	AccountID    string
	BusinessType string
	City         string
}

// SaveProfileDeps holds dependencies for SaveProfile.
type SaveProfileDeps struct {
	ProfileStore ProfileStoreForSave
	Now          func() time.Time
}

// ExecuteSaveProfile stores the business profile used to seed plan generation.
// City is free text — unknown cities simply produce no local suggestions.
// PRE: AccountID is an authenticated account
// POST: profile saved with UpdatedAt set
func ExecuteSaveProfile(ctx context.Context, input SaveProfileInput, deps SaveProfileDeps) (account.BusinessProfile, error) {
	if input.AccountID == "" {
		return account.BusinessProfile{}, errors.New("account ID is required")
	}
	if strings.TrimSpace(input.BusinessType) == "" {
		return account.BusinessProfile{}, errors.New("business type is required")
	}

	p := account.BusinessProfile{
		AccountID:    input.AccountID,
		BusinessType: strings.TrimSpace(input.BusinessType),
		City:         strings.TrimSpace(input.City),
		UpdatedAt:    deps.Now(),
	}
	if err := deps.ProfileStore.SaveProfile(ctx, p); err != nil {
		return account.BusinessProfile{}, err
	}

	slog.Info("profile_event", "event", "profile_saved", "account_id", input.AccountID, "business_type", p.BusinessType, "city", p.City)
	return p, nil
}
