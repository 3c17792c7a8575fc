package profile

import (
	"context"

	domain "fitplan/internal/domain/account"
)

// Store persists per-account business profiles.
type Store interface {
	SaveProfile(ctx context.Context, p domain.BusinessProfile) error
	GetProfile(ctx context.Context, accountID string) (domain.BusinessProfile, error)
}
