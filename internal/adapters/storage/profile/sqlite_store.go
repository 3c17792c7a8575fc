package profile

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fitplan/internal/adapters/storage"
	domain "fitplan/internal/domain/account"
)

const timeFormat = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new profile store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// SaveProfile persists a business profile (insert or update).
// PRE: p.AccountID is non-empty
// POST: Profile row is persisted
func (s *SQLiteStore) SaveProfile(ctx context.Context, p domain.BusinessProfile) error {
	query := `INSERT INTO business_profile (account_id, business_type, city, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			business_type=excluded.business_type,
			city=excluded.city,
			updated_at=excluded.updated_at`
	_, err := s.db.ExecContext(ctx, query,
		p.AccountID,
		p.BusinessType,
		p.City,
		p.UpdatedAt.Format(timeFormat),
	)
	return err
}

// GetProfile retrieves the profile for an account.
// PRE: accountID is non-empty
// POST: Returns the profile or an error if not found
func (s *SQLiteStore) GetProfile(ctx context.Context, accountID string) (domain.BusinessProfile, error) {
	query := "SELECT account_id, business_type, city, updated_at FROM business_profile WHERE account_id = ?"
	row := s.db.QueryRowContext(ctx, query, accountID)

	var p domain.BusinessProfile
	var updatedAt string
	err := row.Scan(&p.AccountID, &p.BusinessType, &p.City, &updatedAt)
	if err == sql.ErrNoRows {
		return domain.BusinessProfile{}, fmt.Errorf("profile not found: %w", err)
	}
	if err != nil {
		return domain.BusinessProfile{}, err
	}
	p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return p, nil
}
