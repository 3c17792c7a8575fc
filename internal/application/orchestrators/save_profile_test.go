package orchestrators

import (
	"context"
	"errors"
	"testing"

	"fitplan/internal/domain/account"
)

// mockProfileStore is a map-backed profile store.
type mockProfileStore struct {
	profiles map[string]account.BusinessProfile
	err      error
}

func (m *mockProfileStore) SaveProfile(_ context.Context, p account.BusinessProfile) error {
	if m.err != nil {
		return m.err
	}
	m.profiles[p.AccountID] = p
	return nil
}

// TestExecuteSaveProfile_Valid tests saving and trimming.
func TestExecuteSaveProfile_Valid(t *testing.T) {
	store := &mockProfileStore{profiles: make(map[string]account.BusinessProfile)}

	p, err := ExecuteSaveProfile(context.Background(), SaveProfileInput{
		AccountID:    "acct-1",
		BusinessType: "  CrossFit Affiliate  ",
		City:         " Kansas City ",
	}, SaveProfileDeps{ProfileStore: store, Now: testNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.BusinessType != "CrossFit Affiliate" || p.City != "Kansas City" {
		t.Errorf("fields not trimmed: %+v", p)
	}
	if !p.UpdatedAt.Equal(testTime) {
		t.Errorf("UpdatedAt = %v, want %v", p.UpdatedAt, testTime)
	}
	if _, ok := store.profiles["acct-1"]; !ok {
		t.Error("profile not persisted")
	}
}

// TestExecuteSaveProfile_Guards tests the required-field guards.
func TestExecuteSaveProfile_Guards(t *testing.T) {
	store := &mockProfileStore{profiles: make(map[string]account.BusinessProfile)}

	if _, err := ExecuteSaveProfile(context.Background(), SaveProfileInput{
		BusinessType: "Yoga Studio",
	}, SaveProfileDeps{ProfileStore: store, Now: testNow}); err == nil {
		t.Error("expected error for missing account ID")
	}

	if _, err := ExecuteSaveProfile(context.Background(), SaveProfileInput{
		AccountID:    "acct-1",
		BusinessType: "   ",
	}, SaveProfileDeps{ProfileStore: store, Now: testNow}); err == nil {
		t.Error("expected error for blank business type")
	}
}

// TestExecuteSaveProfile_UnknownCityAllowed tests that city is free text.
func TestExecuteSaveProfile_UnknownCityAllowed(t *testing.T) {
	store := &mockProfileStore{profiles: make(map[string]account.BusinessProfile)}
	if _, err := ExecuteSaveProfile(context.Background(), SaveProfileInput{
		AccountID:    "acct-1",
		BusinessType: "Other",
		City:         "Topeka",
	}, SaveProfileDeps{ProfileStore: store, Now: testNow}); err != nil {
		t.Errorf("unknown city should be accepted, got %v", err)
	}
}

// TestExecuteSaveProfile_StoreFailure tests error passthrough.
func TestExecuteSaveProfile_StoreFailure(t *testing.T) {
	store := &mockProfileStore{profiles: make(map[string]account.BusinessProfile), err: errors.New("db locked")}
	if _, err := ExecuteSaveProfile(context.Background(), SaveProfileInput{
		AccountID:    "acct-1",
		BusinessType: "Other",
	}, SaveProfileDeps{ProfileStore: store, Now: testNow}); err == nil {
		t.Error("expected store error to surface")
	}
}
