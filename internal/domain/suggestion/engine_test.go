package suggestion_test

import (
	"testing"
	"time"

	"fitplan/internal/domain/event"
	"fitplan/internal/domain/suggestion"
)

// earlyJanuary puts every seasonal date in the future.
var earlyJanuary = time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

// TestGenerateSuggestions_UnknownCity tests that an unmapped city yields
// nothing regardless of business type.
func TestGenerateSuggestions_UnknownCity(t *testing.T) {
	for _, businessType := range []string{"CrossFit Affiliate", "Yoga Studio", "Other", "Unmapped Type"} {
		if got := suggestion.GenerateSuggestions(businessType, "Topeka", earlyJanuary); len(got) != 0 {
			t.Errorf("expected no suggestions for Topeka/%s, got %d", businessType, len(got))
		}
	}
}

// TestGenerateSuggestions_EmptyInput tests the empty-input guard.
func TestGenerateSuggestions_EmptyInput(t *testing.T) {
	if got := suggestion.GenerateSuggestions("", "Boston", earlyJanuary); got != nil {
		t.Errorf("expected nil for empty business type, got %v", got)
	}
	if got := suggestion.GenerateSuggestions("Yoga Studio", "", earlyJanuary); got != nil {
		t.Errorf("expected nil for empty city, got %v", got)
	}
}

// TestGenerateSuggestions_CapAndFuture tests the six-item cap and the strict
// future filter.
func TestGenerateSuggestions_CapAndFuture(t *testing.T) {
	got := suggestion.GenerateSuggestions("CrossFit Affiliate", "Boston", earlyJanuary)
	if len(got) > suggestion.MaxSuggestions {
		t.Fatalf("got %d suggestions, cap is %d", len(got), suggestion.MaxSuggestions)
	}
	for _, s := range got {
		if !s.SuggestedDate.After(earlyJanuary) {
			t.Errorf("suggestion %s dated %v is not in the future", s.ID, s.SuggestedDate)
		}
	}

	// Boston has 4 teams: team apparel suggestions alone hit the cap for a
	// community-preferenced type, so the list must be exactly 6.
	if len(got) != 6 {
		t.Fatalf("expected exactly 6 suggestions, got %d", len(got))
	}
}

// TestGenerateSuggestions_PrioritySort tests priority-descending stable order.
func TestGenerateSuggestions_PrioritySort(t *testing.T) {
	got := suggestion.GenerateSuggestions("CrossFit Affiliate", "Kansas City", earlyJanuary)
	if len(got) == 0 {
		t.Fatal("expected suggestions for Kansas City")
	}

	weight := map[string]int{suggestion.PriorityHigh: 3, suggestion.PriorityMedium: 2, suggestion.PriorityLow: 1}
	for i := 1; i < len(got); i++ {
		if weight[got[i].Priority] > weight[got[i-1].Priority] {
			t.Fatalf("priority order violated at %d: %s after %s", i, got[i].Priority, got[i-1].Priority)
		}
	}

	// Apparel (high) must precede everything else; the three KC teams all
	// qualify for a community-preferenced business type.
	var apparel int
	for _, s := range got {
		if s.Type == event.TypeApparel {
			apparel++
		}
	}
	if apparel != 3 {
		t.Errorf("expected 3 team apparel suggestions, got %d", apparel)
	}
	for i := 0; i < apparel; i++ {
		if got[i].Type != event.TypeApparel {
			t.Errorf("position %d: expected apparel (high priority) first, got %s", i, got[i].Type)
		}
	}
}

// TestGenerateSuggestions_MarathonNeedsAthletic tests the marathon/preference
// pairing: Boston's marathon only surfaces for athletic-preferenced types.
func TestGenerateSuggestions_MarathonNeedsAthletic(t *testing.T) {
	// Strength & Conditioning prefs include "athletic" but not "community":
	// no team apparel, so the marathon suggestion survives the cap.
	got := suggestion.GenerateSuggestions("Strength & Conditioning Gym", "Boston", earlyJanuary)
	var marathon bool
	for _, s := range got {
		if s.ID == "community-boston-marathon" {
			marathon = true
			if s.Priority != suggestion.PriorityMedium {
				t.Errorf("marathon suggestion priority = %s, want medium", s.Priority)
			}
			if len(s.Template.Milestones) != 4 {
				t.Errorf("marathon template has %d milestone defs, want 4", len(s.Template.Milestones))
			}
		}
		if s.Type == event.TypeApparel {
			t.Errorf("unexpected apparel suggestion %s for a non-community type", s.ID)
		}
	}
	if !marathon {
		t.Error("expected a Boston Marathon community suggestion")
	}

	// Yoga Studio prefs lack "athletic": marathons never match, and its
	// community tag yields apparel instead.
	got = suggestion.GenerateSuggestions("Yoga Studio", "Boston", earlyJanuary)
	for _, s := range got {
		if s.ID == "community-boston-marathon" {
			t.Error("marathon suggestion surfaced without an athletic preference")
		}
	}
}

// TestGenerateSuggestions_SeasonalChallenges tests the unconditional business
// challenges and their 3-step template.
func TestGenerateSuggestions_SeasonalChallenges(t *testing.T) {
	// Unmapped business type falls back to generic tags (community present),
	// unmapped-but-known city keeps the engine running.
	got := suggestion.GenerateSuggestions("Bootcamp", "Denver", earlyJanuary)
	var challenges int
	for _, s := range got {
		if s.Type == event.TypeBusiness {
			challenges++
			if len(s.Template.Milestones) != 3 {
				t.Errorf("challenge %s template has %d defs, want 3", s.ID, len(s.Template.Milestones))
			}
			if s.LeadTimeWeeks != 3 {
				t.Errorf("challenge %s lead time = %d weeks, want 3", s.ID, s.LeadTimeWeeks)
			}
		}
	}
	if challenges == 0 {
		t.Error("expected at least one seasonal business challenge")
	}
}

// TestGenerateSuggestions_LateYearFilter tests that past seasonal dates drop
// out late in the year.
func TestGenerateSuggestions_LateYearFilter(t *testing.T) {
	lateNovember := time.Date(2026, 11, 25, 0, 0, 0, 0, time.UTC)
	got := suggestion.GenerateSuggestions("CrossFit Affiliate", "Boston", lateNovember)
	for _, s := range got {
		if !s.SuggestedDate.After(lateNovember) {
			t.Errorf("suggestion %s dated %v not strictly after now", s.ID, s.SuggestedDate)
		}
		// Only winter-anchored dates (Dec 21) remain in the current year.
		if s.SuggestedDate.Month() != time.December {
			t.Errorf("suggestion %s in %s, expected December only", s.ID, s.SuggestedDate.Month())
		}
	}
}
