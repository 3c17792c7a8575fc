package suggestion

import (
	"time"

	"fitplan/internal/domain/template"
)

// Priority constants, ordered high to low.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// priorityWeight ranks priorities for sorting; unknown values sink to 0.
var priorityWeight = map[string]int{
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

// Suggestion is one locally-flavored event recommendation with a generated
// milestone template attached.
type Suggestion struct {
	ID            string
	Title         string
	Description   string
	Type          string
	SuggestedDate time.Time
	LeadTimeWeeks int
	LocalContext  string
	Template      template.Template
	Priority      string
}

// preferences maps a business type to its preference tags. Unmapped types
// fall back to the "Other" entry: the lookup is a total function.
var preferences = map[string][]string{
	"CrossFit Affiliate":          {"competitive", "challenge", "community", "strength"},
	"Yoga Studio":                 {"mindfulness", "wellness", "spiritual", "community"},
	"Martial Arts Academy":        {"discipline", "competition", "tradition", "community"},
	"Pilates Studio":              {"precision", "wellness", "rehabilitation", "community"},
	"Strength & Conditioning Gym": {"performance", "athletic", "competition", "strength"},
	"Other":                       {"fitness", "community", "health", "wellness"},
}

// Preferences returns the preference tags for a business type, falling back
// to the generic fitness tags for unmapped types.
func Preferences(businessType string) []string {
	if tags, ok := preferences[businessType]; ok {
		return tags
	}
	return preferences["Other"]
}

func hasPreference(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}
