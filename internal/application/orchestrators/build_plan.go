package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"fitplan/internal/adapters/planai"
	"fitplan/internal/application/preview"
	"fitplan/internal/domain/event"
	"fitplan/internal/domain/plan"
)

// PlanSource drafts a year of recommended events for a profile. The built-in
// quarterly generator and the AI drafting service both satisfy it.
type PlanSource interface {
	BuildPlan(ctx context.Context, p plan.Profile, year int) (BuildPlanResult, error)
}

// BuildPlanResult carries a drafted plan plus presentation copy.
type BuildPlanResult struct {
	Events     []plan.RecommendedEvent
	Title      string
	Summary    string
	Highlights []string
	// LockedQuarters counts the quarters withheld from an unauthenticated
	// preview; zero for authenticated callers.
	LockedQuarters int
}

// BuildPlanInput carries input for the plan builder.
type BuildPlanInput struct {
	Profile       plan.Profile
	Year          int
	Authenticated bool
	PreviewToken  string
}

// BuildPlanDeps holds dependencies for BuildPlan.
type BuildPlanDeps struct {
	Source  PlanSource
	Preview *preview.Manager
}

var ErrIncompleteProfile = errors.New("business type and city are required")

// ExecuteBuildPlan drafts an annual plan. Unauthenticated callers get the
// first quarter only; the full plan is parked in the preview manager so it
// can be migrated after signup.
// PRE: Profile has business type and city
// POST: authenticated callers receive the full plan; unauthenticated callers
// receive Q1 with LockedQuarters=3 and the full plan stored under PreviewToken
func ExecuteBuildPlan(ctx context.Context, input BuildPlanInput, deps BuildPlanDeps) (BuildPlanResult, error) {
	if !input.Profile.IsComplete() {
		return BuildPlanResult{}, ErrIncompleteProfile
	}
	year := input.Year
	if year == 0 {
		year = time.Now().Year() + 1
	}

	result, err := deps.Source.BuildPlan(ctx, input.Profile, year)
	if err != nil {
		return BuildPlanResult{}, err
	}

	slog.Info("plan_event", "event", "plan_built", "business_type", input.Profile.BusinessType,
		"city", input.Profile.City, "year", year, "events", len(result.Events), "authenticated", input.Authenticated)

	if input.Authenticated {
		return result, nil
	}

	// Preview gate: park the full plan for migration, show Q1 only.
	if deps.Preview != nil && input.PreviewToken != "" {
		deps.Preview.StorePreviewEvents(input.PreviewToken, result.Events, preview.FormData{
			BusinessType: input.Profile.BusinessType,
			City:         input.Profile.City,
		})
	}
	result.Events = plan.InQuarter(result.Events, 1)
	result.LockedQuarters = 3
	return result, nil
}

// TemplateSource is the built-in quarterly generator as a PlanSource.
type TemplateSource struct {
	Rng *rand.Rand
}

// BuildPlan generates the quarterly plan and derives presentation copy.
func (s TemplateSource) BuildPlan(ctx context.Context, p plan.Profile, year int) (BuildPlanResult, error) {
	rng := s.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	events := plan.GenerateQuarterlyPlan(p, year, rng)

	var highlights []string
	for q := 1; q <= 4; q++ {
		if n := len(plan.InQuarter(events, q)); n > 0 {
			highlights = append(highlights, fmt.Sprintf("Q%d: %d events planned", q, n))
		}
	}

	return BuildPlanResult{
		Events:     events,
		Title:      fmt.Sprintf("Your %d Event Calendar", year),
		Summary:    fmt.Sprintf("%d events tailored to a %s in %s.", len(events), p.BusinessType, p.City),
		Highlights: highlights,
	}, nil
}

// AISource drafts plans through the external planning service.
type AISource struct {
	Generator planai.Generator
}

// BuildPlan asks the service for a month-by-month draft and flattens it into
// one recommended event per month item, anchored on the 15th of that month.
// Month items outside 1..12 are dropped.
func (s AISource) BuildPlan(ctx context.Context, p plan.Profile, year int) (BuildPlanResult, error) {
	drafted, err := s.Generator.GeneratePlan(ctx, planai.Request{
		BusinessType: p.BusinessType,
		Location:     p.City,
	})
	if err != nil {
		return BuildPlanResult{}, err
	}

	var events []plan.RecommendedEvent
	for _, m := range drafted.Months {
		if m.Month < 1 || m.Month > 12 {
			continue
		}
		mo := time.Month(m.Month)
		events = append(events, plan.RecommendedEvent{
			ID:            fmt.Sprintf("ai-%s", strings.ToLower(mo.String())),
			Name:          m.Title,
			Type:          draftedEventType(m.Category),
			Description:   m.Details,
			SuggestedDate: time.Date(year, mo, 15, 0, 0, 0, 0, time.UTC),
			Selected:      true,
		})
	}

	return BuildPlanResult{
		Events:     events,
		Title:      drafted.Title,
		Summary:    drafted.Summary,
		Highlights: drafted.Highlights,
	}, nil
}

// draftedEventType maps the service's month category to an event type.
func draftedEventType(category string) string {
	switch t := strings.ToLower(category); t {
	case event.TypeApparel, event.TypeCommunity, event.TypeHoliday, event.TypeBusiness:
		return t
	default:
		return event.TypeCustom
	}
}
