package browser_test

import (
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"
)

// TestPlanBuilder_AnonymousPreview drives the landing page as a first-time
// visitor: fill the form, build a plan, and see the Q1 preview with the
// locked-quarters banner.
func TestPlanBuilder_AnonymousPreview(t *testing.T) {
	app := newTestApp(t)
	page := app.newPage(t)

	if _, err := page.Goto(app.BaseURL+"/", playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		t.Fatalf("failed to load landing page: %v", err)
	}

	title, err := page.Title()
	if err != nil || !strings.Contains(title, "FitPlan") {
		t.Fatalf("unexpected page title %q (err=%v)", title, err)
	}

	if _, err := page.Locator("#businessType").SelectOption(playwright.SelectOptionValues{
		Values: &[]string{"CrossFit Affiliate"},
	}); err != nil {
		t.Fatalf("failed to select business type: %v", err)
	}
	if err := page.Locator("#city").Fill("Kansas City"); err != nil {
		t.Fatalf("failed to fill city: %v", err)
	}
	if err := page.Locator("#year").Fill("2027"); err != nil {
		t.Fatalf("failed to fill year: %v", err)
	}
	if err := page.Locator("#buildBtn").Click(); err != nil {
		t.Fatalf("failed to click build: %v", err)
	}

	banner := page.Locator("#lockedBanner")
	if err := banner.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("locked banner never appeared: %v", err)
	}

	lockedCount, err := page.Locator("#lockedCount").TextContent()
	if err != nil || lockedCount != "3" {
		t.Errorf("locked count = %q, want 3 (err=%v)", lockedCount, err)
	}

	cards := page.Locator(".event-card")
	count, err := cards.Count()
	if err != nil {
		t.Fatalf("failed to count event cards: %v", err)
	}
	if count == 0 {
		t.Error("expected at least one Q1 event card in the preview")
	}

	// Every card in the anonymous preview is a Q1 event.
	for i := 0; i < count; i++ {
		meta, err := cards.Nth(i).Locator(".event-meta").TextContent()
		if err != nil {
			t.Fatalf("failed to read card meta: %v", err)
		}
		if !strings.Contains(meta, "Q1") {
			t.Errorf("card %d shows %q, want a Q1 event", i, meta)
		}
	}
}
