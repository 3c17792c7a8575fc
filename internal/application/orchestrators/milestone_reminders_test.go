package orchestrators

import (
	"context"
	"strings"
	"testing"

	"fitplan/internal/domain/account"
	"fitplan/internal/domain/event"
)

// TestExecuteMilestoneReminders_Digest tests one digest per account with due
// open milestones.
func TestExecuteMilestoneReminders_Digest(t *testing.T) {
	planStore := newMockPlanStore()
	accountStore := newMockAccountStore()
	sender := &mockSender{}

	accountStore.accounts["acct-1"] = account.Account{ID: "acct-1", Email: "one@gym.example.com"}
	accountStore.accounts["acct-2"] = account.Account{ID: "acct-2", Email: "two@gym.example.com"}

	planStore.events["ev-1"] = event.Event{ID: "ev-1", AccountID: "acct-1", Name: "Apparel Launch"}
	planStore.events["ev-2"] = event.Event{ID: "ev-2", AccountID: "acct-2", Name: "Summer BBQ"}

	due := testTime.AddDate(0, 0, 3)
	planStore.milestones["m1"] = event.Milestone{ID: "m1", EventID: "ev-1", Name: "Pre-order Campaign",
		AbsoluteDate: due, Status: event.MilestoneOpen}
	planStore.milestones["m2"] = event.Milestone{ID: "m2", EventID: "ev-1", Name: "Product Launch",
		AbsoluteDate: due.AddDate(0, 0, 2), Status: event.MilestoneOpen}
	planStore.milestones["m3"] = event.Milestone{ID: "m3", EventID: "ev-2", Name: "Member Outreach",
		AbsoluteDate: due, Status: event.MilestoneOpen}
	// Done and out-of-window milestones are excluded.
	planStore.milestones["m4"] = event.Milestone{ID: "m4", EventID: "ev-1", Name: "Design and Mockups",
		AbsoluteDate: due, Status: event.MilestoneDone}
	planStore.milestones["m5"] = event.Milestone{ID: "m5", EventID: "ev-2", Name: "Event Execution",
		AbsoluteDate: testTime.AddDate(0, 0, 30), Status: event.MilestoneOpen}

	sent, err := ExecuteMilestoneReminders(context.Background(), MilestoneRemindersDeps{
		PlanStore:    planStore,
		AccountStore: accountStore,
		EmailSender:  sender,
		Now:          testNow,
		WindowDays:   7,
		FromAddress:  "Planner <noreply@planner.example.com>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 2 {
		t.Errorf("sent digests to %d accounts, want 2", sent)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(sender.sent))
	}

	for _, req := range sender.sent {
		body := req.HTML
		switch req.To[0] {
		case "one@gym.example.com":
			if !strings.Contains(body, "Pre-order Campaign") || !strings.Contains(body, "Product Launch") {
				t.Errorf("acct-1 digest missing milestones: %s", body)
			}
			if strings.Contains(body, "Design and Mockups") {
				t.Error("done milestone leaked into digest")
			}
		case "two@gym.example.com":
			if !strings.Contains(body, "Member Outreach") {
				t.Errorf("acct-2 digest missing milestone: %s", body)
			}
			if strings.Contains(body, "Event Execution") {
				t.Error("out-of-window milestone leaked into digest")
			}
		default:
			t.Errorf("unexpected recipient %s", req.To[0])
		}
	}
}

// TestExecuteMilestoneReminders_NothingDue tests the quiet path.
func TestExecuteMilestoneReminders_NothingDue(t *testing.T) {
	sender := &mockSender{}
	sent, err := ExecuteMilestoneReminders(context.Background(), MilestoneRemindersDeps{
		PlanStore:    newMockPlanStore(),
		AccountStore: newMockAccountStore(),
		EmailSender:  sender,
		Now:          testNow,
		WindowDays:   7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 0 || len(sender.sent) != 0 {
		t.Errorf("expected no digests, got %d sent", len(sender.sent))
	}
}
