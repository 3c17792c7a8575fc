package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	emailAdapter "fitplan/internal/adapters/email"
	"fitplan/internal/domain/account"
	"fitplan/internal/domain/event"
)

// PlanStoreForReminders defines the store interface needed by the reminder job.
type PlanStoreForReminders interface {
	GetMilestonesDueBetween(ctx context.Context, from, to time.Time) ([]event.Milestone, error)
	GetEventByID(ctx context.Context, id string) (event.Event, error)
}

// AccountStoreForReminders defines the account lookup needed by the reminder job.
type AccountStoreForReminders interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
}

// MilestoneRemindersDeps holds dependencies for the reminder job.
type MilestoneRemindersDeps struct {
	PlanStore    PlanStoreForReminders
	AccountStore AccountStoreForReminders
	EmailSender  emailAdapter.Sender
	Now          func() time.Time
	WindowDays   int
	FromAddress  string
}

// dueMilestone pairs a milestone with its parent event for the digest.
type dueMilestone struct {
	milestone event.Milestone
	event     event.Event
}

// ExecuteMilestoneReminders emails each account a digest of open milestones
// due within the reminder window. Run on a schedule.
// POST: one email per account with due work; accounts with none get nothing
func ExecuteMilestoneReminders(ctx context.Context, deps MilestoneRemindersDeps) (int, error) {
	now := deps.Now()
	window := deps.WindowDays
	if window <= 0 {
		window = 7
	}

	milestones, err := deps.PlanStore.GetMilestonesDueBetween(ctx, now, now.AddDate(0, 0, window))
	if err != nil {
		return 0, err
	}

	byAccount := make(map[string][]dueMilestone)
	for _, m := range milestones {
		if m.Status != event.MilestoneOpen {
			continue
		}
		ev, err := deps.PlanStore.GetEventByID(ctx, m.EventID)
		if err != nil {
			slog.Warn("reminder_event", "event", "orphan_milestone", "milestone_id", m.ID, "error", err)
			continue
		}
		byAccount[ev.AccountID] = append(byAccount[ev.AccountID], dueMilestone{milestone: m, event: ev})
	}

	sent := 0
	for accountID, due := range byAccount {
		acct, err := deps.AccountStore.GetByID(ctx, accountID)
		if err != nil {
			slog.Warn("reminder_event", "event", "account_lookup_failed", "account_id", accountID, "error", err)
			continue
		}

		var b strings.Builder
		b.WriteString("<p>Upcoming event milestones:</p><ul>")
		for _, d := range due {
			fmt.Fprintf(&b, "<li><strong>%s</strong> — %s, due %s</li>",
				d.event.Name, d.milestone.Name, d.milestone.AbsoluteDate.Format("Mon Jan 2"))
		}
		b.WriteString("</ul>")

		_, err = deps.EmailSender.Send(ctx, emailAdapter.SendRequest{
			To:      []string{acct.Email},
			From:    deps.FromAddress,
			Subject: fmt.Sprintf("%d milestones due in the next %d days", len(due), window),
			HTML:    b.String(),
		})
		if err != nil {
			slog.Warn("reminder_event", "event", "reminder_send_failed", "account_id", accountID, "error", err)
			continue
		}
		sent++
	}

	slog.Info("reminder_event", "event", "reminders_sent", "accounts", sent, "milestones", len(milestones))
	return sent, nil
}
