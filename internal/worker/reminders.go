package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	emailAdapter "fitplan/internal/adapters/email"
	"fitplan/internal/application/orchestrators"
)

// ReminderScheduler runs the milestone reminder digest on a cron schedule.
type ReminderScheduler struct {
	cron *cron.Cron
	deps orchestrators.MilestoneRemindersDeps
	spec string
}

// ReminderConfig holds the schedule and email settings for the reminder job.
type ReminderConfig struct {
	// Spec is a standard 5-field cron expression, e.g. "0 8 * * *".
	Spec        string
	WindowDays  int
	FromAddress string
}

// NewReminderScheduler builds a scheduler for the milestone digest job.
// PRE: stores and sender are non-nil
// POST: Scheduler is ready; Start must be called to begin running
func NewReminderScheduler(
	planStore orchestrators.PlanStoreForReminders,
	accountStore orchestrators.AccountStoreForReminders,
	sender emailAdapter.Sender,
	cfg ReminderConfig,
) *ReminderScheduler {
	spec := cfg.Spec
	if spec == "" {
		spec = "0 8 * * *"
	}
	return &ReminderScheduler{
		cron: cron.New(),
		spec: spec,
		deps: orchestrators.MilestoneRemindersDeps{
			PlanStore:    planStore,
			AccountStore: accountStore,
			EmailSender:  sender,
			Now:          time.Now,
			WindowDays:   cfg.WindowDays,
			FromAddress:  cfg.FromAddress,
		},
	}
}

// Start registers the job and begins the cron loop in its own goroutine.
// POST: Returns an error only if the cron spec is invalid
func (s *ReminderScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.runOnce)
	if err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("reminder_event", "event", "scheduler_started", "spec", s.spec, "window_days", s.deps.WindowDays)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *ReminderScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("reminder_event", "event", "scheduler_stopped")
}

// RunNow triggers a single digest pass outside the schedule (used by the
// -remind-now flag and by tests).
func (s *ReminderScheduler) RunNow(ctx context.Context) (int, error) {
	return orchestrators.ExecuteMilestoneReminders(ctx, s.deps)
}

func (s *ReminderScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sent, err := orchestrators.ExecuteMilestoneReminders(ctx, s.deps)
	if err != nil {
		slog.Error("reminder_event", "event", "digest_failed", "error", err.Error())
		return
	}
	slog.Info("reminder_event", "event", "digest_complete", "emails_sent", sent)
}
