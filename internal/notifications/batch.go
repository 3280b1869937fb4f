package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anushahashmi071/CareGroup-sub003/pkg/config"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/interfaces"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/monitoring"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/types"
)

// runLocker guards against overlapping generator runs across processes
type runLocker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (bool, error)
	AdvisoryUnlock(ctx context.Context, key int64) error
}

// Generator produces appointment notifications in batch: alerts for
// appointments whose start time has passed while still scheduled, and one
// reminder per doctor per day. It never transitions appointment status.
// Idempotence rests on the structural dedup key, not on text matching, so
// re-running a window is safe.
type Generator struct {
	repository interfaces.NotificationRepository
	locker     runLocker
	config     *config.NotifierConfig
	metrics    *monitoring.MetricsCollector
	logger     *logger.Logger

	// now is injected so tests can pin the clock
	now func() time.Time
}

// NewGenerator creates a new batch notification generator
func NewGenerator(repo interfaces.NotificationRepository, locker runLocker, cfg *config.NotifierConfig, metrics *monitoring.MetricsCollector, log *logger.Logger) *Generator {
	return &Generator{
		repository: repo,
		locker:     locker,
		config:     cfg,
		metrics:    metrics,
		logger:     log,
		now:        time.Now,
	}
}

// Run executes one generator pass under the advisory run-lock. A pass that
// cannot take the lock is skipped, not queued: the holder is already doing
// the same work.
func (g *Generator) Run(ctx context.Context) error {
	acquired, err := g.locker.TryAdvisoryLock(ctx, g.config.LockKey)
	if err != nil {
		g.metrics.RecordNotifierRun("lock_error")
		return fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !acquired {
		g.metrics.RecordNotifierRun("skipped")
		g.logger.Infof("Notifier run skipped: another run holds the lock")
		return nil
	}
	defer func() {
		if err := g.locker.AdvisoryUnlock(ctx, g.config.LockKey); err != nil {
			g.logger.Errorf("Failed to release run lock: %v", err)
		}
	}()

	now := g.now()

	if err := g.generateMissedAlerts(now); err != nil {
		g.metrics.RecordNotifierRun("error")
		return err
	}

	if err := g.generateDailyReminders(now); err != nil {
		g.metrics.RecordNotifierRun("error")
		return err
	}

	g.metrics.RecordNotifierRun("success")
	return nil
}

// generateMissedAlerts notifies doctors about today's appointments whose
// start time has passed while the row is still scheduled. One alert per
// appointment per day.
func (g *Generator) generateMissedAlerts(now time.Time) error {
	day := now.Format(types.DateLayout)
	cutoff := now.Format(types.TimeLayout)

	overdue, err := g.repository.OverdueScheduledAppointments(day, cutoff)
	if err != nil {
		return fmt.Errorf("failed to select overdue appointments: %w", err)
	}

	for _, apt := range overdue {
		n := &types.Notification{
			ID:       uuid.New().String(),
			UserID:   apt.DoctorID,
			UserType: types.UserTypeDoctor,
			Type:     types.NotificationAlert,
			Title:    "Missed Appointment",
			Message: fmt.Sprintf("Appointment with %s scheduled for %s at %s was not attended.",
				apt.PatientName, apt.Date, apt.Time),
			RelatedID: apt.AppointmentID,
			Status:    types.NotificationUnread,
			DedupKey:  dedupKey(types.NotificationAlert, apt.AppointmentID, day),
			CreatedAt: now,
		}

		inserted, err := g.repository.InsertNotification(n)
		if err != nil {
			return fmt.Errorf("failed to insert missed-appointment alert: %w", err)
		}
		if inserted {
			g.metrics.RecordNotificationGenerated(types.NotificationAlert)
			g.logger.Infof("Generated missed-appointment alert for appointment %s", apt.AppointmentID)
		}
	}

	return nil
}

// generateDailyReminders emits one reminder per doctor per calendar day,
// but only while the clock sits inside the morning reminder window. The
// window keeps the feed from collecting a reminder on every run; the dedup
// key keeps repeated runs inside the window from duplicating it.
func (g *Generator) generateDailyReminders(now time.Time) error {
	if !g.inReminderWindow(now) {
		return nil
	}

	day := now.Format(types.DateLayout)
	doctorIDs, err := g.repository.DoctorsWithAppointmentsOn(day)
	if err != nil {
		return fmt.Errorf("failed to select doctors for reminders: %w", err)
	}

	for _, doctorID := range doctorIDs {
		n := &types.Notification{
			ID:        uuid.New().String(),
			UserID:    doctorID,
			UserType:  types.UserTypeDoctor,
			Type:      types.NotificationReminder,
			Title:     "Today's Appointments",
			Message:   fmt.Sprintf("You have scheduled appointments today, %s. Review your schedule.", day),
			Status:    types.NotificationUnread,
			DedupKey:  dedupKey(types.NotificationReminder, "", day),
			CreatedAt: now,
		}

		inserted, err := g.repository.InsertNotification(n)
		if err != nil {
			return fmt.Errorf("failed to insert daily reminder: %w", err)
		}
		if inserted {
			g.metrics.RecordNotificationGenerated(types.NotificationReminder)
			g.logger.Infof("Generated daily reminder for doctor %s", doctorID)
		}
	}

	return nil
}

// inReminderWindow reports whether the clock sits inside the configured
// morning window, [reminder_hour:00, reminder_hour:00 + window_minutes)
func (g *Generator) inReminderWindow(now time.Time) bool {
	anchor := time.Date(now.Year(), now.Month(), now.Day(), g.config.ReminderHour, 0, 0, 0, now.Location())
	end := anchor.Add(time.Duration(g.config.WindowMinutes) * time.Minute)
	return !now.Before(anchor) && now.Before(end)
}

// dedupKey builds the structural dedup key scoping a notification to one
// (type, related entity, calendar day) triple
func dedupKey(notificationType, relatedID, day string) string {
	return fmt.Sprintf("%s:%s:%s", notificationType, relatedID, day)
}
