package service

import (
	"context"
	"time"
)

// JobHandle describes a pending reminder job.
type JobHandle struct {
	AppointmentID string    `json:"appointmentId"`
	FireAt        time.Time `json:"fireAt"`
}

// SchedulerService defines the interface for the in-memory reminder registry.
type SchedulerService interface {
	// ScheduleReminder registers a reminder for the appointment, replacing any earlier one.
	ScheduleReminder(ctx context.Context, appointmentID string, startsAt time.Time) (JobHandle, error)
	// CancelReminder removes the pending reminder. It reports whether one was pending.
	CancelReminder(ctx context.Context, appointmentID string) bool
	// Count returns the number of pending reminders.
	Count() int
	// List returns the pending reminders ordered by fire time.
	List() []JobHandle
	// SetReminderHandler sets the function run when a reminder fires.
	SetReminderHandler(handler func(ctx context.Context, appointmentID string) error)
	// Stop stops the underlying runner. Pending reminders are dropped.
	Stop()
}
