package service

import (
	appErrors "barberbook/internal/pkg/errors"
	"barberbook/internal/pkg/logger"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	// DefaultReminderLead is how long before the appointment the reminder fires.
	DefaultReminderLead = 60 * time.Minute
	// DefaultReminderMinDelay is used when the lead time has already passed.
	DefaultReminderMinDelay = 30 * time.Second

	reminderHandlerTimeout = 30 * time.Second
)

// JobRunner fires a function once at a given time.
type JobRunner interface {
	AddOnce(at time.Time, cmd func()) (cron.EntryID, error)
	RemoveJob(id cron.EntryID)
	Stop()
}

type job struct {
	appointmentID string
	fireAt        time.Time
	entryID       cron.EntryID
}

type schedulerService struct {
	runner   JobRunner
	leadTime time.Duration
	minDelay time.Duration
	now      func() time.Time
	log      logger.Logger

	handleReminderFunc func(ctx context.Context, appointmentID string) error

	jobs map[string]*job // keyed by appointment id
	mu   sync.Mutex      // Protect jobs and handleReminderFunc
}

// NewSchedulerService creates a new instance of SchedulerService implementation.
// Note: the reminder handler is set later via SetReminderHandler to avoid circular deps.
func NewSchedulerService(runner JobRunner, leadTime, minDelay time.Duration, log logger.Logger) SchedulerService {
	if leadTime <= 0 {
		leadTime = DefaultReminderLead
	}
	if minDelay <= 0 {
		minDelay = DefaultReminderMinDelay
	}
	return &schedulerService{
		runner:   runner,
		leadTime: leadTime,
		minDelay: minDelay,
		now:      time.Now,
		log:      log,
		jobs:     make(map[string]*job),
	}
}

// SetReminderHandler sets the function to be called when a reminder job runs.
func (s *schedulerService) SetReminderHandler(handler func(ctx context.Context, appointmentID string) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handleReminderFunc = handler
}

// fireTime is startsAt minus the lead time, or now plus the minimum delay
// when that moment has already passed.
func (s *schedulerService) fireTime(startsAt time.Time) time.Time {
	now := s.now()
	fireAt := startsAt.Add(-s.leadTime)
	if !fireAt.After(now) {
		return now.Add(s.minDelay)
	}
	return fireAt
}

// ScheduleReminder registers a one-shot reminder job for the appointment.
func (s *schedulerService) ScheduleReminder(ctx context.Context, appointmentID string, startsAt time.Time) (JobHandle, error) {
	if appointmentID == "" || startsAt.IsZero() {
		return JobHandle{}, fmt.Errorf("%w: appointment id and start time are required", appErrors.ErrScheduling)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.jobs[appointmentID]; ok {
		delete(s.jobs, appointmentID)
		s.runner.RemoveJob(prev.entryID)
		s.log.Debug(fmt.Sprintf("Replaced reminder job for appointment %s", appointmentID))
	}

	j := &job{appointmentID: appointmentID, fireAt: s.fireTime(startsAt)}
	entryID, err := s.runner.AddOnce(j.fireAt, func() { s.fire(j) })
	if err != nil {
		return JobHandle{}, fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}
	j.entryID = entryID
	s.jobs[appointmentID] = j

	s.log.Info(fmt.Sprintf("Scheduled reminder for appointment %s at %s (Job ID: %d)", appointmentID, j.fireAt.Format(time.RFC3339), entryID))
	return JobHandle{AppointmentID: appointmentID, FireAt: j.fireAt}, nil
}

// fire runs a due job. The job first claims itself out of the registry, so a
// job that was cancelled or replaced in the meantime does nothing.
func (s *schedulerService) fire(j *job) {
	s.mu.Lock()
	if cur, ok := s.jobs[j.appointmentID]; !ok || cur != j {
		s.mu.Unlock()
		s.log.Debug(fmt.Sprintf("Skipping stale reminder job for appointment %s", j.appointmentID))
		return
	}
	delete(s.jobs, j.appointmentID)
	handler := s.handleReminderFunc
	s.mu.Unlock()

	// One-shot entries stay listed in cron after running.
	s.runner.RemoveJob(j.entryID)

	if handler == nil {
		s.log.Error(fmt.Sprintf("Reminder handler is not set, dropping reminder for appointment %s", j.appointmentID), nil)
		return
	}

	s.log.Info(fmt.Sprintf("Executing reminder job for appointment %s", j.appointmentID))
	ctx, cancel := context.WithTimeout(context.Background(), reminderHandlerTimeout)
	defer cancel()
	if err := handler(ctx, j.appointmentID); err != nil {
		s.log.Error(fmt.Sprintf("Error handling reminder for appointment %s", j.appointmentID), err)
	}
}

// CancelReminder removes a pending reminder. Unknown ids are a no-op.
func (s *schedulerService) CancelReminder(ctx context.Context, appointmentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[appointmentID]
	if !ok {
		return false
	}
	delete(s.jobs, appointmentID)
	s.runner.RemoveJob(j.entryID)
	s.log.Info(fmt.Sprintf("Cancelled reminder for appointment %s (Job ID: %d)", appointmentID, j.entryID))
	return true
}

func (s *schedulerService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func (s *schedulerService) List() []JobHandle {
	s.mu.Lock()
	list := make([]JobHandle, 0, len(s.jobs))
	for _, j := range s.jobs {
		list = append(list, JobHandle{AppointmentID: j.appointmentID, FireAt: j.fireAt})
	}
	s.mu.Unlock()

	sort.Slice(list, func(i, k int) bool {
		if list[i].FireAt.Equal(list[k].FireAt) {
			return list[i].AppointmentID < list[k].AppointmentID
		}
		return list[i].FireAt.Before(list[k].FireAt)
	})
	return list
}

// Stop stops the underlying runner and forgets every pending job.
func (s *schedulerService) Stop() {
	s.runner.Stop()

	s.mu.Lock()
	dropped := len(s.jobs)
	s.jobs = make(map[string]*job)
	s.mu.Unlock()

	if dropped > 0 {
		s.log.Warn(fmt.Sprintf("Scheduler stopped with %d pending reminders", dropped))
	}
}
