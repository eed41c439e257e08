package scheduler

import (
	"barberbook/internal/pkg/logger"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler manages one-shot jobs on top of a cron runner.
type Scheduler struct {
	cron *cron.Cron
	log  logger.Logger
	mu   sync.Mutex // To protect access to job management
}

// NewScheduler creates and starts a cron runner in loc. Panicking jobs are
// recovered and logged instead of taking the process down.
func NewScheduler(loc *time.Location, log logger.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	cl := cronLogger{log: log}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl)),
	)
	c.Start()
	log.Info("Cron scheduler started.")
	return &Scheduler{
		cron: c,
		log:  log,
	}
}

// AddOnce runs cmd once at (or right after) at.
// Returns the EntryID of the added job.
func (s *Scheduler) AddOnce(at time.Time, cmd func()) (cron.EntryID, error) {
	if at.IsZero() {
		return 0, fmt.Errorf("failed to add one-shot job: zero fire time")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.cron.Schedule(Once(at), cron.FuncJob(cmd))
	s.log.Debug(fmt.Sprintf("Added one-shot job with ID %d at %s", id, at.Format(time.RFC3339)))
	return id, nil
}

// RemoveJob removes a job from the scheduler by its EntryID.
func (s *Scheduler) RemoveJob(id cron.EntryID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cron.Remove(id)
	s.log.Debug(fmt.Sprintf("Removed cron job with ID %d", id))
}

// Stop stops the cron scheduler and waits for running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	ctx := s.cron.Stop()
	s.mu.Unlock()

	// Running jobs may still call RemoveJob, so wait outside the lock.
	<-ctx.Done()
	s.log.Info("Cron scheduler stopped.")
}

// Entries returns the list of scheduled entries. Useful for debugging.
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron.Entries()
}

// OnceSchedule is a cron.Schedule that activates exactly once.
type OnceSchedule struct {
	At time.Time
}

// Once returns a schedule firing at t.
func Once(t time.Time) OnceSchedule {
	return OnceSchedule{At: t}
}

// Next returns At while it is still ahead of t. Afterwards it returns the zero
// time, which cron treats as "never run again".
func (o OnceSchedule) Next(t time.Time) time.Time {
	if t.Before(o.At) {
		return o.At
	}
	return time.Time{}
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(fmt.Sprintf("cron: %s %v", msg, keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(fmt.Sprintf("cron: %s %v", msg, keysAndValues), err)
}
