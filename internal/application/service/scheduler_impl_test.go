package service

import (
	"barberbook/internal/pkg/logger"
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntry struct {
	at  time.Time
	cmd func()
}

// fakeRunner records jobs instead of running them on a clock.
type fakeRunner struct {
	mu      sync.Mutex
	nextID  cron.EntryID
	entries map[cron.EntryID]fakeEntry
	stopped bool
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{entries: make(map[cron.EntryID]fakeEntry)}
}

func (r *fakeRunner) AddOnce(at time.Time, cmd func()) (cron.EntryID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.entries[r.nextID] = fakeEntry{at: at, cmd: cmd}
	return r.nextID, nil
}

func (r *fakeRunner) RemoveJob(id cron.EntryID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

func (r *fakeRunner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
}

func (r *fakeRunner) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// only returns the single registered entry.
func (r *fakeRunner) only(t *testing.T) fakeEntry {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.Len(t, r.entries, 1)
	for _, e := range r.entries {
		return e
	}
	return fakeEntry{}
}

func newTestScheduler(now time.Time) (*schedulerService, *fakeRunner) {
	runner := newFakeRunner()
	s := NewSchedulerService(runner, time.Hour, 30*time.Second, logger.NewNop()).(*schedulerService)
	s.now = func() time.Time { return now }
	return s, runner
}

func TestScheduleReminder_FiresLeadTimeBeforeStart(t *testing.T) {
	now := time.Date(2026, 10, 20, 8, 0, 0, 0, time.UTC)
	s, runner := newTestScheduler(now)

	handle, err := s.ScheduleReminder(context.Background(), "a1", now.Add(2*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, "a1", handle.AppointmentID)
	assert.Equal(t, now.Add(time.Hour), handle.FireAt)
	assert.Equal(t, now.Add(time.Hour), runner.only(t).at)
	assert.Equal(t, 1, s.Count())
}

func TestScheduleReminder_LeadAlreadyPassed(t *testing.T) {
	now := time.Date(2026, 10, 20, 8, 0, 0, 0, time.UTC)
	s, _ := newTestScheduler(now)

	handle, err := s.ScheduleReminder(context.Background(), "a1", now.Add(20*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, now.Add(30*time.Second), handle.FireAt)

	// exactly at the lead boundary also falls back to the minimum delay
	handle, err = s.ScheduleReminder(context.Background(), "a2", now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, now.Add(30*time.Second), handle.FireAt)
}

func TestScheduleReminder_ReplacesPrevious(t *testing.T) {
	now := time.Date(2026, 10, 20, 8, 0, 0, 0, time.UTC)
	s, runner := newTestScheduler(now)
	ctx := context.Background()

	_, err := s.ScheduleReminder(ctx, "a1", now.Add(2*time.Hour))
	require.NoError(t, err)
	_, err = s.ScheduleReminder(ctx, "a1", now.Add(3*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 1, s.Count())
	assert.Equal(t, now.Add(2*time.Hour), runner.only(t).at)
}

func TestScheduleReminder_RejectsMissingInput(t *testing.T) {
	s, _ := newTestScheduler(time.Now())

	_, err := s.ScheduleReminder(context.Background(), "", time.Now().Add(time.Hour))
	assert.Error(t, err)
	_, err = s.ScheduleReminder(context.Background(), "a1", time.Time{})
	assert.Error(t, err)
}

func TestFire_CallsHandlerOnceAndClearsRegistry(t *testing.T) {
	now := time.Date(2026, 10, 20, 8, 0, 0, 0, time.UTC)
	s, runner := newTestScheduler(now)

	var calls []string
	s.SetReminderHandler(func(ctx context.Context, id string) error {
		calls = append(calls, id)
		return nil
	})

	_, err := s.ScheduleReminder(context.Background(), "a1", now.Add(2*time.Hour))
	require.NoError(t, err)
	entry := runner.only(t)

	entry.cmd()
	entry.cmd() // a duplicate tick must not dispatch again

	assert.Equal(t, []string{"a1"}, calls)
	assert.Zero(t, s.Count())
	assert.Zero(t, runner.len())
}

func TestCancelReminder_PreventsDispatch(t *testing.T) {
	now := time.Date(2026, 10, 20, 8, 0, 0, 0, time.UTC)
	s, runner := newTestScheduler(now)

	called := false
	s.SetReminderHandler(func(ctx context.Context, id string) error {
		called = true
		return nil
	})

	_, err := s.ScheduleReminder(context.Background(), "a1", now.Add(2*time.Hour))
	require.NoError(t, err)
	entry := runner.only(t)

	assert.True(t, s.CancelReminder(context.Background(), "a1"))
	assert.Zero(t, s.Count())
	assert.Zero(t, runner.len())

	// the runner raced the cancel and fired anyway
	entry.cmd()
	assert.False(t, called)
}

func TestCancelReminder_UnknownOrFired(t *testing.T) {
	now := time.Date(2026, 10, 20, 8, 0, 0, 0, time.UTC)
	s, runner := newTestScheduler(now)
	s.SetReminderHandler(func(ctx context.Context, id string) error { return nil })

	assert.False(t, s.CancelReminder(context.Background(), "missing"))

	_, err := s.ScheduleReminder(context.Background(), "a1", now.Add(2*time.Hour))
	require.NoError(t, err)
	runner.only(t).cmd()

	assert.False(t, s.CancelReminder(context.Background(), "a1"))
}

func TestFire_ReplacedJobIsStale(t *testing.T) {
	now := time.Date(2026, 10, 20, 8, 0, 0, 0, time.UTC)
	s, runner := newTestScheduler(now)

	var calls int
	s.SetReminderHandler(func(ctx context.Context, id string) error {
		calls++
		return nil
	})

	_, err := s.ScheduleReminder(context.Background(), "a1", now.Add(2*time.Hour))
	require.NoError(t, err)
	old := runner.only(t)

	_, err = s.ScheduleReminder(context.Background(), "a1", now.Add(4*time.Hour))
	require.NoError(t, err)

	old.cmd()
	assert.Zero(t, calls)
	assert.Equal(t, 1, s.Count())

	runner.only(t).cmd()
	assert.Equal(t, 1, calls)
}

func TestList_SortedByFireTime(t *testing.T) {
	now := time.Date(2026, 10, 20, 8, 0, 0, 0, time.UTC)
	s, _ := newTestScheduler(now)
	ctx := context.Background()

	_, _ = s.ScheduleReminder(ctx, "late", now.Add(5*time.Hour))
	_, _ = s.ScheduleReminder(ctx, "early", now.Add(2*time.Hour))
	_, _ = s.ScheduleReminder(ctx, "middle", now.Add(3*time.Hour))

	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, "early", list[0].AppointmentID)
	assert.Equal(t, "middle", list[1].AppointmentID)
	assert.Equal(t, "late", list[2].AppointmentID)
}

func TestStop_DropsPendingJobs(t *testing.T) {
	now := time.Date(2026, 10, 20, 8, 0, 0, 0, time.UTC)
	s, runner := newTestScheduler(now)

	_, err := s.ScheduleReminder(context.Background(), "a1", now.Add(2*time.Hour))
	require.NoError(t, err)

	s.Stop()
	assert.True(t, runner.stopped)
	assert.Zero(t, s.Count())
}

func TestCancelReminder_RacesFire(t *testing.T) {
	now := time.Date(2026, 10, 20, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 200; i++ {
		s, runner := newTestScheduler(now)
		var dispatched atomic.Int32
		s.SetReminderHandler(func(ctx context.Context, id string) error {
			dispatched.Add(1)
			return nil
		})

		_, err := s.ScheduleReminder(context.Background(), "a1", now.Add(2*time.Hour))
		require.NoError(t, err)
		entry := runner.only(t)

		var cancelled atomic.Bool
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			entry.cmd()
		}()
		go func() {
			defer wg.Done()
			cancelled.Store(s.CancelReminder(context.Background(), "a1"))
		}()
		wg.Wait()

		// exactly one side wins the job
		if cancelled.Load() {
			assert.Zero(t, dispatched.Load())
		} else {
			assert.EqualValues(t, 1, dispatched.Load())
		}
		assert.Zero(t, s.Count())
		assert.Zero(t, runner.len())
	}
}
