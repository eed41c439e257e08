package service

import (
	"barberbook/internal/application/dto"
	"barberbook/internal/application/notification"
	"barberbook/internal/domain/calendar"
	"barberbook/internal/domain/constant"
	"barberbook/internal/domain/entity"
	"barberbook/internal/domain/repository"
	"barberbook/internal/infrastructure/lock"
	appErrors "barberbook/internal/pkg/errors"
	"barberbook/internal/pkg/logger"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var trt = time.FixedZone("TRT", 3*60*60)

var adminRecipient = notification.Recipient{Email: "admin@example.com", Chat: "Uadmin", Phone: "+905550000000"}

type appointmentFixture struct {
	svc      *appointmentService
	repo     *mockAppointmentRepo
	sched    *mockScheduler
	admin    *fakeNotifier
	customer *fakeNotifier
}

// 09:00 in Istanbul
var fixtureNow = time.Date(2026, 10, 20, 6, 0, 0, 0, time.UTC)

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()
	cal, err := calendar.New([]string{"09:00", "10:00", "11:00"}, trt)
	require.NoError(t, err)

	f := &appointmentFixture{
		repo:     &mockAppointmentRepo{},
		sched:    &mockScheduler{},
		admin:    &fakeNotifier{},
		customer: &fakeNotifier{},
	}
	f.sched.On("SetReminderHandler", mock.Anything).Return()

	f.svc = NewAppointmentService(f.repo, f.sched, cal, lock.NewLocal(), f.admin, f.customer,
		AppointmentOptions{Admin: adminRecipient}, logger.NewNop()).(*appointmentService)
	f.svc.now = func() time.Time { return fixtureNow }
	return f
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 10, 20, hour, minute, 0, 0, trt)
}

func sameInstant(want time.Time) interface{} {
	return mock.MatchedBy(func(got time.Time) bool { return got.Equal(want) })
}

func (f *appointmentFixture) expectCreate(id string) {
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Appointment")).
		Run(func(args mock.Arguments) {
			a := args.Get(1).(*entity.Appointment)
			a.ID = id
			a.CreatedAt = fixtureNow
		}).
		Return(nil).Once()
}

func TestBookAppointment_Success(t *testing.T) {
	f := newAppointmentFixture(t)
	start := at(14, 0)

	f.repo.On("Find", mock.Anything, mock.Anything).Return([]*entity.Appointment{}, nil)
	f.expectCreate("a1")
	f.sched.On("ScheduleReminder", mock.Anything, "a1", sameInstant(start)).
		Return(JobHandle{AppointmentID: "a1", FireAt: start.Add(-time.Hour)}, nil)

	resp, err := f.svc.BookAppointment(context.Background(), dto.CreateAppointmentRequest{
		Name:  " Ali ",
		Phone: "+90 555 111 22 33",
		Email: "ali@example.com",
		Date:  "2026-10-20T14:00",
	})

	require.NoError(t, err)
	assert.Equal(t, "a1", resp.Appointment.ID)
	assert.Equal(t, "Ali", resp.Appointment.Name)
	assert.Equal(t, "+905551112233", resp.Appointment.Phone)
	assert.Equal(t, constant.AppointmentConfirmed, resp.Appointment.Status)
	assert.True(t, resp.Appointment.NotificationScheduled)
	require.NotNil(t, resp.ReminderAt)
	assert.True(t, resp.ReminderAt.Equal(at(13, 0)))
	assert.Contains(t, resp.ReminderNote, "20.10.2026 13:00")

	assert.Eventually(t, func() bool { return f.admin.count() == 1 }, time.Second, 5*time.Millisecond)
	sent := f.admin.messages()[0]
	assert.Equal(t, notification.KindNewAppointment, sent.msg.Kind)
	assert.Equal(t, adminRecipient, sent.to)
	assert.Zero(t, f.customer.count())
	f.sched.AssertExpectations(t)
}

func TestBookAppointment_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  dto.CreateAppointmentRequest
	}{
		{"missing name", dto.CreateAppointmentRequest{Phone: "1", Date: "2026-10-20T14:00"}},
		{"missing phone", dto.CreateAppointmentRequest{Name: "Ali", Phone: "   ", Date: "2026-10-20T14:00"}},
		{"missing date", dto.CreateAppointmentRequest{Name: "Ali", Phone: "1"}},
		{"bad date", dto.CreateAppointmentRequest{Name: "Ali", Phone: "1", Date: "tomorrow at noon"}},
		{"bad email", dto.CreateAppointmentRequest{Name: "Ali", Phone: "1", Email: "not-an-email", Date: "2026-10-20T14:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppointmentFixture(t)

			_, err := f.svc.BookAppointment(context.Background(), tt.req)

			assert.ErrorIs(t, err, appErrors.ErrValidation)
			f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestBookAppointment_PastDate(t *testing.T) {
	f := newAppointmentFixture(t)

	_, err := f.svc.BookAppointment(context.Background(), dto.CreateAppointmentRequest{
		Name: "Ali", Phone: "1", Date: "2026-10-20T08:00",
	})

	assert.ErrorIs(t, err, appErrors.ErrPastDate)
	f.repo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookAppointment_ConflictReturnsFreeSlots(t *testing.T) {
	f := newAppointmentFixture(t)
	existing := &entity.Appointment{ID: "old", StartsAt: at(10, 0), Status: constant.AppointmentConfirmed}
	f.repo.On("Find", mock.Anything, mock.Anything).Return([]*entity.Appointment{existing}, nil)

	_, err := f.svc.BookAppointment(context.Background(), dto.CreateAppointmentRequest{
		Name: "Ali", Phone: "1", Date: "2026-10-20T10:20",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrSlotConflict)
	var conflict *appErrors.SlotConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, []string{"09:00", "11:00"}, conflict.AvailableSlots)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.sched.AssertNotCalled(t, "ScheduleReminder", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookAppointment_ConflictWindowQuery(t *testing.T) {
	f := newAppointmentFixture(t)
	start := at(10, 31)

	f.repo.On("Find", mock.Anything, mock.MatchedBy(func(filter repository.AppointmentFilter) bool {
		return filter.Status == constant.AppointmentConfirmed &&
			filter.From.Equal(start.Add(-29*time.Minute)) &&
			filter.To.Equal(start.Add(29*time.Minute))
	})).Return([]*entity.Appointment{
		{ID: "old", StartsAt: at(10, 0), Status: constant.AppointmentConfirmed},
	}, nil).Once()
	f.expectCreate("a2")
	f.sched.On("ScheduleReminder", mock.Anything, "a2", sameInstant(start)).
		Return(JobHandle{AppointmentID: "a2", FireAt: start.Add(-time.Hour)}, nil)

	resp, err := f.svc.BookAppointment(context.Background(), dto.CreateAppointmentRequest{
		Name: "Ali", Phone: "1", Date: "2026-10-20T10:31",
	})

	require.NoError(t, err)
	assert.Equal(t, "a2", resp.Appointment.ID)
	f.repo.AssertExpectations(t)
}

func TestBookAppointment_SchedulingFailureIsNotFatal(t *testing.T) {
	f := newAppointmentFixture(t)
	f.repo.On("Find", mock.Anything, mock.Anything).Return(nil, nil)
	f.expectCreate("a1")
	f.sched.On("ScheduleReminder", mock.Anything, "a1", mock.Anything).
		Return(JobHandle{}, fmt.Errorf("%w: runner stopped", appErrors.ErrScheduling))

	resp, err := f.svc.BookAppointment(context.Background(), dto.CreateAppointmentRequest{
		Name: "Ali", Phone: "1", Date: "2026-10-20T14:00",
	})

	require.NoError(t, err)
	assert.Nil(t, resp.ReminderAt)
	assert.NotEmpty(t, resp.ReminderNote)
}

func TestBookAppointment_StoreFailure(t *testing.T) {
	f := newAppointmentFixture(t)
	f.repo.On("Find", mock.Anything, mock.Anything).Return(nil, errors.New("disk full"))

	_, err := f.svc.BookAppointment(context.Background(), dto.CreateAppointmentRequest{
		Name: "Ali", Phone: "1", Date: "2026-10-20T14:00",
	})

	assert.ErrorIs(t, err, appErrors.ErrDatabaseOperation)
}

func TestCancelAppointment(t *testing.T) {
	f := newAppointmentFixture(t)
	appt := &entity.Appointment{ID: "a1", Name: "Ali", Phone: "+905551112233", Email: "ali@example.com", StartsAt: at(14, 0), Status: constant.AppointmentConfirmed}
	cancelled := *appt
	cancelled.Status = constant.AppointmentCancelled
	cancelled.CancellationReason = "barber sick"

	f.repo.On("FindByID", mock.Anything, "a1").Return(appt, nil)
	f.sched.On("CancelReminder", mock.Anything, "a1").Return(true).Once()
	f.repo.On("UpdateStatus", mock.Anything, "a1", constant.AppointmentCancelled, "barber sick").Return(&cancelled, nil)

	got, err := f.svc.CancelAppointment(context.Background(), "a1", " barber sick ")

	require.NoError(t, err)
	assert.Equal(t, constant.AppointmentCancelled, got.Status)
	f.sched.AssertExpectations(t)

	assert.Eventually(t, func() bool { return f.customer.count() == 1 }, time.Second, 5*time.Millisecond)
	sent := f.customer.messages()[0]
	assert.Equal(t, notification.KindCancellation, sent.msg.Kind)
	assert.Equal(t, notification.Recipient{Email: "ali@example.com", Chat: "+905551112233", Phone: "+905551112233"}, sent.to)
	assert.Contains(t, sent.msg.ChatText, "barber sick")
}

func TestCancelAppointment_NotFound(t *testing.T) {
	f := newAppointmentFixture(t)
	f.repo.On("FindByID", mock.Anything, "missing").Return(nil, fmt.Errorf("appointment with ID missing not found: %w", gorm.ErrRecordNotFound))

	_, err := f.svc.CancelAppointment(context.Background(), "missing", "")

	assert.ErrorIs(t, err, appErrors.ErrAppointmentNotFound)
	f.sched.AssertNotCalled(t, "CancelReminder", mock.Anything, mock.Anything)
}

func TestDeleteAppointment_NoNotification(t *testing.T) {
	f := newAppointmentFixture(t)
	f.repo.On("FindByID", mock.Anything, "a1").Return(&entity.Appointment{ID: "a1", Status: constant.AppointmentConfirmed}, nil)
	f.sched.On("CancelReminder", mock.Anything, "a1").Return(true).Once()
	f.repo.On("Delete", mock.Anything, "a1").Return(true, nil)

	require.NoError(t, f.svc.DeleteAppointment(context.Background(), "a1"))

	f.sched.AssertExpectations(t)
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, f.customer.count())
	assert.Zero(t, f.admin.count())
}

func TestDeleteAppointment_NotFound(t *testing.T) {
	f := newAppointmentFixture(t)
	f.repo.On("FindByID", mock.Anything, "missing").Return(nil, fmt.Errorf("not found: %w", gorm.ErrRecordNotFound))

	assert.ErrorIs(t, f.svc.DeleteAppointment(context.Background(), "missing"), appErrors.ErrAppointmentNotFound)
	f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestHandleReminderNotification(t *testing.T) {
	t.Run("confirmed appointment is reminded", func(t *testing.T) {
		f := newAppointmentFixture(t)
		f.repo.On("FindByID", mock.Anything, "a1").Return(&entity.Appointment{ID: "a1", Name: "Ali", Phone: "+90555", StartsAt: at(14, 0), Status: constant.AppointmentConfirmed}, nil)

		require.NoError(t, f.svc.HandleReminderNotification(context.Background(), "a1"))

		sent := f.customer.messages()
		require.Len(t, sent, 1)
		assert.Equal(t, notification.KindReminder, sent[0].msg.Kind)
		assert.Equal(t, "+90555", sent[0].to.Phone)
	})

	t.Run("cancelled appointment is skipped", func(t *testing.T) {
		f := newAppointmentFixture(t)
		f.repo.On("FindByID", mock.Anything, "a1").Return(&entity.Appointment{ID: "a1", Status: constant.AppointmentCancelled}, nil)

		require.NoError(t, f.svc.HandleReminderNotification(context.Background(), "a1"))
		assert.Zero(t, f.customer.count())
	})

	t.Run("deleted appointment is skipped", func(t *testing.T) {
		f := newAppointmentFixture(t)
		f.repo.On("FindByID", mock.Anything, "a1").Return(nil, fmt.Errorf("not found: %w", gorm.ErrRecordNotFound))

		require.NoError(t, f.svc.HandleReminderNotification(context.Background(), "a1"))
		assert.Zero(t, f.customer.count())
	})
}

func TestAvailableSlots(t *testing.T) {
	f := newAppointmentFixture(t)
	f.repo.On("Find", mock.Anything, mock.Anything).Return([]*entity.Appointment{
		{StartsAt: at(10, 0), Status: constant.AppointmentConfirmed},
	}, nil)

	got, err := f.svc.AvailableSlots(context.Background(), "2026-10-20")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-20", got.Date)
	assert.Equal(t, []string{"09:00", "11:00"}, got.AvailableSlots)
	assert.Equal(t, []string{"10:00"}, got.BookedSlots)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, got.AllSlots)
}

func TestAvailableSlots_InvalidDateGivesAllSlots(t *testing.T) {
	f := newAppointmentFixture(t)

	got, err := f.svc.AvailableSlots(context.Background(), "someday")

	require.NoError(t, err)
	assert.Equal(t, got.AllSlots, got.AvailableSlots)
	assert.Empty(t, got.BookedSlots)
	f.repo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
}

func TestCountAppointments(t *testing.T) {
	f := newAppointmentFixture(t)
	f.repo.On("Count", mock.Anything, mock.MatchedBy(func(filter repository.AppointmentFilter) bool {
		return filter.Status == constant.AppointmentConfirmed && filter.From.Equal(at(0, 0))
	})).Return(int64(3), nil)

	n, err := f.svc.CountAppointments(context.Background(), "2026-10-20")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = f.svc.CountAppointments(context.Background(), "garbage")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListAppointments_Filters(t *testing.T) {
	f := newAppointmentFixture(t)
	f.repo.On("Find", mock.Anything, mock.MatchedBy(func(filter repository.AppointmentFilter) bool {
		return filter.From.Equal(at(0, 0)) &&
			filter.To.Equal(time.Date(2026, 10, 21, 23, 59, 59, 999000000, trt)) &&
			filter.Status == constant.AppointmentCancelled
	})).Return([]*entity.Appointment{{ID: "a1"}}, nil)

	list, err := f.svc.ListAppointments(context.Background(), dto.ListAppointmentsRequest{
		StartDate: "2026-10-20", EndDate: "2026-10-21", Status: "cancelled",
	})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.svc.ListAppointments(context.Background(), dto.ListAppointmentsRequest{Status: "pending"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	_, err = f.svc.ListAppointments(context.Background(), dto.ListAppointmentsRequest{StartDate: "yesterday"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
