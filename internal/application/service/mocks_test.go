package service

import (
	"barberbook/internal/application/notification"
	"barberbook/internal/domain/constant"
	"barberbook/internal/domain/entity"
	"barberbook/internal/domain/repository"
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

type mockAppointmentRepo struct {
	mock.Mock
}

func (m *mockAppointmentRepo) Create(ctx context.Context, a *entity.Appointment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAppointmentRepo) FindByID(ctx context.Context, id string) (*entity.Appointment, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*entity.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointmentRepo) Find(ctx context.Context, f repository.AppointmentFilter) ([]*entity.Appointment, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]*entity.Appointment)
	return list, args.Error(1)
}

func (m *mockAppointmentRepo) Count(ctx context.Context, f repository.AppointmentFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAppointmentRepo) UpdateStatus(ctx context.Context, id string, status constant.AppointmentStatus, reason string) (*entity.Appointment, error) {
	args := m.Called(ctx, id, status, reason)
	a, _ := args.Get(0).(*entity.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointmentRepo) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, r *entity.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockReviewRepo) FindByID(ctx context.Context, id string) (*entity.Review, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*entity.Review)
	return r, args.Error(1)
}

func (m *mockReviewRepo) Find(ctx context.Context, f repository.ReviewFilter) ([]*entity.Review, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]*entity.Review)
	return list, args.Error(1)
}

func (m *mockReviewRepo) UpdateStatus(ctx context.Context, id string, status constant.ReviewStatus) (*entity.Review, error) {
	args := m.Called(ctx, id, status)
	r, _ := args.Get(0).(*entity.Review)
	return r, args.Error(1)
}

func (m *mockReviewRepo) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockScheduler struct {
	mock.Mock
}

func (m *mockScheduler) ScheduleReminder(ctx context.Context, id string, startsAt time.Time) (JobHandle, error) {
	args := m.Called(ctx, id, startsAt)
	return args.Get(0).(JobHandle), args.Error(1)
}

func (m *mockScheduler) CancelReminder(ctx context.Context, id string) bool {
	return m.Called(ctx, id).Bool(0)
}

func (m *mockScheduler) Count() int {
	return m.Called().Int(0)
}

func (m *mockScheduler) List() []JobHandle {
	list, _ := m.Called().Get(0).([]JobHandle)
	return list
}

func (m *mockScheduler) SetReminderHandler(handler func(ctx context.Context, appointmentID string) error) {
	m.Called(handler)
}

func (m *mockScheduler) Stop() {
	m.Called()
}

type notified struct {
	msg notification.Message
	to  notification.Recipient
}

// fakeNotifier records every message; safe for background senders.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []notified
	err  error
}

func (f *fakeNotifier) Notify(ctx context.Context, msg notification.Message, to notification.Recipient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, notified{msg, to})
	return f.err
}

func (f *fakeNotifier) messages() []notified {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notified(nil), f.sent...)
}

func (f *fakeNotifier) count() int {
	return len(f.messages())
}
