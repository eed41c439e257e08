package handler

import (
	"barberbook/internal/application/dto"
	"barberbook/internal/application/service"
	"barberbook/internal/domain/entity"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type mockAppointmentService struct {
	mock.Mock
}

func (m *mockAppointmentService) BookAppointment(ctx context.Context, req dto.CreateAppointmentRequest) (*dto.BookingResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockAppointmentService) CancelAppointment(ctx context.Context, id, reason string) (*entity.Appointment, error) {
	args := m.Called(ctx, id, reason)
	a, _ := args.Get(0).(*entity.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointmentService) DeleteAppointment(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAppointmentService) GetAppointment(ctx context.Context, id string) (*entity.Appointment, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*entity.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointmentService) ListAppointments(ctx context.Context, req dto.ListAppointmentsRequest) ([]*entity.Appointment, error) {
	args := m.Called(ctx, req)
	list, _ := args.Get(0).([]*entity.Appointment)
	return list, args.Error(1)
}

func (m *mockAppointmentService) AvailableSlots(ctx context.Context, date string) (*dto.AvailabilityResponse, error) {
	args := m.Called(ctx, date)
	resp, _ := args.Get(0).(*dto.AvailabilityResponse)
	return resp, args.Error(1)
}

func (m *mockAppointmentService) CountAppointments(ctx context.Context, date string) (int64, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAppointmentService) HandleReminderNotification(ctx context.Context, appointmentID string) error {
	return m.Called(ctx, appointmentID).Error(0)
}

type mockReviewService struct {
	mock.Mock
}

func (m *mockReviewService) SubmitReview(ctx context.Context, req dto.CreateReviewRequest) (*entity.Review, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*entity.Review)
	return r, args.Error(1)
}

func (m *mockReviewService) ListApprovedReviews(ctx context.Context) ([]*entity.Review, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*entity.Review)
	return list, args.Error(1)
}

func (m *mockReviewService) ListReviews(ctx context.Context, status string) ([]*entity.Review, error) {
	args := m.Called(ctx, status)
	list, _ := args.Get(0).([]*entity.Review)
	return list, args.Error(1)
}

func (m *mockReviewService) UpdateReviewStatus(ctx context.Context, id string, req dto.UpdateReviewStatusRequest) (*entity.Review, error) {
	args := m.Called(ctx, id, req)
	r, _ := args.Get(0).(*entity.Review)
	return r, args.Error(1)
}

func (m *mockReviewService) DeleteReview(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// stubScheduler reports a fixed list of pending jobs.
type stubScheduler struct {
	jobs []service.JobHandle
}

func (s *stubScheduler) ScheduleReminder(ctx context.Context, appointmentID string, startsAt time.Time) (service.JobHandle, error) {
	return service.JobHandle{AppointmentID: appointmentID, FireAt: startsAt}, nil
}

func (s *stubScheduler) CancelReminder(ctx context.Context, appointmentID string) bool {
	return false
}

func (s *stubScheduler) Count() int {
	return len(s.jobs)
}

func (s *stubScheduler) List() []service.JobHandle {
	return s.jobs
}

func (s *stubScheduler) SetReminderHandler(func(ctx context.Context, appointmentID string) error) {}

func (s *stubScheduler) Stop() {}

func stubJob(id string) service.JobHandle {
	return service.JobHandle{AppointmentID: id, FireAt: time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC)}
}
