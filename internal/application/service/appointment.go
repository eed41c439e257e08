package service

import (
	"barberbook/internal/application/dto"
	"barberbook/internal/application/notification"
	"barberbook/internal/domain/entity"
	"context"
)

// Notifier delivers a rendered message to one recipient.
type Notifier interface {
	Notify(ctx context.Context, msg notification.Message, to notification.Recipient) error
}

// AppointmentService defines the interface for booking business logic.
type AppointmentService interface {
	// BookAppointment validates, conflict-checks and stores a booking, then
	// notifies the admin and schedules the customer reminder.
	BookAppointment(ctx context.Context, req dto.CreateAppointmentRequest) (*dto.BookingResponse, error)
	// CancelAppointment marks an appointment cancelled, drops its reminder and notifies the customer.
	CancelAppointment(ctx context.Context, id, reason string) (*entity.Appointment, error)
	// DeleteAppointment removes an appointment and its reminder without notifying anyone.
	DeleteAppointment(ctx context.Context, id string) error
	// GetAppointment retrieves an appointment by its ID.
	GetAppointment(ctx context.Context, id string) (*entity.Appointment, error)
	// ListAppointments returns appointments ordered by start time.
	ListAppointments(ctx context.Context, req dto.ListAppointmentsRequest) ([]*entity.Appointment, error)
	// AvailableSlots returns the slot view of a day. An unparseable date yields every slot.
	AvailableSlots(ctx context.Context, date string) (*dto.AvailabilityResponse, error)
	// CountAppointments counts the confirmed appointments of a day. An unparseable date counts 0.
	CountAppointments(ctx context.Context, date string) (int64, error)
	// HandleReminderNotification sends the reminder of a still-confirmed appointment.
	HandleReminderNotification(ctx context.Context, appointmentID string) error
}
