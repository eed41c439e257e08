package dto

import (
	"barberbook/internal/domain/entity"
	"time"
)

// CreateAppointmentRequest is the DTO for booking an appointment.
type CreateAppointmentRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Date  string `json:"date"` // RFC 3339, or local "2006-01-02T15:04"
}

// CancelAppointmentRequest is the DTO for cancelling an appointment.
type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// ListAppointmentsRequest filters the admin appointment list. Dates are
// calendar days ("2006-01-02"); both ends are inclusive.
type ListAppointmentsRequest struct {
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
	Status    string `query:"status"`
}

// BookingResponse is returned after a successful booking.
type BookingResponse struct {
	Appointment  *entity.Appointment `json:"appointment"`
	ReminderAt   *time.Time          `json:"reminderAt,omitempty"`
	ReminderNote string              `json:"reminderNote"`
}

// AvailabilityResponse is the slot view of one day.
type AvailabilityResponse struct {
	Date           string   `json:"date,omitempty"`
	AvailableSlots []string `json:"availableSlots"`
	BookedSlots    []string `json:"bookedSlots"`
	AllSlots       []string `json:"allSlots"`
}
