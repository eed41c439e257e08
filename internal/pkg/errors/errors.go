package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Custom application errors
var (
	ErrValidation          = errors.New("invalid request")                        // Missing or malformed request fields
	ErrPastDate            = errors.New("cannot book an appointment in the past") // Start time before now
	ErrSlotConflict        = errors.New("this time slot is already booked")       // Overlapping confirmed appointment
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrReviewNotFound      = errors.New("review not found")
	ErrDatabaseOperation   = errors.New("database operation failed")    // Generic store error
	ErrNotification        = errors.New("notification delivery failed") // Never returned to HTTP callers
	ErrScheduling          = errors.New("reminder scheduling failed")
	ErrUnauthorized        = errors.New("invalid admin credentials")
	ErrInternalServer      = errors.New("internal server error")
)

// SlotConflictError is returned when a booking falls inside the separation
// window of a confirmed appointment. AvailableSlots lists what is still free
// on the requested day.
type SlotConflictError struct {
	Requested      time.Time
	AvailableSlots []string
}

func (e *SlotConflictError) Error() string {
	if len(e.AvailableSlots) == 0 {
		return fmt.Sprintf("%s. No free slots left on %s", ErrSlotConflict, e.Requested.Format("2006-01-02"))
	}
	return fmt.Sprintf("%s. Available slots: %s", ErrSlotConflict, strings.Join(e.AvailableSlots, ", "))
}

func (e *SlotConflictError) Unwrap() error {
	return ErrSlotConflict
}
