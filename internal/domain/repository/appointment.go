package repository

import (
	"barberbook/internal/domain/constant"
	"barberbook/internal/domain/entity"
	"context"
	"time"
)

// AppointmentFilter narrows Find and Count. Zero values match everything;
// From and To are inclusive.
type AppointmentFilter struct {
	From   *time.Time
	To     *time.Time
	Status constant.AppointmentStatus
}

// AppointmentRepository defines the interface for appointment data operations.
type AppointmentRepository interface {
	// Create persists a new appointment and fills in its ID.
	Create(ctx context.Context, appointment *entity.Appointment) error
	// FindByID retrieves an appointment by its ID.
	FindByID(ctx context.Context, id string) (*entity.Appointment, error)
	// Find retrieves appointments matching the filter, ordered by start time ascending.
	Find(ctx context.Context, filter AppointmentFilter) ([]*entity.Appointment, error)
	// Count returns the number of appointments matching the filter.
	Count(ctx context.Context, filter AppointmentFilter) (int64, error)
	// UpdateStatus sets the status and cancellation reason and returns the updated record.
	UpdateStatus(ctx context.Context, id string, status constant.AppointmentStatus, reason string) (*entity.Appointment, error)
	// Delete removes an appointment. It reports whether a record was deleted.
	Delete(ctx context.Context, id string) (bool, error)
}
