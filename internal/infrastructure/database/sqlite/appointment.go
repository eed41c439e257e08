package sqlite

import (
	"barberbook/internal/domain/constant"
	"barberbook/internal/domain/entity"
	"barberbook/internal/domain/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository creates a new instance of AppointmentRepository.
func NewAppointmentRepository(db *gorm.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

// Create creates a new appointment. Start times are stored in UTC so that
// range queries compare consistently.
func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	appointment.StartsAt = appointment.StartsAt.UTC()
	if err := r.db.WithContext(ctx).Create(appointment).Error; err != nil {
		return fmt.Errorf("failed to create appointment for %s: %w", appointment.Name, err)
	}
	return nil
}

// FindByID retrieves an appointment by its ID.
func (r *appointmentRepository) FindByID(ctx context.Context, id string) (*entity.Appointment, error) {
	var appointment entity.Appointment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("appointment with ID %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to find appointment by id %s: %w", id, err)
	}
	return &appointment, nil
}

// Find retrieves appointments matching the filter ordered by start time.
func (r *appointmentRepository) Find(ctx context.Context, filter repository.AppointmentFilter) ([]*entity.Appointment, error) {
	var appointments []*entity.Appointment
	if err := r.scoped(ctx, filter).Order("starts_at asc").Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("failed to find appointments: %w", err)
	}
	return appointments, nil
}

// Count returns the number of appointments matching the filter.
func (r *appointmentRepository) Count(ctx context.Context, filter repository.AppointmentFilter) (int64, error) {
	var count int64
	if err := r.scoped(ctx, filter).Model(&entity.Appointment{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}

// UpdateStatus sets the status and cancellation reason of an appointment.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id string, status constant.AppointmentStatus, reason string) (*entity.Appointment, error) {
	res := r.db.WithContext(ctx).Model(&entity.Appointment{}).Where("id = ?", id).Updates(map[string]any{
		"status":              status,
		"cancellation_reason": reason,
	})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update appointment %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("appointment with ID %s not found: %w", id, gorm.ErrRecordNotFound)
	}
	return r.FindByID(ctx, id)
}

// Delete deletes an appointment by its ID.
func (r *appointmentRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Appointment{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete appointment %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *appointmentRepository) scoped(ctx context.Context, filter repository.AppointmentFilter) *gorm.DB {
	q := r.db.WithContext(ctx)
	if filter.From != nil {
		q = q.Where("starts_at >= ?", utc(*filter.From))
	}
	if filter.To != nil {
		q = q.Where("starts_at <= ?", utc(*filter.To))
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	return q
}

func utc(t time.Time) time.Time {
	return t.UTC()
}
