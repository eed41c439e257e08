package entity

import (
	"barberbook/internal/domain/constant"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment is a booked visit to the barber.
type Appointment struct {
	ID                    string                     `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Name                  string                     `gorm:"column:name;not null" json:"name"`
	Phone                 string                     `gorm:"column:phone;not null" json:"phone"`
	Email                 string                     `gorm:"column:email;default:''" json:"email"`
	StartsAt              time.Time                  `gorm:"column:starts_at;not null;index" json:"date"`
	Status                constant.AppointmentStatus `gorm:"column:status;type:varchar(16);not null;default:'confirmed';index" json:"status"`
	CancellationReason    string                     `gorm:"column:cancellation_reason;default:''" json:"cancellationReason"`
	NotificationScheduled bool                       `gorm:"column:notification_scheduled;default:false" json:"notificationScheduled"`
	CreatedAt             time.Time                  `json:"createdAt"`
	UpdatedAt             time.Time                  `json:"updatedAt"`
}

// TableName specifies the table name for the Appointment entity.
func (Appointment) TableName() string {
	return "appointments"
}

// BeforeCreate assigns the opaque identifier.
func (a *Appointment) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// IsCancelled reports whether the appointment no longer occupies its slot.
func (a *Appointment) IsCancelled() bool {
	return a.Status == constant.AppointmentCancelled
}
