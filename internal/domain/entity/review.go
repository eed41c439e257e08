package entity

import (
	"barberbook/internal/domain/constant"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a customer rating awaiting or past moderation.
type Review struct {
	ID        string                `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Name      string                `gorm:"column:name;not null" json:"name"`
	Rating    int                   `gorm:"column:rating;not null" json:"rating"`
	Comment   string                `gorm:"column:comment;type:text;not null" json:"comment"`
	Status    constant.ReviewStatus `gorm:"column:status;type:varchar(16);not null;default:'pending';index" json:"status"`
	Verified  bool                  `gorm:"column:verified;default:false" json:"verified"`
	CreatedAt time.Time             `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// TableName specifies the table name for the Review entity.
func (Review) TableName() string {
	return "reviews"
}

// BeforeCreate assigns the opaque identifier.
func (r *Review) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
