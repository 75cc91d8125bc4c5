package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReminderLog records every payment reminder sent for an invoice that
// stayed PENDING past the reminder threshold.
type ReminderLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null" json:"invoiceId"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`

	Message      string    `json:"message"`
	Status       string    `json:"status"` // 'sent' or 'failed'
	ErrorMessage string    `json:"errorMessage"`
	Channel      string    `json:"channel"`
	SentAt       time.Time `json:"sentAt"`
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
