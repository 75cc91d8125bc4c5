package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus is the provider-reported payment state of an invoice.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusSettled PaymentStatus = "SETTLED"
	PaymentStatusExpired PaymentStatus = "EXPIRED"
	PaymentStatusStopped PaymentStatus = "STOPPED"
)

// Known reports whether the status is one the provider has documented.
// Unknown values are still stored verbatim; callers log them instead.
func (s PaymentStatus) Known() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusSettled,
		PaymentStatusExpired, PaymentStatusStopped:
		return true
	}
	return false
}

type Invoice struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`

	// ExternalID is the human-readable invoice number (INV-YYYYMM-NNNNN)
	// and the join key with the payment provider. Immutable after creation.
	ExternalID string `gorm:"uniqueIndex;not null" json:"externalId"`

	PaymentAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"paymentAmount"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);default:'PENDING'" json:"paymentStatus"`

	// Remote handle returned by the payment provider. Kept so an orphaned
	// remote invoice can be traced back when a later step failed.
	ProviderInvoiceID  string `json:"providerInvoiceId"`
	ProviderInvoiceURL string `json:"providerInvoiceUrl"`

	User  User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

type InvoiceItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null" json:"invoiceId"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null" json:"productId"`

	Quantity int             `gorm:"default:1" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	// Subtotal is price * quantity, computed once at creation and never
	// recomputed afterwards.
	Subtotal decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (i *InvoiceItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
