package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/getclientflow/clientflow-backend/pkg/enums"
)

// Payment records money received (or refunded) against an invoice.
type Payment struct {
	ID        uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	ClientID  uuid.UUID           `gorm:"type:uuid;not null"`
	InvoiceID *uuid.UUID          `gorm:"type:uuid"`
	BookingID *uuid.UUID          `gorm:"type:uuid"`
	Amount    decimal.Decimal     `gorm:"type:numeric(12,2);not null"`
	Currency  string              `gorm:"type:text;not null;default:'usd'"`
	Status    enums.PaymentStatus `gorm:"type:text;not null"`
	Reference string              `gorm:"type:text"`
	CreatedAt time.Time           `gorm:"type:timestamptz;default:now()"`
}
