package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/getclientflow/clientflow-backend/pkg/enums"
)

// Invoice bills a tenant's client, optionally for a specific booking.
type Invoice struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	ClientID      uuid.UUID           `gorm:"type:uuid;not null"`
	BookingID     *uuid.UUID          `gorm:"type:uuid"`
	InvoiceNumber string              `gorm:"type:text;not null"`
	Total         decimal.Decimal     `gorm:"type:numeric(12,2);not null;default:0"`
	Currency      string              `gorm:"type:text;not null;default:'usd'"`
	Status        enums.InvoiceStatus `gorm:"type:text;not null;default:'draft'"`
	DueDate       *time.Time          `gorm:"type:timestamptz"`
	SentAt        *time.Time          `gorm:"type:timestamptz"`
	PaidAt        *time.Time          `gorm:"type:timestamptz"`
	CreatedAt     time.Time           `gorm:"type:timestamptz;default:now()"`
	UpdatedAt     time.Time           `gorm:"type:timestamptz;default:now()"`
}
