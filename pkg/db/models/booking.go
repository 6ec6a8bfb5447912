package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/getclientflow/clientflow-backend/pkg/enums"
)

// Booking is a scheduled appointment for a tenant's client.
type Booking struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	ClientID        uuid.UUID           `gorm:"type:uuid;not null"`
	ServiceName     string              `gorm:"type:text;not null"`
	ScheduledAt     time.Time           `gorm:"type:timestamptz;not null"`
	DurationMinutes int                 `gorm:"not null;default:60"`
	TotalPrice      decimal.Decimal     `gorm:"type:numeric(12,2);not null;default:0"`
	Status          enums.BookingStatus `gorm:"type:text;not null;default:'inquiry'"`
	Notes           string              `gorm:"type:text"`
	CreatedAt       time.Time           `gorm:"type:timestamptz;default:now()"`
	UpdatedAt       time.Time           `gorm:"type:timestamptz;default:now()"`
}
