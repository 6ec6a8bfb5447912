package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a tenant's customer record (the CRM side of ClientFlow).
type Client struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:text;not null"`
	Email     string    `gorm:"type:text"`
	Phone     string    `gorm:"type:text"`
	Notes     string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()"`
	UpdatedAt time.Time `gorm:"type:timestamptz;default:now()"`
}
