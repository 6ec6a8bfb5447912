package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is a ClientFlow account. Every domain row hangs off one tenant.
type Tenant struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"type:text;not null"`
	Email     string    `gorm:"type:text;not null;uniqueIndex"`
	Timezone  string    `gorm:"type:text;not null;default:'UTC'"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()"`
	UpdatedAt time.Time `gorm:"type:timestamptz;default:now()"`
}
