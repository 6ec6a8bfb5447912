package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/getclientflow/clientflow-backend/pkg/enums"
)

// User is a dashboard login belonging to a tenant.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"type:text;not null"`
	Role         enums.UserRole `gorm:"type:text;not null;default:'member'"`
	CreatedAt    time.Time      `gorm:"type:timestamptz;default:now()"`
	UpdatedAt    time.Time      `gorm:"type:timestamptz;default:now()"`
}
