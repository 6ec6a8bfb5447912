package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/getclientflow/clientflow-backend/pkg/enums"
)

// WebhookDelivery is one append-only row per delivery attempt. Retries of the
// same logical delivery produce multiple rows sharing the endpoint and event;
// rows are never mutated and are removed only when the owning endpoint is
// deleted.
type WebhookDelivery struct {
	ID         uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EndpointID uuid.UUID          `gorm:"type:uuid;not null;index"`
	Event      enums.WebhookEvent `gorm:"type:text;not null"`
	Payload    string             `gorm:"type:text;not null"`
	Response   string             `gorm:"type:text"`
	StatusCode *int               `gorm:""`
	Success    bool               `gorm:"not null"`
	Attempts   int                `gorm:"not null"`
	CreatedAt  time.Time          `gorm:"type:timestamptz;default:now()"`
}
