package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/getclientflow/clientflow-backend/pkg/enums"
)

// WebhookEndpoint is a tenant-registered URL that receives signed event
// notifications. The secret is generated once at registration, never rotated
// by the delivery subsystem, and must be stored encrypted at rest by the
// backing store.
type WebhookEndpoint struct {
	ID          uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	URL         string               `gorm:"type:text;not null"`
	Secret      string               `gorm:"type:text;not null"`
	Events      []enums.WebhookEvent `gorm:"type:jsonb;serializer:json;not null"`
	Description string               `gorm:"type:text"`
	Active      bool                 `gorm:"not null;default:true"`

	// ConsecutiveFailures counts terminal (post-retry) delivery failures since
	// the last success; crossing the configured threshold marks the endpoint
	// unhealthy in logs and metrics without changing delivery behavior.
	ConsecutiveFailures int `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"type:timestamptz;default:now()"`
	UpdatedAt time.Time `gorm:"type:timestamptz;default:now()"`
}

// SubscribedTo reports whether the endpoint subscribes to the given event.
func (e *WebhookEndpoint) SubscribedTo(event enums.WebhookEvent) bool {
	for _, candidate := range e.Events {
		if candidate == event {
			return true
		}
	}
	return false
}
