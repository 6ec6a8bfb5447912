package webhooks

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/getclientflow/clientflow-backend/pkg/db/models"
	"github.com/getclientflow/clientflow-backend/pkg/enums"
)

// EndpointDTO is the public shape of a webhook endpoint. The signing secret is
// returned in full exactly once, on registration; every other read masks it.
type EndpointDTO struct {
	ID                  uuid.UUID            `json:"id"`
	URL                 string               `json:"url"`
	Secret              string               `json:"secret"`
	Events              []enums.WebhookEvent `json:"events"`
	Description         string               `json:"description,omitempty"`
	Active              bool                 `json:"active"`
	ConsecutiveFailures int                  `json:"consecutive_failures"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

// EndpointFromModel converts a stored endpoint for API responses.
func EndpointFromModel(endpoint *models.WebhookEndpoint, revealSecret bool) *EndpointDTO {
	if endpoint == nil {
		return nil
	}
	secret := endpoint.Secret
	if !revealSecret {
		secret = maskSecret(secret)
	}
	return &EndpointDTO{
		ID:                  endpoint.ID,
		URL:                 endpoint.URL,
		Secret:              secret,
		Events:              endpoint.Events,
		Description:         endpoint.Description,
		Active:              endpoint.Active,
		ConsecutiveFailures: endpoint.ConsecutiveFailures,
		CreatedAt:           endpoint.CreatedAt,
		UpdatedAt:           endpoint.UpdatedAt,
	}
}

// EndpointsFromModels converts a list of stored endpoints, always masked.
func EndpointsFromModels(endpoints []models.WebhookEndpoint) []*EndpointDTO {
	out := make([]*EndpointDTO, 0, len(endpoints))
	for i := range endpoints {
		out = append(out, EndpointFromModel(&endpoints[i], false))
	}
	return out
}

func maskSecret(secret string) string {
	const prefix = "whsec_"
	tail := strings.TrimPrefix(secret, prefix)
	if len(tail) <= 4 {
		return prefix + "****"
	}
	return prefix + "****" + tail[len(tail)-4:]
}

// DeliveryDTO is one delivery attempt in the endpoint's history.
type DeliveryDTO struct {
	ID         uuid.UUID          `json:"id"`
	EndpointID uuid.UUID          `json:"endpoint_id"`
	Event      enums.WebhookEvent `json:"event"`
	Payload    string             `json:"payload"`
	Response   string             `json:"response,omitempty"`
	StatusCode *int               `json:"status_code,omitempty"`
	Success    bool               `json:"success"`
	Attempts   int                `json:"attempts"`
	CreatedAt  time.Time          `json:"created_at"`
}

// DeliveryFromModel converts a stored delivery row for API responses.
func DeliveryFromModel(row *models.WebhookDelivery) *DeliveryDTO {
	if row == nil {
		return nil
	}
	return &DeliveryDTO{
		ID:         row.ID,
		EndpointID: row.EndpointID,
		Event:      row.Event,
		Payload:    row.Payload,
		Response:   row.Response,
		StatusCode: row.StatusCode,
		Success:    row.Success,
		Attempts:   row.Attempts,
		CreatedAt:  row.CreatedAt,
	}
}

// DeliveriesFromModels converts a page of delivery rows.
func DeliveriesFromModels(rows []models.WebhookDelivery) []*DeliveryDTO {
	out := make([]*DeliveryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, DeliveryFromModel(&rows[i]))
	}
	return out
}
