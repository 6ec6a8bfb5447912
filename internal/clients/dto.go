package clients

import (
	"time"

	"github.com/google/uuid"

	"github.com/getclientflow/clientflow-backend/pkg/db/models"
)

// ClientDTO is the public shape of a client record.
type ClientDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModel converts a stored client for API responses.
func FromModel(client *models.Client) *ClientDTO {
	if client == nil {
		return nil
	}
	return &ClientDTO{
		ID:        client.ID,
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		Notes:     client.Notes,
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
}

// FromModels converts a list of stored clients.
func FromModels(clients []models.Client) []*ClientDTO {
	out := make([]*ClientDTO, 0, len(clients))
	for i := range clients {
		out = append(out, FromModel(&clients[i]))
	}
	return out
}
