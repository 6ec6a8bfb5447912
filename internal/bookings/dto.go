package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/getclientflow/clientflow-backend/pkg/db/models"
	"github.com/getclientflow/clientflow-backend/pkg/enums"
)

// BookingDTO is the public shape of a booking.
type BookingDTO struct {
	ID              uuid.UUID           `json:"id"`
	ClientID        uuid.UUID           `json:"client_id"`
	ServiceName     string              `json:"service_name"`
	ScheduledAt     time.Time           `json:"scheduled_at"`
	DurationMinutes int                 `json:"duration_minutes"`
	TotalPrice      decimal.Decimal     `json:"total_price"`
	Status          enums.BookingStatus `json:"status"`
	Notes           string              `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// FromModel converts a stored booking for API responses.
func FromModel(booking *models.Booking) *BookingDTO {
	if booking == nil {
		return nil
	}
	return &BookingDTO{
		ID:              booking.ID,
		ClientID:        booking.ClientID,
		ServiceName:     booking.ServiceName,
		ScheduledAt:     booking.ScheduledAt,
		DurationMinutes: booking.DurationMinutes,
		TotalPrice:      booking.TotalPrice,
		Status:          booking.Status,
		Notes:           booking.Notes,
		CreatedAt:       booking.CreatedAt,
		UpdatedAt:       booking.UpdatedAt,
	}
}

// FromModels converts a list of stored bookings.
func FromModels(bookings []models.Booking) []*BookingDTO {
	out := make([]*BookingDTO, 0, len(bookings))
	for i := range bookings {
		out = append(out, FromModel(&bookings[i]))
	}
	return out
}
