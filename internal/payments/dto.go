package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/getclientflow/clientflow-backend/pkg/db/models"
	"github.com/getclientflow/clientflow-backend/pkg/enums"
)

// PaymentDTO is the public shape of a payment record.
type PaymentDTO struct {
	ID        uuid.UUID           `json:"id"`
	ClientID  uuid.UUID           `json:"client_id"`
	InvoiceID *uuid.UUID          `json:"invoice_id,omitempty"`
	BookingID *uuid.UUID          `json:"booking_id,omitempty"`
	Amount    decimal.Decimal     `json:"amount"`
	Currency  string              `json:"currency"`
	Status    enums.PaymentStatus `json:"status"`
	Reference string              `json:"reference,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// FromModel converts a stored payment for API responses.
func FromModel(payment *models.Payment) *PaymentDTO {
	if payment == nil {
		return nil
	}
	return &PaymentDTO{
		ID:        payment.ID,
		ClientID:  payment.ClientID,
		InvoiceID: payment.InvoiceID,
		BookingID: payment.BookingID,
		Amount:    payment.Amount,
		Currency:  payment.Currency,
		Status:    payment.Status,
		Reference: payment.Reference,
		CreatedAt: payment.CreatedAt,
	}
}

// FromModels converts a list of stored payments.
func FromModels(payments []models.Payment) []*PaymentDTO {
	out := make([]*PaymentDTO, 0, len(payments))
	for i := range payments {
		out = append(out, FromModel(&payments[i]))
	}
	return out
}
