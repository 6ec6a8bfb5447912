package invoices

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/getclientflow/clientflow-backend/pkg/db/models"
	"github.com/getclientflow/clientflow-backend/pkg/enums"
)

// InvoiceDTO is the public shape of an invoice.
type InvoiceDTO struct {
	ID            uuid.UUID           `json:"id"`
	ClientID      uuid.UUID           `json:"client_id"`
	BookingID     *uuid.UUID          `json:"booking_id,omitempty"`
	InvoiceNumber string              `json:"invoice_number"`
	Total         decimal.Decimal     `json:"total"`
	Currency      string              `json:"currency"`
	Status        enums.InvoiceStatus `json:"status"`
	DueDate       *time.Time          `json:"due_date,omitempty"`
	SentAt        *time.Time          `json:"sent_at,omitempty"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// FromModel converts a stored invoice for API responses.
func FromModel(invoice *models.Invoice) *InvoiceDTO {
	if invoice == nil {
		return nil
	}
	return &InvoiceDTO{
		ID:            invoice.ID,
		ClientID:      invoice.ClientID,
		BookingID:     invoice.BookingID,
		InvoiceNumber: invoice.InvoiceNumber,
		Total:         invoice.Total,
		Currency:      invoice.Currency,
		Status:        invoice.Status,
		DueDate:       invoice.DueDate,
		SentAt:        invoice.SentAt,
		PaidAt:        invoice.PaidAt,
		CreatedAt:     invoice.CreatedAt,
		UpdatedAt:     invoice.UpdatedAt,
	}
}

// FromModels converts a list of stored invoices.
func FromModels(invoices []models.Invoice) []*InvoiceDTO {
	out := make([]*InvoiceDTO, 0, len(invoices))
	for i := range invoices {
		out = append(out, FromModel(&invoices[i]))
	}
	return out
}
