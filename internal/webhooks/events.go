package webhooks

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Typed data payloads for the event catalog. Producers build these from their
// models so every tenant sees the same field set for a given event type.

type BookingCreatedData struct {
	ID              uuid.UUID       `json:"id"`
	ClientID        uuid.UUID       `json:"client_id"`
	ClientName      string          `json:"client_name"`
	ClientEmail     string          `json:"client_email"`
	ServiceName     string          `json:"service_name"`
	ScheduledAt     time.Time       `json:"scheduled_at"`
	DurationMinutes int             `json:"duration_minutes"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
}

// BookingStatusData covers confirmed, cancelled and completed notifications.
type BookingStatusData struct {
	ID          uuid.UUID        `json:"id"`
	ClientID    uuid.UUID        `json:"client_id"`
	ClientName  string           `json:"client_name"`
	ScheduledAt time.Time        `json:"scheduled_at"`
	TotalPrice  *decimal.Decimal `json:"total_price,omitempty"`
	Status      string           `json:"status"`
}

type BookingRescheduledData struct {
	ID                  uuid.UUID `json:"id"`
	ClientID            uuid.UUID `json:"client_id"`
	ClientName          string    `json:"client_name"`
	PreviousScheduledAt time.Time `json:"previous_scheduled_at"`
	ScheduledAt         time.Time `json:"scheduled_at"`
	Status              string    `json:"status"`
}

type ClientData struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PaymentData struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	ClientName  string          `json:"client_name"`
	ClientEmail string          `json:"client_email"`
	BookingID   *uuid.UUID      `json:"booking_id,omitempty"`
	InvoiceID   *uuid.UUID      `json:"invoice_id,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

type InvoiceData struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	ClientName    string          `json:"client_name"`
	ClientEmail   string          `json:"client_email"`
	Total         decimal.Decimal `json:"total"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	Status        string          `json:"status"`
}
