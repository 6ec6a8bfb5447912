package invoices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/getclientflow/clientflow-backend/internal/webhooks"
	"github.com/getclientflow/clientflow-backend/pkg/db/models"
	"github.com/getclientflow/clientflow-backend/pkg/enums"
	pkgerrors "github.com/getclientflow/clientflow-backend/pkg/errors"
	"github.com/getclientflow/clientflow-backend/pkg/logger"
)

// Notifier queues webhook notifications for tenant endpoints.
type Notifier interface {
	Dispatch(ctx context.Context, tenantID uuid.UUID, event enums.WebhookEvent, data any) (int, error)
}

// ClientLoader resolves client records for event payload enrichment.
type ClientLoader interface {
	Get(ctx context.Context, tenantID, clientID uuid.UUID) (*models.Client, error)
}

// Service defines invoicing operations.
type Service interface {
	Create(ctx context.Context, tenantID uuid.UUID, params CreateParams) (*models.Invoice, error)
	Get(ctx context.Context, tenantID, invoiceID uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]models.Invoice, error)
	Send(ctx context.Context, tenantID, invoiceID uuid.UUID) (*models.Invoice, error)
	MarkPaid(ctx context.Context, tenantID, invoiceID uuid.UUID) (*models.Invoice, error)
	SweepOverdue(ctx context.Context, asOf time.Time) (int, error)
}

type service struct {
	repo     Repository
	clients  ClientLoader
	notifier Notifier
	logg     *logger.Logger
}

// CreateParams carries a new draft invoice.
type CreateParams struct {
	ClientID      uuid.UUID
	BookingID     *uuid.UUID
	InvoiceNumber string
	Total         decimal.Decimal
	Currency      string
	DueDate       *time.Time
}

// NewService wires invoice dependencies.
func NewService(repo Repository, clients ClientLoader, notifier Notifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "invoices repository required")
	}
	if clients == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "clients loader required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "webhook notifier required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, clients: clients, notifier: notifier, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, tenantID uuid.UUID, params CreateParams) (*models.Invoice, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	if params.ClientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id required")
	}
	if strings.TrimSpace(params.InvoiceNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice number required")
	}
	if params.Total.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice total cannot be negative")
	}

	currency := strings.ToLower(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = "usd"
	}

	invoice := &models.Invoice{
		TenantID:      tenantID,
		ClientID:      params.ClientID,
		BookingID:     params.BookingID,
		InvoiceNumber: strings.TrimSpace(params.InvoiceNumber),
		Total:         params.Total,
		Currency:      currency,
		Status:        enums.InvoiceStatusDraft,
		DueDate:       params.DueDate,
	}
	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invoice")
	}
	return invoice, nil
}

func (s *service) Get(ctx context.Context, tenantID, invoiceID uuid.UUID) (*models.Invoice, error) {
	return s.load(ctx, tenantID, invoiceID)
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID) ([]models.Invoice, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	out, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invoices")
	}
	return out, nil
}

func (s *service) Send(ctx context.Context, tenantID, invoiceID uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.load(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != enums.InvoiceStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only draft invoices can be sent")
	}

	now := time.Now().UTC()
	invoice.Status = enums.InvoiceStatusSent
	invoice.SentAt = &now
	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send invoice")
	}

	s.notify(ctx, tenantID, enums.WebhookEventInvoiceSent, invoice)
	return invoice, nil
}

func (s *service) MarkPaid(ctx context.Context, tenantID, invoiceID uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.load(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == enums.InvoiceStatusPaid {
		return invoice, nil
	}
	if invoice.Status == enums.InvoiceStatusVoid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "void invoices cannot be paid")
	}

	now := time.Now().UTC()
	invoice.Status = enums.InvoiceStatusPaid
	invoice.PaidAt = &now
	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark invoice paid")
	}

	s.notify(ctx, tenantID, enums.WebhookEventInvoicePaid, invoice)
	return invoice, nil
}

// SweepOverdue flips sent invoices past their due date to overdue and emits a
// notification per invoice. Returns the number of invoices transitioned.
func (s *service) SweepOverdue(ctx context.Context, asOf time.Time) (int, error) {
	candidates, err := s.repo.ListOverdueCandidates(ctx, asOf, 0)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list overdue candidates")
	}

	flipped := 0
	for i := range candidates {
		invoice := candidates[i]
		invoice.Status = enums.InvoiceStatusOverdue
		if err := s.repo.Update(ctx, &invoice); err != nil {
			s.logg.Error(ctx, fmt.Sprintf("marking invoice %s overdue", invoice.ID), err)
			continue
		}
		flipped++
		s.notify(ctx, invoice.TenantID, enums.WebhookEventInvoiceOverdue, &invoice)
	}
	return flipped, nil
}

func (s *service) load(ctx context.Context, tenantID, invoiceID uuid.UUID) (*models.Invoice, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	if invoiceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice id required")
	}

	invoice, err := s.repo.Get(ctx, tenantID, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
	}
	return invoice, nil
}

func (s *service) notify(ctx context.Context, tenantID uuid.UUID, event enums.WebhookEvent, invoice *models.Invoice) {
	data := webhooks.InvoiceData{
		ID:            invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		Total:         invoice.Total,
		DueDate:       invoice.DueDate,
		PaidAt:        invoice.PaidAt,
		Status:        string(invoice.Status),
	}
	if client, err := s.clients.Get(ctx, tenantID, invoice.ClientID); err == nil {
		data.ClientName = client.Name
		data.ClientEmail = client.Email
	}
	if _, err := s.notifier.Dispatch(ctx, tenantID, event, data); err != nil {
		s.logg.Error(ctx, "dispatching invoice webhook", err)
	}
}
