package payments

import (
	"context"
	"errors"
	"strings"

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

// Service defines payment recording operations.
type Service interface {
	Record(ctx context.Context, tenantID uuid.UUID, params RecordParams) (*models.Payment, error)
	Refund(ctx context.Context, tenantID, paymentID uuid.UUID) (*models.Payment, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]models.Payment, error)
}

type service struct {
	repo     Repository
	clients  ClientLoader
	notifier Notifier
	logg     *logger.Logger
}

// RecordParams carries a payment outcome reported by the payment provider.
type RecordParams struct {
	ClientID  uuid.UUID
	InvoiceID *uuid.UUID
	BookingID *uuid.UUID
	Amount    decimal.Decimal
	Currency  string
	Status    enums.PaymentStatus
	Reference string
}

// NewService wires payment dependencies.
func NewService(repo Repository, clients ClientLoader, notifier Notifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payments repository required")
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

func (s *service) Record(ctx context.Context, tenantID uuid.UUID, params RecordParams) (*models.Payment, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	if params.ClientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id required")
	}
	if !params.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}
	if params.Status != enums.PaymentStatusSucceeded && params.Status != enums.PaymentStatusFailed {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recorded payments must be succeeded or failed")
	}

	currency := strings.ToLower(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = "usd"
	}

	payment := &models.Payment{
		TenantID:  tenantID,
		ClientID:  params.ClientID,
		InvoiceID: params.InvoiceID,
		BookingID: params.BookingID,
		Amount:    params.Amount,
		Currency:  currency,
		Status:    params.Status,
		Reference: params.Reference,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment")
	}

	event := enums.WebhookEventPaymentReceived
	if payment.Status == enums.PaymentStatusFailed {
		event = enums.WebhookEventPaymentFailed
	}
	s.notify(ctx, tenantID, event, payment)
	return payment, nil
}

func (s *service) Refund(ctx context.Context, tenantID, paymentID uuid.UUID) (*models.Payment, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	if paymentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}

	payment, err := s.repo.Get(ctx, tenantID, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}
	if payment.Status != enums.PaymentStatusSucceeded {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only succeeded payments can be refunded")
	}

	payment.Status = enums.PaymentStatusRefunded
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refund payment")
	}

	s.notify(ctx, tenantID, enums.WebhookEventPaymentRefunded, payment)
	return payment, nil
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID) ([]models.Payment, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	out, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return out, nil
}

func (s *service) notify(ctx context.Context, tenantID uuid.UUID, event enums.WebhookEvent, payment *models.Payment) {
	data := webhooks.PaymentData{
		ID:        payment.ID,
		Amount:    payment.Amount,
		Currency:  payment.Currency,
		BookingID: payment.BookingID,
		InvoiceID: payment.InvoiceID,
		Status:    string(payment.Status),
		CreatedAt: payment.CreatedAt,
	}
	if client, err := s.clients.Get(ctx, tenantID, payment.ClientID); err == nil {
		data.ClientName = client.Name
		data.ClientEmail = client.Email
	}
	if _, err := s.notifier.Dispatch(ctx, tenantID, event, data); err != nil {
		s.logg.Error(ctx, "dispatching payment webhook", err)
	}
}
