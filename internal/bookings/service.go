package bookings

import (
	"context"
	"errors"
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

// Service defines booking scheduling operations.
type Service interface {
	Create(ctx context.Context, tenantID uuid.UUID, params CreateParams) (*models.Booking, error)
	Get(ctx context.Context, tenantID, bookingID uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]models.Booking, error)
	Confirm(ctx context.Context, tenantID, bookingID uuid.UUID) (*models.Booking, error)
	Cancel(ctx context.Context, tenantID, bookingID uuid.UUID) (*models.Booking, error)
	Complete(ctx context.Context, tenantID, bookingID uuid.UUID) (*models.Booking, error)
	Reschedule(ctx context.Context, tenantID, bookingID uuid.UUID, scheduledAt time.Time) (*models.Booking, error)
}

type service struct {
	repo     Repository
	clients  ClientLoader
	notifier Notifier
	logg     *logger.Logger
}

// CreateParams carries a new booking.
type CreateParams struct {
	ClientID        uuid.UUID
	ServiceName     string
	ScheduledAt     time.Time
	DurationMinutes int
	TotalPrice      decimal.Decimal
	Notes           string
}

// NewService wires booking dependencies.
func NewService(repo Repository, clients ClientLoader, notifier Notifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "bookings repository required")
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

func (s *service) Create(ctx context.Context, tenantID uuid.UUID, params CreateParams) (*models.Booking, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	if params.ClientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id required")
	}
	if strings.TrimSpace(params.ServiceName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service name required")
	}
	if params.ScheduledAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduled time required")
	}

	client, err := s.loadClient(ctx, tenantID, params.ClientID)
	if err != nil {
		return nil, err
	}

	duration := params.DurationMinutes
	if duration <= 0 {
		duration = 60
	}

	booking := &models.Booking{
		TenantID:        tenantID,
		ClientID:        params.ClientID,
		ServiceName:     strings.TrimSpace(params.ServiceName),
		ScheduledAt:     params.ScheduledAt.UTC(),
		DurationMinutes: duration,
		TotalPrice:      params.TotalPrice,
		Status:          enums.BookingStatusInquiry,
		Notes:           params.Notes,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create booking")
	}

	s.notify(ctx, tenantID, enums.WebhookEventBookingCreated, webhooks.BookingCreatedData{
		ID:              booking.ID,
		ClientID:        booking.ClientID,
		ClientName:      client.Name,
		ClientEmail:     client.Email,
		ServiceName:     booking.ServiceName,
		ScheduledAt:     booking.ScheduledAt,
		DurationMinutes: booking.DurationMinutes,
		TotalPrice:      booking.TotalPrice,
		Status:          string(booking.Status),
		Notes:           booking.Notes,
		CreatedAt:       booking.CreatedAt,
	})
	return booking, nil
}

func (s *service) Get(ctx context.Context, tenantID, bookingID uuid.UUID) (*models.Booking, error) {
	return s.load(ctx, tenantID, bookingID)
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID) ([]models.Booking, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	out, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
	}
	return out, nil
}

func (s *service) Confirm(ctx context.Context, tenantID, bookingID uuid.UUID) (*models.Booking, error) {
	return s.transition(ctx, tenantID, bookingID, enums.BookingStatusConfirmed, enums.WebhookEventBookingConfirmed)
}

func (s *service) Cancel(ctx context.Context, tenantID, bookingID uuid.UUID) (*models.Booking, error) {
	return s.transition(ctx, tenantID, bookingID, enums.BookingStatusCancelled, enums.WebhookEventBookingCancelled)
}

func (s *service) Complete(ctx context.Context, tenantID, bookingID uuid.UUID) (*models.Booking, error) {
	return s.transition(ctx, tenantID, bookingID, enums.BookingStatusCompleted, enums.WebhookEventBookingCompleted)
}

func (s *service) Reschedule(ctx context.Context, tenantID, bookingID uuid.UUID, scheduledAt time.Time) (*models.Booking, error) {
	if scheduledAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduled time required")
	}

	booking, err := s.load(ctx, tenantID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == enums.BookingStatusCancelled || booking.Status == enums.BookingStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "booking can no longer be rescheduled")
	}

	previous := booking.ScheduledAt
	booking.ScheduledAt = scheduledAt.UTC()
	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reschedule booking")
	}

	clientName := s.clientName(ctx, tenantID, booking.ClientID)
	s.notify(ctx, tenantID, enums.WebhookEventBookingRescheduled, webhooks.BookingRescheduledData{
		ID:                  booking.ID,
		ClientID:            booking.ClientID,
		ClientName:          clientName,
		PreviousScheduledAt: previous,
		ScheduledAt:         booking.ScheduledAt,
		Status:              string(booking.Status),
	})
	return booking, nil
}

func (s *service) transition(ctx context.Context, tenantID, bookingID uuid.UUID, status enums.BookingStatus, event enums.WebhookEvent) (*models.Booking, error) {
	booking, err := s.load(ctx, tenantID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == status {
		return booking, nil
	}
	if booking.Status == enums.BookingStatusCancelled || booking.Status == enums.BookingStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "booking is in a terminal state")
	}

	booking.Status = status
	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update booking status")
	}

	data := webhooks.BookingStatusData{
		ID:          booking.ID,
		ClientID:    booking.ClientID,
		ClientName:  s.clientName(ctx, tenantID, booking.ClientID),
		ScheduledAt: booking.ScheduledAt,
		Status:      string(booking.Status),
	}
	if status == enums.BookingStatusCompleted {
		price := booking.TotalPrice
		data.TotalPrice = &price
	}
	s.notify(ctx, tenantID, event, data)
	return booking, nil
}

func (s *service) load(ctx context.Context, tenantID, bookingID uuid.UUID) (*models.Booking, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	if bookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}

	booking, err := s.repo.Get(ctx, tenantID, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	return booking, nil
}

func (s *service) loadClient(ctx context.Context, tenantID, clientID uuid.UUID) (*models.Client, error) {
	client, err := s.clients.Get(ctx, tenantID, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "client not found for booking")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking client")
	}
	return client, nil
}

// clientName is best-effort payload enrichment; a missing client record
// never blocks the notification.
func (s *service) clientName(ctx context.Context, tenantID, clientID uuid.UUID) string {
	client, err := s.clients.Get(ctx, tenantID, clientID)
	if err != nil {
		return ""
	}
	return client.Name
}

func (s *service) notify(ctx context.Context, tenantID uuid.UUID, event enums.WebhookEvent, data any) {
	if _, err := s.notifier.Dispatch(ctx, tenantID, event, data); err != nil {
		s.logg.Error(ctx, "dispatching booking webhook", err)
	}
}
