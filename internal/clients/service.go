package clients

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
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

// Service defines client CRM operations.
type Service interface {
	Create(ctx context.Context, tenantID uuid.UUID, params CreateParams) (*models.Client, error)
	Get(ctx context.Context, tenantID, clientID uuid.UUID) (*models.Client, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]models.Client, error)
	Update(ctx context.Context, tenantID, clientID uuid.UUID, params UpdateParams) (*models.Client, error)
}

type service struct {
	repo     Repository
	notifier Notifier
	logg     *logger.Logger
}

// CreateParams carries a new client record.
type CreateParams struct {
	Name  string
	Email string
	Phone string
	Notes string
}

// UpdateParams carries a partial client update.
type UpdateParams struct {
	Name  *string
	Email *string
	Phone *string
	Notes *string
}

// NewService wires client dependencies.
func NewService(repo Repository, notifier Notifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "clients repository required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "webhook notifier required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, notifier: notifier, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, tenantID uuid.UUID, params CreateParams) (*models.Client, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name required")
	}

	client := &models.Client{
		TenantID: tenantID,
		Name:     strings.TrimSpace(params.Name),
		Email:    strings.TrimSpace(params.Email),
		Phone:    strings.TrimSpace(params.Phone),
		Notes:    params.Notes,
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create client")
	}

	s.notify(ctx, tenantID, enums.WebhookEventClientCreated, client)
	return client, nil
}

func (s *service) Get(ctx context.Context, tenantID, clientID uuid.UUID) (*models.Client, error) {
	return s.load(ctx, tenantID, clientID)
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID) ([]models.Client, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	out, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list clients")
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, tenantID, clientID uuid.UUID, params UpdateParams) (*models.Client, error) {
	client, err := s.load(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		if strings.TrimSpace(*params.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name required")
		}
		client.Name = strings.TrimSpace(*params.Name)
	}
	if params.Email != nil {
		client.Email = strings.TrimSpace(*params.Email)
	}
	if params.Phone != nil {
		client.Phone = strings.TrimSpace(*params.Phone)
	}
	if params.Notes != nil {
		client.Notes = *params.Notes
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update client")
	}

	s.notify(ctx, tenantID, enums.WebhookEventClientUpdated, client)
	return client, nil
}

func (s *service) load(ctx context.Context, tenantID, clientID uuid.UUID) (*models.Client, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	if clientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id required")
	}

	client, err := s.repo.Get(ctx, tenantID, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client")
	}
	return client, nil
}

// notify queues the webhook and never fails the calling operation.
func (s *service) notify(ctx context.Context, tenantID uuid.UUID, event enums.WebhookEvent, client *models.Client) {
	data := webhooks.ClientData{
		ID:        client.ID,
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
	if _, err := s.notifier.Dispatch(ctx, tenantID, event, data); err != nil {
		s.logg.Error(ctx, "dispatching client webhook", err)
	}
}
