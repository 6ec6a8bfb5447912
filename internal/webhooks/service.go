package webhooks

import (
	"context"
	"errors"
	"net/url"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/getclientflow/clientflow-backend/pkg/db/models"
	"github.com/getclientflow/clientflow-backend/pkg/enums"
	pkgerrors "github.com/getclientflow/clientflow-backend/pkg/errors"
	"github.com/getclientflow/clientflow-backend/pkg/pagination"
	"github.com/getclientflow/clientflow-backend/pkg/security"
)

// Service defines webhook endpoint management and test delivery operations.
type Service interface {
	Create(ctx context.Context, tenantID uuid.UUID, params CreateParams) (*models.WebhookEndpoint, error)
	Get(ctx context.Context, tenantID, endpointID uuid.UUID) (*models.WebhookEndpoint, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]models.WebhookEndpoint, error)
	Update(ctx context.Context, tenantID, endpointID uuid.UUID, params UpdateParams) (*models.WebhookEndpoint, error)
	Delete(ctx context.Context, tenantID, endpointID uuid.UUID) error
	ListDeliveries(ctx context.Context, tenantID, endpointID uuid.UUID, page pagination.Params) (*DeliveryPage, error)
	SendTest(ctx context.Context, tenantID, endpointID uuid.UUID) (*DeliveryOutcome, error)
}

type service struct {
	repo       Repository
	dispatcher *Dispatcher
}

// CreateParams carries a new endpoint registration.
type CreateParams struct {
	URL         string
	Events      []enums.WebhookEvent
	Description string
}

// UpdateParams carries a partial endpoint update. Nil fields are untouched;
// the signing secret is never updatable.
type UpdateParams struct {
	URL         *string
	Events      []enums.WebhookEvent
	Description *string
	Active      *bool
}

// DeliveryPage wraps delivery history rows and the cursor for the next page.
type DeliveryPage struct {
	Items  []*DeliveryDTO `json:"items"`
	Cursor string         `json:"cursor,omitempty"`
}

// NewService wires webhook management dependencies.
func NewService(repo Repository, dispatcher *Dispatcher) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "webhooks repository required")
	}
	if dispatcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "webhooks dispatcher required")
	}
	return &service{repo: repo, dispatcher: dispatcher}, nil
}

func (s *service) Create(ctx context.Context, tenantID uuid.UUID, params CreateParams) (*models.WebhookEndpoint, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	if err := validateEndpointURL(params.URL); err != nil {
		return nil, err
	}
	if err := validateEvents(params.Events); err != nil {
		return nil, err
	}

	secret, err := security.GenerateWebhookSecret()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate webhook secret")
	}

	endpoint := &models.WebhookEndpoint{
		TenantID:    tenantID,
		URL:         params.URL,
		Secret:      secret,
		Events:      params.Events,
		Description: params.Description,
		Active:      true,
	}
	if err := s.repo.CreateEndpoint(ctx, endpoint); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create webhook endpoint")
	}
	return endpoint, nil
}

func (s *service) Get(ctx context.Context, tenantID, endpointID uuid.UUID) (*models.WebhookEndpoint, error) {
	return s.loadEndpoint(ctx, tenantID, endpointID)
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID) ([]models.WebhookEndpoint, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	endpoints, err := s.repo.ListEndpoints(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list webhook endpoints")
	}
	return endpoints, nil
}

func (s *service) Update(ctx context.Context, tenantID, endpointID uuid.UUID, params UpdateParams) (*models.WebhookEndpoint, error) {
	endpoint, err := s.loadEndpoint(ctx, tenantID, endpointID)
	if err != nil {
		return nil, err
	}

	if params.URL != nil {
		if err := validateEndpointURL(*params.URL); err != nil {
			return nil, err
		}
		endpoint.URL = *params.URL
	}
	if params.Events != nil {
		if err := validateEvents(params.Events); err != nil {
			return nil, err
		}
		endpoint.Events = params.Events
	}
	if params.Description != nil {
		endpoint.Description = *params.Description
	}
	if params.Active != nil {
		endpoint.Active = *params.Active
	}

	if err := s.repo.UpdateEndpoint(ctx, endpoint); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update webhook endpoint")
	}
	return endpoint, nil
}

func (s *service) Delete(ctx context.Context, tenantID, endpointID uuid.UUID) error {
	if tenantID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	if endpointID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "endpoint id required")
	}

	found, err := s.repo.DeleteEndpoint(ctx, tenantID, endpointID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete webhook endpoint")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "webhook endpoint not found")
	}
	return nil
}

func (s *service) ListDeliveries(ctx context.Context, tenantID, endpointID uuid.UUID, page pagination.Params) (*DeliveryPage, error) {
	// Loading the endpoint first enforces tenant scoping on the history read.
	if _, err := s.loadEndpoint(ctx, tenantID, endpointID); err != nil {
		return nil, err
	}

	query := listDeliveriesParams{
		TenantID:   tenantID,
		EndpointID: endpointID,
		Limit:      page.Limit,
	}
	if page.Cursor != "" {
		cursor, err := pagination.ParseCursor(page.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.ListDeliveries(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list webhook deliveries")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &DeliveryPage{Items: DeliveriesFromModels(rows), Cursor: cursor}, nil
}

func (s *service) SendTest(ctx context.Context, tenantID, endpointID uuid.UUID) (*DeliveryOutcome, error) {
	endpoint, err := s.loadEndpoint(ctx, tenantID, endpointID)
	if err != nil {
		return nil, err
	}
	return s.dispatcher.DeliverTest(ctx, endpoint)
}

func (s *service) loadEndpoint(ctx context.Context, tenantID, endpointID uuid.UUID) (*models.WebhookEndpoint, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	if endpointID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "endpoint id required")
	}

	endpoint, err := s.repo.GetEndpoint(ctx, tenantID, endpointID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "webhook endpoint not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load webhook endpoint")
	}
	return endpoint, nil
}

func validateEndpointURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return pkgerrors.New(pkgerrors.CodeValidation, "endpoint url must be a valid http(s) url")
	}
	return nil
}

func validateEvents(events []enums.WebhookEvent) error {
	if len(events) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one event subscription required")
	}
	for _, event := range events {
		if !event.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown webhook event").
				WithDetails(map[string]any{"event": string(event)})
		}
	}
	return nil
}
