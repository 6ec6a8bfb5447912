package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/getclientflow/clientflow-backend/api/middleware"
	"github.com/getclientflow/clientflow-backend/internal/webhooks"
	"github.com/getclientflow/clientflow-backend/pkg/db/models"
	"github.com/getclientflow/clientflow-backend/pkg/enums"
	pkgerrors "github.com/getclientflow/clientflow-backend/pkg/errors"
	"github.com/getclientflow/clientflow-backend/pkg/logger"
	"github.com/getclientflow/clientflow-backend/pkg/pagination"
)

type testWebhooksService struct {
	createFn         func(ctx context.Context, tenantID uuid.UUID, params webhooks.CreateParams) (*models.WebhookEndpoint, error)
	getFn            func(ctx context.Context, tenantID, endpointID uuid.UUID) (*models.WebhookEndpoint, error)
	listFn           func(ctx context.Context, tenantID uuid.UUID) ([]models.WebhookEndpoint, error)
	updateFn         func(ctx context.Context, tenantID, endpointID uuid.UUID, params webhooks.UpdateParams) (*models.WebhookEndpoint, error)
	deleteFn         func(ctx context.Context, tenantID, endpointID uuid.UUID) error
	listDeliveriesFn func(ctx context.Context, tenantID, endpointID uuid.UUID, page pagination.Params) (*webhooks.DeliveryPage, error)
	sendTestFn       func(ctx context.Context, tenantID, endpointID uuid.UUID) (*webhooks.DeliveryOutcome, error)
}

func (s *testWebhooksService) Create(ctx context.Context, tenantID uuid.UUID, params webhooks.CreateParams) (*models.WebhookEndpoint, error) {
	return s.createFn(ctx, tenantID, params)
}

func (s *testWebhooksService) Get(ctx context.Context, tenantID, endpointID uuid.UUID) (*models.WebhookEndpoint, error) {
	return s.getFn(ctx, tenantID, endpointID)
}

func (s *testWebhooksService) List(ctx context.Context, tenantID uuid.UUID) ([]models.WebhookEndpoint, error) {
	return s.listFn(ctx, tenantID)
}

func (s *testWebhooksService) Update(ctx context.Context, tenantID, endpointID uuid.UUID, params webhooks.UpdateParams) (*models.WebhookEndpoint, error) {
	return s.updateFn(ctx, tenantID, endpointID, params)
}

func (s *testWebhooksService) Delete(ctx context.Context, tenantID, endpointID uuid.UUID) error {
	return s.deleteFn(ctx, tenantID, endpointID)
}

func (s *testWebhooksService) ListDeliveries(ctx context.Context, tenantID, endpointID uuid.UUID, page pagination.Params) (*webhooks.DeliveryPage, error) {
	return s.listDeliveriesFn(ctx, tenantID, endpointID, page)
}

func (s *testWebhooksService) SendTest(ctx context.Context, tenantID, endpointID uuid.UUID) (*webhooks.DeliveryOutcome, error) {
	return s.sendTestFn(ctx, tenantID, endpointID)
}

func testControllerLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func withTenant(req *http.Request, tenantID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithTenantID(req.Context(), tenantID.String()))
}

func withURLParam(req *http.Request, name, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(name, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCreateWebhookRevealsSecretOnce(t *testing.T) {
	tenantID := uuid.New()
	svc := &testWebhooksService{
		createFn: func(ctx context.Context, tid uuid.UUID, params webhooks.CreateParams) (*models.WebhookEndpoint, error) {
			if tid != tenantID {
				t.Fatalf("unexpected tenant %s", tid)
			}
			return &models.WebhookEndpoint{
				ID:       uuid.New(),
				TenantID: tid,
				URL:      params.URL,
				Secret:   "whsec_full-secret-value-abcd",
				Events:   params.Events,
				Active:   true,
			}, nil
		},
	}

	body := `{"url":"https://example.com/hook","events":["booking.created"]}`
	req := withTenant(httptest.NewRequest(http.MethodPost, "/api/v1/webhooks", strings.NewReader(body)), tenantID)
	resp := httptest.NewRecorder()
	CreateWebhook(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data webhooks.EndpointDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Secret != "whsec_full-secret-value-abcd" {
		t.Fatalf("registration must return the full secret, got %q", envelope.Data.Secret)
	}
}

func TestGetWebhookMasksSecret(t *testing.T) {
	tenantID := uuid.New()
	endpointID := uuid.New()
	svc := &testWebhooksService{
		getFn: func(ctx context.Context, tid, eid uuid.UUID) (*models.WebhookEndpoint, error) {
			return &models.WebhookEndpoint{
				ID:       eid,
				TenantID: tid,
				URL:      "https://example.com/hook",
				Secret:   "whsec_full-secret-value-abcd",
				Events:   []enums.WebhookEvent{enums.WebhookEventBookingCreated},
				Active:   true,
			}, nil
		},
	}

	req := withTenant(httptest.NewRequest(http.MethodGet, "/api/v1/webhooks/"+endpointID.String(), nil), tenantID)
	req = withURLParam(req, "webhookID", endpointID.String())
	resp := httptest.NewRecorder()
	GetWebhook(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data webhooks.EndpointDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Secret != "whsec_****abcd" {
		t.Fatalf("reads must mask the secret, got %q", envelope.Data.Secret)
	}
}

func TestCreateWebhookRejectsInvalidBody(t *testing.T) {
	svc := &testWebhooksService{}
	req := withTenant(httptest.NewRequest(http.MethodPost, "/api/v1/webhooks", strings.NewReader(`{"url":""}`)), uuid.New())
	resp := httptest.NewRecorder()
	CreateWebhook(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestWebhookHandlersRequireTenant(t *testing.T) {
	svc := &testWebhooksService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/webhooks", nil)
	resp := httptest.NewRecorder()
	ListWebhooks(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestListWebhookDeliveriesPassesPagination(t *testing.T) {
	tenantID := uuid.New()
	endpointID := uuid.New()
	svc := &testWebhooksService{
		listDeliveriesFn: func(ctx context.Context, tid, eid uuid.UUID, page pagination.Params) (*webhooks.DeliveryPage, error) {
			if page.Limit != 5 || page.Cursor != "abc" {
				t.Fatalf("unexpected pagination %+v", page)
			}
			return &webhooks.DeliveryPage{}, nil
		},
	}

	req := withTenant(httptest.NewRequest(http.MethodGet, "/api/v1/webhooks/"+endpointID.String()+"/deliveries?limit=5&cursor=abc", nil), tenantID)
	req = withURLParam(req, "webhookID", endpointID.String())
	resp := httptest.NewRecorder()
	ListWebhookDeliveries(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestTestWebhookReturnsOutcome(t *testing.T) {
	tenantID := uuid.New()
	endpointID := uuid.New()
	status := 200
	svc := &testWebhooksService{
		sendTestFn: func(ctx context.Context, tid, eid uuid.UUID) (*webhooks.DeliveryOutcome, error) {
			return &webhooks.DeliveryOutcome{Success: true, StatusCode: &status}, nil
		},
	}

	req := withTenant(httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/"+endpointID.String()+"/test", nil), tenantID)
	req = withURLParam(req, "webhookID", endpointID.String())
	resp := httptest.NewRecorder()
	TestWebhook(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data webhooks.DeliveryOutcome `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !envelope.Data.Success || envelope.Data.StatusCode == nil || *envelope.Data.StatusCode != 200 {
		t.Fatalf("unexpected outcome %+v", envelope.Data)
	}
}

func TestDeleteWebhookNotFound(t *testing.T) {
	tenantID := uuid.New()
	endpointID := uuid.New()
	svc := &testWebhooksService{
		deleteFn: func(ctx context.Context, tid, eid uuid.UUID) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "webhook endpoint not found")
		},
	}

	req := withTenant(httptest.NewRequest(http.MethodDelete, "/api/v1/webhooks/"+endpointID.String(), nil), tenantID)
	req = withURLParam(req, "webhookID", endpointID.String())
	resp := httptest.NewRecorder()
	DeleteWebhook(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}
