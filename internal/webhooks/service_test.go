package webhooks

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/getclientflow/clientflow-backend/pkg/db/models"
	"github.com/getclientflow/clientflow-backend/pkg/enums"
	pkgerrors "github.com/getclientflow/clientflow-backend/pkg/errors"
	"github.com/getclientflow/clientflow-backend/pkg/pagination"
)

func newServiceWithRepo(t *testing.T, repo Repository) Service {
	t.Helper()
	dispatcher := newTestDispatcher(t, testWebhookConfig(), repo)
	t.Cleanup(func() { drain(t, dispatcher) })
	svc, err := NewService(repo, dispatcher)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestServiceCreateGeneratesSecret(t *testing.T) {
	repo := &fakeRepository{}
	svc := newServiceWithRepo(t, repo)

	endpoint, err := svc.Create(context.Background(), uuid.New(), CreateParams{
		URL:         "https://example.com/hooks",
		Events:      []enums.WebhookEvent{enums.WebhookEventBookingCreated},
		Description: "booking feed",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(endpoint.Secret, "whsec_") {
		t.Fatalf("expected generated whsec_ secret, got %q", endpoint.Secret)
	}
	if !endpoint.Active {
		t.Fatal("new endpoints should default to active")
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc := newServiceWithRepo(t, &fakeRepository{})
	tenantID := uuid.New()

	cases := []struct {
		name   string
		params CreateParams
	}{
		{name: "bad scheme", params: CreateParams{URL: "ftp://example.com", Events: []enums.WebhookEvent{enums.WebhookEventBookingCreated}}},
		{name: "no host", params: CreateParams{URL: "https://", Events: []enums.WebhookEvent{enums.WebhookEventBookingCreated}}},
		{name: "no events", params: CreateParams{URL: "https://example.com"}},
		{name: "unknown event", params: CreateParams{URL: "https://example.com", Events: []enums.WebhookEvent{"made.up"}}},
		{name: "reserved test event", params: CreateParams{URL: "https://example.com", Events: []enums.WebhookEvent{enums.WebhookEventTest}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tenantID, tc.params)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestServiceUpdatePartial(t *testing.T) {
	tenantID := uuid.New()
	repo := &fakeRepository{}
	svc := newServiceWithRepo(t, repo)

	created, err := svc.Create(context.Background(), tenantID, CreateParams{
		URL:    "https://example.com/hooks",
		Events: []enums.WebhookEvent{enums.WebhookEventBookingCreated},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	active := false
	updated, err := svc.Update(context.Background(), tenantID, created.ID, UpdateParams{
		Events: []enums.WebhookEvent{enums.WebhookEventInvoicePaid},
		Active: &active,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.URL != created.URL {
		t.Fatalf("url should be unchanged, got %q", updated.URL)
	}
	if updated.Active {
		t.Fatal("expected endpoint deactivated")
	}
	if len(updated.Events) != 1 || updated.Events[0] != enums.WebhookEventInvoicePaid {
		t.Fatalf("unexpected events %v", updated.Events)
	}
	if updated.Secret != created.Secret {
		t.Fatal("update must never rotate the secret")
	}
}

func TestServiceGetNotFoundAcrossTenants(t *testing.T) {
	ownerTenant := uuid.New()
	repo := &fakeRepository{}
	svc := newServiceWithRepo(t, repo)

	created, err := svc.Create(context.Background(), ownerTenant, CreateParams{
		URL:    "https://example.com/hooks",
		Events: []enums.WebhookEvent{enums.WebhookEventBookingCreated},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Get(context.Background(), uuid.New(), created.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign tenant, got %v", err)
	}
}

func TestServiceDeleteNotFound(t *testing.T) {
	repo := &fakeRepository{
		deleteFn: func(ctx context.Context, tenantID, endpointID uuid.UUID) (bool, error) {
			return false, nil
		},
	}
	svc := newServiceWithRepo(t, repo)

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceListDeliveriesInvalidCursor(t *testing.T) {
	tenantID := uuid.New()
	repo := &fakeRepository{}
	svc := newServiceWithRepo(t, repo)

	created, err := svc.Create(context.Background(), tenantID, CreateParams{
		URL:    "https://example.com/hooks",
		Events: []enums.WebhookEvent{enums.WebhookEventBookingCreated},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.ListDeliveries(context.Background(), tenantID, created.ID, pagination.Params{Cursor: "not-base64!!"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceSendTestRequiresOwnedEndpoint(t *testing.T) {
	repo := &fakeRepository{
		getFn: func(ctx context.Context, tenantID, endpointID uuid.UUID) (*models.WebhookEndpoint, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newServiceWithRepo(t, repo)

	_, err := svc.SendTest(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
