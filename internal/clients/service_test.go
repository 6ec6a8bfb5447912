package clients

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/getclientflow/clientflow-backend/internal/webhooks"
	"github.com/getclientflow/clientflow-backend/pkg/db/models"
	"github.com/getclientflow/clientflow-backend/pkg/enums"
	pkgerrors "github.com/getclientflow/clientflow-backend/pkg/errors"
	"github.com/getclientflow/clientflow-backend/pkg/logger"
)

type fakeRepository struct {
	clients map[uuid.UUID]*models.Client
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{clients: make(map[uuid.UUID]*models.Client)}
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, client *models.Client) error {
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	copied := *client
	f.clients[client.ID] = &copied
	return nil
}

func (f *fakeRepository) Get(ctx context.Context, tenantID, clientID uuid.UUID) (*models.Client, error) {
	client, ok := f.clients[clientID]
	if !ok || client.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *client
	return &copied, nil
}

func (f *fakeRepository) List(ctx context.Context, tenantID uuid.UUID) ([]models.Client, error) {
	var out []models.Client
	for _, client := range f.clients {
		if client.TenantID == tenantID {
			out = append(out, *client)
		}
	}
	return out, nil
}

func (f *fakeRepository) Update(ctx context.Context, client *models.Client) error {
	copied := *client
	f.clients[client.ID] = &copied
	return nil
}

type dispatchCall struct {
	tenantID uuid.UUID
	event    enums.WebhookEvent
	data     any
}

type fakeNotifier struct {
	calls []dispatchCall
}

func (f *fakeNotifier) Dispatch(ctx context.Context, tenantID uuid.UUID, event enums.WebhookEvent, data any) (int, error) {
	f.calls = append(f.calls, dispatchCall{tenantID: tenantID, event: event, data: data})
	return 1, nil
}

func newTestService(t *testing.T, repo Repository, notifier Notifier) Service {
	t.Helper()
	svc, err := NewService(repo, notifier, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestServiceCreateDispatchesClientCreated(t *testing.T) {
	tenantID := uuid.New()
	notifier := &fakeNotifier{}
	svc := newTestService(t, newFakeRepository(), notifier)

	client, err := svc.Create(context.Background(), tenantID, CreateParams{
		Name:  "  Dana Client  ",
		Email: "dana@example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if client.Name != "Dana Client" {
		t.Fatalf("name must be trimmed, got %q", client.Name)
	}

	if len(notifier.calls) != 1 || notifier.calls[0].event != enums.WebhookEventClientCreated {
		t.Fatalf("expected client.created dispatch, got %+v", notifier.calls)
	}
	data := notifier.calls[0].data.(webhooks.ClientData)
	if data.ID != client.ID || data.Email != "dana@example.com" {
		t.Fatalf("unexpected payload %+v", data)
	}
}

func TestServiceCreateRequiresName(t *testing.T) {
	svc := newTestService(t, newFakeRepository(), &fakeNotifier{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateParams{Name: "   "})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceUpdateDispatchesClientUpdated(t *testing.T) {
	tenantID := uuid.New()
	repo := newFakeRepository()
	notifier := &fakeNotifier{}
	svc := newTestService(t, repo, notifier)

	client, err := svc.Create(context.Background(), tenantID, CreateParams{Name: "Dana Client"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	phone := "+1 555 0100"
	updated, err := svc.Update(context.Background(), tenantID, client.ID, UpdateParams{Phone: &phone})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Phone != phone || updated.Name != "Dana Client" {
		t.Fatalf("partial update broke fields: %+v", updated)
	}

	last := notifier.calls[len(notifier.calls)-1]
	if last.event != enums.WebhookEventClientUpdated {
		t.Fatalf("expected client.updated, got %s", last.event)
	}
}

func TestServiceGetScopedToTenant(t *testing.T) {
	repo := newFakeRepository()
	notifier := &fakeNotifier{}
	svc := newTestService(t, repo, notifier)

	client, err := svc.Create(context.Background(), uuid.New(), CreateParams{Name: "Dana Client"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Get(context.Background(), uuid.New(), client.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("cross-tenant read must 404, got %v", err)
	}
}
