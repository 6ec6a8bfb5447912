package webhooks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/getclientflow/clientflow-backend/pkg/db/models"
	"github.com/getclientflow/clientflow-backend/pkg/enums"
	"github.com/getclientflow/clientflow-backend/pkg/pagination"
)

func setupWebhooksTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:webhooks_repo?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	endpoints := `
CREATE TABLE IF NOT EXISTS webhook_endpoints (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  url TEXT NOT NULL,
  secret TEXT NOT NULL,
  events TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  active INTEGER NOT NULL DEFAULT 1,
  consecutive_failures INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	deliveries := `
CREATE TABLE IF NOT EXISTS webhook_deliveries (
  id TEXT PRIMARY KEY,
  endpoint_id TEXT NOT NULL,
  event TEXT NOT NULL,
  payload TEXT NOT NULL,
  response TEXT NOT NULL DEFAULT '',
  status_code INTEGER,
  success INTEGER NOT NULL DEFAULT 0,
  attempts INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(endpoints).Error)
	require.NoError(t, db.Exec(deliveries).Error)
	return db
}

func seedEndpoint(t *testing.T, repo Repository, tenantID uuid.UUID, events ...enums.WebhookEvent) *models.WebhookEndpoint {
	t.Helper()
	endpoint := &models.WebhookEndpoint{
		ID:        uuid.New(),
		TenantID:  tenantID,
		URL:       "https://example.com/hooks",
		Secret:    "whsec_repo_test",
		Events:    events,
		Active:    true,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateEndpoint(context.Background(), endpoint))
	return endpoint
}

func TestRepositoryEndpointTenantIsolation(t *testing.T) {
	db := setupWebhooksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tenantA := uuid.New()
	tenantB := uuid.New()
	endpoint := seedEndpoint(t, repo, tenantA, enums.WebhookEventBookingCreated)

	got, err := repo.GetEndpoint(ctx, tenantA, endpoint.ID)
	require.NoError(t, err)
	assert.Equal(t, endpoint.ID, got.ID)
	assert.Equal(t, []enums.WebhookEvent{enums.WebhookEventBookingCreated}, got.Events)

	_, err = repo.GetEndpoint(ctx, tenantB, endpoint.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := repo.DeleteEndpoint(ctx, tenantB, endpoint.ID)
	require.NoError(t, err)
	assert.False(t, found, "foreign tenant must not delete the endpoint")

	found, err = repo.DeleteEndpoint(ctx, tenantA, endpoint.ID)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestRepositoryListActiveForEvent(t *testing.T) {
	db := setupWebhooksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	matching := seedEndpoint(t, repo, tenantID, enums.WebhookEventInvoiceSent, enums.WebhookEventInvoicePaid)
	seedEndpoint(t, repo, tenantID, enums.WebhookEventBookingCreated)
	seedEndpoint(t, repo, uuid.New(), enums.WebhookEventInvoiceSent)

	inactive := seedEndpoint(t, repo, tenantID, enums.WebhookEventInvoiceSent)
	inactive.Active = false
	require.NoError(t, repo.UpdateEndpoint(ctx, inactive))

	got, err := repo.ListActiveForEvent(ctx, tenantID, enums.WebhookEventInvoiceSent)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, matching.ID, got[0].ID)
}

func TestRepositoryDeliveryHistoryPagination(t *testing.T) {
	db := setupWebhooksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	endpoint := seedEndpoint(t, repo, tenantID, enums.WebhookEventBookingCreated)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		status := 200
		require.NoError(t, repo.CreateDelivery(ctx, &models.WebhookDelivery{
			ID:         uuid.New(),
			EndpointID: endpoint.ID,
			Event:      enums.WebhookEventBookingCreated,
			Payload:    `{"id":"evt_x"}`,
			Response:   "ok",
			StatusCode: &status,
			Success:    true,
			Attempts:   1,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page, cursor, err := repo.ListDeliveries(ctx, listDeliveriesParams{
		TenantID:   tenantID,
		EndpointID: endpoint.ID,
		Limit:      2,
	})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, cursor)
	// Newest first.
	assert.True(t, page[0].CreatedAt.After(page[1].CreatedAt))

	rest, next, err := repo.ListDeliveries(ctx, listDeliveriesParams{
		TenantID:   tenantID,
		EndpointID: endpoint.ID,
		Limit:      2,
		Cursor:     &pagination.Cursor{CreatedAt: cursor.CreatedAt, ID: cursor.ID},
	})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Nil(t, next)
}

func TestRepositoryFailureCounters(t *testing.T) {
	db := setupWebhooksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	endpoint := seedEndpoint(t, repo, uuid.New(), enums.WebhookEventBookingCreated)

	count, err := repo.IncrementFailureCount(ctx, endpoint.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = repo.IncrementFailureCount(ctx, endpoint.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.ResetFailureCount(ctx, endpoint.ID))

	got, err := repo.GetEndpoint(ctx, endpoint.TenantID, endpoint.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.ConsecutiveFailures)
}
