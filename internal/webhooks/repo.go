package webhooks

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/getclientflow/clientflow-backend/pkg/db/models"
	"github.com/getclientflow/clientflow-backend/pkg/enums"
	"github.com/getclientflow/clientflow-backend/pkg/pagination"
)

// Repository exposes persistence helpers for webhook endpoints and delivery
// records. Every endpoint query is tenant scoped; an endpoint id from another
// tenant behaves exactly like a missing id.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateEndpoint(ctx context.Context, endpoint *models.WebhookEndpoint) error
	GetEndpoint(ctx context.Context, tenantID, endpointID uuid.UUID) (*models.WebhookEndpoint, error)
	ListEndpoints(ctx context.Context, tenantID uuid.UUID) ([]models.WebhookEndpoint, error)
	UpdateEndpoint(ctx context.Context, endpoint *models.WebhookEndpoint) error
	DeleteEndpoint(ctx context.Context, tenantID, endpointID uuid.UUID) (bool, error)
	ListActiveForEvent(ctx context.Context, tenantID uuid.UUID, event enums.WebhookEvent) ([]models.WebhookEndpoint, error)
	CreateDelivery(ctx context.Context, delivery *models.WebhookDelivery) error
	ListDeliveries(ctx context.Context, params listDeliveriesParams) ([]models.WebhookDelivery, *pagination.Cursor, error)
	ResetFailureCount(ctx context.Context, endpointID uuid.UUID) error
	IncrementFailureCount(ctx context.Context, endpointID uuid.UUID) (int, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a webhooks repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listDeliveriesParams struct {
	TenantID   uuid.UUID
	EndpointID uuid.UUID
	Limit      int
	Cursor     *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) CreateEndpoint(ctx context.Context, endpoint *models.WebhookEndpoint) error {
	return r.db.WithContext(ctx).Create(endpoint).Error
}

func (r *repositoryImpl) GetEndpoint(ctx context.Context, tenantID, endpointID uuid.UUID) (*models.WebhookEndpoint, error) {
	var endpoint models.WebhookEndpoint
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", endpointID, tenantID).
		First(&endpoint).Error
	if err != nil {
		return nil, err
	}
	return &endpoint, nil
}

func (r *repositoryImpl) ListEndpoints(ctx context.Context, tenantID uuid.UUID) ([]models.WebhookEndpoint, error) {
	var endpoints []models.WebhookEndpoint
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC, id DESC").
		Find(&endpoints).Error
	return endpoints, err
}

func (r *repositoryImpl) UpdateEndpoint(ctx context.Context, endpoint *models.WebhookEndpoint) error {
	return r.db.WithContext(ctx).Save(endpoint).Error
}

// DeleteEndpoint removes the endpoint; its delivery history goes with it via
// the ON DELETE CASCADE foreign key.
func (r *repositoryImpl) DeleteEndpoint(ctx context.Context, tenantID, endpointID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", endpointID, tenantID).
		Delete(&models.WebhookEndpoint{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) ListActiveForEvent(ctx context.Context, tenantID uuid.UUID, event enums.WebhookEvent) ([]models.WebhookEndpoint, error) {
	var candidates []models.WebhookEndpoint
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	// Event subscriptions live in a JSONB array; filtering in Go keeps the
	// query portable across the sqlite test driver.
	matched := candidates[:0]
	for i := range candidates {
		if candidates[i].SubscribedTo(event) {
			matched = append(matched, candidates[i])
		}
	}
	return matched, nil
}

func (r *repositoryImpl) CreateDelivery(ctx context.Context, delivery *models.WebhookDelivery) error {
	return r.db.WithContext(ctx).Create(delivery).Error
}

func (r *repositoryImpl) ListDeliveries(ctx context.Context, params listDeliveriesParams) ([]models.WebhookDelivery, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.WebhookDelivery{}).
		Where("endpoint_id = ?", params.EndpointID)
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var deliveries []models.WebhookDelivery
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&deliveries).Error; err != nil {
		return nil, nil, err
	}

	if len(deliveries) > normalized {
		next := deliveries[normalized]
		deliveries = deliveries[:normalized]
		return deliveries, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return deliveries, nil, nil
}

func (r *repositoryImpl) ResetFailureCount(ctx context.Context, endpointID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.WebhookEndpoint{}).
		Where("id = ?", endpointID).
		UpdateColumn("consecutive_failures", 0).Error
}

func (r *repositoryImpl) IncrementFailureCount(ctx context.Context, endpointID uuid.UUID) (int, error) {
	err := r.db.WithContext(ctx).
		Model(&models.WebhookEndpoint{}).
		Where("id = ?", endpointID).
		UpdateColumn("consecutive_failures", gorm.Expr("consecutive_failures + 1")).Error
	if err != nil {
		return 0, err
	}

	var count int
	err = r.db.WithContext(ctx).
		Model(&models.WebhookEndpoint{}).
		Where("id = ?", endpointID).
		Pluck("consecutive_failures", &count).Error
	return count, err
}
