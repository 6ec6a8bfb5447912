package clients

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/getclientflow/clientflow-backend/pkg/db/models"
)

// Repository exposes persistence helpers for clients.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, client *models.Client) error
	Get(ctx context.Context, tenantID, clientID uuid.UUID) (*models.Client, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]models.Client, error)
	Update(ctx context.Context, client *models.Client) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a clients repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *repositoryImpl) Get(ctx context.Context, tenantID, clientID uuid.UUID) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", clientID, tenantID).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repositoryImpl) List(ctx context.Context, tenantID uuid.UUID) ([]models.Client, error) {
	var out []models.Client
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *repositoryImpl) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}
