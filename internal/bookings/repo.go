package bookings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/getclientflow/clientflow-backend/pkg/db/models"
)

// Repository exposes persistence helpers for bookings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, booking *models.Booking) error
	Get(ctx context.Context, tenantID, bookingID uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a bookings repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repositoryImpl) Get(ctx context.Context, tenantID, bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", bookingID, tenantID).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repositoryImpl) List(ctx context.Context, tenantID uuid.UUID) ([]models.Booking, error) {
	var out []models.Booking
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("scheduled_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *repositoryImpl) Update(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}
