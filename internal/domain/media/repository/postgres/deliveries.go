// Package postgres contains the delivery history repository
package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/deps"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/entities"
)

type deliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository returns a gorm repository, or a no-op one when db is nil
func NewDeliveryRepository(db *gorm.DB) deps.DeliveryRepository {
	if db == nil {
		return noopRepository{}
	}
	return &deliveryRepository{db: db}
}

// Save saves a delivery record
func (r *deliveryRepository) Save(ctx context.Context, record *entities.DeliveryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// StatsByUser sums the user's delivered records
func (r *deliveryRepository) StatsByUser(ctx context.Context, userID int64) (*entities.DeliveryStats, error) {
	var stats entities.DeliveryStats
	err := r.db.WithContext(ctx).
		Model(&entities.DeliveryRecord{}).
		Select("COUNT(*) AS count, COALESCE(SUM(size_bytes), 0) AS bytes").
		Where("user_id = ? AND status = ?", userID, entities.DeliveryStatusDelivered).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Enabled implements deps.DeliveryRepository
func (r *deliveryRepository) Enabled() bool {
	return true
}

type noopRepository struct{}

func (noopRepository) Save(context.Context, *entities.DeliveryRecord) error { return nil }

func (noopRepository) StatsByUser(context.Context, int64) (*entities.DeliveryStats, error) {
	return &entities.DeliveryStats{}, nil
}

func (noopRepository) Enabled() bool { return false }
