package entities

import "time"

// Delivery statuses stored in history and published in events
const (
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusTooLarge  = "too_large"
	DeliveryStatusFailed    = "failed"
)

// DeliveryRecord represents one delivery attempt in the history table
type DeliveryRecord struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ChatID    int64     `gorm:"not null;index"`
	UserID    int64     `gorm:"not null;index"`
	URL       string    `gorm:"type:text;not null"`
	Platform  string    `gorm:"type:varchar(32);not null"`
	FormatID  string    `gorm:"type:varchar(64);not null"`
	SizeBytes int64     `gorm:"not null;default:0"`
	Status    string    `gorm:"type:varchar(16);not null;index"`
	Error     string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName overrides the default table name
func (DeliveryRecord) TableName() string {
	return "delivery_records"
}

// DeliveryStats summarises a user's successful deliveries
type DeliveryStats struct {
	Count int64
	Bytes int64
}
