package model

import "time"

// PushSubscription holds the information for a device push
// subscription, keyed by its push-service endpoint.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Floors []SubscribedFloor `gorm:"many2many:subscription_floor_mapping;"`
}

// SubscribedFloor is a floor id a subscription can opt into. Rows are
// seeded from the configured floor layout at startup.
type SubscribedFloor struct {
	ID int `gorm:"primaryKey"`
}
