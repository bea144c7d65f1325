package model

import "time"

// LostItemStatus is the one-way lifecycle flag of a lost item.
type LostItemStatus string

const (
	LostItemLost  LostItemStatus = "lost"
	LostItemFound LostItemStatus = "found"
)

// LostItem is a resident's report of a misplaced belonging. Items are
// never deleted; the status flips from lost to found exactly once.
type LostItem struct {
	ID          string         `gorm:"primaryKey;size:64" json:"id"`
	Description string         `gorm:"size:512;not null" json:"description"`
	RoomNumber  string         `gorm:"size:32;not null" json:"roomNumber"`
	Status      LostItemStatus `gorm:"size:16;not null;index" json:"status"`
	CreatedAt   time.Time      `gorm:"not null;index" json:"createdAt"`
}
