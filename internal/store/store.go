package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"laundrify-backend/internal/live"
	"laundrify-backend/internal/model"
)

// LostItemFilter selects which lost items a listing returns.
type LostItemFilter string

const (
	FilterAll   LostItemFilter = "all"
	FilterLost  LostItemFilter = "lost"
	FilterFound LostItemFilter = "found"
)

// Store defines persistence for lost items and push subscriptions.
type Store interface {
	ReportLostItem(ctx context.Context, description, roomNumber string) (string, error)
	ResolveLostItem(ctx context.Context, id string) error
	ListLostItems(ctx context.Context, filter LostItemFilter) ([]model.LostItem, error)

	UpsertSubscription(ctx context.Context, sub model.PushSubscription, floorIDs []int) error
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscribedFloors(ctx context.Context, endpoint string) ([]int, error)
	ToggleFloor(ctx context.Context, sub model.PushSubscription, floorID int) (bool, error)
	SubscriptionsForFloor(ctx context.Context, floorID int) ([]model.PushSubscription, error)
	SeedFloors(ctx context.Context, floorIDs []int) error

	// WatchLostItems subscribes to the full item collection, re-sent
	// after every write. Release with UnwatchLostItems.
	WatchLostItems() chan []model.LostItem
	UnwatchLostItems(ch chan []model.LostItem)

	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db     *gorm.DB
	logger *zap.Logger
	items  *live.Hub[[]model.LostItem]
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB, logger *zap.Logger) Store {
	return &gormStore{
		db:     db,
		logger: logger,
		items:  live.NewHub[[]model.LostItem](),
	}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// ReportLostItem validates and creates a new lost-item report,
// returning the generated id.
func (s *gormStore) ReportLostItem(ctx context.Context, description, roomNumber string) (string, error) {
	description = strings.TrimSpace(description)
	roomNumber = strings.TrimSpace(roomNumber)
	if description == "" {
		return "", &ValidationError{Field: "description", Reason: "must not be blank"}
	}
	if roomNumber == "" {
		return "", &ValidationError{Field: "roomNumber", Reason: "must not be blank"}
	}

	item := model.LostItem{
		ID:          uuid.NewString(),
		Description: description,
		RoomNumber:  roomNumber,
		Status:      model.LostItemLost,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return "", fmt.Errorf("create lost item: %w", err)
	}

	s.broadcastLostItems(ctx)
	return item.ID, nil
}

// ResolveLostItem flips an item to found. Resolving an already-found
// item succeeds without a write; an unknown id is ErrNotFound.
func (s *gormStore) ResolveLostItem(ctx context.Context, id string) error {
	var item model.LostItem
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("fetch lost item %s: %w", id, err)
	}
	if item.Status == model.LostItemFound {
		return nil
	}

	if err := s.db.WithContext(ctx).Model(&item).Update("status", model.LostItemFound).Error; err != nil {
		return fmt.Errorf("resolve lost item %s: %w", id, err)
	}

	s.broadcastLostItems(ctx)
	return nil
}

// ListLostItems returns items newest-first, optionally narrowed to a
// status.
func (s *gormStore) ListLostItems(ctx context.Context, filter LostItemFilter) ([]model.LostItem, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	switch filter {
	case FilterAll, "":
	case FilterLost:
		q = q.Where("status = ?", model.LostItemLost)
	case FilterFound:
		q = q.Where("status = ?", model.LostItemFound)
	default:
		return nil, &ValidationError{Field: "filter", Reason: "must be all, lost or found"}
	}

	items := make([]model.LostItem, 0)
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list lost items: %w", err)
	}
	return items, nil
}

func (s *gormStore) WatchLostItems() chan []model.LostItem {
	return s.items.Subscribe()
}

func (s *gormStore) UnwatchLostItems(ch chan []model.LostItem) {
	s.items.Unsubscribe(ch)
}

// broadcastLostItems re-sends the full collection to every observer,
// mirroring the feed shape clients subscribe to.
func (s *gormStore) broadcastLostItems(ctx context.Context) {
	if s.items.Len() == 0 {
		return
	}
	items, err := s.ListLostItems(ctx, FilterAll)
	if err != nil {
		s.logger.Warn("failed to load lost items for broadcast", zap.Error(err))
		return
	}
	s.items.Broadcast(items)
}

// SeedFloors makes sure a row exists for every configured floor so
// subscriptions have something to attach to.
func (s *gormStore) SeedFloors(ctx context.Context, floorIDs []int) error {
	if len(floorIDs) == 0 {
		return nil
	}
	floors := make([]model.SubscribedFloor, len(floorIDs))
	for i, id := range floorIDs {
		floors[i] = model.SubscribedFloor{ID: id}
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&floors).Error
	if err != nil {
		return fmt.Errorf("seed floors: %w", err)
	}
	return nil
}

// UpsertSubscription creates or refreshes a subscription and replaces
// its floor set wholesale.
func (s *gormStore) UpsertSubscription(ctx context.Context, sub model.PushSubscription, floorIDs []int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(&sub).Error; err != nil {
			return err
		}

		var floors []model.SubscribedFloor
		if len(floorIDs) > 0 {
			if err := tx.Find(&floors, floorIDs).Error; err != nil {
				return err
			}
		}
		return tx.Model(&sub).Association("Floors").Replace(&floors)
	})
}

// DeleteSubscription removes a subscription and its floor mappings.
func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).
		Select(clause.Associations).
		Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}

// SubscribedFloors returns the floor ids a subscription has opted
// into, or ErrNotFound for an unknown endpoint.
func (s *gormStore) SubscribedFloors(ctx context.Context, endpoint string) ([]int, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).Preload("Floors").First(&sub, "endpoint = ?", endpoint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	ids := make([]int, len(sub.Floors))
	for i, f := range sub.Floors {
		ids[i] = f.ID
	}
	return ids, nil
}

// ToggleFloor flips one floor in a subscription's set and reports the
// resulting state: true when the floor is now subscribed. The
// subscription itself is upserted first so a toggle can be the first
// thing a fresh client does.
func (s *gormStore) ToggleFloor(ctx context.Context, sub model.PushSubscription, floorID int) (bool, error) {
	var subscribed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var floor model.SubscribedFloor
		if err := tx.First(&floor, floorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(&sub).Error; err != nil {
			return err
		}

		var mapped int64
		if err := tx.Table("subscription_floor_mapping").
			Where("push_subscription_endpoint = ? AND subscribed_floor_id = ?", sub.Endpoint, floorID).
			Count(&mapped).Error; err != nil {
			return err
		}

		assoc := tx.Model(&sub).Association("Floors")
		if mapped > 0 {
			subscribed = false
			return assoc.Delete(&floor)
		}
		subscribed = true
		return assoc.Append(&floor)
	})
	return subscribed, err
}

// SubscriptionsForFloor returns every subscription opted into the
// given floor.
func (s *gormStore) SubscriptionsForFloor(ctx context.Context, floorID int) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Joins("JOIN subscription_floor_mapping sfm ON sfm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("sfm.subscribed_floor_id = ?", floorID).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("fetch subscriptions for floor %d: %w", floorID, err)
	}
	return subs, nil
}
