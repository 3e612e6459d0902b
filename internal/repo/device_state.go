// Package repo – persistence for the offline generator's selection state.
//
// Repository helpers are free functions taking (ctx, db) like the rest of
// the data layer; DeviceStateStore adapts them to the local.StateStore
// interface consumed by the generator.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-fortune-backend/internal/domain"
	"github.com/tbourn/go-fortune-backend/internal/local"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound so callers can use errors.Is
// with either sentinel.
var ErrNotFound = gorm.ErrRecordNotFound

// GetSelection fetches the shuffle state for device+category, or ErrNotFound.
func GetSelection(ctx context.Context, db *gorm.DB, deviceID, category string) (*domain.DeviceSelection, error) {
	var rec domain.DeviceSelection
	err := db.WithContext(ctx).
		Where("device_id = ? AND category = ?", deviceID, category).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpsertSelection creates or replaces the shuffle state for device+category.
func UpsertSelection(ctx context.Context, db *gorm.DB, deviceID, category string, poolSize int, orderJSON, usedJSON string) error {
	existing, err := GetSelection(ctx, db, deviceID, category)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if existing != nil {
		return db.WithContext(ctx).
			Model(&domain.DeviceSelection{}).
			Where("device_id = ? AND category = ?", deviceID, category).
			Updates(map[string]any{
				"pool_size":  poolSize,
				"pick_order": orderJSON,
				"used":       usedJSON,
			}).Error
	}
	rec := &domain.DeviceSelection{
		ID:       uuid.NewString(),
		DeviceID: deviceID,
		Category: category,
		PoolSize: poolSize,
		Order:    orderJSON,
		Used:     usedJSON,
	}
	return db.WithContext(ctx).Create(rec).Error
}

// HasDaily reports whether a served-today row exists for device+category+day.
func HasDaily(ctx context.Context, db *gorm.DB, deviceID, category, day string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.DeviceDaily{}).
		Where("device_id = ? AND category = ? AND day = ?", deviceID, category, day).
		Count(&n).Error
	return n > 0, err
}

// CreateDaily records the served-today flag. A concurrent duplicate insert
// is not an error: the flag is already in the state we wanted.
func CreateDaily(ctx context.Context, db *gorm.DB, deviceID, category, day string) error {
	rec := &domain.DeviceDaily{
		ID:       uuid.NewString(),
		DeviceID: deviceID,
		Category: category,
		Day:      day,
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return nil
		}
		return err
	}
	return nil
}

// DeviceStateStore adapts the repository functions to local.StateStore.
type DeviceStateStore struct {
	DB *gorm.DB
}

// NewDeviceStateStore constructs a DeviceStateStore over db.
func NewDeviceStateStore(db *gorm.DB) *DeviceStateStore {
	return &DeviceStateStore{DB: db}
}

// Selection implements local.StateStore.
func (s *DeviceStateStore) Selection(ctx context.Context, deviceID, category string) (*local.SelectionState, error) {
	rec, err := GetSelection(ctx, s.DB, deviceID, category)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var order, used []int
	if err := json.Unmarshal([]byte(rec.Order), &order); err != nil {
		return nil, nil // corrupt state regenerates
	}
	if err := json.Unmarshal([]byte(rec.Used), &used); err != nil {
		used = []int{}
	}
	return &local.SelectionState{PoolSize: rec.PoolSize, Order: order, Used: used}, nil
}

// SaveSelection implements local.StateStore.
func (s *DeviceStateStore) SaveSelection(ctx context.Context, deviceID, category string, st local.SelectionState) error {
	orderJSON, err := json.Marshal(st.Order)
	if err != nil {
		return err
	}
	usedJSON, err := json.Marshal(st.Used)
	if err != nil {
		return err
	}
	return UpsertSelection(ctx, s.DB, deviceID, category, st.PoolSize, string(orderJSON), string(usedJSON))
}

// ServedToday implements local.StateStore.
func (s *DeviceStateStore) ServedToday(ctx context.Context, deviceID, category, day string) (bool, error) {
	return HasDaily(ctx, s.DB, deviceID, category, day)
}

// MarkServed implements local.StateStore.
func (s *DeviceStateStore) MarkServed(ctx context.Context, deviceID, category, day string) error {
	return CreateDaily(ctx, s.DB, deviceID, category, day)
}
