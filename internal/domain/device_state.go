// Package domain – device-local selection state.
//
// The offline generator keeps two kinds of per-device records: the persisted
// shuffle order plus used indices for a (device, category) pair, and the
// "served today" flag for a (device, category, day) triple. Both are mapped
// with GORM and owned by the repo package.
package domain

import "time"

// DeviceSelection persists the seeded shuffle order and the set of already
// served pool indices for one device and category. PoolSize records the pool
// length the order was generated for; a mismatch on read invalidates the row.
//
// Order and Used are JSON-encoded int slices. Keeping them as opaque blobs
// mirrors the client-side key/value storage this state originally lived in
// and keeps the selection algorithm independent of the storage engine.
type DeviceSelection struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	DeviceID  string    `gorm:"type:varchar(128);not null;uniqueIndex:ux_device_category,priority:1"`
	Category  string    `gorm:"type:varchar(16);not null;uniqueIndex:ux_device_category,priority:2"`
	PoolSize  int       `gorm:"not null"`
	Order     string    `gorm:"column:pick_order;type:text;not null"` // JSON []int
	Used      string    `gorm:"type:text;not null"`                   // JSON []int
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the database table name for DeviceSelection.
func (DeviceSelection) TableName() string { return "device_selections" }

// DeviceDaily records that a device has already been served a fortune for a
// category on a given calendar day (day computed in the request's timezone).
// Rows are never updated; their day stamp makes them age out naturally.
type DeviceDaily struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	DeviceID  string    `gorm:"type:varchar(128);not null;uniqueIndex:ux_device_category_day,priority:1"`
	Category  string    `gorm:"type:varchar(16);not null;uniqueIndex:ux_device_category_day,priority:2"`
	Day       string    `gorm:"type:char(10);not null;uniqueIndex:ux_device_category_day,priority:3"` // YYYY-MM-DD
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the database table name for DeviceDaily.
func (DeviceDaily) TableName() string { return "device_daily" }
